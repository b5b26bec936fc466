package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"estate-api/internal/core/cache"
	"estate-api/internal/domain"
)

// ProfileSource 按 id 取公开资料（聊天对方、帖子作者、评价作者）
type ProfileSource interface {
	Profile(ctx context.Context, userID string) (*domain.PublicProfile, error)
	Forget(ctx context.Context, userID string)
}

type storeProfiles struct{ store domain.Store }

func NewStoreProfiles(store domain.Store) ProfileSource { return storeProfiles{store: store} }

func (p storeProfiles) Profile(ctx context.Context, userID string) (*domain.PublicProfile, error) {
	u, err := p.store.Users().FindByID(ctx, userID)
	if err != nil || u == nil {
		return nil, err
	}
	prof := u.Profile()
	return &prof, nil
}

func (storeProfiles) Forget(context.Context, string) {}

// CachedProfiles 在 ProfileSource 前面挂一层 redis
type CachedProfiles struct {
	next  ProfileSource
	cache *cache.Cache
	ttl   time.Duration
	log   *zap.Logger
}

func NewCachedProfiles(next ProfileSource, c *cache.Cache, ttl time.Duration, l *zap.Logger) *CachedProfiles {
	return &CachedProfiles{next: next, cache: c, ttl: ttl, log: l}
}

func profileKey(userID string) string { return "profile:" + userID }

func (p *CachedProfiles) Profile(ctx context.Context, userID string) (*domain.PublicProfile, error) {
	return cache.GetOrLoadJSON(p.cache, ctx, profileKey(userID), p.ttl,
		func(ctx context.Context) (*domain.PublicProfile, error) { return p.next.Profile(ctx, userID) })
}

func (p *CachedProfiles) Forget(ctx context.Context, userID string) {
	if err := p.cache.Del(ctx, profileKey(userID)); err != nil {
		p.log.Warn("profile cache invalidation failed", zap.String("user_id", userID), zap.Error(err))
	}
	p.next.Forget(ctx, userID)
}
