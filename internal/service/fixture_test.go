package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"estate-api/internal/domain"
	"estate-api/internal/repo/repotest"
	"estate-api/internal/service"
	"estate-api/pkg/utils"
)

type env struct {
	store        domain.Store
	integrity    *service.Integrity
	moderation   *service.Moderation
	listings     *service.Listings
	chats        *service.Chats
	users        *service.Users
	testimonials *service.Testimonials
}

func newEnv(t *testing.T) *env { return newEnvWith(t, repotest.NewStore(t), true) }

func newEnvWith(t *testing.T, store domain.Store, transactional bool) *env {
	t.Helper()
	l := zap.NewNop()
	profiles := service.NewStoreProfiles(store)
	integrity := service.NewIntegrity(store, profiles, l, transactional)
	return &env{
		store:        store,
		integrity:    integrity,
		moderation:   service.NewModeration(store, integrity, l),
		listings:     service.NewListings(store, profiles),
		chats:        service.NewChats(store, profiles, l),
		users:        service.NewUsers(store, profiles, l),
		testimonials: service.NewTestimonials(store, profiles),
	}
}

func (e *env) user(t *testing.T, name string) domain.Caller {
	t.Helper()
	u := &domain.User{ID: utils.NewID(), Username: name, Email: name + "@example.com", PasswordHash: "x", Role: domain.RoleUser, CreatedAt: time.Now()}
	require.NoError(t, e.store.Users().Create(context.Background(), u))
	return domain.Caller{ID: u.ID, Role: u.Role}
}

func (e *env) admin(t *testing.T) domain.Caller {
	t.Helper()
	u := &domain.User{ID: utils.NewID(), Username: "root", Email: "root@example.com", PasswordHash: "x", Role: domain.RoleAdmin, CreatedAt: time.Now()}
	require.NoError(t, e.store.Users().Create(context.Background(), u))
	return domain.Caller{ID: u.ID, Role: u.Role}
}

func listing(title string) service.ListingInput {
	return service.ListingInput{
		PostData: service.PostData{
			Title: title, Price: 1200, Address: "1 Main St", City: "Lisbon",
			Bedroom: 2, Bathroom: 1, Type: "rent", Property: "apartment",
		},
		PostDetail: service.DetailData{Desc: "sunny", Size: 80},
	}
}

// post 发帖并直接通过审核
func (e *env) post(t *testing.T, owner domain.Caller, admin domain.Caller, title string) string {
	t.Helper()
	ctx := context.Background()
	p, err := e.moderation.Submit(ctx, owner.ID, listing(title))
	require.NoError(t, err)
	_, err = e.moderation.Approve(ctx, admin, p.ID)
	require.NoError(t, err)
	return p.ID
}

func (e *env) chat(t *testing.T, a, b domain.Caller) string {
	t.Helper()
	c, err := e.chats.Create(context.Background(), a.ID, b.ID)
	require.NoError(t, err)
	return c.ID
}

func (e *env) unread(t *testing.T, c domain.Caller) int {
	t.Helper()
	n, err := e.chats.UnreadChatCount(context.Background(), c.ID)
	require.NoError(t, err)
	return n
}
