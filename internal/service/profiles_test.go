package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"estate-api/internal/core/cache"
	"estate-api/internal/repo/repotest"
	"estate-api/internal/service"
	"estate-api/pkg/utils"
)

func TestCachedProfiles_DegradesToStore(t *testing.T) {
	ctx := context.Background()
	store := repotest.NewStore(t)
	e := newEnvWith(t, store, true)
	alice := e.user(t, "alice")

	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 50 * time.Millisecond})
	t.Cleanup(func() { _ = rdb.Close() })
	profiles := service.NewCachedProfiles(service.NewStoreProfiles(store), cache.NewWithClient(rdb), time.Minute, zap.NewNop())

	p, err := profiles.Profile(ctx, alice.ID)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "alice", p.Username)

	missing, err := profiles.Profile(ctx, utils.NewID())
	require.NoError(t, err)
	assert.Nil(t, missing)

	// 缓存删不掉只记日志
	profiles.Forget(ctx, alice.ID)
}
