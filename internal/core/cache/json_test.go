package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 指向一个不可达的 redis：缓存读写全部失败，GetOrLoadJSON 必须退化为直接回源
func unreachable() *Cache {
	return NewWithClient(redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		MaxRetries:  -1,
		DialTimeout: 50 * time.Millisecond,
	}))
}

type profile struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func TestGetOrLoadJSON_FallsBackToLoader(t *testing.T) {
	c := unreachable()
	defer c.Close()

	calls := 0
	got, err := GetOrLoadJSON(c, context.Background(), "profile:1", time.Minute, func(context.Context) (*profile, error) {
		calls++
		return &profile{ID: "1", Name: "alice"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Name)
	assert.Equal(t, 1, calls)
}

func TestGetOrLoadJSON_NilAndErrors(t *testing.T) {
	c := unreachable()
	defer c.Close()

	got, err := GetOrLoadJSON(c, context.Background(), "profile:missing", time.Minute, func(context.Context) (*profile, error) {
		return nil, nil
	})
	require.NoError(t, err)
	assert.Nil(t, got)

	boom := errors.New("boom")
	_, err = GetOrLoadJSON(c, context.Background(), "profile:err", time.Minute, func(context.Context) (*profile, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
}
