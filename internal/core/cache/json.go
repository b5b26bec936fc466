package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"time"
)

var jsonNull = []byte("null")

// GetOrLoadJSON 以 JSON 缓存 *T；load 返回 nil 时缓存 null，作为负缓存
func GetOrLoadJSON[T any](c *Cache, ctx context.Context, key string, ttl time.Duration,
	load func(ctx context.Context) (*T, error)) (*T, error) {
	raw, err := c.GetOrLoad(ctx, key, ttl, func(ctx context.Context) ([]byte, error) {
		v, err := load(ctx)
		if err != nil || v == nil {
			return jsonNull, err
		}
		return json.Marshal(v)
	})
	if err != nil || bytes.Equal(raw, jsonNull) {
		return nil, err
	}
	out := new(T)
	if err := json.Unmarshal(raw, out); err != nil {
		return nil, err
	}
	return out, nil
}
