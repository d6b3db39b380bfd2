// Package cache holds the redis-backed API key validity cache used by
// the key validation hot path.
package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "apikey:valid:"

type KeyCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewKeyCache(client *redis.Client, ttl time.Duration) *KeyCache {
	return &KeyCache{client: client, ttl: ttl}
}

// Get returns (valid, hit). Any redis failure is a miss.
func (c *KeyCache) Get(ctx context.Context, apiKey string) (bool, bool) {
	v, err := c.client.Get(ctx, keyPrefix+apiKey).Result()
	if err != nil {
		return false, false
	}
	return v == "1", true
}

func (c *KeyCache) Set(ctx context.Context, apiKey string, valid bool) {
	v := "0"
	if valid {
		v = "1"
	}
	c.client.Set(ctx, keyPrefix+apiKey, v, c.ttl)
}

// Invalidate drops the cached entry, e.g. after a revoke or key
// rotation.
func (c *KeyCache) Invalidate(ctx context.Context, apiKey string) {
	c.client.Del(ctx, keyPrefix+apiKey)
}
