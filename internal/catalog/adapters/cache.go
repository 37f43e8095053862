package adapters

import (
	"context"
	"time"

	"order-catalog/pkg/cache"
)

// RedisListCache implements ListCache on top of the redis cache client
type RedisListCache struct {
	cache cache.Cache
	key   string
	ttl   time.Duration
}

// NewRedisListCache creates a list cache with the given TTL
func NewRedisListCache(c cache.Cache, ttl time.Duration) *RedisListCache {
	return &RedisListCache{
		cache: c,
		key:   c.GenerateKey("orders", "all"),
		ttl:   ttl,
	}
}

// GetList retrieves the cached order list payload
func (c *RedisListCache) GetList(ctx context.Context) ([]byte, bool, error) {
	value, ok, err := c.cache.Get(ctx, c.key)
	if err != nil || !ok {
		return nil, false, err
	}
	return []byte(value), true, nil
}

// SetList stores the serialized order list
func (c *RedisListCache) SetList(ctx context.Context, payload []byte) error {
	return c.cache.Set(ctx, c.key, payload, c.ttl)
}

// Invalidate removes the cached list
func (c *RedisListCache) Invalidate(ctx context.Context) error {
	return c.cache.Delete(ctx, c.key)
}
