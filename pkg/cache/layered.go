package cache

import (
	"context"
	"time"
)

// backfillTTL bounds how long an L1 copy of an L2 hit may outlive the
// authoritative Redis entry.
const backfillTTL = time.Minute

// LayeredCache reads through an in-process L1 before Redis. Writes go to
// Redis first so a failed write never leaves L1 ahead of L2.
type LayeredCache struct {
	memory *MemoryCache
	redis  *RedisCache
}

// NewLayeredCache creates a layered cache in front of an existing Redis
// cache.
func NewLayeredCache(redisCache *RedisCache, opts ...LayeredOption) *LayeredCache {
	cfg := &LayeredConfig{MemoryMaxSize: 1000}
	for _, opt := range opts {
		opt(cfg)
	}
	return &LayeredCache{
		memory: NewMemoryCache(WithMemoryMaxSize(cfg.MemoryMaxSize)),
		redis:  redisCache,
	}
}

func (lc *LayeredCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if err := lc.redis.Set(ctx, key, value, expiration); err != nil {
		return err
	}
	_ = lc.memory.Set(ctx, key, value, expiration)
	return nil
}

func (lc *LayeredCache) Get(ctx context.Context, key string, dest interface{}) error {
	if err := lc.memory.Get(ctx, key, dest); err == nil {
		return nil
	}
	if err := lc.redis.Get(ctx, key, dest); err != nil {
		return err
	}

	// Backfill L1 with the value, not the pointer it was decoded into.
	switch d := dest.(type) {
	case *interface{}:
		_ = lc.memory.Set(ctx, key, *d, backfillTTL)
	case *string:
		_ = lc.memory.Set(ctx, key, *d, backfillTTL)
	}
	return nil
}

func (lc *LayeredCache) Delete(ctx context.Context, keys ...string) error {
	_ = lc.memory.Delete(ctx, keys...)
	return lc.redis.Delete(ctx, keys...)
}

// Close closes both layers.
func (lc *LayeredCache) Close() error {
	_ = lc.memory.Close()
	return lc.redis.Close()
}
