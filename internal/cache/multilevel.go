package cache

import (
	"context"
	"errors"
	"log"
	"time"
)

// Cache is the contract the service layer memoizes through.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	DeletePrefix(ctx context.Context, prefix string) error
	Health(ctx context.Context) error
	Stats() map[string]interface{}
	Close() error
}

// MultiLevelCache keeps a short-lived process copy in front of redis. With
// no redis configured it runs on the memory level alone. Redis failures
// are logged and treated as misses.
type MultiLevelCache struct {
	l1      *MemoryCache
	l2      *RedisCache
	l1TTL   time.Duration
	breaker *CircuitBreaker
	metrics *CacheMetrics
}

func NewMultiLevelCache(redisCache *RedisCache) *MultiLevelCache {
	return &MultiLevelCache{
		l1:      NewMemoryCache(0),
		l2:      redisCache,
		l1TTL:   time.Minute,
		breaker: NewCircuitBreaker(nil),
		metrics: NewCacheMetrics(),
	}
}

func (c *MultiLevelCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	c.metrics.RecordSet()

	l1TTL := c.l1TTL
	if c.l2 == nil || ttl < l1TTL {
		l1TTL = ttl
	}
	if err := c.l1.Set(ctx, key, value, l1TTL); err != nil {
		return err
	}

	if c.l2 == nil {
		return nil
	}
	err := c.breaker.Execute(func() error { return c.l2.Set(ctx, key, value, ttl) })
	if err != nil {
		c.metrics.RecordError()
		log.Printf("cache: redis set %s: %v", key, err)
	}
	return nil
}

func (c *MultiLevelCache) Get(ctx context.Context, key string, dest interface{}) error {
	if err := c.l1.Get(ctx, key, dest); err == nil {
		c.metrics.RecordHit()
		return nil
	}

	if c.l2 == nil {
		c.metrics.RecordMiss()
		return ErrCacheMiss
	}

	err := c.breaker.Execute(func() error { return c.l2.Get(ctx, key, dest) }, ErrCacheMiss)
	switch {
	case err == nil:
		c.metrics.RecordHit()
		_ = c.l1.Set(ctx, key, dest, c.l1TTL)
		return nil
	case errors.Is(err, ErrCacheMiss):
	default:
		c.metrics.RecordError()
		log.Printf("cache: redis get %s: %v", key, err)
	}
	c.metrics.RecordMiss()
	return ErrCacheMiss
}

func (c *MultiLevelCache) Delete(ctx context.Context, key string) error {
	c.metrics.RecordDelete()
	_ = c.l1.Delete(ctx, key)

	if c.l2 == nil {
		return nil
	}
	return c.breaker.Execute(func() error { return c.l2.Delete(ctx, key) })
}

func (c *MultiLevelCache) DeletePrefix(ctx context.Context, prefix string) error {
	c.metrics.RecordDelete()
	_ = c.l1.DeletePrefix(ctx, prefix)

	if c.l2 == nil {
		return nil
	}
	return c.breaker.Execute(func() error { return c.l2.DeletePrefix(ctx, prefix) })
}

func (c *MultiLevelCache) Health(ctx context.Context) error {
	if c.l2 == nil {
		return nil
	}
	if c.breaker.State() == CircuitBreakerOpen {
		return ErrCacheDown
	}
	return c.l2.Health(ctx)
}

func (c *MultiLevelCache) Stats() map[string]interface{} {
	stats := map[string]interface{}{
		"l1":      c.l1.Stats(),
		"metrics": c.metrics.Snapshot(),
	}
	if c.l2 != nil {
		stats["l2"] = c.l2.Stats()
		stats["breaker"] = c.breaker.Stats()
	}
	return stats
}

func (c *MultiLevelCache) Close() error {
	if c.l2 != nil {
		return c.l2.Close()
	}
	return nil
}
