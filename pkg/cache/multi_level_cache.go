package cache

import (
	"context"
	"errors"
	"time"

	"github.com/jjhbk/Devrang/pkg/logger"

	"go.uber.org/zap"
)

// MultiLevelCache reads through a short-lived in-process layer before the
// shared one. Writes and invalidations hit both layers; locks always go to
// the shared layer. Another instance's invalidation only reaches this
// process's local layer once localTTL runs out.
type MultiLevelCache struct {
	local    *MemoryCache
	remote   CacheService
	localTTL time.Duration
}

func NewMultiLevelCache(local *MemoryCache, remote CacheService, localTTL time.Duration) *MultiLevelCache {
	return &MultiLevelCache{local: local, remote: remote, localTTL: localTTL}
}

func (c *MultiLevelCache) ttl(expiration time.Duration) time.Duration {
	if expiration > 0 && expiration < c.localTTL {
		return expiration
	}
	return c.localTTL
}

func (c *MultiLevelCache) Get(ctx context.Context, key string, dest interface{}) error {
	if err := c.local.Get(ctx, key, dest); err == nil {
		return nil
	}
	if err := c.remote.Get(ctx, key, dest); err != nil {
		return err
	}
	if err := c.local.Set(ctx, key, dest, c.localTTL); err != nil {
		logger.Log.Debug("Local cache backfill failed", zap.String("key", key), zap.Error(err))
	}
	return nil
}

func (c *MultiLevelCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if err := c.remote.Set(ctx, key, value, expiration); err != nil {
		return err
	}
	return c.local.Set(ctx, key, value, c.ttl(expiration))
}

func (c *MultiLevelCache) Delete(ctx context.Context, keys ...string) error {
	_ = c.local.Delete(ctx, keys...)
	return c.remote.Delete(ctx, keys...)
}

func (c *MultiLevelCache) InvalidatePattern(ctx context.Context, pattern string) error {
	return errors.Join(
		c.local.InvalidatePattern(ctx, pattern),
		c.remote.InvalidatePattern(ctx, pattern),
	)
}

func (c *MultiLevelCache) TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return c.remote.TryLock(ctx, key, ttl)
}
