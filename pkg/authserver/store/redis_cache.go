package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jedi-knights/identity-service/internal/logger"
)

// RedisCache is a distributed introspection cache backed by
// redis/go-redis, for deployments running more than one authorization
// server instance. Transport failures are logged and surfaced as
// ErrCacheUnavailable so callers degrade to direct verification per
// section 5, rather than fail the request.
type RedisCache struct {
	client *redis.Client
	prefix string
}

// NewRedisCache wraps an existing redis.Client. Keys are namespaced under
// prefix to let a single Redis instance serve more than one concern.
func NewRedisCache(client *redis.Client, prefix string) *RedisCache {
	return &RedisCache{client: client, prefix: prefix}
}

func (c *RedisCache) namespaced(key string) string {
	return c.prefix + key
}

// Get implements Cache.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := c.client.Get(ctx, c.namespaced(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		logger.Warnw("introspection cache get failed, degrading to direct verification", "error", err)
		return nil, false, fmt.Errorf("%w: %w", ErrCacheUnavailable, err)
	}
	return val, true, nil
}

// Set implements Cache.
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.namespaced(key), value, ttl).Err(); err != nil {
		logger.Warnw("introspection cache set failed", "error", err)
		return fmt.Errorf("%w: %w", ErrCacheUnavailable, err)
	}
	return nil
}

// Delete implements Cache. It blocks until Redis acknowledges the removal,
// satisfying section 4.5's synchronous-invalidation requirement.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.namespaced(key)).Err(); err != nil {
		logger.Warnw("introspection cache delete failed", "error", err)
		return fmt.Errorf("%w: %w", ErrCacheUnavailable, err)
	}
	return nil
}
