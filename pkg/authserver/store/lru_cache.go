package store

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

type lruEntry struct {
	value     []byte
	expiresAt time.Time
}

// LRUCache is an in-process introspection cache, backed by
// hashicorp/golang-lru. It never returns ErrCacheUnavailable: an in-process
// cache has no transport to fail.
type LRUCache struct {
	cache *lru.Cache[string, lruEntry]
	now   func() time.Time
}

// NewLRUCache returns an LRUCache holding up to size entries.
func NewLRUCache(size int) (*LRUCache, error) {
	c, err := lru.New[string, lruEntry](size)
	if err != nil {
		return nil, err
	}
	return &LRUCache{cache: c, now: time.Now}, nil
}

// Get implements Cache.
func (c *LRUCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	entry, ok := c.cache.Get(key)
	if !ok {
		return nil, false, nil
	}
	if !entry.expiresAt.IsZero() && c.now().After(entry.expiresAt) {
		c.cache.Remove(key)
		return nil, false, nil
	}
	return entry.value, true, nil
}

// Set implements Cache.
func (c *LRUCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = c.now().Add(ttl)
	}
	c.cache.Add(key, lruEntry{value: value, expiresAt: expiresAt})
	return nil
}

// Delete implements Cache. It is synchronous, satisfying section 4.5's
// requirement that revocation invalidate the cache before the revoke
// response returns.
func (c *LRUCache) Delete(_ context.Context, key string) error {
	c.cache.Remove(key)
	return nil
}
