package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRUCache_SetGetDelete(t *testing.T) {
	t.Parallel()
	cache, err := NewLRUCache(16)
	require.NoError(t, err)
	ctx := context.Background()

	_, ok, err := cache.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.Set(ctx, "token-1", []byte(`{"active":true}`), time.Minute))

	val, ok, err := cache.Get(ctx, "token-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `{"active":true}`, string(val))

	require.NoError(t, cache.Delete(ctx, "token-1"))
	_, ok, err = cache.Get(ctx, "token-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLRUCache_ExpiresByTTL(t *testing.T) {
	t.Parallel()
	cache, err := NewLRUCache(16)
	require.NoError(t, err)
	fakeNow := time.Now()
	cache.now = func() time.Time { return fakeNow }

	ctx := context.Background()
	require.NoError(t, cache.Set(ctx, "token-1", []byte("v"), time.Second))

	fakeNow = fakeNow.Add(2 * time.Second)
	_, ok, err := cache.Get(ctx, "token-1")
	require.NoError(t, err)
	assert.False(t, ok)
}
