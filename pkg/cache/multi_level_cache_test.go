package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMultiLevelCache(t *testing.T) {
	ctx := context.Background()

	t.Run("Remote hit backfills local", func(t *testing.T) {
		local, remote := NewMemoryCache(), NewMemoryCache()
		c := NewMultiLevelCache(local, remote, time.Minute)
		require.NoError(t, remote.Set(ctx, "products:1", "Ruby", time.Hour))

		var got string
		require.NoError(t, c.Get(ctx, "products:1", &got))
		assert.Equal(t, "Ruby", got)

		var fromLocal string
		require.NoError(t, local.Get(ctx, "products:1", &fromLocal))
		assert.Equal(t, "Ruby", fromLocal)
	})

	t.Run("Local serves after remote delete until its ttl", func(t *testing.T) {
		local, remote := NewMemoryCache(), NewMemoryCache()
		c := NewMultiLevelCache(local, remote, 20*time.Millisecond)
		require.NoError(t, c.Set(ctx, "k", "v", time.Hour))
		require.NoError(t, remote.Delete(ctx, "k"))

		var got string
		assert.NoError(t, c.Get(ctx, "k", &got))
		time.Sleep(30 * time.Millisecond)
		assert.ErrorIs(t, c.Get(ctx, "k", &got), ErrCacheMiss)
	})

	t.Run("Invalidate clears both", func(t *testing.T) {
		local, remote := NewMemoryCache(), NewMemoryCache()
		c := NewMultiLevelCache(local, remote, time.Minute)
		require.NoError(t, c.Set(ctx, "products:list:1", "a", time.Hour))
		require.NoError(t, c.InvalidatePattern(ctx, "products:list:*"))

		var got string
		assert.ErrorIs(t, local.Get(ctx, "products:list:1", &got), ErrCacheMiss)
		assert.ErrorIs(t, remote.Get(ctx, "products:list:1", &got), ErrCacheMiss)
	})

	t.Run("Locks are shared", func(t *testing.T) {
		remote := NewMemoryCache()
		a := NewMultiLevelCache(NewMemoryCache(), remote, time.Minute)
		b := NewMultiLevelCache(NewMemoryCache(), remote, time.Minute)

		ok, err := a.TryLock(ctx, "lock", time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)
		ok, err = b.TryLock(ctx, "lock", time.Minute)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
