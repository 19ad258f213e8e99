//go:build integration

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/jjhbk/Devrang/pkg/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisCacheIntegration(t *testing.T) {
	ctx := context.Background()
	c := NewRedisCache(testkit.Redis(t), "devrang-test")

	type product struct {
		Name string `json:"name"`
	}
	require.NoError(t, c.Set(ctx, "products:list:1", product{Name: "Ruby"}, time.Minute))
	require.NoError(t, c.Set(ctx, "products:list:2", product{Name: "Pearl"}, time.Minute))

	var got product
	require.NoError(t, c.Get(ctx, "products:list:1", &got))
	assert.Equal(t, "Ruby", got.Name)

	require.NoError(t, c.InvalidatePattern(ctx, "products:list:*"))
	assert.ErrorIs(t, c.Get(ctx, "products:list:2", &got), ErrCacheMiss)

	held, err := c.TryLock(ctx, "lock:checkout:reconcile", time.Second)
	require.NoError(t, err)
	assert.True(t, held)
	held, err = c.TryLock(ctx, "lock:checkout:reconcile", time.Second)
	require.NoError(t, err)
	assert.False(t, held)
}
