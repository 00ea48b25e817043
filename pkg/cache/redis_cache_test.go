package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis creates a miniredis server for testing
func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *RedisCache) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err, "failed to start miniredis")

	cache := NewRedisCache(mr.Addr(), "").(*RedisCache)
	t.Cleanup(func() {
		_ = cache.Close()
		mr.Close()
	})

	return mr, cache
}

func TestRedisCache_SetGet(t *testing.T) {
	mr, cache := setupTestRedis(t)
	ctx := context.Background()

	t.Run("successful set", func(t *testing.T) {
		require.NoError(t, cache.Set(ctx, "test-key", "test-value", time.Minute))

		val, err := mr.Get("test-key")
		assert.NoError(t, err)
		assert.Equal(t, "test-value", val)

		got, err := cache.Get(ctx, "test-key")
		assert.NoError(t, err)
		assert.Equal(t, "test-value", got)
	})

	t.Run("get non-existent key", func(t *testing.T) {
		val, err := cache.Get(ctx, "non-existent-key")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Empty(t, val)
	})

	t.Run("set with TTL expires", func(t *testing.T) {
		require.NoError(t, cache.Set(ctx, "expire-key", "expire-value", time.Second))
		mr.FastForward(2 * time.Second)

		_, err := cache.Get(ctx, "expire-key")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestRedisCache_Del(t *testing.T) {
	mr, cache := setupTestRedis(t)
	ctx := context.Background()

	mr.Set("delete-key", "delete-value")
	assert.NoError(t, cache.Del(ctx, "delete-key"))
	assert.False(t, mr.Exists("delete-key"))

	// Redis Del doesn't error on non-existent keys
	assert.NoError(t, cache.Del(ctx, "delete-key"))
}

func TestRedisCache_SetNX(t *testing.T) {
	_, cache := setupTestRedis(t)
	ctx := context.Background()

	ok, err := cache.SetNX(ctx, "setnx-key", "first", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = cache.SetNX(ctx, "setnx-key", "second", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisCache_GetDel(t *testing.T) {
	mr, cache := setupTestRedis(t)
	ctx := context.Background()

	t.Run("returns and removes", func(t *testing.T) {
		mr.Set("once", "value")

		val, err := cache.GetDel(ctx, "once")
		require.NoError(t, err)
		assert.Equal(t, "value", val)
		assert.False(t, mr.Exists("once"))

		_, err = cache.GetDel(ctx, "once")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("concurrent callers see one value", func(t *testing.T) {
		mr.Set("raced", "value")

		var wins int32
		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := cache.GetDel(ctx, "raced"); err == nil {
					atomic.AddInt32(&wins, 1)
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, int32(1), wins)
	})
}

func TestRedisCache_Ping(t *testing.T) {
	_, cache := setupTestRedis(t)
	assert.NoError(t, cache.Ping(context.Background()))
}

func TestRedisCache_ContextCancellation(t *testing.T) {
	_, cache := setupTestRedis(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := cache.Set(ctx, "cancel-key", "cancel-value", time.Minute)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "context canceled")
}
