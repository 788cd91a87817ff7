package cache_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sitekit/pkg/cache"
)

func TestMemory_GetSet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory[string]()
		t.Cleanup(func() { _ = c.Close() })

		_, err := c.Get(ctx, "missing")
		require.ErrorIs(t, err, cache.ErrNotFound)
	})

	t.Run("stored value", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory[int]()
		t.Cleanup(func() { _ = c.Close() })

		require.NoError(t, c.Set(ctx, "n", 42, 0))
		v, err := c.Get(ctx, "n")
		require.NoError(t, err)
		require.Equal(t, 42, v)

		require.NoError(t, c.Delete(ctx, "n"))
		_, err = c.Get(ctx, "n")
		require.ErrorIs(t, err, cache.ErrNotFound)
	})

	t.Run("expired value", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory[string](cache.WithCleanupInterval(0))
		t.Cleanup(func() { _ = c.Close() })

		require.NoError(t, c.Set(ctx, "k", "v", 10*time.Millisecond))
		time.Sleep(30 * time.Millisecond)

		_, err := c.Get(ctx, "k")
		require.ErrorIs(t, err, cache.ErrNotFound)
		require.Equal(t, 0, c.Len())
	})

	t.Run("negative ttl never expires", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory[string](cache.WithDefaultTTL(time.Millisecond), cache.WithCleanupInterval(0))
		t.Cleanup(func() { _ = c.Close() })

		require.NoError(t, c.Set(ctx, "k", "v", -1))
		time.Sleep(10 * time.Millisecond)

		v, err := c.Get(ctx, "k")
		require.NoError(t, err)
		require.Equal(t, "v", v)
	})

	t.Run("closed cache rejects writes", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory[string]()
		require.NoError(t, c.Close())
		require.NoError(t, c.Close())
		require.ErrorIs(t, c.Set(ctx, "k", "v", 0), cache.ErrClosed)
	})
}

func TestMemory_LRU(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := cache.NewMemory[int](cache.WithMaxEntries(2))
	t.Cleanup(func() { _ = c.Close() })

	require.NoError(t, c.Set(ctx, "a", 1, 0))
	require.NoError(t, c.Set(ctx, "b", 2, 0))

	_, err := c.Get(ctx, "a")
	require.NoError(t, err)

	require.NoError(t, c.Set(ctx, "c", 3, 0))

	_, err = c.Get(ctx, "b")
	require.ErrorIs(t, err, cache.ErrNotFound)
	_, err = c.Get(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, 2, c.Len())
}

func TestMemory_Sweep(t *testing.T) {
	t.Parallel()

	c := cache.NewMemory[string](cache.WithCleanupInterval(5 * time.Millisecond))
	t.Cleanup(func() { _ = c.Close() })

	require.NoError(t, c.Set(context.Background(), "k", "v", time.Millisecond))
	require.Eventually(t, func() bool { return c.Len() == 0 }, time.Second, 5*time.Millisecond)
}

func TestMemory_GetOrSet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("loads once and caches", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory[string]()
		t.Cleanup(func() { _ = c.Close() })

		var calls atomic.Int32
		load := func(context.Context) (string, time.Duration, error) {
			calls.Add(1)
			return "rendered", 0, nil
		}

		for range 3 {
			v, err := c.GetOrSet(ctx, "page", load)
			require.NoError(t, err)
			require.Equal(t, "rendered", v)
		}
		require.Equal(t, int32(1), calls.Load())
	})

	t.Run("concurrent misses share a load", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory[int]()
		t.Cleanup(func() { _ = c.Close() })

		var calls atomic.Int32
		release := make(chan struct{})
		load := func(context.Context) (int, time.Duration, error) {
			calls.Add(1)
			<-release
			return 7, 0, nil
		}

		var wg sync.WaitGroup
		for range 8 {
			wg.Go(func() {
				v, err := c.GetOrSet(ctx, "k", load)
				require.NoError(t, err)
				require.Equal(t, 7, v)
			})
		}
		time.Sleep(20 * time.Millisecond)
		close(release)
		wg.Wait()

		require.LessOrEqual(t, calls.Load(), int32(2))
	})

	t.Run("load errors are not cached", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory[string]()
		t.Cleanup(func() { _ = c.Close() })

		boom := errors.New("boom")
		_, err := c.GetOrSet(ctx, "k", func(context.Context) (string, time.Duration, error) {
			return "", 0, boom
		})
		require.ErrorIs(t, err, boom)

		_, err = c.Get(ctx, "k")
		require.ErrorIs(t, err, cache.ErrNotFound)
	})
}
