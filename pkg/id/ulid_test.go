package id

import (
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var crockfordRe = regexp.MustCompile(`^[0-9A-HJKMNP-TV-Z]{26}$`)

func TestNewULID(t *testing.T) {
	t.Parallel()

	t.Run("format", func(t *testing.T) {
		t.Parallel()

		require.Regexp(t, crockfordRe, NewULID())
	})

	t.Run("timestamp prefix", func(t *testing.T) {
		t.Parallel()

		require.Equal(t, "0000000000", ulidAt(time.UnixMilli(0))[:10])
		require.Equal(t, "0000000001", ulidAt(time.UnixMilli(1))[:10])
		require.Equal(t, "000000000Z", ulidAt(time.UnixMilli(31))[:10])
		require.Equal(t, "0000000010", ulidAt(time.UnixMilli(32))[:10])
	})

	t.Run("sortable by time", func(t *testing.T) {
		t.Parallel()

		base := time.Now()
		prev := ulidAt(base)
		for i := 1; i < 50; i++ {
			next := ulidAt(base.Add(time.Duration(i) * time.Millisecond))
			require.Less(t, prev, next)
			prev = next
		}
	})

	t.Run("unique under concurrency", func(t *testing.T) {
		t.Parallel()

		var (
			mu   sync.Mutex
			seen = make(map[string]struct{})
			wg   sync.WaitGroup
		)
		for range 8 {
			wg.Go(func() {
				for range 200 {
					v := NewULID()
					mu.Lock()
					_, dup := seen[v]
					seen[v] = struct{}{}
					mu.Unlock()
					require.False(t, dup, v)
				}
			})
		}
		wg.Wait()
		require.Len(t, seen, 1600)
	})
}

func TestNewToken(t *testing.T) {
	t.Parallel()

	a, err := NewToken(32)
	require.NoError(t, err)
	b, err := NewToken(32)
	require.NoError(t, err)

	require.Len(t, a, 43)
	require.NotEqual(t, a, b)
	require.NotContains(t, a, "=")
}
