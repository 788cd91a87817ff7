package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sitekit/pkg/session"
)

func TestMemoryStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("create and get", func(t *testing.T) {
		t.Parallel()

		store := session.NewMemoryStore()
		sess := session.New("id-1", "token-1", time.Hour)
		sess.SetValue("k", "v")
		require.NoError(t, store.Create(ctx, sess))

		got, err := store.Get(ctx, "token-1")
		require.NoError(t, err)
		require.Equal(t, "id-1", got.ID)
		require.Equal(t, "v", got.Values["k"])

		got.SetValue("k", "mutated")
		again, err := store.Get(ctx, "token-1")
		require.NoError(t, err)
		require.Equal(t, "v", again.Values["k"])
	})

	t.Run("unknown token", func(t *testing.T) {
		t.Parallel()

		_, err := session.NewMemoryStore().Get(ctx, "nope")
		require.ErrorIs(t, err, session.ErrNotFound)
	})

	t.Run("expired session is removed", func(t *testing.T) {
		t.Parallel()

		store := session.NewMemoryStore()
		sess := session.New("id", "token", time.Hour)
		sess.ExpiresAt = time.Now().Add(-time.Second)
		require.NoError(t, store.Create(ctx, sess))

		_, err := store.Get(ctx, "token")
		require.ErrorIs(t, err, session.ErrExpired)
		require.Equal(t, 0, store.Len())
	})

	t.Run("update rotates token", func(t *testing.T) {
		t.Parallel()

		store := session.NewMemoryStore()
		sess := session.New("id", "old", time.Hour)
		require.NoError(t, store.Create(ctx, sess))

		sess.Token = "new"
		require.NoError(t, store.Update(ctx, sess))

		_, err := store.Get(ctx, "old")
		require.ErrorIs(t, err, session.ErrNotFound)
		got, err := store.Get(ctx, "new")
		require.NoError(t, err)
		require.Equal(t, "id", got.ID)
	})

	t.Run("update of unknown session", func(t *testing.T) {
		t.Parallel()

		err := session.NewMemoryStore().Update(ctx, session.New("id", "t", time.Hour))
		require.ErrorIs(t, err, session.ErrNotFound)
	})

	t.Run("touch extends expiry", func(t *testing.T) {
		t.Parallel()

		store := session.NewMemoryStore()
		sess := session.New("id", "token", time.Minute)
		require.NoError(t, store.Create(ctx, sess))

		later := time.Now().Add(time.Hour)
		require.NoError(t, store.Touch(ctx, "id", later, later.Add(time.Minute)))

		got, err := store.Get(ctx, "token")
		require.NoError(t, err)
		require.Equal(t, later, got.LastActiveAt)

		require.ErrorIs(t, store.Touch(ctx, "missing", later, later), session.ErrNotFound)
	})

	t.Run("delete by user", func(t *testing.T) {
		t.Parallel()

		store := session.NewMemoryStore()
		for _, tok := range []string{"a", "b"} {
			s := session.New("id-"+tok, tok, time.Hour)
			s.SetUser("user-1")
			require.NoError(t, store.Create(ctx, s))
		}
		require.NoError(t, store.Create(ctx, session.New("id-c", "c", time.Hour)))

		require.NoError(t, store.DeleteByUserID(ctx, "user-1"))
		require.Equal(t, 1, store.Len())

		require.NoError(t, store.Delete(ctx, "id-c"))
		require.NoError(t, store.Delete(ctx, "id-c"))
		require.Equal(t, 0, store.Len())
	})

	t.Run("sweep drops expired", func(t *testing.T) {
		t.Parallel()

		store := session.NewMemoryStore()
		old := session.New("old", "old", time.Hour)
		old.ExpiresAt = time.Now().Add(-time.Minute)
		require.NoError(t, store.Create(ctx, old))
		require.NoError(t, store.Create(ctx, session.New("fresh", "fresh", time.Hour)))

		require.Equal(t, 1, store.Sweep())
		require.Equal(t, 1, store.Len())
	})
}
