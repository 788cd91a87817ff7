package session_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sitekit/pkg/session"
)

func TestSession_New(t *testing.T) {
	t.Parallel()

	sess := session.New("id", "token", 30*time.Minute)

	require.Equal(t, "id", sess.ID)
	require.Equal(t, "token", sess.Token)
	require.True(t, sess.IsNew())
	require.True(t, sess.IsDirty())
	require.NotNil(t, sess.Values)
	require.WithinDuration(t, time.Now().Add(30*time.Minute), sess.ExpiresAt, time.Second)
	require.False(t, sess.IsExpired())
}

func TestSession_User(t *testing.T) {
	t.Parallel()

	sess := session.New("id", "token", time.Hour)
	require.False(t, sess.IsAuthenticated())

	sess.ClearDirty()
	sess.SetUser("user-1")
	require.True(t, sess.IsAuthenticated())
	require.True(t, sess.IsDirty())

	sess.SetUser("")
	require.False(t, sess.IsAuthenticated())
	require.Nil(t, sess.UserID)
}

func TestSession_Values(t *testing.T) {
	t.Parallel()

	sess := session.New("id", "token", time.Hour)
	sess.ClearDirty()

	sess.SetValue("key", "value")
	require.True(t, sess.IsDirty())

	val, ok := sess.GetValue("key")
	require.True(t, ok)
	require.Equal(t, "value", val)

	sess.ClearDirty()
	sess.DeleteValue("missing")
	require.False(t, sess.IsDirty())

	sess.DeleteValue("key")
	require.True(t, sess.IsDirty())
	_, ok = sess.GetValue("key")
	require.False(t, ok)
}

func TestSession_Touch(t *testing.T) {
	t.Parallel()

	sess := session.New("id", "token", time.Minute)
	now := time.Now().Add(10 * time.Minute)

	require.True(t, sess.ExpiredAt(now))

	sess.Touch(now, time.Minute)
	require.Equal(t, now, sess.LastActiveAt)
	require.False(t, sess.ExpiredAt(now.Add(59*time.Second)))
	require.True(t, sess.ExpiredAt(now.Add(time.Minute)))
}

func TestSession_Clone(t *testing.T) {
	t.Parallel()

	sess := session.New("id", "token", time.Hour)
	sess.SetUser("u")
	sess.SetValue("k", "v")

	c := sess.Clone()
	c.SetValue("k", "changed")
	*c.UserID = "other"

	require.Equal(t, "v", sess.Values["k"])
	require.Equal(t, "u", *sess.UserID)
}

func TestValue(t *testing.T) {
	t.Parallel()

	sess := session.New("id", "token", time.Hour)
	sess.SetValue("string", "hello")
	sess.SetValue("int", 42)
	sess.SetValue("json_number", float64(7))
	sess.SetValue("json_object", map[string]any{"name": "Ada"})

	s, err := session.Value[string](sess, "string")
	require.NoError(t, err)
	require.Equal(t, "hello", s)

	n, err := session.Value[int](sess, "int")
	require.NoError(t, err)
	require.Equal(t, 42, n)

	n, err = session.Value[int](sess, "json_number")
	require.NoError(t, err)
	require.Equal(t, 7, n)

	type person struct {
		Name string `json:"name"`
	}
	p, err := session.Value[person](sess, "json_object")
	require.NoError(t, err)
	require.Equal(t, "Ada", p.Name)

	_, err = session.Value[int](sess, "string")
	require.ErrorIs(t, err, session.ErrTypeMismatch)

	_, err = session.Value[string](sess, "missing")
	require.ErrorIs(t, err, session.ErrNotFound)

	_, err = session.Value[string](nil, "key")
	require.ErrorIs(t, err, session.ErrNotFound)

	require.Equal(t, "hello", session.ValueOr(sess, "string", "default"))
	require.Equal(t, "default", session.ValueOr(sess, "missing", "default"))
	require.Equal(t, 5, session.ValueOr(sess, "string", 5))
}
