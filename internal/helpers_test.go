package internal_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sitekit/internal"
	"github.com/dmitrymomot/sitekit/pkg/session"
)

func TestTypedParams(t *testing.T) {
	t.Parallel()

	app := internal.New(internal.WithHandlers(routes(func(r internal.Router) {
		r.GET("/items/{id}", func(c internal.Context) error {
			require.Equal(t, 42, internal.Param[int](c, "id"))
			require.Equal(t, int64(42), internal.Param[int64](c, "id"))
			require.Equal(t, "42", internal.Param[string](c, "id"))
			require.Equal(t, 1.5, internal.Query[float64](c, "ratio"))
			require.True(t, internal.Query[bool](c, "flag"))
			require.Zero(t, internal.Query[int](c, "ratio"))
			require.Equal(t, 10, internal.QueryDefault(c, "limit", 10))
			require.Equal(t, 7, internal.QueryDefault(c, "bad", 7))
			return c.NoContent(http.StatusNoContent)
		})
	})))

	w := httptest.NewRecorder()
	app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/items/42?ratio=1.5&flag=true&bad=x", nil))
	require.Equal(t, http.StatusNoContent, w.Code)
}

func TestSessionValueHelper(t *testing.T) {
	t.Parallel()

	opts := []internal.Option{internal.WithSession(session.NewMemoryStore())}
	requestVia(t, httptest.NewRequest(http.MethodGet, "/", nil), opts, func(c internal.Context) error {
		_, err := internal.SessionValue[string](c, "missing")
		require.ErrorIs(t, err, session.ErrNotFound)

		require.NoError(t, c.SetSessionValue("count", 3))
		n, err := internal.SessionValue[int](c, "count")
		require.NoError(t, err)
		require.Equal(t, 3, n)
		return nil
	})
}
