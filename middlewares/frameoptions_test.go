package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sitekit/internal"
	"github.com/dmitrymomot/sitekit/middlewares"
)

func TestFrameOptions(t *testing.T) {
	t.Parallel()

	t.Run("default", func(t *testing.T) {
		t.Parallel()

		rec := do(newApp(internal.Pipeline{stage(middlewares.FrameOptions(""))}, routed),
			httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, "SAMEORIGIN", rec.Header().Get("X-Frame-Options"))
		require.Equal(t, "routed", rec.Body.String())
	})

	t.Run("kept on error responses", func(t *testing.T) {
		t.Parallel()

		app := newApp(internal.Pipeline{stage(middlewares.FrameOptions("DENY"))}, func(c internal.Context) error {
			return internal.ErrNotFound("missing")
		})
		rec := do(app, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusNotFound, rec.Code)
		require.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	})
}
