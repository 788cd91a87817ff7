package middlewares_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sitekit/internal"
	"github.com/dmitrymomot/sitekit/middlewares"
)

// errorApp routes /boom, /panic and /missing to failures and /error to an
// error page that reports what it received.
func errorApp(mw internal.Middleware, errorPage internal.HandlerFunc) *internal.App {
	return internal.New(
		internal.WithRouting(internal.RoutingConventions{LowercaseURLs: true, AppendTrailingSlash: true}),
		internal.WithPipeline(internal.Pipeline{stage(mw), stage(middlewares.FrameOptions("SAMEORIGIN"))}),
		internal.WithHandlers(routes(func(r internal.Router) {
			r.GET("/boom", func(c internal.Context) error {
				return errors.New("database <password> leaked")
			})
			r.POST("/boom", func(c internal.Context) error {
				return errors.New("post failed")
			})
			r.GET("/panic", func(c internal.Context) error {
				panic("kaboom")
			})
			r.GET("/missing", func(c internal.Context) error {
				return internal.ErrNotFound("no such thing")
			})
			r.GET("/ok", routed)
			if errorPage != nil {
				r.GET("/error", errorPage)
			}
		})),
	)
}

func genericErrorPage(c internal.Context) error {
	exc, ok := middlewares.ExceptionFromContext(c)
	if !ok {
		return c.String(http.StatusOK, "error page")
	}
	return c.String(exc.Status, "error page for "+exc.Method+" "+exc.Path+" "+strconv.Itoa(exc.Status))
}

func TestExceptionHandler(t *testing.T) {
	t.Parallel()

	mw := middlewares.ExceptionHandler("/Error")

	t.Run("returned error is re-executed on the error path", func(t *testing.T) {
		t.Parallel()

		rec := do(errorApp(mw, genericErrorPage), httptest.NewRequest(http.MethodGet, "/Boom", nil))
		require.Equal(t, http.StatusInternalServerError, rec.Code)
		require.Equal(t, "error page for GET /Boom 500", rec.Body.String())
		require.NotContains(t, rec.Body.String(), "password")
		require.Equal(t, "SAMEORIGIN", rec.Header().Get("X-Frame-Options"))
	})

	t.Run("panic has no stack trace in the body", func(t *testing.T) {
		t.Parallel()

		rec := do(errorApp(mw, genericErrorPage), httptest.NewRequest(http.MethodGet, "/panic", nil))
		require.Equal(t, http.StatusInternalServerError, rec.Code)
		require.Equal(t, "error page for GET /panic 500", rec.Body.String())
		require.NotContains(t, rec.Body.String(), "goroutine")
	})

	t.Run("error path is served as GET", func(t *testing.T) {
		t.Parallel()

		rec := do(errorApp(mw, genericErrorPage), httptest.NewRequest(http.MethodPost, "/boom", nil))
		require.Equal(t, "error page for POST /boom 500", rec.Body.String())
	})

	t.Run("client errors pass through", func(t *testing.T) {
		t.Parallel()

		rec := do(errorApp(mw, genericErrorPage), httptest.NewRequest(http.MethodGet, "/missing", nil))
		require.Equal(t, http.StatusNotFound, rec.Code)
		require.NotContains(t, rec.Body.String(), "error page")
	})

	t.Run("error page requested directly", func(t *testing.T) {
		t.Parallel()

		rec := do(errorApp(mw, genericErrorPage), httptest.NewRequest(http.MethodGet, "/error", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "error page", rec.Body.String())
	})

	t.Run("failing error page falls back to the original error", func(t *testing.T) {
		t.Parallel()

		rec := do(errorApp(mw, nil), httptest.NewRequest(http.MethodGet, "/boom", nil))
		require.Equal(t, http.StatusInternalServerError, rec.Code)
		require.Equal(t, "Internal Server Error\n", rec.Body.String())
	})

	t.Run("success is untouched", func(t *testing.T) {
		t.Parallel()

		rec := do(errorApp(mw, genericErrorPage), httptest.NewRequest(http.MethodGet, "/ok", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "routed", rec.Body.String())
	})
}

func TestDeveloperExceptionPage(t *testing.T) {
	t.Parallel()

	mw := middlewares.DeveloperExceptionPage()

	t.Run("returned error shows diagnostics", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/boom?q=1", nil)
		req.Header.Set("X-Test", "header-value")

		rec := do(errorApp(mw, genericErrorPage), req)
		body := rec.Body.String()

		require.Equal(t, http.StatusInternalServerError, rec.Code)
		require.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
		require.Contains(t, body, "database &lt;password&gt; leaked")
		require.Contains(t, body, "*errors.errorString")
		require.Contains(t, body, "header-value")
		require.NotContains(t, body, "error page for")
		require.Contains(t, body, "<pre>No stack trace: the error was returned by a handler.</pre>")
	})

	t.Run("request details are escaped and sorted", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/boom?z=2&a=%3Cb%3E", nil)
		req.Header.Set("X-Evil", "<script>alert(1)</script>")
		req.AddCookie(&http.Cookie{Name: "session", Value: "abc"})

		rec := do(errorApp(mw, genericErrorPage), req)
		body := rec.Body.String()

		require.Equal(t, http.StatusInternalServerError, rec.Code)
		require.Contains(t, body, "<h3>Query</h3><table><tr><th>a</th><td>&lt;b&gt;</td></tr><tr><th>z</th><td>2</td></tr></table>")
		require.Contains(t, body, "<tr><th>X-Evil</th><td>&lt;script&gt;alert(1)&lt;/script&gt;</td></tr>")
		require.Contains(t, body, "<h3>Cookies</h3><table><tr><th>session</th><td>abc</td></tr></table>")
		require.NotContains(t, body, "<script>")
	})

	t.Run("panic shows the stack", func(t *testing.T) {
		t.Parallel()

		rec := do(errorApp(mw, genericErrorPage), httptest.NewRequest(http.MethodGet, "/panic", nil))
		body := rec.Body.String()

		require.Equal(t, http.StatusInternalServerError, rec.Code)
		require.Contains(t, body, "panic(string)")
		require.Contains(t, body, "kaboom")
		require.Contains(t, body, "goroutine")
	})

	t.Run("client errors pass through", func(t *testing.T) {
		t.Parallel()

		rec := do(errorApp(mw, genericErrorPage), httptest.NewRequest(http.MethodGet, "/missing", nil))
		require.Equal(t, http.StatusNotFound, rec.Code)
	})
}
