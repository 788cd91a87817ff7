package internal_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sitekit/internal"
)

// routes adapts a function to the Handler interface.
type routes func(r internal.Router)

func (f routes) Routes(r internal.Router) { f(r) }

func serve(app http.Handler, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	app.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

func tracer(name string, trail *[]string) internal.Stage {
	return internal.Stage{
		Name: name,
		Middleware: func(next internal.HandlerFunc) internal.HandlerFunc {
			return func(c internal.Context) error {
				*trail = append(*trail, name)
				return next(c)
			}
		},
	}
}

func TestApp_PipelineOrder(t *testing.T) {
	t.Parallel()

	var trail []string
	pipeline := internal.Pipeline{tracer("one", &trail), tracer("two", &trail), tracer("three", &trail)}

	app := internal.New(
		internal.WithPipeline(pipeline),
		internal.WithMiddleware(func(next internal.HandlerFunc) internal.HandlerFunc {
			return func(c internal.Context) error {
				trail = append(trail, "global")
				return next(c)
			}
		}),
		internal.WithHandlers(routes(func(r internal.Router) {
			r.GET("/", func(c internal.Context) error {
				trail = append(trail, "handler")
				return c.String(http.StatusOK, "ok")
			})
		})),
	)

	w := serve(app, http.MethodGet, "/")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, []string{"one", "two", "three", "global", "handler"}, trail)
	require.Equal(t, []string{"one", "two", "three"}, app.Pipeline().Names())
	require.NoError(t, app.Err())
}

func TestApp_StageShortCircuit(t *testing.T) {
	t.Parallel()

	handled := false
	stop := internal.Stage{Name: "stop", Middleware: func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			return c.String(http.StatusOK, "stopped")
		}
	}}

	app := internal.New(
		internal.WithPipeline(internal.Pipeline{stop}),
		internal.WithHandlers(routes(func(r internal.Router) {
			r.GET("/", func(c internal.Context) error {
				handled = true
				return nil
			})
		})),
	)

	w := serve(app, http.MethodGet, "/")
	require.Equal(t, "stopped", w.Body.String())
	require.False(t, handled)
}

func TestApp_ErrorPropagation(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	handlers := internal.WithHandlers(routes(func(r internal.Router) {
		r.GET("/fail", func(c internal.Context) error { return boom })
		r.GET("/missing", func(c internal.Context) error {
			return internal.ErrNotFound("no such thing")
		})
	}))

	t.Run("stages see handler errors", func(t *testing.T) {
		t.Parallel()

		var seen error
		catch := internal.Stage{Name: "catch", Middleware: func(next internal.HandlerFunc) internal.HandlerFunc {
			return func(c internal.Context) error {
				seen = next(c)
				return c.String(http.StatusTeapot, "caught")
			}
		}}

		app := internal.New(internal.WithPipeline(internal.Pipeline{catch}), handlers)
		w := serve(app, http.MethodGet, "/fail")

		require.ErrorIs(t, seen, boom)
		require.Equal(t, http.StatusTeapot, w.Code)
		require.Equal(t, "caught", w.Body.String())
	})

	t.Run("route middleware sees handler errors", func(t *testing.T) {
		t.Parallel()

		var seen error
		app := internal.New(internal.WithHandlers(routes(func(r internal.Router) {
			r.Group(func(r internal.Router) {
				r.Use(func(next internal.HandlerFunc) internal.HandlerFunc {
					return func(c internal.Context) error {
						seen = next(c)
						return seen
					}
				})
				r.GET("/fail", func(c internal.Context) error { return boom })
			})
		})))

		w := serve(app, http.MethodGet, "/fail")
		require.ErrorIs(t, seen, boom)
		require.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("default error handler", func(t *testing.T) {
		t.Parallel()

		app := internal.New(handlers)

		w := serve(app, http.MethodGet, "/fail")
		require.Equal(t, http.StatusInternalServerError, w.Code)

		w = serve(app, http.MethodGet, "/missing")
		require.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("custom error handler", func(t *testing.T) {
		t.Parallel()

		app := internal.New(handlers, internal.WithErrorHandler(func(c internal.Context, err error) error {
			return c.JSON(internal.StatusOf(err), map[string]string{"error": err.Error()})
		}))

		w := serve(app, http.MethodGet, "/missing")
		require.Equal(t, http.StatusNotFound, w.Code)

		var body map[string]string
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		require.Equal(t, "no such thing", body["error"])
	})
}

func TestApp_RoutingConventions(t *testing.T) {
	t.Parallel()

	app := internal.New(
		internal.WithRouting(internal.RoutingConventions{LowercaseURLs: true, AppendTrailingSlash: true}),
		internal.WithRouteAlias("/robots.txt", "/robotstxt"),
		internal.WithHandlers(routes(func(r internal.Router) {
			r.GET("/Foo", func(c internal.Context) error {
				return c.String(http.StatusOK, "foo "+c.Request().URL.Path)
			})
			r.GET("/robotstxt", func(c internal.Context) error {
				return c.String(http.StatusOK, "robots "+internal.RoutePath(c.Request()))
			})
			r.GET("/users/{id}", func(c internal.Context) error {
				return c.String(http.StatusOK, "user "+c.Param("id"))
			})
			r.Route("/API", func(r internal.Router) {
				r.GET("/status", func(c internal.Context) error {
					return c.String(http.StatusOK, "status")
				})
			})
		})),
	)

	t.Run("case and trailing slash resolve to one endpoint", func(t *testing.T) {
		t.Parallel()

		for _, target := range []string{"/Foo", "/foo", "/foo/", "/FOO/"} {
			w := serve(app, http.MethodGet, target)
			require.Equal(t, http.StatusOK, w.Code, target)
			require.Equal(t, "foo "+target, w.Body.String(), "request URL must stay untouched")
		}
	})

	t.Run("alias", func(t *testing.T) {
		t.Parallel()

		alias := serve(app, http.MethodGet, "/robots.txt")
		direct := serve(app, http.MethodGet, "/robotstxt")

		require.Equal(t, http.StatusOK, alias.Code)
		require.Equal(t, direct.Body.String(), alias.Body.String())
		require.Equal(t, "robots /robotstxt/", alias.Body.String())
	})

	t.Run("params and groups", func(t *testing.T) {
		t.Parallel()

		require.Equal(t, "user 42", serve(app, http.MethodGet, "/Users/42").Body.String())
		require.Equal(t, "status", serve(app, http.MethodGet, "/api/Status").Body.String())
	})

	t.Run("not found and method not allowed", func(t *testing.T) {
		t.Parallel()

		require.Equal(t, http.StatusNotFound, serve(app, http.MethodGet, "/nope").Code)
		require.Equal(t, http.StatusMethodNotAllowed, serve(app, http.MethodPost, "/foo").Code)
	})
}

func TestApp_NotFoundHandler(t *testing.T) {
	t.Parallel()

	app := internal.New(internal.WithNotFoundHandler(func(c internal.Context) error {
		return c.String(http.StatusNotFound, "custom 404")
	}))

	w := serve(app, http.MethodGet, "/anything")
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, "custom 404", w.Body.String())
}

func TestApp_WithRequest(t *testing.T) {
	t.Parallel()

	rewrite := internal.Stage{Name: "rewrite", Middleware: func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			r := c.Request().Clone(c.Request().Context())
			r.URL.Path = "/target"
			return next(internal.WithRequest(c, r))
		}
	}}

	app := internal.New(
		internal.WithPipeline(internal.Pipeline{rewrite}),
		internal.WithHandlers(routes(func(r internal.Router) {
			r.GET("/target", func(c internal.Context) error {
				return c.String(http.StatusOK, "target")
			})
		})),
	)

	require.Equal(t, "target", serve(app, http.MethodGet, "/source").Body.String())
}

// foreign is a Context implementation other than the framework's own.
type foreign struct{ foreignBase }

// foreignBase lets foreign embed internal.Context alongside its Context method.
type foreignBase = internal.Context

type ctxKey struct{}

func TestApp_WithRequest_ForeignContext(t *testing.T) {
	t.Parallel()

	type observed struct {
		path, header, query, value, ctxValue string
	}
	var got observed

	rewrite := internal.Stage{Name: "rewrite", Middleware: func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			r := c.Request().Clone(context.WithValue(c.Request().Context(), ctxKey{}, "carried"))
			r.URL.Path = "/target"
			r.URL.RawQuery = "q=rewritten"
			r.Header.Set("X-Rewritten", "yes")

			oc := internal.WithRequest(foreign{c}, r)
			got = observed{
				path:     oc.Request().URL.Path,
				header:   oc.Header("X-Rewritten"),
				query:    oc.Query("q"),
				value:    oc.Value(ctxKey{}).(string),
				ctxValue: oc.Context().Value(ctxKey{}).(string),
			}
			return next(oc)
		}
	}}

	app := internal.New(
		internal.WithPipeline(internal.Pipeline{rewrite}),
		internal.WithHandlers(routes(func(r internal.Router) {
			r.GET("/target", func(c internal.Context) error {
				return c.String(http.StatusOK, c.Query("q"))
			})
		})),
	)

	w := serve(app, http.MethodGet, "/source?q=original")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "rewritten", w.Body.String())
	require.Equal(t, observed{
		path:     "/target",
		header:   "yes",
		query:    "rewritten",
		value:    "carried",
		ctxValue: "carried",
	}, got)
}

func TestApp_HealthChecks(t *testing.T) {
	t.Parallel()

	failing := false
	app := internal.New(internal.WithHealthChecks(
		internal.WithReadinessCheck("dep", func(ctx context.Context) error {
			if failing {
				return errors.New("down")
			}
			return nil
		}),
	))

	w := serve(app, http.MethodGet, "/health/live")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "OK", w.Body.String())

	w = serve(app, http.MethodGet, "/health/ready?format=json")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"status":"healthy"`)

	failing = true
	w = serve(app, http.MethodGet, "/health/ready")
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	require.True(t, strings.HasPrefix(w.Body.String(), "Service Unavailable"))
}
