package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dmitrymomot/sitekit/internal"
)

type routes func(r internal.Router)

func (f routes) Routes(r internal.Router) { f(r) }

func routed(c internal.Context) error {
	return c.String(http.StatusOK, "routed")
}

// newApp builds an App that runs pipeline in front of a catch-all route.
func newApp(pipeline internal.Pipeline, h internal.HandlerFunc, opts ...internal.Option) *internal.App {
	opts = append(opts,
		internal.WithPipeline(pipeline),
		internal.WithHandlers(routes(func(r internal.Router) {
			r.GET("/*", h)
			r.HEAD("/*", h)
			r.POST("/*", h)
		})),
	)
	return internal.New(opts...)
}

func stage(mw internal.Middleware) internal.Stage {
	return internal.Stage{Name: "under-test", Middleware: mw}
}

func do(app http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	return rec
}

// call runs mw in front of h and returns the error mw passed upstream.
func call(t *testing.T, req *http.Request, mw internal.Middleware, h internal.HandlerFunc) (*httptest.ResponseRecorder, error) {
	t.Helper()

	var err error
	capture := internal.Stage{Name: "capture", Middleware: func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			err = next(c)
			return nil
		}
	}}

	rec := do(newApp(internal.Pipeline{capture, stage(mw)}, h), req)
	return rec, err
}
