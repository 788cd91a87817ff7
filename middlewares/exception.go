package middlewares

import (
	"context"
	"fmt"
	"maps"
	"net/http"
	"slices"

	"github.com/dmitrymomot/sitekit/internal"
)

// Exception describes the failed request an error page is rendered for.
type Exception struct {
	Err    error
	Method string
	Path   string
	Status int
}

type exceptionKey struct{}

// ExceptionFromContext returns the exception captured by ExceptionHandler.
// It is only present while the error path is being re-executed.
func ExceptionFromContext(ctx context.Context) (*Exception, bool) {
	exc, ok := ctx.Value(exceptionKey{}).(*Exception)
	return exc, ok
}

// ExceptionHandler returns middleware that catches errors and panics from the
// rest of the pipeline, logs them and re-executes the pipeline as GET path.
// The error page reads the failure with ExceptionFromContext; the response
// carries no diagnostics.
//
// Errors with a 4xx status and errors raised after the response was written
// are returned unchanged. If the error page fails too, the original error is
// returned to the app's error handler.
func ExceptionHandler(path string, opts ...RecoverOption) internal.Middleware {
	recoverer := Recover(opts...)

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		guarded := recoverer(next)

		return func(c internal.Context) error {
			err := guarded(c)
			if !isException(err) {
				return err
			}

			r := c.Request()
			if !IsPanicError(err) {
				c.LogError("unhandled exception", "error", err, "method", r.Method, "path", r.URL.Path)
			}
			if c.Written() {
				return err
			}

			exc := &Exception{
				Err:    err,
				Method: r.Method,
				Path:   r.URL.Path,
				Status: internal.StatusOf(err),
			}

			rr := r.Clone(context.WithValue(r.Context(), exceptionKey{}, exc))
			rr.Method = http.MethodGet
			rr.URL.Path = path
			rr.URL.RawPath = ""
			rr.URL.RawQuery = ""
			rr.Body = http.NoBody
			rr.ContentLength = 0

			clear(c.Response().Header())

			if rerr := guarded(internal.WithRequest(c, rr)); rerr != nil {
				c.LogError("error page failed", "error", rerr, "path", path)
				return err
			}
			if !c.Written() {
				return err
			}
			return nil
		}
	}
}

// DeveloperExceptionPage returns middleware that catches errors and panics
// from the rest of the pipeline and renders a page with the error, its stack
// trace and the request details. Development only.
func DeveloperExceptionPage(opts ...RecoverOption) internal.Middleware {
	recoverer := Recover(opts...)

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		guarded := recoverer(next)

		return func(c internal.Context) error {
			err := guarded(c)
			if !isException(err) {
				return err
			}

			r := c.Request()
			if !IsPanicError(err) {
				c.LogError("unhandled exception", "error", err, "method", r.Method, "path", r.URL.Path)
			}
			if c.Written() {
				return err
			}

			clear(c.Response().Header())
			return c.Render(internal.StatusOf(err), developerPage(newDeveloperDetails(r, err)))
		}
	}
}

// isException reports whether err is a failure rather than a client error.
func isException(err error) bool {
	if err == nil {
		return false
	}
	code := internal.StatusOf(err)
	return code < 400 || code >= 500
}

// detailRow is one name and value pair of the developer page tables.
type detailRow struct {
	Name  string
	Value string
}

// developerDetails is what the developer page shows about a failed request.
type developerDetails struct {
	Type    string
	Message string
	Stack   string
	Request []detailRow
	Query   []detailRow
	Headers []detailRow
	Cookies []detailRow
}

func newDeveloperDetails(r *http.Request, err error) developerDetails {
	d := developerDetails{
		Type:    fmt.Sprintf("%T", err),
		Message: err.Error(),
		Stack:   "No stack trace: the error was returned by a handler.",
		Request: []detailRow{
			{"Method", r.Method},
			{"URL", r.URL.String()},
			{"Host", r.Host},
			{"Remote address", r.RemoteAddr},
		},
	}
	if pe, ok := AsPanicError(err); ok {
		d.Type = fmt.Sprintf("panic(%T)", pe.Value)
		if len(pe.Stack) > 0 {
			d.Stack = string(pe.Stack)
		}
	}

	query := r.URL.Query()
	for _, k := range slices.Sorted(maps.Keys(query)) {
		for _, v := range query[k] {
			d.Query = append(d.Query, detailRow{k, v})
		}
	}
	for _, k := range slices.Sorted(maps.Keys(r.Header)) {
		for _, v := range r.Header[k] {
			d.Headers = append(d.Headers, detailRow{k, v})
		}
	}
	for _, ck := range r.Cookies() {
		d.Cookies = append(d.Cookies, detailRow{ck.Name, ck.Value})
	}
	return d
}
