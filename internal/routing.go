package internal

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// RoutingConventions controls how URLs are matched against routes.
// Route patterns and request paths go through the same normalization,
// so "/Privacy" and "/privacy/" resolve to the same endpoint.
type RoutingConventions struct {
	LowercaseURLs       bool
	AppendTrailingSlash bool
}

// Path normalizes a request path.
func (rc RoutingConventions) Path(p string) string {
	if p == "" {
		p = "/"
	}
	if rc.LowercaseURLs {
		p = lower(p)
	}
	if rc.AppendTrailingSlash && !strings.HasSuffix(p, "/") {
		p += "/"
	}
	return p
}

// Pattern normalizes a route pattern. URL parameters and their regular
// expressions keep their case. Catch-all patterns get no trailing slash.
func (rc RoutingConventions) Pattern(p string) string {
	if p == "" {
		p = "/"
	}
	if rc.LowercaseURLs {
		p = lowerStatic(p)
	}
	if rc.AppendTrailingSlash && !strings.HasSuffix(p, "/") && !strings.HasSuffix(p, "*") {
		p += "/"
	}
	return p
}

// Prefix normalizes the pattern of a route group or mount point.
func (rc RoutingConventions) Prefix(p string) string {
	if rc.LowercaseURLs {
		p = lowerStatic(p)
	}
	if len(p) > 1 {
		p = strings.TrimSuffix(p, "/")
	}
	return p
}

// cases.Caser is stateful, so each call gets its own.
func lower(s string) string {
	return cases.Lower(language.Und).String(s)
}

// lowerStatic lowercases everything outside {...} parameter blocks.
func lowerStatic(p string) string {
	if !strings.Contains(p, "{") {
		return lower(p)
	}

	var b strings.Builder
	b.Grow(len(p))

	depth, start := 0, 0
	for i := 0; i < len(p); i++ {
		switch p[i] {
		case '{':
			if depth == 0 {
				b.WriteString(lower(p[start:i]))
				start = i
			}
			depth++
		case '}':
			depth--
			if depth == 0 {
				b.WriteString(p[start : i+1])
				start = i + 1
			}
		}
	}
	if depth == 0 {
		b.WriteString(lower(p[start:]))
	} else {
		b.WriteString(p[start:])
	}
	return b.String()
}

// route is the terminal pipeline step. It resolves aliases on the normalized
// path and dispatches through chi without touching the request URL.
func (a *App) route(c Context) error {
	r := c.Request()

	routePath := a.routing.Path(r.URL.Path)
	if target, ok := a.aliases[routePath]; ok {
		routePath = target
	}

	rctx := chi.NewRouteContext()
	rctx.Routes = a.router
	rctx.RoutePath = routePath

	ctx, slot := withErrorSlot(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))

	a.router.ServeHTTP(c.Response(), r.WithContext(ctx))
	return slot.err
}

// RoutePath returns the normalized path the router matched against.
// Empty outside of routing.
func RoutePath(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		return rctx.RoutePath
	}
	return ""
}
