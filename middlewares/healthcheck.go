package middlewares

import (
	"net/http"
	"strings"

	"github.com/dmitrymomot/sitekit/internal"
)

// HealthcheckBody is the body of a healthcheck response.
const HealthcheckBody = "200: OK"

// Healthcheck returns middleware that answers every request whose path starts
// with the prefix segment, compared case-insensitively, with 200 "200: OK".
// Matching requests never reach the stages after it.
//
// With prefix "/healthcheck", "/healthcheck" and "/HealthCheck/db" match,
// "/healthchecker" does not.
func Healthcheck(prefix string) internal.Middleware {
	prefix = "/" + strings.Trim(prefix, "/")

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			if !hasSegmentPrefix(c.Request().URL.Path, prefix) {
				return next(c)
			}
			return c.String(http.StatusOK, HealthcheckBody)
		}
	}
}

func hasSegmentPrefix(p, prefix string) bool {
	if len(p) < len(prefix) || !strings.EqualFold(p[:len(prefix)], prefix) {
		return false
	}
	return len(p) == len(prefix) || prefix == "/" || p[len(prefix)] == '/'
}
