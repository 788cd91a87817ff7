package middlewares

import (
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/dmitrymomot/sitekit/internal"
	"github.com/dmitrymomot/sitekit/pkg/forwarded"
)

// HTTPSRedirect returns middleware that sends plain HTTP requests to the same
// URL over HTTPS with 307 Temporary Redirect, which keeps the method and body.
// Port 0 or 443 produces a URL without an explicit port.
func HTTPSRedirect(port int) internal.Middleware {
	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			r := c.Request()
			if forwarded.IsHTTPS(r) {
				return next(c)
			}
			return c.Redirect(http.StatusTemporaryRedirect, httpsURL(r, port))
		}
	}
}

func httpsURL(r *http.Request, port int) string {
	host := r.Host
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.TrimSuffix(strings.TrimPrefix(host, "["), "]")

	switch {
	case port != 0 && port != 443:
		host = net.JoinHostPort(host, strconv.Itoa(port))
	case strings.Contains(host, ":"):
		host = "[" + host + "]"
	}

	return "https://" + host + r.URL.RequestURI()
}
