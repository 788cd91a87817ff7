package middlewares

import (
	"net"
	"net/http"
	"strings"

	"github.com/dmitrymomot/sitekit/internal"
	"github.com/dmitrymomot/sitekit/pkg/forwarded"
)

// ForwardedHeaders returns middleware that applies X-Forwarded-For and
// X-Forwarded-Proto sent by a trusted proxy. The right-most entry of each
// header replaces the request's RemoteAddr and the scheme reported by
// forwarded.Scheme; the previous values are kept in X-Original-For and
// X-Original-Proto.
//
// An empty proxies list trusts no peer. Requests from untrusted peers pass
// through unchanged.
func ForwardedHeaders(proxies forwarded.Proxies) internal.Middleware {
	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			r := c.Request()

			peer, _, ok := forwarded.SplitHostPort(r.RemoteAddr)
			if !ok || !proxies.Trusts(peer) {
				return next(c)
			}

			forValues := forwarded.Values(r.Header, forwarded.HeaderForwardedFor)
			protoValues := forwarded.Values(r.Header, forwarded.HeaderForwardedProto)
			if len(forValues) == 0 && len(protoValues) == 0 {
				return next(c)
			}

			r = r.Clone(r.Context())

			if n := len(forValues); n > 0 {
				if addr, port, ok := forwarded.SplitHostPort(forValues[n-1]); ok {
					r.Header.Set(forwarded.HeaderOriginalFor, r.RemoteAddr)
					r.RemoteAddr = addr.String()
					if port != "" {
						r.RemoteAddr = net.JoinHostPort(addr.String(), port)
					}
					consume(r.Header, forwarded.HeaderForwardedFor, forValues[:n-1])
				}
			}

			if n := len(protoValues); n > 0 {
				proto := strings.ToLower(protoValues[n-1])
				if proto == "http" || proto == "https" {
					r.Header.Set(forwarded.HeaderOriginalProto, forwarded.Scheme(r))
					r = r.WithContext(forwarded.WithScheme(r.Context(), proto))
					consume(r.Header, forwarded.HeaderForwardedProto, protoValues[:n-1])
				}
			}

			return next(internal.WithRequest(c, r))
		}
	}
}

// consume leaves only the entries that were not applied.
func consume(h http.Header, name string, rest []string) {
	if len(rest) == 0 {
		h.Del(name)
		return
	}
	h.Set(name, strings.Join(rest, ", "))
}
