// Package forwarded parses reverse-proxy headers and exposes the client
// address and scheme a request was originally made with.
//
// Only X-Forwarded-For and X-Forwarded-Proto are understood. The rewrite
// itself is done by middlewares.ForwardedHeaders; this package holds the
// parsing helpers and the trust check shared with the cookie and HTTPS
// redirection code.
//
//	proxies, err := forwarded.ParseProxies("10.0.0.0/8", "127.0.0.1")
//	if err != nil {
//		return err
//	}
//	if proxies.Trusts(peer) {
//		// honor the headers
//	}
package forwarded
