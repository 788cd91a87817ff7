package forwarded

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strconv"
	"strings"
)

// Header names understood by the package.
const (
	HeaderForwardedFor   = "X-Forwarded-For"
	HeaderForwardedProto = "X-Forwarded-Proto"
	HeaderOriginalFor    = "X-Original-For"
	HeaderOriginalProto  = "X-Original-Proto"
)

// DefaultProxies are trusted when none are configured: a proxy on the same host.
var DefaultProxies = []string{"127.0.0.0/8", "::1"}

// Proxies is a set of trusted proxy networks.
// An empty set trusts no peer.
type Proxies []netip.Prefix

// ParseProxies parses a list of IP addresses or CIDR ranges.
// Plain addresses are converted to single-host prefixes.
func ParseProxies(values ...string) (Proxies, error) {
	out := make(Proxies, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if strings.Contains(v, "/") {
			p, err := netip.ParsePrefix(v)
			if err != nil {
				return nil, fmt.Errorf("%w %q: %w", ErrInvalidProxy, v, err)
			}
			out = append(out, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(v)
		if err != nil {
			return nil, fmt.Errorf("%w %q: %w", ErrInvalidProxy, v, err)
		}
		out = append(out, netip.PrefixFrom(addr.Unmap(), addr.Unmap().BitLen()))
	}
	return out, nil
}

// Trusts reports whether the given peer address belongs to a trusted network.
func (p Proxies) Trusts(addr netip.Addr) bool {
	addr = addr.Unmap()
	for _, prefix := range p {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

// Values splits a comma separated header into trimmed, non-empty entries,
// joining repeated header lines in order.
func Values(h http.Header, name string) []string {
	var out []string
	for _, line := range h.Values(name) {
		for part := range strings.SplitSeq(line, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// SplitHostPort parses an address that may or may not carry a port.
// IPv6 literals may be bracketed.
func SplitHostPort(value string) (netip.Addr, string, bool) {
	if addrPort, err := netip.ParseAddrPort(value); err == nil {
		return addrPort.Addr().Unmap(), strconv.Itoa(int(addrPort.Port())), true
	}
	host := strings.TrimSuffix(strings.TrimPrefix(value, "["), "]")
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return netip.Addr{}, "", false
	}
	return addr.Unmap(), "", true
}

// ClientIP returns the IP address of the request peer.
// After the forwarded headers stage this is the original client address.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

type schemeKey struct{}

// WithScheme returns a copy of ctx carrying the scheme reported by a trusted proxy.
func WithScheme(ctx context.Context, scheme string) context.Context {
	return context.WithValue(ctx, schemeKey{}, strings.ToLower(scheme))
}

// Scheme returns the request scheme: the one set with WithScheme by the
// forwarded headers stage, otherwise https for TLS connections and http for
// the rest. The request URL is ignored, since a client can send an
// absolute-form target over plain HTTP.
func Scheme(r *http.Request) string {
	if s, ok := r.Context().Value(schemeKey{}).(string); ok && s != "" {
		return s
	}
	if r.TLS != nil {
		return "https"
	}
	return "http"
}

// IsHTTPS reports whether the request reached the application over HTTPS.
func IsHTTPS(r *http.Request) bool {
	return Scheme(r) == "https"
}
