package middlewares

import (
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrymomot/sitekit/internal"
	"github.com/dmitrymomot/sitekit/pkg/forwarded"
)

// DefaultHSTSMaxAge is the Strict-Transport-Security max-age used when none is set.
const DefaultHSTSMaxAge = 30 * 24 * time.Hour

// HSTSConfig configures the HSTS middleware.
type HSTSConfig struct {
	MaxAge            time.Duration
	IncludeSubdomains bool
	Preload           bool
	ExcludedHosts     []string
}

// HSTSOption configures HSTSConfig.
type HSTSOption func(*HSTSConfig)

// WithHSTSMaxAge sets the max-age directive.
func WithHSTSMaxAge(d time.Duration) HSTSOption {
	return func(cfg *HSTSConfig) {
		if d > 0 {
			cfg.MaxAge = d
		}
	}
}

// WithHSTSIncludeSubdomains adds the includeSubDomains directive.
func WithHSTSIncludeSubdomains(on bool) HSTSOption {
	return func(cfg *HSTSConfig) {
		cfg.IncludeSubdomains = on
	}
}

// WithHSTSPreload adds the preload directive.
func WithHSTSPreload(on bool) HSTSOption {
	return func(cfg *HSTSConfig) {
		cfg.Preload = on
	}
}

// WithHSTSExcludedHosts replaces the hosts that never get the header.
// Default: localhost, 127.0.0.1 and [::1].
func WithHSTSExcludedHosts(hosts ...string) HSTSOption {
	return func(cfg *HSTSConfig) {
		cfg.ExcludedHosts = hosts
	}
}

// HSTS returns middleware that sets Strict-Transport-Security on HTTPS responses.
func HSTS(opts ...HSTSOption) internal.Middleware {
	cfg := &HSTSConfig{
		MaxAge:        DefaultHSTSMaxAge,
		ExcludedHosts: []string{"localhost", "127.0.0.1", "[::1]"},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	value := "max-age=" + strconv.FormatInt(int64(cfg.MaxAge/time.Second), 10)
	if cfg.IncludeSubdomains {
		value += "; includeSubDomains"
	}
	if cfg.Preload {
		value += "; preload"
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			r := c.Request()
			if forwarded.IsHTTPS(r) && !cfg.excluded(r.Host) {
				c.SetHeader("Strict-Transport-Security", value)
			}
			return next(c)
		}
	}
}

func (cfg *HSTSConfig) excluded(host string) bool {
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
		if strings.Contains(host, ":") {
			host = "[" + host + "]"
		}
	}
	for _, ex := range cfg.ExcludedHosts {
		if strings.EqualFold(host, ex) {
			return true
		}
	}
	return false
}
