package config

import (
	"slices"
	"strings"
	"time"

	"github.com/dmitrymomot/sitekit/pkg/forwarded"
)

// Environment is the hosting environment the process runs in.
type Environment string

// Supported environments.
const (
	Development Environment = "Development"
	Production  Environment = "Production"
)

// IsDevelopment reports whether e is Development.
func (e Environment) IsDevelopment() bool { return e == Development }

// normalize maps any casing of a known environment to its canonical name.
func (e Environment) normalize() (Environment, bool) {
	switch {
	case strings.EqualFold(string(e), string(Development)):
		return Development, true
	case strings.EqualFold(string(e), string(Production)):
		return Production, true
	}
	return e, false
}

// Session store kinds.
const (
	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

// Config is the process configuration. It is built once by Load and passed by value.
type Config struct {
	Environment     Environment   `env:"APP_ENV"          yaml:"environment"`
	Address         string        `env:"ADDRESS"          yaml:"address"`
	HTTPSPort       int           `env:"HTTPS_PORT"       yaml:"https_port"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" yaml:"shutdown_timeout"`
	Version         string        `env:"APP_VERSION"      yaml:"version"`
	ServiceName     string        `env:"SERVICE_NAME"     yaml:"service_name"`

	// StaticDir serves static files from disk instead of the embedded assets.
	StaticDir string `env:"STATIC_DIR" yaml:"static_dir"`

	// UpstreamStatusURL is checked by the readiness endpoint through the shared HTTP client.
	UpstreamStatusURL string `env:"UPSTREAM_STATUS_URL" yaml:"upstream_status_url"`

	// TrustedProxies lists proxy addresses or CIDR ranges whose forwarded
	// headers are applied. Defaults to loopback; empty trusts no peer.
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:"," yaml:"trusted_proxies"`

	Cookie  CookieConfig  `envPrefix:"COOKIE_"  yaml:"cookie"`
	Session SessionConfig `envPrefix:"SESSION_" yaml:"session"`
	HSTS    HSTSConfig    `envPrefix:"HSTS_"    yaml:"hsts"`

	RedisURL       string `env:"REDIS_URL"       yaml:"redis_url"`
	DatabaseURL    string `env:"DATABASE_URL"    yaml:"database_url"`
	SentryDSN      string `env:"SENTRY_DSN"      yaml:"sentry_dsn"`
	TracingEnabled bool   `env:"TRACING_ENABLED" yaml:"tracing_enabled"`
}

// CookieConfig describes the application auth cookie.
type CookieConfig struct {
	Name       string `env:"NAME"        yaml:"name"`
	DevDomain  string `env:"DEV_DOMAIN"  yaml:"dev_domain"`
	ProdDomain string `env:"PROD_DOMAIN" yaml:"prod_domain"`
	Secret     string `env:"SECRET"      yaml:"secret"`
}

// SessionConfig describes server-side sessions.
type SessionConfig struct {
	Name        string        `env:"NAME"         yaml:"name"`
	IdleTimeout time.Duration `env:"IDLE_TIMEOUT" yaml:"idle_timeout"`
	Store       string        `env:"STORE"        yaml:"store"`
}

// HSTSConfig describes the Strict-Transport-Security header.
type HSTSConfig struct {
	MaxAge            time.Duration `env:"MAX_AGE"            yaml:"max_age"`
	IncludeSubdomains bool          `env:"INCLUDE_SUBDOMAINS" yaml:"include_subdomains"`
	Preload           bool          `env:"PRELOAD"            yaml:"preload"`
}

// Default returns the built-in configuration, the lowest layer of Load.
func Default() Config {
	return Config{
		Environment:     Production,
		Address:         ":8080",
		HTTPSPort:       443,
		ShutdownTimeout: 30 * time.Second,
		Version:         "dev",
		ServiceName:     "sitekit",
		TrustedProxies:  slices.Clone(forwarded.DefaultProxies),
		Cookie: CookieConfig{
			Name: ".sitekit.auth",
		},
		Session: SessionConfig{
			Name:        ".sitekit.session",
			IdleTimeout: 30 * time.Minute,
			Store:       StoreMemory,
		},
		HSTS: HSTSConfig{
			MaxAge: 30 * 24 * time.Hour,
		},
	}
}

// Proxies returns the parsed trusted proxies. Validate reports parse errors.
func (c Config) Proxies() forwarded.Proxies {
	p, _ := forwarded.ParseProxies(c.TrustedProxies...)
	return p
}
