package internal

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrymomot/sitekit/pkg/health"
)

// Default health check paths.
const (
	defaultLivenessPath  = "/health/live"
	defaultReadinessPath = "/health/ready"
)

// healthConfig holds health check endpoint configuration.
type healthConfig struct {
	checks        map[string]health.CheckFunc
	order         []string
	livenessPath  string
	readinessPath string
	timeout       time.Duration
}

// HealthOption configures health check endpoints.
type HealthOption func(*healthConfig)

// WithLivenessPath sets a custom liveness endpoint path.
// Defaults to "/health/live".
func WithLivenessPath(path string) HealthOption {
	return func(c *healthConfig) {
		if path != "" {
			c.livenessPath = path
		}
	}
}

// WithReadinessPath sets a custom readiness endpoint path.
// Defaults to "/health/ready".
func WithReadinessPath(path string) HealthOption {
	return func(c *healthConfig) {
		if path != "" {
			c.readinessPath = path
		}
	}
}

// WithReadinessTimeout bounds a readiness run. Defaults to 5 seconds.
func WithReadinessTimeout(d time.Duration) HealthOption {
	return func(c *healthConfig) {
		c.timeout = d
	}
}

// WithReadinessCheck adds a named readiness check.
// Checks run in parallel during the readiness check.
//
// Example:
//
//	sitekit.WithReadinessCheck("postgres", db.Healthcheck(pool))
func WithReadinessCheck(name string, fn health.CheckFunc) HealthOption {
	return func(c *healthConfig) {
		if name == "" || fn == nil {
			return
		}
		if _, ok := c.checks[name]; !ok {
			c.order = append(c.order, name)
		}
		c.checks[name] = fn
	}
}

// healthRoutes exposes liveness and readiness endpoints.
type healthRoutes struct {
	cfg     *healthConfig
	checker *health.Checker
}

func newHealthRoutes(cfg *healthConfig, log *slog.Logger) (*healthRoutes, error) {
	checker := health.New(health.WithTimeout(cfg.timeout), health.WithLogger(log))
	for _, name := range cfg.order {
		if err := checker.Add(name, cfg.checks[name]); err != nil {
			return nil, err
		}
	}
	return &healthRoutes{cfg: cfg, checker: checker}, nil
}

func (h *healthRoutes) Routes(r Router) {
	r.GET(h.cfg.livenessPath, h.live)
	r.GET(h.cfg.readinessPath, h.ready)
}

func (h *healthRoutes) live(c Context) error {
	if wantsJSON(c) {
		return c.JSON(http.StatusOK, health.Report{Status: health.StatusHealthy})
	}
	return c.String(http.StatusOK, "OK")
}

func (h *healthRoutes) ready(c Context) error {
	report := h.checker.Run(c)

	status := http.StatusOK
	if !report.Healthy() {
		status = http.StatusServiceUnavailable
	}

	if wantsJSON(c) {
		return c.JSON(status, report)
	}
	if report.Healthy() {
		return c.String(status, "OK")
	}
	return c.String(status, "Service Unavailable")
}

// wantsJSON checks if the client wants a JSON response.
func wantsJSON(c Context) bool {
	if c.Query("format") == "json" {
		return true
	}
	return strings.Contains(c.Header("Accept"), "application/json")
}
