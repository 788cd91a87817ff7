package health

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"

	defaultTimeout = 5 * time.Second
)

// CheckFunc checks a dependency. Redis, db and httpclient expose matching closures.
type CheckFunc func(ctx context.Context) error

// Result is the outcome of one check.
type Result struct {
	Status   string        `json:"status"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration_ns"`
}

// Report aggregates all results.
type Report struct {
	Status string            `json:"status"`
	Checks map[string]Result `json:"checks,omitempty"`
}

// Healthy reports whether every check passed.
func (r Report) Healthy() bool { return r.Status == StatusHealthy }

// Option configures a Checker.
type Option func(*Checker)

// WithTimeout bounds the whole run. Default: 5 seconds.
func WithTimeout(d time.Duration) Option {
	return func(c *Checker) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger logs failed checks at warn level.
func WithLogger(l *slog.Logger) Option {
	return func(c *Checker) {
		if l != nil {
			c.logger = l
		}
	}
}

// Checker runs named checks concurrently.
type Checker struct {
	mu      sync.RWMutex
	checks  map[string]CheckFunc
	timeout time.Duration
	logger  *slog.Logger
}

// New creates an empty checker.
func New(opts ...Option) *Checker {
	c := &Checker{
		checks:  make(map[string]CheckFunc),
		timeout: defaultTimeout,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Add registers a check.
func (c *Checker) Add(name string, fn CheckFunc) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.checks[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateCheck, name)
	}
	c.checks[name] = fn
	return nil
}

// Names returns the registered check names in sorted order.
func (c *Checker) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Sorted(maps.Keys(c.checks))
}

// Run executes every check and waits for all of them.
// A check still running at the deadline is reported with ErrCheckTimeout.
func (c *Checker) Run(ctx context.Context) Report {
	c.mu.RLock()
	checks := maps.Clone(c.checks)
	c.mu.RUnlock()

	if len(checks) == 0 {
		return Report{Status: StatusHealthy}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var (
		mu      sync.Mutex
		g       errgroup.Group
		results = make(map[string]Result, len(checks))
		status  = StatusHealthy
	)

	for name, check := range checks {
		g.Go(func() error {
			start := time.Now()
			err := run(ctx, check)
			res := Result{Status: StatusHealthy, Duration: time.Since(start)}
			if err != nil {
				res.Status = StatusUnhealthy
				res.Error = err.Error()
				c.logger.WarnContext(ctx, "health check failed",
					slog.String("check", name),
					slog.String("error", err.Error()),
				)
			}

			mu.Lock()
			defer mu.Unlock()
			results[name] = res
			if err != nil {
				status = StatusUnhealthy
			}
			return nil
		})
	}
	_ = g.Wait()

	return Report{Status: status, Checks: results}
}

// run returns as soon as the check finishes or the context ends.
func run(ctx context.Context, check CheckFunc) error {
	done := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- fmt.Errorf("health: check panicked: %v", r)
			}
		}()
		done <- check(ctx)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return ErrCheckTimeout
		}
		return ctx.Err()
	}
}
