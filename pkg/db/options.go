package db

import (
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Option configures a connection pool.
type Option func(*options)

type options struct {
	maxConns          int32
	minConns          int32
	healthCheckPeriod time.Duration
	maxConnIdleTime   time.Duration
	maxConnLifetime   time.Duration
	retryAttempts     int
	retryInterval     time.Duration
}

func defaultOptions() *options {
	return &options{
		maxConns:          10,
		minConns:          2,
		healthCheckPeriod: time.Minute,
		maxConnIdleTime:   10 * time.Minute,
		maxConnLifetime:   30 * time.Minute,
		retryAttempts:     3,
		retryInterval:     2 * time.Second,
	}
}

// WithMaxConns sets the pool size.
// Default: 10
func WithMaxConns(n int32) Option {
	return func(o *options) {
		if n > 0 {
			o.maxConns = n
		}
	}
}

// WithMinConns sets the number of connections kept open.
// Default: 2
func WithMinConns(n int32) Option {
	return func(o *options) {
		if n >= 0 {
			o.minConns = n
		}
	}
}

// WithConnLifetime sets idle and total connection lifetimes.
// Default: 10 minutes idle, 30 minutes total
func WithConnLifetime(idle, total time.Duration) Option {
	return func(o *options) {
		o.maxConnIdleTime = idle
		o.maxConnLifetime = total
	}
}

// WithRetry configures startup retries. Attempt n waits n*interval before the next one.
// Default: 3 attempts, 2 seconds
func WithRetry(attempts int, interval time.Duration) Option {
	return func(o *options) {
		o.retryAttempts = attempts
		o.retryInterval = interval
	}
}

func (o *options) apply(cfg *pgxpool.Config) {
	cfg.MaxConns = o.maxConns
	cfg.MinConns = min(o.minConns, o.maxConns)
	cfg.HealthCheckPeriod = o.healthCheckPeriod
	cfg.MaxConnIdleTime = o.maxConnIdleTime
	cfg.MaxConnLifetime = o.maxConnLifetime
}
