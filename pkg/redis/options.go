package redis

import (
	"time"

	"github.com/redis/go-redis/v9"
)

// Option configures a Redis connection.
type Option func(*options)

type options struct {
	poolSize      int
	minIdleConns  int
	maxIdleTime   time.Duration
	maxLifetime   time.Duration
	retryAttempts int
	retryInterval time.Duration
	ioTimeout     time.Duration
	dialTimeout   time.Duration
}

func defaultOptions() *options {
	return &options{
		poolSize:      10,
		minIdleConns:  2,
		maxIdleTime:   10 * time.Minute,
		maxLifetime:   30 * time.Minute,
		retryAttempts: 3,
		retryInterval: 2 * time.Second,
		ioTimeout:     3 * time.Second,
		dialTimeout:   5 * time.Second,
	}
}

// WithPoolSize sets the maximum number of connections in the pool.
// Default: 10
func WithPoolSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.poolSize = n
		}
	}
}

// WithMinIdleConns sets the minimum number of idle connections.
// Default: 2
func WithMinIdleConns(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.minIdleConns = n
		}
	}
}

// WithConnLifetime sets how long a connection may stay idle and how long it may live.
// Default: 10 minutes idle, 30 minutes total
func WithConnLifetime(idle, total time.Duration) Option {
	return func(o *options) {
		o.maxIdleTime = idle
		o.maxLifetime = total
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

// WithTimeouts sets the read/write timeout and the dial timeout.
// Default: 3 seconds for reads and writes, 5 seconds to dial
func WithTimeouts(io, dial time.Duration) Option {
	return func(o *options) {
		if io > 0 {
			o.ioTimeout = io
		}
		if dial > 0 {
			o.dialTimeout = dial
		}
	}
}

func (o *options) apply(ro *redis.Options) {
	ro.PoolSize = o.poolSize
	ro.MinIdleConns = o.minIdleConns
	ro.ConnMaxIdleTime = o.maxIdleTime
	ro.ConnMaxLifetime = o.maxLifetime
	ro.ReadTimeout = o.ioTimeout
	ro.WriteTimeout = o.ioTimeout
	ro.DialTimeout = o.dialTimeout
}
