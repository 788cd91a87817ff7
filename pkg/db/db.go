package db

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Open creates a PostgreSQL pool and verifies it with a ping.
// Failed attempts are retried with a linear backoff until the context is done.
func Open(ctx context.Context, url string, opts ...Option) (*pgxpool.Pool, error) {
	cfg, o, err := parse(url, opts...)
	if err != nil {
		return nil, err
	}

	attempts := max(o.retryAttempts, 1)
	for i := range attempts {
		pool, err := pgxpool.NewWithConfig(ctx, cfg)
		if err == nil {
			if err = pool.Ping(ctx); err == nil {
				return pool, nil
			}
			pool.Close()
		}

		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrFailedToOpenDBConnection, ctx.Err())
		case <-time.After(time.Duration(i+1) * o.retryInterval):
		}
	}

	return nil, ErrFailedToOpenDBConnection
}

func parse(url string, opts ...Option) (*pgxpool.Config, *options, error) {
	if url == "" {
		return nil, nil, ErrEmptyConnectionURL
	}

	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, nil, errors.Join(ErrFailedToParseDBConfig, err)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	o.apply(cfg)

	return cfg, o, nil
}

// Healthcheck returns a check that pings the database.
func Healthcheck(pool *pgxpool.Pool) func(context.Context) error {
	return func(ctx context.Context) error {
		if pool == nil {
			return ErrHealthcheckFailed
		}
		if err := pool.Ping(ctx); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}

// Shutdown returns a shutdown hook that closes the pool.
func Shutdown(pool *pgxpool.Pool) func(context.Context) error {
	return func(context.Context) error {
		pool.Close()
		return nil
	}
}
