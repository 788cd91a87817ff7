package redis

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Open parses a redis:// or rediss:// URL and returns a client that answered a PING.
// Failed attempts are retried with a linear backoff until the context is done.
func Open(ctx context.Context, url string, opts ...Option) (*redis.Client, error) {
	ro, o, err := parse(url, opts...)
	if err != nil {
		return nil, err
	}

	var lastErr error
	attempts := max(o.retryAttempts, 1)
	for i := range attempts {
		client := redis.NewClient(ro)
		if lastErr = client.Ping(ctx).Err(); lastErr == nil {
			return client, nil
		}
		_ = client.Close()

		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrConnectionFailed, ctx.Err())
		case <-time.After(time.Duration(i+1) * o.retryInterval):
		}
	}

	return nil, errors.Join(ErrConnectionFailed, lastErr)
}

func parse(url string, opts ...Option) (*redis.Options, *options, error) {
	if url == "" {
		return nil, nil, ErrEmptyConnectionURL
	}
	if !strings.HasPrefix(url, "redis://") && !strings.HasPrefix(url, "rediss://") {
		return nil, nil, ErrUnsupportedScheme
	}

	ro, err := redis.ParseURL(url)
	if err != nil {
		return nil, nil, errors.Join(ErrFailedToParseURL, err)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	o.apply(ro)

	return ro, o, nil
}

// Healthcheck returns a check that pings the server.
func Healthcheck(client redis.UniversalClient) func(context.Context) error {
	return func(ctx context.Context) error {
		if client == nil {
			return ErrHealthcheckFailed
		}
		if err := client.Ping(ctx).Err(); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}

// Shutdown returns a shutdown hook that closes the client.
func Shutdown(client io.Closer) func(context.Context) error {
	return func(context.Context) error {
		if err := client.Close(); err != nil {
			return errors.Join(ErrCloseFailed, err)
		}
		return nil
	}
}
