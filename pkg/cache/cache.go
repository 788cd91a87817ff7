package cache

import (
	"context"
	"time"
)

// Cache is a key-value cache with per-entry TTL.
//
// TTL semantics for Set:
//   - Positive duration: entry expires after this duration
//   - Zero: the cache's default TTL
//   - Negative: entry never expires
type Cache[V any] interface {
	// Get returns ErrNotFound if the key is missing or expired.
	Get(ctx context.Context, key string) (V, error)
	Set(ctx context.Context, key string, value V, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Loader computes a value on a cache miss, along with the TTL to store it under.
type Loader[V any] func(ctx context.Context) (V, time.Duration, error)
