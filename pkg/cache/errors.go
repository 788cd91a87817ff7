package cache

import "errors"

var (
	// ErrNotFound is returned when a key is missing or expired.
	ErrNotFound = errors.New("cache: entry not found")

	// ErrClosed is returned by writes to a closed cache.
	ErrClosed = errors.New("cache: closed")
)
