// Package cache provides a small generic cache interface and an in-memory
// LRU implementation with TTL expiration.
//
//	pages := cache.NewMemory[Page](
//		cache.WithDefaultTTL(10*time.Minute),
//		cache.WithMaxEntries(512),
//	)
//	defer pages.Close()
//
//	page, err := pages.GetOrSet(ctx, "privacy", func(ctx context.Context) (Page, time.Duration, error) {
//		p, err := render(ctx, "privacy")
//		return p, 0, err
//	})
//
// [Memory.GetOrSet] collapses concurrent misses for the same key into one
// load using singleflight.
package cache
