package cache

import (
	"container/list"
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// MemoryOption configures the in-memory cache.
type MemoryOption func(*memoryOptions)

type memoryOptions struct {
	defaultTTL      time.Duration
	cleanupInterval time.Duration
	maxEntries      int
}

// WithDefaultTTL sets the TTL used when Set receives zero.
// Default: 1 hour.
func WithDefaultTTL(d time.Duration) MemoryOption {
	return func(o *memoryOptions) {
		o.defaultTTL = d
	}
}

// WithCleanupInterval sets how often expired entries are swept.
// Zero disables the sweeper. Default: 1 minute.
func WithCleanupInterval(d time.Duration) MemoryOption {
	return func(o *memoryOptions) {
		o.cleanupInterval = d
	}
}

// WithMaxEntries bounds the cache; the least recently used entry is evicted first.
// Zero means unbounded.
func WithMaxEntries(n int) MemoryOption {
	return func(o *memoryOptions) {
		o.maxEntries = n
	}
}

type entry[V any] struct {
	key       string
	value     V
	expiresAt time.Time // zero = never
}

func (e *entry[V]) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// Memory is an in-process LRU cache with TTL expiration.
// Concurrent misses for the same key are collapsed by [Memory.GetOrSet].
type Memory[V any] struct {
	mu     sync.Mutex
	items  map[string]*list.Element
	lru    *list.List // front = most recently used
	opts   memoryOptions
	group  singleflight.Group
	done   chan struct{}
	closed bool
}

// NewMemory creates an in-memory cache. Call Close to stop the sweeper.
func NewMemory[V any](opts ...MemoryOption) *Memory[V] {
	o := memoryOptions{
		defaultTTL:      time.Hour,
		cleanupInterval: time.Minute,
	}
	for _, opt := range opts {
		opt(&o)
	}

	m := &Memory[V]{
		items: make(map[string]*list.Element),
		lru:   list.New(),
		opts:  o,
		done:  make(chan struct{}),
	}
	if o.cleanupInterval > 0 {
		go m.sweep(o.cleanupInterval)
	}
	return m
}

// Get returns the cached value and marks it recently used.
func (m *Memory[V]) Get(_ context.Context, key string) (V, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var zero V
	elem, ok := m.items[key]
	if !ok {
		return zero, ErrNotFound
	}
	e := elem.Value.(*entry[V])
	if e.expired(time.Now()) {
		m.remove(elem)
		return zero, ErrNotFound
	}
	m.lru.MoveToFront(elem)
	return e.value, nil
}

// Set stores a value.
func (m *Memory[V]) Set(_ context.Context, key string, value V, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	if ttl == 0 {
		ttl = m.opts.defaultTTL
	}
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl)
	}

	if elem, ok := m.items[key]; ok {
		e := elem.Value.(*entry[V])
		e.value, e.expiresAt = value, expiresAt
		m.lru.MoveToFront(elem)
		return nil
	}

	if m.opts.maxEntries > 0 && len(m.items) >= m.opts.maxEntries {
		if oldest := m.lru.Back(); oldest != nil {
			m.remove(oldest)
		}
	}
	m.items[key] = m.lru.PushFront(&entry[V]{key: key, value: value, expiresAt: expiresAt})
	return nil
}

// Delete removes a key.
func (m *Memory[V]) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if elem, ok := m.items[key]; ok {
		m.remove(elem)
	}
	return nil
}

// Len returns the number of stored entries, expired or not.
func (m *Memory[V]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// Close stops the sweeper. It is safe to call more than once.
func (m *Memory[V]) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.closed {
		m.closed = true
		close(m.done)
	}
	return nil
}

// GetOrSet returns the cached value or computes it with load.
// Concurrent callers missing the same key share a single load.
// Load errors are returned and nothing is cached.
func (m *Memory[V]) GetOrSet(ctx context.Context, key string, load Loader[V]) (V, error) {
	if v, err := m.Get(ctx, key); err == nil {
		return v, nil
	}

	res, err, _ := m.group.Do(key, func() (any, error) {
		v, ttl, err := load(ctx)
		if err != nil {
			return nil, err
		}
		_ = m.Set(ctx, key, v, ttl)
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return res.(V), nil
}

func (m *Memory[V]) sweep(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case now := <-ticker.C:
			m.mu.Lock()
			for elem := m.lru.Back(); elem != nil; {
				prev := elem.Prev()
				if elem.Value.(*entry[V]).expired(now) {
					m.remove(elem)
				}
				elem = prev
			}
			m.mu.Unlock()
		}
	}
}

// remove must be called with mu held.
func (m *Memory[V]) remove(elem *list.Element) {
	m.lru.Remove(elem)
	delete(m.items, elem.Value.(*entry[V]).key)
}

var _ Cache[any] = (*Memory[any])(nil)
