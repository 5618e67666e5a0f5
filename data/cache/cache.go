package cache

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

const (
	DefaultTTL        = 15 * time.Minute
	DefaultMaxEntries = 256
)

type entry[T any] struct {
	value     T
	createdAt time.Time
}

// Cache is a keyed, time bounded in-memory cache. Misses for the same key that
// overlap in time share a single fetch.
type Cache[T any] struct {
	ttl        time.Duration
	maxEntries int
	now        func() time.Time

	mu      sync.Mutex
	entries map[string]entry[T]
	group   singleflight.Group
}

type Option[T any] func(*Cache[T])

// WithClock replaces time.Now, used by tests to move time forward
func WithClock[T any](now func() time.Time) Option[T] {
	return func(c *Cache[T]) {
		c.now = now
	}
}

func New[T any](ttl time.Duration, maxEntries int, opts ...Option[T]) *Cache[T] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}

	c := &Cache[T]{
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
		entries:    make(map[string]entry[T]),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *Cache[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		var zero T
		return zero, false
	}

	if c.expired(e) {
		delete(c.entries, key)
		var zero T
		return zero, false
	}

	return e.value, true
}

func (c *Cache[T]) Set(key string, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sweep()
	if _, ok := c.entries[key]; !ok && len(c.entries) >= c.maxEntries {
		c.evictOldest()
	}

	c.entries[key] = entry[T]{value: value, createdAt: c.now()}
}

func (c *Cache[T]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Len counts entries including ones that expired but were not swept yet
func (c *Cache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache[T]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
}

// GetOrFetch returns the cached value or runs fetch and stores its result.
// Fetch errors are returned to every waiting caller and are not cached.
// The shared fetch does not inherit the cancellation of the caller that started it,
// fetch bounds itself. Each caller stops waiting when its own ctx is done.
func (c *Cache[T]) GetOrFetch(ctx context.Context, key string, fetch func(context.Context) (T, error)) (value T, hit bool, err error) {
	if v, ok := c.Get(key); ok {
		return v, true, nil
	}

	fetchCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		// another caller may have filled the key while we waited on the group
		if v, ok := c.Get(key); ok {
			return v, nil
		}

		v, err := fetch(fetchCtx)
		if err != nil {
			return v, err
		}

		c.Set(key, v)
		return v, nil
	})

	var zero T
	select {
	case <-ctx.Done():
		return zero, false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, false, res.Err
		}
		return res.Val.(T), false, nil
	}
}

// Key joins the parts into a cache key. The symbol is kept as typed since it is
// forwarded to the provider verbatim.
func Key(provider, symbol, frequency string) string {
	return fmt.Sprintf("%s|%s|%s", strings.ToLower(provider), strings.TrimSpace(symbol), strings.ToLower(frequency))
}

func (c *Cache[T]) expired(e entry[T]) bool {
	return c.now().Sub(e.createdAt) >= c.ttl
}

// sweep drops expired entries, caller holds the lock
func (c *Cache[T]) sweep() {
	for k, e := range c.entries {
		if c.expired(e) {
			delete(c.entries, k)
		}
	}
}

// evictOldest drops the entry created first, caller holds the lock
func (c *Cache[T]) evictOldest() {
	var oldestKey string
	var oldest time.Time
	for k, e := range c.entries {
		if oldestKey == "" || e.createdAt.Before(oldest) {
			oldestKey = k
			oldest = e.createdAt
		}
	}
	if oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}
