// Package cache provides an in-memory memoization cache.
package cache

import (
	"sync"
	"sync/atomic"
)

// Cache memoizes values by key. It is safe for concurrent use.
type Cache[K comparable, V any] struct {
	mu   sync.RWMutex
	data map[K]V

	hits   atomic.Int64
	misses atomic.Int64
}

// New creates an empty cache.
func New[K comparable, V any]() *Cache[K, V] {
	return &Cache[K, V]{data: make(map[K]V)}
}

// Get returns the value stored for key.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	val, found := c.data[key]

	return val, found
}

// Set stores value for key.
func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data[key] = value
}

// GetOrCompute returns the cached value for key or computes and stores it.
// Errors are not cached. Concurrent misses on one key may compute twice.
func (c *Cache[K, V]) GetOrCompute(key K, compute func() (V, error)) (V, error) {
	if val, found := c.Get(key); found {
		c.hits.Add(1)

		return val, nil
	}

	c.misses.Add(1)

	val, err := compute()
	if err != nil {
		var zero V

		return zero, err
	}

	c.Set(key, val)

	return val, nil
}

// Len returns the number of cached values.
func (c *Cache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.data)
}

// Hits returns how many GetOrCompute calls were served from the cache.
func (c *Cache[K, V]) Hits() int64 { return c.hits.Load() }

// Misses returns how many GetOrCompute calls computed a value.
func (c *Cache[K, V]) Misses() int64 { return c.misses.Load() }
