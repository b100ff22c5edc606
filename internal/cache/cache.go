// Package cache provides a small bounded memoization cache used by the
// calendar converter and the format/parse template compilers.
package cache

import (
	"sync"
	"sync/atomic"
)

// DefaultSize is the capacity used when Cache.MaxSize is zero.
const DefaultSize = 1 << 10

// Cache memoizes the result of a pure function keyed by K.
//
// When the cache is over capacity, arbitrary entries are evicted (Go map
// iteration order), which behaves like random replacement. The zero value is
// ready to use and safe for concurrent callers.
type Cache[K comparable, V any] struct {
	// MaxSize is the maximum number of entries. Zero means DefaultSize.
	// It must not be changed while the cache is in use.
	MaxSize int

	mu sync.RWMutex
	m  map[K]V

	hits   atomic.Uint64
	misses atomic.Uint64
}

// New returns a cache holding at most size entries.
func New[K comparable, V any](size int) *Cache[K, V] {
	return &Cache[K, V]{MaxSize: size}
}

// Get returns the value stored for k, calling fill to compute it on a miss.
//
// fill may run more than once for the same key when callers race; only the
// first stored result is kept, so readers never observe a partial value.
func (c *Cache[K, V]) Get(k K, fill func(K) V) V {
	c.mu.RLock()
	if v, ok := c.m[k]; ok {
		c.mu.RUnlock()
		c.hits.Add(1)
		return v
	}
	c.mu.RUnlock()

	c.misses.Add(1)
	nv := fill(k)

	c.mu.Lock()
	defer c.mu.Unlock()

	if v, ok := c.m[k]; ok {
		return v
	}
	if c.m == nil {
		c.m = make(map[K]V)
	}
	for old := range c.m {
		if len(c.m) < c.capacity() {
			break
		}
		delete(c.m, old)
	}
	c.m[k] = nv
	return nv
}

func (c *Cache[K, V]) capacity() int {
	if c.MaxSize <= 0 {
		return DefaultSize
	}
	return c.MaxSize
}

// Len returns the number of cached entries.
func (c *Cache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m)
}

// Flush removes every entry. Hit and miss counters are kept.
func (c *Cache[K, V]) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.m)
}

// Stats reports the number of hits and misses since the cache was created.
func (c *Cache[K, V]) Stats() (hits, misses uint64) {
	return c.hits.Load(), c.misses.Load()
}
