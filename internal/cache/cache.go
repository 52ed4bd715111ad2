// Package cache provides a lazily-populated per-key cache for
// expensive-to-construct resources (channel managers, guild settings).
// Concurrent misses for one key share a single in-flight population, so
// two interactions racing on the same channel cannot create duplicate
// remote resources. Failed populations are never cached.
package cache

import (
	"sync"

	"golang.org/x/sync/singleflight"

	"huntbot/internal/result"
)

// Cache maps string keys to values of type V.
// The zero value is not usable; call New.
type Cache[V any] struct {
	mu     sync.Mutex
	m      map[string]V
	flight singleflight.Group
}

func New[V any]() *Cache[V] {
	return &Cache[V]{m: make(map[string]V)}
}

// GetOrSet returns the cached value for key, or invokes factory to
// populate it. Only a successful factory result is stored. Concurrent
// callers missing on the same key await one shared factory invocation
// and all receive its outcome.
func (c *Cache[V]) GetOrSet(key string, factory func() result.Result[V]) result.Result[V] {
	c.mu.Lock()
	if v, ok := c.m[key]; ok {
		c.mu.Unlock()
		return result.Ok(v)
	}
	c.mu.Unlock()

	v, err, _ := c.flight.Do(key, func() (any, error) {
		// A racing winner may have stored the value before we got the flight.
		c.mu.Lock()
		if v, ok := c.m[key]; ok {
			c.mu.Unlock()
			return v, nil
		}
		c.mu.Unlock()

		res := factory()
		if res.IsErr() {
			return nil, res.Err()
		}
		val := res.Unwrap()
		c.mu.Lock()
		c.m[key] = val
		c.mu.Unlock()
		return val, nil
	})
	if err != nil {
		return result.Err[V](err)
	}
	return result.Ok(v.(V))
}

// Get returns the cached value without populating.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.m[key]
	return v, ok
}

// Set stores v under key, returning the replaced value if any.
func (c *Cache[V]) Set(key string, v V) (old V, replaced bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	old, replaced = c.m[key]
	c.m[key] = v
	return old, replaced
}

// Reset removes key, returning the removed value if any.
func (c *Cache[V]) Reset(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.m[key]
	if ok {
		delete(c.m, key)
	}
	return v, ok
}

// Len returns the number of cached entries.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.m)
}
