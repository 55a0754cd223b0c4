// Package cache provides TTL-based memoization for expensive calls,
// keyed by a stable hash of the operation name and its arguments.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ziadkadry99/shopbot/internal/store"
)

// Cache memoizes computation results for a bounded time. Failed
// computations are never stored, so a miss is retried on the next call.
type Cache struct {
	entries    *store.Store[string, any]
	defaultTTL time.Duration
}

// New creates a cache. defaultTTL is used when Memoize is called with a
// zero ttl; it must be positive.
func New(defaultTTL time.Duration) (*Cache, error) {
	if defaultTTL <= 0 {
		return nil, fmt.Errorf("cache default ttl must be positive, got %s", defaultTTL)
	}
	return &Cache{
		entries:    store.New[string, any](),
		defaultTTL: defaultTTL,
	}, nil
}

// Key builds a deterministic cache key from an operation name and its
// keyword-style arguments. encoding/json marshals map keys in sorted
// order, so identical argument sets collide regardless of how the
// caller assembled the map.
func Key(op string, args map[string]any) string {
	payload, err := json.Marshal(args)
	if err != nil {
		// Fall back to the bare operation name; the key is still
		// deterministic, just coarser.
		payload = nil
	}
	sum := sha256.Sum256([]byte(op + ":" + string(payload)))
	return hex.EncodeToString(sum[:])
}

// Get returns the stored value for key if it has not expired.
func (c *Cache) Get(key string) (any, bool) {
	return c.entries.Get(key)
}

// Set stores value under key for ttl (the default TTL if ttl is zero).
func (c *Cache) Set(key string, value any, ttl time.Duration) {
	if ttl == 0 {
		ttl = c.defaultTTL
	}
	c.entries.Set(key, value, ttl)
}

// Delete removes key from the cache.
func (c *Cache) Delete(key string) {
	c.entries.Delete(key)
}

// Sweep evicts expired entries and returns how many were removed.
func (c *Cache) Sweep() int {
	return c.entries.Sweep()
}

// Len returns the number of entries currently held.
func (c *Cache) Len() int {
	return c.entries.Len()
}

// Memoize returns the cached value for key, or invokes producer, stores
// its result for ttl, and returns it. Errors from producer pass through
// uncached. Concurrent misses on the same key may each invoke producer;
// the last writer wins. That duplication is accepted rather than
// serialized, keeping the read path lock-free of producer latency.
func Memoize[T any](c *Cache, key string, ttl time.Duration, producer func() (T, error)) (T, error) {
	if cached, ok := c.Get(key); ok {
		if typed, ok := cached.(T); ok {
			return typed, nil
		}
		// A conflicting type under this key means the key scheme is
		// broken; drop it and recompute.
		c.Delete(key)
	}

	value, err := producer()
	if err != nil {
		var zero T
		return zero, err
	}

	c.Set(key, value, ttl)
	return value, nil
}
