// Package store provides a generic in-memory key/value store with
// per-entry expiry. It is the shared primitive behind the session
// manager, the rate limiter, and the response cache.
package store

import (
	"sync"
	"time"
)

// entry holds a value together with its absolute expiry instant.
// A zero expiry means the entry never expires.
type entry[V any] struct {
	value     V
	expiresAt time.Time
}

func (e entry[V]) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// Store is a mutex-guarded map from K to V where each entry carries an
// optional time-to-live. Expired entries behave exactly like absent
// ones: Get removes them lazily, and Sweep removes them in bulk.
type Store[K comparable, V any] struct {
	mu      sync.Mutex
	entries map[K]entry[V]
}

// New creates an empty store.
func New[K comparable, V any]() *Store[K, V] {
	return &Store[K, V]{
		entries: make(map[K]entry[V]),
	}
}

// Set stores value under key, replacing any previous value and expiry.
// A positive ttl expires the entry ttl from now, a zero ttl expires it
// immediately, and a negative ttl disables expiry.
func (s *Store[K, V]) Set(key K, value V, ttl time.Duration) {
	e := entry[V]{value: value}
	if ttl >= 0 {
		e.expiresAt = time.Now().Add(ttl)
	}

	s.mu.Lock()
	s.entries[key] = e
	s.mu.Unlock()
}

// Get returns the live value for key. An expired entry is deleted as a
// side effect and reported as absent, indistinguishable from a key that
// was never set.
func (s *Store[K, V]) Get(key K) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	if e.expired(time.Now()) {
		delete(s.entries, key)
		var zero V
		return zero, false
	}
	return e.value, true
}

// Delete removes key and reports whether a live entry was removed.
func (s *Store[K, V]) Delete(key K) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return false
	}
	delete(s.entries, key)
	return !e.expired(time.Now())
}

// Sweep removes every expired entry and returns how many were removed.
// It holds the store lock for the duration, so entries written after
// the sweep started are never considered.
func (s *Store[K, V]) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	removed := 0
	for key, e := range s.entries {
		if e.expired(now) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of physically present entries, including
// expired ones that have not been swept yet.
func (s *Store[K, V]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Range calls fn for every live entry until fn returns false. The store
// lock is held while iterating; fn must not call back into the store.
func (s *Store[K, V]) Range(fn func(key K, value V) bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for key, e := range s.entries {
		if e.expired(now) {
			continue
		}
		if !fn(key, e.value) {
			return
		}
	}
}
