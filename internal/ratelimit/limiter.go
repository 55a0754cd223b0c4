// Package ratelimit implements a sliding-window request limiter keyed
// by caller identity (typically a client IP).
package ratelimit

import (
	"fmt"
	"sync"
	"time"

	"github.com/ziadkadry99/shopbot/internal/store"
)

// Limiter admits at most limit requests per identity within a trailing
// window. The window boundary moves continuously with the clock, so a
// burst at the edge of the window is smoothed by pruning on every check
// rather than resetting at fixed intervals.
type Limiter struct {
	mu      sync.Mutex
	windows *store.Store[string, []time.Time]
	limit   int
	window  time.Duration
}

// New creates a limiter. limit and window must be positive.
func New(limit int, window time.Duration) (*Limiter, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("rate limit must be positive, got %d", limit)
	}
	if window <= 0 {
		return nil, fmt.Errorf("rate window must be positive, got %s", window)
	}
	return &Limiter{
		windows: store.New[string, []time.Time](),
		limit:   limit,
		window:  window,
	}, nil
}

// Allow reports whether the identity may issue a request now. Allowed
// requests are recorded against the window; denied ones are not.
func (l *Limiter) Allow(identity string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	times := l.prune(identity, now)

	if len(times) >= l.limit {
		// Re-store the pruned window so the entry's expiry tracks the
		// newest recorded request.
		l.windows.Set(identity, times, l.window)
		return false
	}

	times = append(times, now)
	l.windows.Set(identity, times, l.window)
	return true
}

// Remaining returns how many requests the identity has left in the
// current window, floored at zero. It does not mutate limiter state.
func (l *Limiter) Remaining(identity string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	times, ok := l.windows.Get(identity)
	if !ok {
		return l.limit
	}

	cutoff := time.Now().Add(-l.window)
	live := 0
	for _, ts := range times {
		if ts.After(cutoff) {
			live++
		}
	}

	if live >= l.limit {
		return 0
	}
	return l.limit - live
}

// Limit returns the configured per-window request limit.
func (l *Limiter) Limit() int { return l.limit }

// Sweep drops identities whose entire window has lapsed.
func (l *Limiter) Sweep() int {
	return l.windows.Sweep()
}

// prune returns the identity's timestamps still inside the window.
func (l *Limiter) prune(identity string, now time.Time) []time.Time {
	times, ok := l.windows.Get(identity)
	if !ok {
		return nil
	}

	cutoff := now.Add(-l.window)
	kept := times[:0]
	for _, ts := range times {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	return kept
}
