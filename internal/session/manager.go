// Package session manages in-memory conversation sessions with
// idle-timeout expiry, bounded turn history, and periodic cleanup.
package session

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ziadkadry99/shopbot/internal/store"
)

const (
	// DefaultIdleTimeout matches the original 30-minute session timeout.
	DefaultIdleTimeout = 30 * time.Minute
	// DefaultMaxHistory bounds the turns kept per session. Ten
	// exchanges, user and assistant each counted separately.
	DefaultMaxHistory = 20
)

// Manager owns the session store. A session is logically gone once it
// has been idle longer than the timeout, even before a sweep removes
// it; every successful read or mutation refreshes the idle clock.
type Manager struct {
	sessions    *store.Store[string, *Session]
	idleTimeout time.Duration
	maxHistory  int
	persister   Persister
}

// Option configures a Manager.
type Option func(*Manager)

// WithPersister sets the hook invoked after each appended turn.
func WithPersister(p Persister) Option {
	return func(m *Manager) { m.persister = p }
}

// NewManager creates a session manager. Non-positive arguments fall
// back to the defaults.
func NewManager(idleTimeout time.Duration, maxHistory int, opts ...Option) *Manager {
	if idleTimeout <= 0 {
		idleTimeout = DefaultIdleTimeout
	}
	if maxHistory <= 0 {
		maxHistory = DefaultMaxHistory
	}

	m := &Manager{
		sessions:    store.New[string, *Session](),
		idleTimeout: idleTimeout,
		maxHistory:  maxHistory,
		persister:   NopPersister{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create allocates a new session. userID may be empty for anonymous
// conversations.
func (m *Manager) Create(userID string) *Session {
	now := time.Now()
	sess := &Session{
		ID:           uuid.New().String(),
		UserID:       userID,
		CreatedAt:    now,
		LastActivity: now,
		Context:      make(map[string]any),
		Metadata:     make(map[string]any),
	}
	m.sessions.Set(sess.ID, sess, m.idleTimeout)
	return sess
}

// Get returns the session for id, refreshing its idle clock. It returns
// nil for unknown, deleted, or idle-expired sessions; an expired entry
// is removed as a side effect, so the miss looks the same as a session
// that never existed.
func (m *Manager) Get(id string) *Session {
	sess, ok := m.sessions.Get(id)
	if !ok {
		return nil
	}
	m.touch(sess)
	return sess
}

// AppendTurn adds a turn to the session's history, evicting the oldest
// turns beyond the history bound. It reports false if the session is
// absent or expired.
func (m *Manager) AppendTurn(id string, turn Turn) bool {
	sess, ok := m.sessions.Get(id)
	if !ok {
		return false
	}
	if turn.Timestamp.IsZero() {
		turn.Timestamp = time.Now()
	}

	sess.mu.Lock()
	sess.Turns = append(sess.Turns, turn)
	if excess := len(sess.Turns) - m.maxHistory; excess > 0 {
		sess.Turns = append(sess.Turns[:0], sess.Turns[excess:]...)
	}
	sess.mu.Unlock()

	m.touch(sess)
	m.persister.SaveTurn(sess.ID, turn)
	return true
}

// MergeContext shallow-merges partial into the session context: new
// keys overwrite existing ones of the same name, unrelated keys are
// kept. Reports false if the session is absent or expired.
func (m *Manager) MergeContext(id string, partial map[string]any) bool {
	return m.merge(id, partial, func(sess *Session) map[string]any { return sess.Context })
}

// MergeMetadata shallow-merges partial into the session metadata, with
// the same presence semantics as MergeContext.
func (m *Manager) MergeMetadata(id string, partial map[string]any) bool {
	return m.merge(id, partial, func(sess *Session) map[string]any { return sess.Metadata })
}

func (m *Manager) merge(id string, partial map[string]any, pick func(*Session) map[string]any) bool {
	sess, ok := m.sessions.Get(id)
	if !ok {
		return false
	}

	sess.mu.Lock()
	target := pick(sess)
	for k, v := range partial {
		target[k] = v
	}
	sess.mu.Unlock()

	m.touch(sess)
	return true
}

// Delete removes the session and reports whether one existed.
func (m *Manager) Delete(id string) bool {
	return m.sessions.Delete(id)
}

// SweepExpired removes every idle-expired session and returns the
// count. Intended to be driven by a Sweeper; correctness does not
// depend on it because Get expires lazily.
func (m *Manager) SweepExpired() int {
	return m.sessions.Sweep()
}

// Count returns the number of sessions physically present, including
// expired ones awaiting a sweep.
func (m *Manager) Count() int {
	return m.sessions.Len()
}

// ActiveWithin lists the IDs of sessions whose last activity falls
// inside the given recency window. Read-only.
func (m *Manager) ActiveWithin(d time.Duration) []string {
	cutoff := time.Now().Add(-d)
	var ids []string
	m.sessions.Range(func(id string, sess *Session) bool {
		sess.mu.Lock()
		active := sess.LastActivity.After(cutoff)
		sess.mu.Unlock()
		if active {
			ids = append(ids, id)
		}
		return true
	})
	return ids
}

// touch refreshes the session's last activity and its store expiry.
func (m *Manager) touch(sess *Session) {
	sess.mu.Lock()
	sess.LastActivity = time.Now()
	sess.mu.Unlock()
	m.sessions.Set(sess.ID, sess, m.idleTimeout)
}

// Stats reports totals for diagnostics.
func (m *Manager) Stats() string {
	return fmt.Sprintf("sessions=%d active_5m=%d", m.Count(), len(m.ActiveWithin(5*time.Minute)))
}
