package session

import (
	"sync"
	"time"
)

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is a single message in a conversation.
type Turn struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Intent    string    `json:"intent,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Session holds the state of one conversation: its turn history plus
// free-form context and metadata maps. The embedded mutex serializes
// mutations on the same session; sessions with different IDs never
// contend with each other.
type Session struct {
	mu sync.Mutex

	ID           string         `json:"session_id"`
	UserID       string         `json:"user_id,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	LastActivity time.Time      `json:"last_activity"`
	Turns        []Turn         `json:"history"`
	Context      map[string]any `json:"context"`
	Metadata     map[string]any `json:"metadata"`
}

// History returns a copy of the session's turns, oldest first.
func (s *Session) History() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()

	turns := make([]Turn, len(s.Turns))
	copy(turns, s.Turns)
	return turns
}

// Timestamps returns the session's creation and last-activity times.
func (s *Session) Timestamps() (created, lastActivity time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.CreatedAt, s.LastActivity
}

// ContextSnapshot returns a shallow copy of the context map.
func (s *Session) ContextSnapshot() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := make(map[string]any, len(s.Context))
	for k, v := range s.Context {
		snap[k] = v
	}
	return snap
}
