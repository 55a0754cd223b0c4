package chat

import (
	"time"

	"github.com/ziadkadry99/shopbot/internal/session"
)

// maxMessageLength bounds a single user message.
const maxMessageLength = 2000

// Request is one conversational turn from the client. SessionID is
// optional; when absent a new session is started.
type Request struct {
	SessionID string         `json:"session_id,omitempty"`
	Message   string         `json:"message"`
	Context   map[string]any `json:"context,omitempty"`
}

// Response is the assistant's answer plus the conversation state that
// produced it.
type Response struct {
	SessionID        string         `json:"session_id"`
	Message          string         `json:"message"`
	Intent           string         `json:"intent,omitempty"`
	Entities         map[string]any `json:"entities,omitempty"`
	SuggestedActions []string       `json:"suggested_actions,omitempty"`
	Products         []any          `json:"products,omitempty"`
}

// HistoryResponse returns a session's transcript.
type HistoryResponse struct {
	SessionID    string         `json:"session_id"`
	History      []session.Turn `json:"history"`
	CreatedAt    time.Time      `json:"created_at"`
	LastActivity time.Time      `json:"last_activity"`
}
