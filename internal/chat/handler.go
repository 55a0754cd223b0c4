// Package chat wires the conversational pipeline together: rate
// limiting, session state, intent classification, and the copilot
// reply, exposed over HTTP and websocket.
package chat

import (
	"context"
	"fmt"
	"log"

	"github.com/ziadkadry99/shopbot/internal/copilot"
	"github.com/ziadkadry99/shopbot/internal/intent"
	"github.com/ziadkadry99/shopbot/internal/llm"
	"github.com/ziadkadry99/shopbot/internal/ratelimit"
	"github.com/ziadkadry99/shopbot/internal/session"
)

// Handler runs the conversation pipeline for one incoming message.
type Handler struct {
	limiter    *ratelimit.Limiter // nil disables handler-level limiting
	sessions   *session.Manager
	classifier *intent.Classifier
	copilot    *copilot.Client
}

// NewHandler assembles a chat handler. limiter may be nil.
func NewHandler(limiter *ratelimit.Limiter, sessions *session.Manager, classifier *intent.Classifier, cp *copilot.Client) *Handler {
	return &Handler{
		limiter:    limiter,
		sessions:   sessions,
		classifier: classifier,
		copilot:    cp,
	}
}

// Handle processes one chat turn: admit the caller, resolve the
// session, classify the message, generate a reply, and record both
// sides of the exchange.
func (h *Handler) Handle(ctx context.Context, identity string, req Request) (*Response, error) {
	if req.Message == "" {
		return nil, fmt.Errorf("message is required")
	}
	if len(req.Message) > maxMessageLength {
		return nil, fmt.Errorf("message exceeds %d characters", maxMessageLength)
	}

	if h.limiter != nil && !h.limiter.Allow(identity) {
		return nil, fmt.Errorf("%w: %s", ErrRateLimited, identity)
	}

	var sess *session.Session
	if req.SessionID != "" {
		sess = h.sessions.Get(req.SessionID)
		if sess == nil {
			return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, req.SessionID)
		}
	} else {
		sess = h.sessions.Create("")
	}

	history := sess.History()
	log.Printf("session %s: %s", sess.ID, truncate(req.Message, 50))

	result := h.classifier.Classify(req.Message, toIntentHistory(history))
	log.Printf("classified intent %s (%.2f)", result.Intent, result.Confidence)

	reply, err := h.copilot.Chat(ctx, req.Message, &copilot.ConversationContext{
		History:  toMessages(history),
		Intent:   result.Intent,
		Entities: result.Entities,
	})
	if err != nil {
		return nil, fmt.Errorf("generate reply: %w", err)
	}

	h.sessions.AppendTurn(sess.ID, session.Turn{
		Role:    session.RoleUser,
		Content: req.Message,
		Intent:  result.Intent,
	})
	h.sessions.AppendTurn(sess.ID, session.Turn{
		Role:    session.RoleAssistant,
		Content: reply.Message,
	})
	if len(result.Entities) > 0 {
		h.sessions.MergeContext(sess.ID, result.Entities)
	}
	if len(req.Context) > 0 {
		h.sessions.MergeMetadata(sess.ID, req.Context)
	}

	resp := &Response{
		SessionID: sess.ID,
		Message:   reply.Message,
		Intent:    result.Intent,
		Entities:  result.Entities,
	}
	if reply.Data != nil {
		resp.SuggestedActions = toStrings(reply.Data["suggested_actions"])
		if products, ok := reply.Data["products"].([]any); ok {
			resp.Products = products
		}
	}
	return resp, nil
}

// History returns a session's transcript.
func (h *Handler) History(sessionID string) (*HistoryResponse, error) {
	sess := h.sessions.Get(sessionID)
	if sess == nil {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	created, lastActivity := sess.Timestamps()
	return &HistoryResponse{
		SessionID:    sess.ID,
		History:      sess.History(),
		CreatedAt:    created,
		LastActivity: lastActivity,
	}, nil
}

// DeleteSession removes a session and its history.
func (h *Handler) DeleteSession(sessionID string) error {
	if !h.sessions.Delete(sessionID) {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	return nil
}

func toIntentHistory(turns []session.Turn) []intent.HistoryTurn {
	out := make([]intent.HistoryTurn, len(turns))
	for i, t := range turns {
		out[i] = intent.HistoryTurn{Role: string(t.Role), Content: t.Content}
	}
	return out
}

func toMessages(turns []session.Turn) []llm.Message {
	out := make([]llm.Message, len(turns))
	for i, t := range turns {
		out[i] = llm.Message{Role: llm.Role(t.Role), Content: t.Content}
	}
	return out
}

func toStrings(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
