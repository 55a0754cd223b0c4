package chat

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/shopbot/internal/copilot"
	"github.com/ziadkadry99/shopbot/internal/session"
)

// RegisterRoutes mounts the chat API routes.
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/api/chat", func(r chi.Router) {
		r.Post("/", handleChat(h))
		r.Get("/history/{id}", handleHistory(h))
		r.Delete("/session/{id}", handleDeleteSession(h))
		r.Get("/ws", handleWebsocket(h))
	})
}

func handleChat(h *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}
		if req.Message == "" {
			http.Error(w, `{"error":"message is required"}`, http.StatusBadRequest)
			return
		}

		resp, err := h.Handle(r.Context(), clientIdentity(r), req)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, resp)
	}
}

func handleHistory(h *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := h.History(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, resp)
	}
}

func handleDeleteSession(h *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := h.DeleteSession(id); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, map[string]string{"message": "session cleared", "session_id": id})
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The API is served cross-origin behind CORS; the websocket follows
	// the same policy.
	CheckOrigin: func(*http.Request) bool { return true },
}

type wsRequest struct {
	Message string `json:"message"`
}

type wsEvent struct {
	Type      string         `json:"type,omitempty"`
	Intent    string         `json:"intent,omitempty"`
	Entities  map[string]any `json:"entities,omitempty"`
	Content   string         `json:"content,omitempty"`
	SessionID string         `json:"session_id,omitempty"`
	Error     string         `json:"error,omitempty"`
}

// handleWebsocket runs a streaming conversation. Each request on the
// socket produces an intent event, a series of message_chunk events,
// and a final done event carrying the session ID.
func handleWebsocket(h *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("websocket upgrade failed: %v", err)
			return
		}
		defer conn.Close()

		// The request context carries the router's per-request timeout,
		// which would kill streaming on any socket older than that
		// budget. The connection is long-lived, so detach from it; each
		// copilot call applies its own timeout.
		ctx := context.WithoutCancel(r.Context())

		var sessionID string
		for {
			var req wsRequest
			if err := conn.ReadJSON(&req); err != nil {
				log.Printf("websocket closed: %s", sessionID)
				return
			}
			if req.Message == "" {
				conn.WriteJSON(wsEvent{Error: "message is required"})
				continue
			}

			if sessionID == "" {
				sessionID = h.sessions.Create("").ID
			}
			sess := h.sessions.Get(sessionID)
			if sess == nil {
				// Idle-expired mid-conversation; start fresh.
				sess = h.sessions.Create("")
				sessionID = sess.ID
			}
			history := sess.History()

			result := h.classifier.Classify(req.Message, toIntentHistory(history))
			if err := conn.WriteJSON(wsEvent{Type: "intent", Intent: result.Intent, Entities: result.Entities}); err != nil {
				return
			}

			cc := &copilot.ConversationContext{
				History:  toMessages(history),
				Intent:   result.Intent,
				Entities: result.Entities,
			}
			stream, err := h.copilot.ChatStream(ctx, req.Message, cc)
			if err != nil {
				conn.WriteJSON(wsEvent{Error: err.Error()})
				continue
			}

			var reply []byte
			failed := false
			for chunk := range stream {
				reply = append(reply, chunk...)
				if err := conn.WriteJSON(wsEvent{Type: "message_chunk", Content: chunk}); err != nil {
					failed = true
					break
				}
			}
			if failed {
				return
			}

			h.sessions.AppendTurn(sessionID, session.Turn{
				Role:    session.RoleUser,
				Content: req.Message,
				Intent:  result.Intent,
			})
			h.sessions.AppendTurn(sessionID, session.Turn{
				Role:    session.RoleAssistant,
				Content: string(reply),
			})

			if err := conn.WriteJSON(wsEvent{Type: "done", SessionID: sessionID}); err != nil {
				return
			}
		}
	}
}

// clientIdentity keys the rate limiter. RealIP middleware has already
// normalized RemoteAddr.
func clientIdentity(r *http.Request) string {
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}
	return "unknown"
}

// writeError maps pipeline errors onto HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrRateLimited):
		status = http.StatusTooManyRequests
	case errors.Is(err, ErrSessionNotFound):
		status = http.StatusNotFound
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
