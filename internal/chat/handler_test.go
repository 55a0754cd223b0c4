package chat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/shopbot/internal/copilot"
	"github.com/ziadkadry99/shopbot/internal/intent"
	"github.com/ziadkadry99/shopbot/internal/llm"
	"github.com/ziadkadry99/shopbot/internal/ratelimit"
	"github.com/ziadkadry99/shopbot/internal/session"
)

type fakeProvider struct {
	response string
	err      error
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Complete(_ context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &llm.CompletionResponse{Content: f.response, Model: req.Model}, nil
}

func newTestHandler(t *testing.T, limiter *ratelimit.Limiter, response string) (*Handler, *session.Manager) {
	t.Helper()

	sessions := session.NewManager(time.Minute, 20)
	cp := copilot.NewClient(&fakeProvider{response: response}, nil, copilot.Options{
		Model:     "test-model",
		MaxTokens: 256,
	})
	return NewHandler(limiter, sessions, intent.NewClassifier(), cp), sessions
}

func TestHandleCreatesSession(t *testing.T) {
	h, sessions := newTestHandler(t, nil, "The iPhone 15 Pro Max is in stock.")

	resp, err := h.Handle(context.Background(), "client-1", Request{
		Message: "I'm looking for a black iPhone",
	})
	if err != nil {
		t.Fatalf("handle failed: %v", err)
	}

	if resp.SessionID == "" {
		t.Fatal("expected a new session ID")
	}
	if resp.Intent != "search_product" {
		t.Errorf("expected search_product intent, got %q", resp.Intent)
	}
	if resp.Entities["product_name"] != "iPhone" {
		t.Errorf("expected iPhone entity, got %v", resp.Entities)
	}
	if resp.Entities["color"] != "black" {
		t.Errorf("expected black color entity, got %v", resp.Entities)
	}

	sess := sessions.Get(resp.SessionID)
	if sess == nil {
		t.Fatal("session should exist after the exchange")
	}
	turns := sess.History()
	if len(turns) != 2 {
		t.Fatalf("expected user and assistant turns recorded, got %d", len(turns))
	}
	if turns[0].Role != session.RoleUser || turns[0].Intent != "search_product" {
		t.Errorf("user turn not recorded with its intent: %+v", turns[0])
	}
	if turns[1].Role != session.RoleAssistant || turns[1].Content == "" {
		t.Errorf("assistant turn not recorded: %+v", turns[1])
	}

	ctxSnap := sess.ContextSnapshot()
	if ctxSnap["product_name"] != "iPhone" {
		t.Error("entities should be merged into the session context")
	}
}

func TestHandleContinuesSession(t *testing.T) {
	h, _ := newTestHandler(t, nil, "ok")

	first, err := h.Handle(context.Background(), "client-1", Request{Message: "hello"})
	if err != nil {
		t.Fatalf("handle failed: %v", err)
	}

	second, err := h.Handle(context.Background(), "client-1", Request{
		SessionID: first.SessionID,
		Message:   "how much is it?",
	})
	if err != nil {
		t.Fatalf("handle failed: %v", err)
	}
	if second.SessionID != first.SessionID {
		t.Error("follow-up should stay in the same session")
	}

	hist, err := h.History(first.SessionID)
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if len(hist.History) != 4 {
		t.Fatalf("expected 4 turns after two exchanges, got %d", len(hist.History))
	}
}

func TestHandleUnknownSession(t *testing.T) {
	h, _ := newTestHandler(t, nil, "ok")

	_, err := h.Handle(context.Background(), "client-1", Request{
		SessionID: "nope",
		Message:   "hello",
	})
	if !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestHandleRateLimited(t *testing.T) {
	limiter, err := ratelimit.New(2, time.Minute)
	if err != nil {
		t.Fatalf("limiter: %v", err)
	}
	h, _ := newTestHandler(t, limiter, "ok")

	for i := 0; i < 2; i++ {
		if _, err := h.Handle(context.Background(), "client-1", Request{Message: "hi"}); err != nil {
			t.Fatalf("request %d should pass: %v", i+1, err)
		}
	}

	_, err = h.Handle(context.Background(), "client-1", Request{Message: "hi"})
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
	if got := limiter.Remaining("client-1"); got != 0 {
		t.Errorf("expected 0 remaining, got %d", got)
	}

	// A different caller has its own window.
	if _, err := h.Handle(context.Background(), "client-2", Request{Message: "hi"}); err != nil {
		t.Fatalf("other client should not be limited: %v", err)
	}
}

func TestHandleValidation(t *testing.T) {
	h, _ := newTestHandler(t, nil, "ok")

	if _, err := h.Handle(context.Background(), "c", Request{}); err == nil {
		t.Error("empty message should be rejected")
	}
	if _, err := h.Handle(context.Background(), "c", Request{Message: strings.Repeat("x", maxMessageLength+1)}); err == nil {
		t.Error("oversized message should be rejected")
	}
}

func TestHandleProviderFailure(t *testing.T) {
	sessions := session.NewManager(time.Minute, 20)
	cp := copilot.NewClient(&fakeProvider{err: errors.New("upstream down")}, nil, copilot.Options{Model: "m"})
	h := NewHandler(nil, sessions, intent.NewClassifier(), cp)

	resp, err := h.Handle(context.Background(), "c", Request{Message: "hello"})
	if err == nil {
		t.Fatalf("expected error, got %+v", resp)
	}
	if errors.Is(err, ErrRateLimited) || errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("provider failure should not map to a client error: %v", err)
	}
}

func TestHandleStructuredReply(t *testing.T) {
	reply := "Here are some options.\n```json\n{\"suggested_actions\": [\"view p001\"], \"products\": [{\"id\": \"p001\"}]}\n```"
	h, _ := newTestHandler(t, nil, reply)

	resp, err := h.Handle(context.Background(), "c", Request{Message: "recommend a phone"})
	if err != nil {
		t.Fatalf("handle failed: %v", err)
	}
	if len(resp.SuggestedActions) != 1 || resp.SuggestedActions[0] != "view p001" {
		t.Errorf("suggested actions not extracted: %v", resp.SuggestedActions)
	}
	if len(resp.Products) != 1 {
		t.Errorf("products not extracted: %v", resp.Products)
	}
}

func TestDeleteSession(t *testing.T) {
	h, _ := newTestHandler(t, nil, "ok")

	resp, err := h.Handle(context.Background(), "c", Request{Message: "hello"})
	if err != nil {
		t.Fatalf("handle failed: %v", err)
	}

	if err := h.DeleteSession(resp.SessionID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := h.DeleteSession(resp.SessionID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("second delete should report ErrSessionNotFound, got %v", err)
	}
	if _, err := h.History(resp.SessionID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("history after delete should report ErrSessionNotFound, got %v", err)
	}
}

func TestHistoryConcurrentWithChat(t *testing.T) {
	h, _ := newTestHandler(t, nil, "ok")

	first, err := h.Handle(context.Background(), "c", Request{Message: "hello"})
	if err != nil {
		t.Fatalf("handle failed: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				h.Handle(context.Background(), "c", Request{
					SessionID: first.SessionID,
					Message:   "and again",
				})
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				if _, err := h.History(first.SessionID); err != nil {
					t.Errorf("history: %v", err)
				}
			}
		}()
	}
	wg.Wait()
}

func newTestRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()
	RegisterRoutes(r, h)
	return r
}

func TestChatEndpoint(t *testing.T) {
	h, _ := newTestHandler(t, nil, "hello there")
	r := newTestRouter(h)

	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"message": "hi"}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp Response
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Message != "hello there" || resp.SessionID == "" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestChatEndpointStatusMapping(t *testing.T) {
	limiter, err := ratelimit.New(1, time.Minute)
	if err != nil {
		t.Fatalf("limiter: %v", err)
	}
	h, _ := newTestHandler(t, limiter, "ok")
	r := newTestRouter(h)

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(body))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	if rec := post(`{"message": "hi", "session_id": "ghost"}`); rec.Code != http.StatusNotFound {
		t.Errorf("unknown session: expected 404, got %d", rec.Code)
	}
	if rec := post(`{"message": ""}`); rec.Code != http.StatusBadRequest {
		t.Errorf("empty message: expected 400, got %d", rec.Code)
	}
	if rec := post(`not json`); rec.Code != http.StatusBadRequest {
		t.Errorf("bad body: expected 400, got %d", rec.Code)
	}

	// The unknown-session attempt above consumed the only slot in the
	// window, so the next request is limited.
	if rec := post(`{"message": "hi"}`); rec.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429, got %d", rec.Code)
	}
}

func TestHistoryEndpoint(t *testing.T) {
	h, _ := newTestHandler(t, nil, "ok")
	r := newTestRouter(h)

	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"message": "hi"}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	var resp Response
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/chat/history/"+resp.SessionID, nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var hist HistoryResponse
	if err := json.NewDecoder(rec.Body).Decode(&hist); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(hist.History) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(hist.History))
	}

	req = httptest.NewRequest(http.MethodGet, "/api/chat/history/ghost", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown session, got %d", rec.Code)
	}
}

// deadlineProvider fails once its context is done, like a real HTTP
// client would.
type deadlineProvider struct {
	response string
}

func (p *deadlineProvider) Name() string { return "deadline" }

func (p *deadlineProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &llm.CompletionResponse{Content: p.response, Model: req.Model}, nil
}

func TestWebsocketOutlivesRequestTimeout(t *testing.T) {
	sessions := session.NewManager(time.Minute, 20)
	cp := copilot.NewClient(&deadlineProvider{response: "still here"}, nil, copilot.Options{Model: "m"})
	h := NewHandler(nil, sessions, intent.NewClassifier(), cp)

	r := chi.NewRouter()
	r.Use(middleware.Timeout(100 * time.Millisecond))
	RegisterRoutes(r, h)
	srv := httptest.NewServer(r)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/api/chat/ws", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	turn := func() {
		t.Helper()
		if err := conn.WriteJSON(wsRequest{Message: "hi"}); err != nil {
			t.Fatalf("write: %v", err)
		}
		for {
			var ev wsEvent
			if err := conn.ReadJSON(&ev); err != nil {
				t.Fatalf("read: %v", err)
			}
			if ev.Error != "" {
				t.Fatalf("turn failed: %s", ev.Error)
			}
			if ev.Type == "done" {
				return
			}
		}
	}

	turn()
	// Let the per-request budget lapse; the socket must keep working.
	time.Sleep(150 * time.Millisecond)
	turn()
}
