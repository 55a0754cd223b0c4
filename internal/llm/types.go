package llm

import "context"

// Role represents the role of a message sender in a conversation.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message represents a single message in a conversation.
type Message struct {
	Role    Role
	Content string
}

// CompletionRequest contains the parameters for an LLM completion request.
type CompletionRequest struct {
	Model       string
	Messages    []Message
	MaxTokens   int
	Temperature float64
}

// CompletionResponse contains the result of an LLM completion request.
type CompletionResponse struct {
	Content      string
	InputTokens  int
	OutputTokens int
	Model        string
	FinishReason string
}

// Provider is a chat completion backend.
type Provider interface {
	// Name returns the provider identifier, e.g. "anthropic".
	Name() string

	// Complete performs a blocking completion request.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
}

// Streamer is implemented by providers that support incremental
// responses. Chunks arrive on the returned channel, which is closed
// when the response finishes or the context is cancelled.
type Streamer interface {
	CompleteStream(ctx context.Context, req CompletionRequest) (<-chan string, error)
}
