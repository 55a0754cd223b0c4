// Package copilot turns a raw LLM provider into the shopping
// assistant: it owns the assistant persona, folds conversation state
// into each request, and post-processes replies into structured data.
package copilot

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/ziadkadry99/shopbot/internal/cache"
	"github.com/ziadkadry99/shopbot/internal/llm"
)

const systemPrompt = `You are a professional e-commerce shopping assistant called "ShopBot". Your responsibilities:

1. **Product advice**: help users find suitable products and give informed purchase recommendations
2. **Order queries**: assist with order status and shipping information
3. **After-sales service**: handle returns, refunds, and complaints
4. **Shopping guidance**: usage instructions, size advice, product comparisons

Reply requirements:
- Friendly, professional, concise
- Understand what the user actually needs, never answer mechanically
- Proactively offer useful suggestions
- When a request cannot be handled, direct the user to human support
- Return structured data as JSON when appropriate

Current time: %s
`

const (
	searchIntentTTL     = 30 * time.Minute
	searchIntentTimeout = 10 * time.Second
)

// ConversationContext carries the session state a reply should take
// into account.
type ConversationContext struct {
	History  []llm.Message
	Intent   string
	Entities map[string]any
}

// Reply is a completed assistant turn. Data holds any structured JSON
// the model embedded in its answer.
type Reply struct {
	Message string         `json:"message"`
	Data    map[string]any `json:"data,omitempty"`
}

// SearchIntent is the model's reading of a free-form search query.
type SearchIntent struct {
	EnhancedQuery string            `json:"enhanced_query"`
	Intent        string            `json:"intent,omitempty"`
	Category      string            `json:"category,omitempty"`
	Attributes    map[string]string `json:"attributes,omitempty"`
	PriceRange    *PriceRange       `json:"price_range,omitempty"`
	Insights      string            `json:"insights,omitempty"`
}

// PriceRange bounds a search by price.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Recommendation is one entry of a personalized product list.
type Recommendation struct {
	ProductID string  `json:"product_id"`
	Reason    string  `json:"reason"`
	Score     float64 `json:"score"`
}

// Options configures a Client.
type Options struct {
	Model       string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
	MaxHistory  int
}

// Client drives conversations against an LLM provider.
type Client struct {
	provider llm.Provider
	cache    *cache.Cache
	opts     Options
	now      func() time.Time
}

// NewClient creates a copilot client. cache may be nil, in which case
// search intent analysis is recomputed on every call.
func NewClient(provider llm.Provider, c *cache.Cache, opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.MaxHistory <= 0 {
		opts.MaxHistory = 10
	}
	return &Client{provider: provider, cache: c, opts: opts, now: time.Now}
}

// Chat sends a message and returns the assistant's reply.
func (c *Client) Chat(ctx context.Context, message string, cc *ConversationContext) (*Reply, error) {
	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	req := llm.CompletionRequest{
		Model:       c.opts.Model,
		Messages:    c.buildMessages(message, cc, true),
		MaxTokens:   c.opts.MaxTokens,
		Temperature: c.opts.Temperature,
	}

	resp, err := c.provider.Complete(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("copilot request: %w", err)
	}

	return parseReply(resp.Content), nil
}

// ChatStream sends a message and returns the reply as a stream of text
// chunks. Providers without streaming support deliver the full reply as
// a single chunk.
func (c *Client) ChatStream(ctx context.Context, message string, cc *ConversationContext) (<-chan string, error) {
	req := llm.CompletionRequest{
		Model:       c.opts.Model,
		Messages:    c.buildMessages(message, cc, false),
		MaxTokens:   c.opts.MaxTokens,
		Temperature: c.opts.Temperature,
	}

	if s, ok := c.provider.(llm.Streamer); ok {
		ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
		stream, err := s.CompleteStream(ctx, req)
		if err != nil {
			cancel()
			return nil, fmt.Errorf("copilot request: %w", err)
		}
		out := make(chan string)
		go func() {
			defer cancel()
			defer close(out)
			for chunk := range stream {
				out <- chunk
			}
		}()
		return out, nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	resp, err := c.provider.Complete(ctx, req)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("copilot request: %w", err)
	}

	ch := make(chan string, 1)
	ch <- resp.Content
	close(ch)
	return ch, nil
}

// AnalyzeSearchIntent asks the model to refine a search query. It never
// fails: on any error the raw query is returned as the enhanced query.
// Results are cached so repeated queries skip the model.
func (c *Client) AnalyzeSearchIntent(ctx context.Context, query string) SearchIntent {
	produce := func() (SearchIntent, error) {
		return c.analyzeSearchIntent(ctx, query), nil
	}

	if c.cache == nil {
		intent, _ := produce()
		return intent
	}

	key := cache.Key("search_intent", map[string]any{"query": query})
	intent, _ := cache.Memoize(c.cache, key, searchIntentTTL, produce)
	return intent
}

func (c *Client) analyzeSearchIntent(ctx context.Context, query string) SearchIntent {
	fallback := SearchIntent{EnhancedQuery: query}

	prompt := fmt.Sprintf(`Analyze the following search query. Extract the key information and improve the search terms.

User query: %s

Return JSON in this shape:
{
    "enhanced_query": "improved search terms",
    "intent": "search intent (browse/buy/compare/ask)",
    "category": "product category",
    "attributes": {"color": "red", "size": "L"},
    "price_range": {"min": 100, "max": 500},
    "insights": "what the user is likely after"
}`, query)

	ctx, cancel := context.WithTimeout(ctx, searchIntentTimeout)
	defer cancel()

	resp, err := c.provider.Complete(ctx, llm.CompletionRequest{
		Model:       c.opts.Model,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: prompt}},
		MaxTokens:   1024,
		Temperature: 0.3,
	})
	if err != nil {
		log.Printf("search intent analysis failed, using raw query: %v", err)
		return fallback
	}

	var intent SearchIntent
	if raw := extractJSON(resp.Content); raw == nil || json.Unmarshal(raw, &intent) != nil {
		return fallback
	}
	if intent.EnhancedQuery == "" {
		intent.EnhancedQuery = query
	}
	return intent
}

// Recommend generates a personalized product list from a user profile
// and recent browsing history. Failures degrade to an empty list.
func (c *Client) Recommend(ctx context.Context, profile map[string]any, browsing []map[string]any, limit int) []Recommendation {
	if limit <= 0 {
		limit = 5
	}
	if len(browsing) > 10 {
		browsing = browsing[len(browsing)-10:]
	}

	profileJSON, _ := json.Marshal(profile)
	browsingJSON, _ := json.Marshal(browsing)

	prompt := fmt.Sprintf(`Based on the user profile and browsing history, recommend suitable products.

User profile: %s
Browsing history: %s

Recommend %d products, returned as JSON:
[
    {
        "product_id": "product ID",
        "reason": "why it fits",
        "score": 0.95
    }
]`, profileJSON, browsingJSON, limit)

	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	resp, err := c.provider.Complete(ctx, llm.CompletionRequest{
		Model:       c.opts.Model,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: prompt}},
		MaxTokens:   2048,
		Temperature: 0.5,
	})
	if err != nil {
		log.Printf("recommendation generation failed: %v", err)
		return nil
	}

	var recs []Recommendation
	if raw := extractJSON(resp.Content); raw == nil || json.Unmarshal(raw, &recs) != nil {
		return nil
	}
	return recs
}

// buildMessages assembles the request transcript: system persona,
// bounded history, then the new user message.
func (c *Client) buildMessages(message string, cc *ConversationContext, withState bool) []llm.Message {
	system := fmt.Sprintf(systemPrompt, c.now().Format("2006-01-02 15:04:05"))

	if withState && cc != nil {
		if cc.Intent != "" {
			system += fmt.Sprintf("\n\nCurrent user intent: %s", cc.Intent)
		}
		if len(cc.Entities) > 0 {
			if entities, err := json.Marshal(cc.Entities); err == nil {
				system += fmt.Sprintf("\nRecognized entities: %s", entities)
			}
		}
	}

	messages := []llm.Message{{Role: llm.RoleSystem, Content: system}}
	if cc != nil && len(cc.History) > 0 {
		history := cc.History
		if len(history) > c.opts.MaxHistory {
			history = history[len(history)-c.opts.MaxHistory:]
		}
		messages = append(messages, history...)
	}
	return append(messages, llm.Message{Role: llm.RoleUser, Content: message})
}

func parseReply(content string) *Reply {
	reply := &Reply{Message: content}

	raw := extractJSON(content)
	if raw == nil {
		return reply
	}
	var data map[string]any
	if json.Unmarshal(raw, &data) == nil {
		reply.Data = data
	}
	return reply
}
