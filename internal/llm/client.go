// Package llm provides LLM client interfaces and implementations.
package llm

import (
	"context"
	"errors"
	"fmt"
)

// HistoryWindow is the number of most recent conversation messages sent
// upstream. Older turns are silently dropped from the model's context.
const HistoryWindow = 10

// ErrUpstream marks a failed completion call (timeout, non-2xx, network
// failure). Callers decide whether it is surfaced or swallowed.
var ErrUpstream = errors.New("upstream completion failure")

// ChatMessage represents a chat message for LLM.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest represents a completion request.
type CompletionRequest struct {
	Model       string
	Messages    []ChatMessage
	MaxTokens   int
	Temperature float64
}

// CompletionResponse represents a completion response.
type CompletionResponse struct {
	Content    string
	Model      string
	TokensIn   int
	TokensOut  int
	StopReason string
	LatencyMs  int64
}

// Client is the interface for LLM providers.
type Client interface {
	// Complete sends a completion request and returns the response.
	Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error)

	// Name returns the provider name.
	Name() string
}

// Provider is the type of LLM provider.
type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
)

// NewClient creates a new LLM client based on provider.
func NewClient(provider Provider, apiKey string) (Client, error) {
	switch provider {
	case ProviderAnthropic:
		return NewAnthropicClient(apiKey)
	case ProviderOpenAI:
		return NewOpenAIClient(apiKey)
	default:
		return NewOpenAIClient(apiKey)
	}
}

// BuildMessages bounds the history to the most recent HistoryWindow entries
// and prepends the persona script as the system message.
func BuildMessages(script string, history []ChatMessage) []ChatMessage {
	if len(history) > HistoryWindow {
		history = history[len(history)-HistoryWindow:]
	}

	out := make([]ChatMessage, 0, len(history)+1)
	out = append(out, ChatMessage{Role: "system", Content: script})
	out = append(out, history...)
	return out
}

func upstreamErr(provider string, err error) error {
	return fmt.Errorf("%s: %w: %v", provider, ErrUpstream, err)
}
