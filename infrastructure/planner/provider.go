package planner

import "context"

// Chat roles understood by providers.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Provider is a chat completion backend for the LLM planner.
type Provider interface {
	Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error)
	// Name identifies the provider in logs.
	Name() string
}

// CompletionRequest is one chat completion call. An empty Model means the
// provider's default.
type CompletionRequest struct {
	Model       string
	Messages    []Message
	Temperature float64
	MaxTokens   int
}

// Message is one chat turn.
type Message struct {
	Role    string
	Content string
}

// CompletionResponse is the first choice of a completion. Error is set by
// providers that report API failures in-band instead of returning them.
type CompletionResponse struct {
	ID      string
	Model   string
	Message Message
	Usage   Usage
	Error   *APIError
}

// Usage counts tokens.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// APIError is a provider-side failure.
type APIError struct {
	Type    string
	Message string
	Code    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return e.Type + ": " + e.Message + " (" + e.Code + ")"
	}
	return e.Type + ": " + e.Message
}
