package planner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Defaults for the OpenAI-compatible provider.
const (
	DefaultOpenAIBaseURL = "https://api.openai.com"
	DefaultOpenAITimeout = 120 * time.Second
)

// OpenAIConfig configures the OpenAI provider.
type OpenAIConfig struct {
	APIKey string
	// BaseURL points at OpenAI or any compatible gateway (Ollama, vLLM, ...).
	// A trailing /v1 is added when missing.
	BaseURL string
	// Model is used when a request names none.
	Model   string
	Timeout time.Duration
}

// OpenAIProvider sends chat completions through the openai-go client.
// The client never retries; a failed call fails the planning round.
type OpenAIProvider struct {
	client  openai.Client
	baseURL string
	model   string
	timeout time.Duration
}

// NewOpenAIProvider creates an OpenAI provider.
func NewOpenAIProvider(cfg OpenAIConfig) *OpenAIProvider {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultOpenAITimeout
	}
	baseURL := apiBaseURL(cfg.BaseURL)

	return &OpenAIProvider{
		client: openai.NewClient(
			option.WithAPIKey(cfg.APIKey),
			option.WithBaseURL(baseURL),
			option.WithRequestTimeout(timeout),
			option.WithMaxRetries(0),
		),
		baseURL: baseURL,
		model:   cfg.Model,
		timeout: timeout,
	}
}

// apiBaseURL normalizes a host URL to the versioned API root the client
// resolves paths against.
func apiBaseURL(raw string) string {
	u := strings.TrimRight(strings.TrimSpace(raw), "/")
	if u == "" {
		u = DefaultOpenAIBaseURL
	}
	if !strings.HasSuffix(u, "/v1") {
		u += "/v1"
	}
	return u + "/"
}

// Name returns the provider name.
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// Complete implements Provider. Non-2xx answers wrap ErrProviderStatus and
// carry the decoded *APIError.
func (p *OpenAIProvider) Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error) {
	model := req.Model
	if model == "" {
		model = p.model
	}

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(model),
		Messages: toOpenAIMessages(req.Messages),
	}
	if req.Temperature > 0 {
		params.Temperature = openai.Float(req.Temperature)
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}

	completion, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return CompletionResponse{}, fmt.Errorf("%w: openai status %d: %w", ErrProviderStatus, apiErr.StatusCode, &APIError{
				Type:    apiErr.Type,
				Message: truncate(apiErr.Message, 500),
				Code:    apiErr.Code,
			})
		}
		return CompletionResponse{}, fmt.Errorf("openai request: %w", err)
	}

	if len(completion.Choices) == 0 {
		return CompletionResponse{}, ErrNoChoices
	}
	choice := completion.Choices[0]

	return CompletionResponse{
		ID:    completion.ID,
		Model: completion.Model,
		Message: Message{
			Role:    string(choice.Message.Role),
			Content: choice.Message.Content,
		},
		Usage: Usage{
			PromptTokens:     int(completion.Usage.PromptTokens),
			CompletionTokens: int(completion.Usage.CompletionTokens),
			TotalTokens:      int(completion.Usage.TotalTokens),
		},
	}, nil
}

func toOpenAIMessages(msgs []Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(msgs))
	for _, m := range msgs {
		switch m.Role {
		case RoleSystem:
			out = append(out, openai.SystemMessage(m.Content))
		case RoleAssistant:
			out = append(out, openai.AssistantMessage(m.Content))
		default:
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}
