package planner

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewOpenAIProvider(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		config      OpenAIConfig
		wantBaseURL string
		wantTimeout time.Duration
	}{
		{"defaults", OpenAIConfig{APIKey: "k"}, "https://api.openai.com/v1/", DefaultOpenAITimeout},
		{"host only", OpenAIConfig{BaseURL: "https://proxy.local/"}, "https://proxy.local/v1/", DefaultOpenAITimeout},
		{"already versioned", OpenAIConfig{BaseURL: "http://localhost:11434/v1"}, "http://localhost:11434/v1/", DefaultOpenAITimeout},
		{"custom timeout", OpenAIConfig{Timeout: 5 * time.Second}, "https://api.openai.com/v1/", 5 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := NewOpenAIProvider(tt.config)
			if p.baseURL != tt.wantBaseURL {
				t.Errorf("baseURL = %s, want %s", p.baseURL, tt.wantBaseURL)
			}
			if p.timeout != tt.wantTimeout {
				t.Errorf("timeout = %v, want %v", p.timeout, tt.wantTimeout)
			}
			if p.Name() != "openai" {
				t.Errorf("Name() = %s", p.Name())
			}
		})
	}
}

func TestOpenAIProvider_Complete(t *testing.T) {
	t.Parallel()

	t.Run("successful completion", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				t.Errorf("Method = %s, want POST", r.Method)
			}
			if r.URL.Path != "/v1/chat/completions" {
				t.Errorf("Path = %s, want /v1/chat/completions", r.URL.Path)
			}
			if r.Header.Get("Authorization") != "Bearer test-key" {
				t.Errorf("Authorization = %q", r.Header.Get("Authorization"))
			}

			var req struct {
				Model    string `json:"model"`
				Messages []struct {
					Role    string `json:"role"`
					Content string `json:"content"`
				} `json:"messages"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Errorf("failed to decode request: %v", err)
			}
			if req.Model != "gpt-4o-mini" {
				t.Errorf("Model = %s, want provider default gpt-4o-mini", req.Model)
			}
			if len(req.Messages) != 2 || req.Messages[0].Role != RoleSystem || req.Messages[1].Content != "Hello" {
				t.Errorf("Messages = %+v", req.Messages)
			}

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"id": "chatcmpl-1",
				"object": "chat.completion",
				"created": 1,
				"model": "gpt-4o-mini",
				"choices": [{"index": 0, "message": {"role": "assistant", "content": "{\"decisions\": []}"}, "finish_reason": "stop"}],
				"usage": {"prompt_tokens": 5, "completion_tokens": 3, "total_tokens": 8}
			}`))
		}))
		defer server.Close()

		p := NewOpenAIProvider(OpenAIConfig{APIKey: "test-key", BaseURL: server.URL, Model: "gpt-4o-mini"})
		resp, err := p.Complete(context.Background(), CompletionRequest{
			Messages: []Message{
				{Role: RoleSystem, Content: "You plan."},
				{Role: RoleUser, Content: "Hello"},
			},
		})
		if err != nil {
			t.Fatalf("Complete() error = %v", err)
		}
		if resp.ID != "chatcmpl-1" || resp.Message.Role != RoleAssistant {
			t.Errorf("resp = %+v", resp)
		}
		if resp.Message.Content != `{"decisions": []}` {
			t.Errorf("Content = %q", resp.Message.Content)
		}
		if resp.Usage.TotalTokens != 8 {
			t.Errorf("TotalTokens = %d, want 8", resp.Usage.TotalTokens)
		}
	})

	t.Run("error status is not retried", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error": {"message": "overloaded", "type": "server_error", "code": "busy"}}`))
		}))
		defer server.Close()

		p := NewOpenAIProvider(OpenAIConfig{APIKey: "k", BaseURL: server.URL, Model: "m"})
		_, err := p.Complete(context.Background(), CompletionRequest{Messages: []Message{{Role: RoleUser, Content: "hi"}}})
		if !errors.Is(err, ErrProviderStatus) {
			t.Fatalf("error = %v, want ErrProviderStatus", err)
		}
		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Errorf("error = %v, want *APIError in chain", err)
		}
		if calls.Load() != 1 {
			t.Errorf("calls = %d, want 1", calls.Load())
		}
	})

	t.Run("no choices", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id": "x", "object": "chat.completion", "model": "m", "choices": []}`))
		}))
		defer server.Close()

		p := NewOpenAIProvider(OpenAIConfig{APIKey: "k", BaseURL: server.URL, Model: "m"})
		if _, err := p.Complete(context.Background(), CompletionRequest{Messages: []Message{{Role: RoleUser, Content: "hi"}}}); !errors.Is(err, ErrNoChoices) {
			t.Errorf("error = %v, want ErrNoChoices", err)
		}
	})

	t.Run("unreachable endpoint", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.NotFoundHandler())
		url := server.URL
		server.Close()

		p := NewOpenAIProvider(OpenAIConfig{APIKey: "k", BaseURL: url, Model: "m", Timeout: time.Second})
		_, err := p.Complete(context.Background(), CompletionRequest{Messages: []Message{{Role: RoleUser, Content: "hi"}}})
		if err == nil || errors.Is(err, ErrProviderStatus) {
			t.Errorf("error = %v, want transport error", err)
		}
	})
}
