package planner

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/felixgeelhaar/agent-shell/domain/action"
	"github.com/felixgeelhaar/agent-shell/domain/agent"
	"github.com/felixgeelhaar/agent-shell/domain/journal"
)

// fakeProvider returns a canned completion and records the request.
type fakeProvider struct {
	content string
	apiErr  *APIError
	err     error
	last    CompletionRequest
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Complete(_ context.Context, req CompletionRequest) (CompletionResponse, error) {
	f.last = req
	if f.err != nil {
		return CompletionResponse{}, f.err
	}
	return CompletionResponse{Message: Message{Role: RoleAssistant, Content: f.content}, Error: f.apiErr}, nil
}

func taskRequest() PlanRequest {
	return PlanRequest{
		Mode:        agent.ModeTask,
		AgentName:   "Greeting Bot",
		Goal:        "Send friendly greetings",
		Description: "A bot that sends friendly greetings to users",
		Task:        `Respond to the user's message: "hello"`,
		State:       agent.Snapshot{"greetingCount": 0},
		Workers:     []WorkerView{greetingView(map[string]any{"maxGreetings": 5})},
		History: []journal.Entry{
			{WorkerID: "greeting_worker", Action: "greet", Status: action.StatusDone, Message: "Greeting sent successfully"},
		},
	}
}

func TestLLMPlanner_Plan(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{content: "```json\n" +
		`{"decisions": [{"worker_id": "greeting_worker", "action": "greet", "args": {"message": "hello"}, "reason": "user said hello"}]}` +
		"\n```"}
	p := NewLLMPlanner(LLMPlannerConfig{Provider: provider, Model: "gpt-4o-mini"})

	plan, err := p.Plan(context.Background(), taskRequest())
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if len(plan) != 1 {
		t.Fatalf("Plan() = %+v", plan)
	}
	if plan[0].Action != "greet" || plan[0].Args.String("message") != "hello" || plan[0].Reason != "user said hello" {
		t.Errorf("decision = %+v", plan[0])
	}

	if provider.last.Model != "gpt-4o-mini" || provider.last.MaxTokens != 1024 || provider.last.Temperature != 0.7 {
		t.Errorf("request = %+v", provider.last)
	}
	if len(provider.last.Messages) != 2 || provider.last.Messages[0].Content != DefaultSystemPrompt {
		t.Fatalf("messages = %+v", provider.last.Messages)
	}
	user := provider.last.Messages[1].Content
	for _, want := range []string{
		"Goal: Send friendly greetings",
		"- greetingCount: 0",
		"### greeting_worker (Greeting Worker)",
		"- action greet",
		"message (string, required)",
		"- maxGreetings: 5",
		"## Recent Actions",
		"greeting_worker/greet -> done",
		"## Task",
		`"hello"`,
	} {
		if !strings.Contains(user, want) {
			t.Errorf("user message missing %q:\n%s", want, user)
		}
	}
}

func TestLLMPlanner_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		provider *fakeProvider
		wantErr  error
	}{
		{"provider failure", &fakeProvider{err: errors.New("dial tcp")}, nil},
		{"api error", &fakeProvider{apiErr: &APIError{Type: "rate_limit", Message: "slow down"}}, nil},
		{"not json", &fakeProvider{content: "I think you should greet"}, nil},
		{"unknown worker", &fakeProvider{content: `{"decisions": [{"worker_id": "ghost", "action": "greet"}]}`}, ErrInvalidPlan},
		{"unknown action", &fakeProvider{content: `{"decisions": [{"worker_id": "greeting_worker", "action": "shout"}]}`}, ErrInvalidPlan},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := NewLLMPlanner(LLMPlannerConfig{Provider: tt.provider})
			_, err := p.Plan(context.Background(), taskRequest())
			if err == nil {
				t.Fatal("Plan() should fail")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLLMPlanner_EmptyPlan(t *testing.T) {
	t.Parallel()

	p := NewLLMPlanner(LLMPlannerConfig{Provider: &fakeProvider{content: `{"decisions": []}`}})
	plan, err := p.Plan(context.Background(), PlanRequest{Mode: agent.ModeTick})
	if err != nil || !plan.IsIdle() {
		t.Errorf("Plan() = %+v, %v", plan, err)
	}
}
