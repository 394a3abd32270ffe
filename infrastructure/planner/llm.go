package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/felixgeelhaar/agent-shell/domain/action"
	"github.com/felixgeelhaar/agent-shell/domain/agent"
	"github.com/felixgeelhaar/agent-shell/infrastructure/logging"
)

// LLMPlanner uses a chat completion provider to make planning decisions.
type LLMPlanner struct {
	provider     Provider
	model        string
	temperature  float64
	maxTokens    int
	systemPrompt string
}

// LLMPlannerConfig configures the LLM planner.
type LLMPlannerConfig struct {
	Provider     Provider
	Model        string
	Temperature  float64
	MaxTokens    int
	SystemPrompt string
}

// DefaultSystemPrompt is the default system prompt for the agent.
const DefaultSystemPrompt = `You are the decision engine of an autonomous agent.

You receive the agent's goal, persona, state, the workers it controls with
their actions and environment, recent action history, and optionally a task.
Decide which actions to run next.

## Response Format

You MUST respond with a JSON object:

{"decisions": [{"worker_id": "<id>", "action": "<name>", "args": {...}, "reason": "<why>"}]}

An empty "decisions" list means there is nothing to do right now.

## Guidelines

1. Only use workers and actions that are listed
2. Provide every required argument with the declared type
3. For a task, only use the worker the task was given to
4. Respond ONLY with valid JSON, no additional text`

// NewLLMPlanner creates a new LLM-based planner.
func NewLLMPlanner(config LLMPlannerConfig) *LLMPlanner {
	systemPrompt := config.SystemPrompt
	if systemPrompt == "" {
		systemPrompt = DefaultSystemPrompt
	}

	temperature := config.Temperature
	if temperature == 0 {
		temperature = 0.7
	}

	maxTokens := config.MaxTokens
	if maxTokens == 0 {
		maxTokens = 1024
	}

	return &LLMPlanner{
		provider:     config.Provider,
		model:        config.Model,
		temperature:  temperature,
		maxTokens:    maxTokens,
		systemPrompt: systemPrompt,
	}
}

// Plan implements the Planner interface.
func (p *LLMPlanner) Plan(ctx context.Context, req PlanRequest) (agent.Plan, error) {
	completionReq := CompletionRequest{
		Model:       p.model,
		Messages:    p.buildMessages(req),
		Temperature: p.temperature,
		MaxTokens:   p.maxTokens,
	}

	logging.Debug().
		Add(logging.AgentName(req.AgentName)).
		Add(logging.Mode(req.Mode)).
		Add(logging.Str("provider", p.provider.Name())).
		Msg("requesting LLM plan")

	resp, err := p.provider.Complete(ctx, completionReq)
	if err != nil {
		return nil, fmt.Errorf("LLM completion failed: %w", err)
	}

	if resp.Error != nil {
		return nil, resp.Error
	}

	plan, err := p.parseResponse(resp.Message.Content, req)
	if err != nil {
		return nil, fmt.Errorf("failed to parse LLM response: %w", err)
	}

	logging.Debug().
		Add(logging.AgentName(req.AgentName)).
		Add(logging.PlanSize(len(plan))).
		Msg("LLM plan received")

	return plan, nil
}

// buildMessages constructs the message history for the LLM.
func (p *LLMPlanner) buildMessages(req PlanRequest) []Message {
	var sb strings.Builder

	sb.WriteString("## Agent\n")
	fmt.Fprintf(&sb, "Name: %s\n", req.AgentName)
	fmt.Fprintf(&sb, "Goal: %s\n", req.Goal)
	if req.Description != "" {
		fmt.Fprintf(&sb, "Description: %s\n", req.Description)
	}
	sb.WriteString("\n")

	if len(req.State) > 0 {
		sb.WriteString("## State\n")
		writeSorted(&sb, req.State)
		sb.WriteString("\n")
	}

	sb.WriteString("## Workers\n")
	for _, w := range req.Workers {
		fmt.Fprintf(&sb, "### %s (%s)\n", w.ID, w.Name)
		if w.Description != "" {
			fmt.Fprintf(&sb, "%s\n", w.Description)
		}
		for _, a := range w.Actions {
			fmt.Fprintf(&sb, "- action %s: %s\n", a.Name, a.Description)
			for _, arg := range a.Args {
				need := "required"
				if arg.Optional {
					need = "optional"
				}
				fmt.Fprintf(&sb, "  - %s (%s, %s): %s\n", arg.Name, arg.Type, need, arg.Description)
			}
		}
		if len(w.Environment) > 0 {
			sb.WriteString("Environment:\n")
			writeSorted(&sb, w.Environment)
		}
	}
	sb.WriteString("\n")

	if len(req.History) > 0 {
		sb.WriteString("## Recent Actions\n")
		for i, e := range req.History {
			fmt.Fprintf(&sb, "%d. %s/%s -> %s: %s\n", i+1, e.WorkerID, e.Action, e.Status, truncate(e.Message, 200))
		}
		sb.WriteString("\n")
	}

	if req.Mode == agent.ModeTask {
		sb.WriteString("## Task\n")
		sb.WriteString(req.Task)
		sb.WriteString("\n\n")
	}

	sb.WriteString("What should the agent do next? Respond with JSON only.")

	return []Message{
		{Role: RoleSystem, Content: p.systemPrompt},
		{Role: RoleUser, Content: sb.String()},
	}
}

func writeSorted[M ~map[string]any](sb *strings.Builder, m M) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(sb, "- %s: %v\n", k, m[k])
	}
}

// llmResponse represents the expected JSON response from the LLM.
type llmResponse struct {
	Decisions []struct {
		WorkerID string         `json:"worker_id"`
		Action   string         `json:"action"`
		Args     map[string]any `json:"args"`
		Reason   string         `json:"reason"`
	} `json:"decisions"`
}

// parseResponse parses the LLM response into a Plan, rejecting workers or
// actions that were not offered.
func (p *LLMPlanner) parseResponse(content string, req PlanRequest) (agent.Plan, error) {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimSuffix(content, "```")
		content = strings.TrimSpace(content)
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(content, "```")
		content = strings.TrimSpace(content)
	}

	var resp llmResponse
	if err := json.Unmarshal([]byte(content), &resp); err != nil {
		return nil, fmt.Errorf("invalid JSON response: %w (content: %s)", err, truncate(content, 200))
	}

	plan := make(agent.Plan, 0, len(resp.Decisions))
	for _, d := range resp.Decisions {
		w, ok := req.Worker(d.WorkerID)
		if !ok {
			return nil, fmt.Errorf("%w: unknown worker %q", ErrInvalidPlan, d.WorkerID)
		}
		if _, ok := w.Action(d.Action); !ok {
			return nil, fmt.Errorf("%w: unknown action %q on worker %q", ErrInvalidPlan, d.Action, d.WorkerID)
		}
		plan = append(plan, agent.NewDecision(d.WorkerID, d.Action, action.Args(d.Args), d.Reason))
	}
	return plan, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
