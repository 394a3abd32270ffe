package planner

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/felixgeelhaar/agent-shell/domain/action"
	"github.com/felixgeelhaar/agent-shell/domain/agent"
)

// quotedPattern spans from the first to the last quote so inner quotes survive.
var quotedPattern = regexp.MustCompile(`"(.*)"`)

// RulePlanner is a deterministic planner that needs no model.
//
// For a task it picks the first action of the target worker whose name
// appears as a word in the task, falling back to the worker's first action.
// For a tick it picks the first action of the first worker that still has
// capacity: the smallest numeric environment entry whose key starts with
// "max" caps the number of successful actions of that worker in the recent
// history.
type RulePlanner struct {
	fallback bool
}

// RuleOption configures a RulePlanner.
type RuleOption func(*RulePlanner)

// WithoutFallback makes tasks that mention no action name produce an idle plan.
func WithoutFallback() RuleOption {
	return func(p *RulePlanner) {
		p.fallback = false
	}
}

// NewRulePlanner creates a rule planner.
func NewRulePlanner(opts ...RuleOption) *RulePlanner {
	p := &RulePlanner{fallback: true}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Plan implements Planner.
func (p *RulePlanner) Plan(ctx context.Context, req PlanRequest) (agent.Plan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch req.Mode {
	case agent.ModeTask:
		return p.planTask(req), nil
	case agent.ModeTick:
		return p.planTick(req), nil
	default:
		return nil, fmt.Errorf("unknown plan mode: %q", req.Mode)
	}
}

func (p *RulePlanner) planTask(req PlanRequest) agent.Plan {
	words := strings.FieldsFunc(strings.ToLower(req.Task), func(r rune) bool {
		return !(r == '_' || r == '-' || ('a' <= r && r <= 'z') || ('0' <= r && r <= '9'))
	})
	mentioned := make(map[string]bool, len(words))
	for _, w := range words {
		mentioned[w] = true
	}

	text := extractText(req.Task)
	for _, w := range req.Workers {
		for _, a := range w.Actions {
			if mentioned[strings.ToLower(a.Name)] {
				return agent.Plan{agent.NewDecision(w.ID, a.Name, fillArgs(a.Args, text), "task mentions "+a.Name)}
			}
		}
	}

	if !p.fallback {
		return agent.Plan{}
	}
	for _, w := range req.Workers {
		if len(w.Actions) > 0 {
			a := w.Actions[0]
			return agent.Plan{agent.NewDecision(w.ID, a.Name, fillArgs(a.Args, text), "default action for task")}
		}
	}
	return agent.Plan{}
}

func (p *RulePlanner) planTick(req PlanRequest) agent.Plan {
	for _, w := range req.Workers {
		if len(w.Actions) == 0 || !hasCapacity(w, req) {
			continue
		}
		a := w.Actions[0]
		return agent.Plan{agent.NewDecision(w.ID, a.Name, fillArgs(a.Args, req.Goal), "pursuing goal")}
	}
	return agent.Plan{}
}

func hasCapacity(w WorkerView, req PlanRequest) bool {
	limit := -1
	for k, v := range w.Environment {
		if !strings.HasPrefix(strings.ToLower(k), "max") {
			continue
		}
		if n, ok := (action.Args{k: v}).Number(k); ok && (limit < 0 || int(n) < limit) {
			limit = int(n)
		}
	}
	if limit < 0 {
		return true
	}

	done := 0
	for _, e := range req.History {
		if e.Agent == req.AgentName && e.WorkerID == w.ID && e.Status == action.StatusDone {
			done++
		}
	}
	return done < limit
}

// extractText returns the first double-quoted span of task, or the whole
// task trimmed.
func extractText(task string) string {
	if m := quotedPattern.FindStringSubmatch(task); m != nil {
		return m[1]
	}
	return strings.TrimSpace(task)
}

// fillArgs builds arguments for a schema: string args receive text, other
// required args their zero value, optional non-string args are omitted.
func fillArgs(schema []action.Arg, text string) action.Args {
	args := make(action.Args, len(schema))
	for _, a := range schema {
		switch a.Type {
		case action.TypeString:
			args[a.Name] = text
		case action.TypeNumber, action.TypeInteger:
			if !a.Optional {
				args[a.Name] = float64(0)
			}
		case action.TypeBoolean:
			if !a.Optional {
				args[a.Name] = false
			}
		case action.TypeObject:
			if !a.Optional {
				args[a.Name] = map[string]any{}
			}
		case action.TypeArray:
			if !a.Optional {
				args[a.Name] = []any{}
			}
		}
	}
	return args
}
