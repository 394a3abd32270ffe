package planner

import (
	"context"
	"errors"
	"testing"

	"github.com/felixgeelhaar/agent-shell/domain/agent"
)

func TestScriptedPlanner_Plan(t *testing.T) {
	t.Parallel()

	greet := agent.Plan{agent.NewDecision("greeting_worker", "greet", nil, "")}

	t.Run("returns plans when mode matches", func(t *testing.T) {
		t.Parallel()

		p := NewScriptedPlanner(
			ScriptStep{ExpectMode: agent.ModeTick, Plan: greet},
			ScriptStep{ExpectMode: agent.ModeTask, Plan: agent.Plan{}},
		)
		if p.IsComplete() {
			t.Fatal("planner with steps should not be complete initially")
		}

		plan, err := p.Plan(context.Background(), PlanRequest{Mode: agent.ModeTick})
		if err != nil || len(plan) != 1 {
			t.Fatalf("step 1 = %+v, %v", plan, err)
		}
		plan, err = p.Plan(context.Background(), PlanRequest{Mode: agent.ModeTask})
		if err != nil || !plan.IsIdle() {
			t.Fatalf("step 2 = %+v, %v", plan, err)
		}
		if !p.IsComplete() || p.CurrentStep() != 2 {
			t.Errorf("CurrentStep() = %d", p.CurrentStep())
		}

		plan, err = p.Plan(context.Background(), PlanRequest{Mode: agent.ModeTick})
		if err != nil || !plan.IsIdle() {
			t.Errorf("exhausted planner should idle, got %+v, %v", plan, err)
		}

		p.Reset()
		if p.CurrentStep() != 0 {
			t.Error("Reset() should rewind")
		}
	})

	t.Run("unexpected mode", func(t *testing.T) {
		t.Parallel()

		p := NewScriptedPlanner(ScriptStep{ExpectMode: agent.ModeTask, Plan: greet})
		_, err := p.Plan(context.Background(), PlanRequest{Mode: agent.ModeTick})

		var modeErr *UnexpectedModeError
		if !errors.As(err, &modeErr) {
			t.Fatalf("error = %v, want UnexpectedModeError", err)
		}
		if modeErr.Error() != "unexpected mode at step 0: expected task, got tick" {
			t.Errorf("Error() = %q", modeErr.Error())
		}
	})

	t.Run("condition failed", func(t *testing.T) {
		t.Parallel()

		p := NewScriptedPlanner(ScriptStep{
			Plan:      greet,
			Condition: func(r PlanRequest) bool { return r.Task != "" },
		})
		_, err := p.Plan(context.Background(), PlanRequest{Mode: agent.ModeTask})

		var condErr *ConditionFailedError
		if !errors.As(err, &condErr) {
			t.Errorf("error = %v, want ConditionFailedError", err)
		}
	})

	t.Run("custom exhausted handler", func(t *testing.T) {
		t.Parallel()

		p := NewScriptedPlanner().OnExhausted(func(PlanRequest) agent.Plan { return greet })
		plan, _ := p.Plan(context.Background(), PlanRequest{})
		if len(plan) != 1 {
			t.Errorf("plan = %+v", plan)
		}
	})
}

func TestMockPlanner(t *testing.T) {
	t.Parallel()

	p := NewMockPlanner(agent.Plan{agent.NewDecision("w", "a", nil, "")})
	p.AddPlan(agent.Plan{})
	if p.Remaining() != 2 {
		t.Fatalf("Remaining() = %d", p.Remaining())
	}

	first, _ := p.Plan(context.Background(), PlanRequest{Task: "one"})
	second, _ := p.Plan(context.Background(), PlanRequest{Task: "two"})
	third, _ := p.Plan(context.Background(), PlanRequest{Task: "three"})
	if len(first) != 1 || !second.IsIdle() || !third.IsIdle() {
		t.Errorf("plans = %v %v %v", first, second, third)
	}

	reqs := p.Requests()
	if len(reqs) != 3 || reqs[2].Task != "three" {
		t.Errorf("Requests() = %+v", reqs)
	}

	p.Reset()
	if p.Remaining() != 2 || len(p.Requests()) != 0 {
		t.Error("Reset() should rewind and forget requests")
	}
}

func TestPlannerFunc(t *testing.T) {
	t.Parallel()

	var p Planner = PlannerFunc(func(ctx context.Context, req PlanRequest) (agent.Plan, error) {
		return agent.Plan{agent.NewDecision("w", req.Task, nil, "")}, nil
	})
	plan, _ := p.Plan(context.Background(), PlanRequest{Task: "greet"})
	if plan[0].Action != "greet" {
		t.Errorf("plan = %+v", plan)
	}
}
