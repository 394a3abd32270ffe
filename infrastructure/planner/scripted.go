package planner

import (
	"context"
	"fmt"
	"sync"

	"github.com/felixgeelhaar/agent-shell/domain/agent"
)

// ScriptStep defines an expected trigger mode and the plan to return.
type ScriptStep struct {
	// ExpectMode asserts the request mode before returning the plan.
	ExpectMode agent.Mode

	// Plan is the plan to return.
	Plan agent.Plan

	// Condition is an optional additional condition that must be true.
	Condition func(PlanRequest) bool
}

// ScriptedPlanner executes a predefined sequence for deterministic testing.
// It validates the request mode before returning plans.
type ScriptedPlanner struct {
	steps       []ScriptStep
	index       int
	onExhausted func(PlanRequest) agent.Plan
	mu          sync.Mutex
}

// NewScriptedPlanner creates a scripted planner with the given steps.
func NewScriptedPlanner(steps ...ScriptStep) *ScriptedPlanner {
	return &ScriptedPlanner{
		steps: steps,
		onExhausted: func(PlanRequest) agent.Plan {
			return agent.Plan{}
		},
	}
}

// OnExhausted sets the handler used after the last step.
func (p *ScriptedPlanner) OnExhausted(handler func(PlanRequest) agent.Plan) *ScriptedPlanner {
	p.onExhausted = handler
	return p
}

// Plan returns the next plan if the request matches expectations.
func (p *ScriptedPlanner) Plan(_ context.Context, req PlanRequest) (agent.Plan, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.index >= len(p.steps) {
		return p.onExhausted(req), nil
	}

	step := p.steps[p.index]

	if step.ExpectMode != "" && step.ExpectMode != req.Mode {
		return nil, &UnexpectedModeError{
			Expected:  step.ExpectMode,
			Actual:    req.Mode,
			StepIndex: p.index,
		}
	}

	if step.Condition != nil && !step.Condition(req) {
		return nil, &ConditionFailedError{
			StepIndex: p.index,
			Mode:      req.Mode,
		}
	}

	p.index++
	return step.Plan, nil
}

// Reset resets the planner to the beginning.
func (p *ScriptedPlanner) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.index = 0
}

// CurrentStep returns the current step index.
func (p *ScriptedPlanner) CurrentStep() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.index
}

// IsComplete returns true if all steps have been executed.
func (p *ScriptedPlanner) IsComplete() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.index >= len(p.steps)
}

// UnexpectedModeError indicates the planner received an unexpected trigger.
type UnexpectedModeError struct {
	Expected  agent.Mode
	Actual    agent.Mode
	StepIndex int
}

func (e *UnexpectedModeError) Error() string {
	return fmt.Sprintf("unexpected mode at step %d: expected %s, got %s", e.StepIndex, e.Expected, e.Actual)
}

// ConditionFailedError indicates a step condition was not met.
type ConditionFailedError struct {
	StepIndex int
	Mode      agent.Mode
}

func (e *ConditionFailedError) Error() string {
	return fmt.Sprintf("condition failed at step %d in mode %s", e.StepIndex, e.Mode)
}
