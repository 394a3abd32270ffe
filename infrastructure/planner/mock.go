package planner

import (
	"context"
	"sync"

	"github.com/felixgeelhaar/agent-shell/domain/agent"
)

// MockPlanner returns a predefined sequence of plans and records every
// request it receives.
type MockPlanner struct {
	plans    []agent.Plan
	index    int
	requests []PlanRequest
	mu       sync.Mutex
}

// NewMockPlanner creates a mock planner with the given plans.
func NewMockPlanner(plans ...agent.Plan) *MockPlanner {
	return &MockPlanner{
		plans: plans,
	}
}

// Plan returns the next plan in the sequence, or an idle plan when exhausted.
func (p *MockPlanner) Plan(_ context.Context, req PlanRequest) (agent.Plan, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.requests = append(p.requests, req)
	if p.index >= len(p.plans) {
		return agent.Plan{}, nil
	}

	plan := p.plans[p.index]
	p.index++
	return plan, nil
}

// Requests returns a copy of the recorded requests.
func (p *MockPlanner) Requests() []PlanRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]PlanRequest, len(p.requests))
	copy(out, p.requests)
	return out
}

// Reset resets the planner to the beginning.
func (p *MockPlanner) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.index = 0
	p.requests = nil
}

// Remaining returns the number of remaining plans.
func (p *MockPlanner) Remaining() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.plans) - p.index
}

// AddPlan appends a plan to the sequence.
func (p *MockPlanner) AddPlan(plan agent.Plan) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.plans = append(p.plans, plan)
}
