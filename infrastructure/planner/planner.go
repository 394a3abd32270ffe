// Package planner provides planner implementations for the agent runtime.
package planner

import (
	"context"

	"github.com/felixgeelhaar/agent-shell/domain/action"
	"github.com/felixgeelhaar/agent-shell/domain/agent"
	"github.com/felixgeelhaar/agent-shell/domain/journal"
	"github.com/felixgeelhaar/agent-shell/domain/worker"
)

// PlanRequest contains all information needed for planning.
type PlanRequest struct {
	Mode        agent.Mode
	AgentName   string
	Goal        string
	Description string

	// Task is the free-form task text. Empty for ticks.
	Task string

	// State is the agent state snapshot.
	State agent.Snapshot

	// Workers are the workers the plan may use. For tasks this is only the
	// worker the task was submitted to.
	Workers []WorkerView

	// History holds the most recent journal entries, oldest first.
	History []journal.Entry
}

// WorkerView is a read-only snapshot of a worker for the planner.
type WorkerView struct {
	ID          string
	Name        string
	Description string
	Actions     []ActionView
	Environment worker.Environment
}

// ActionView describes one action for the planner.
type ActionView struct {
	Name        string
	Description string
	Args        []action.Arg
}

// NewWorkerView snapshots a worker together with its current environment.
func NewWorkerView(w *worker.Worker, env worker.Environment) WorkerView {
	actions := w.Actions()
	views := make([]ActionView, len(actions))
	for i, a := range actions {
		views[i] = ActionView{
			Name:        a.Name(),
			Description: a.Description(),
			Args:        a.Args(),
		}
	}
	return WorkerView{
		ID:          w.ID(),
		Name:        w.Name(),
		Description: w.Description(),
		Actions:     views,
		Environment: env,
	}
}

// Worker finds a worker view by id.
func (r PlanRequest) Worker(id string) (WorkerView, bool) {
	for _, w := range r.Workers {
		if w.ID == id {
			return w, true
		}
	}
	return WorkerView{}, false
}

// Action finds an action view by name.
func (w WorkerView) Action(name string) (ActionView, bool) {
	for _, a := range w.Actions {
		if a.Name == name {
			return a, true
		}
	}
	return ActionView{}, false
}

// Planner is the interface for decision engines.
type Planner interface {
	Plan(ctx context.Context, req PlanRequest) (agent.Plan, error)
}

// PlannerFunc adapts a function to the Planner interface.
type PlannerFunc func(ctx context.Context, req PlanRequest) (agent.Plan, error)

// Plan implements Planner.
func (f PlannerFunc) Plan(ctx context.Context, req PlanRequest) (agent.Plan, error) {
	return f(ctx, req)
}
