// Package worker provides the domain model for workers: named groups of actions.
package worker

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/agent-shell/domain/action"
)

// Environment is an arbitrary key/value snapshot exposed to the planner.
type Environment map[string]any

// EnvironmentFunc computes the environment snapshot. It is called on demand,
// must be free of side effects, and must be safe to call concurrently.
type EnvironmentFunc func(ctx context.Context) (Environment, error)

// Config describes a worker.
type Config struct {
	ID          string
	Name        string
	Description string
	Actions     []action.Action
	Environment EnvironmentFunc
}

// Worker groups one or more actions under a stable identifier.
type Worker struct {
	id          string
	name        string
	description string
	actions     []action.Action
	index       map[string]action.Action
	environment EnvironmentFunc
}

// New creates a worker. Action order is preserved; names must be unique
// within the worker.
func New(cfg Config) (*Worker, error) {
	if cfg.ID == "" {
		return nil, ErrEmptyID
	}
	if len(cfg.Actions) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoActions, cfg.ID)
	}

	w := &Worker{
		id:          cfg.ID,
		name:        cfg.Name,
		description: cfg.Description,
		actions:     make([]action.Action, 0, len(cfg.Actions)),
		index:       make(map[string]action.Action, len(cfg.Actions)),
		environment: cfg.Environment,
	}
	if w.name == "" {
		w.name = cfg.ID
	}

	for _, a := range cfg.Actions {
		if a == nil {
			return nil, fmt.Errorf("%w: nil action in %s", ErrNoActions, cfg.ID)
		}
		if _, exists := w.index[a.Name()]; exists {
			return nil, fmt.Errorf("%w: %s in %s", ErrDuplicateAction, a.Name(), cfg.ID)
		}
		w.actions = append(w.actions, a)
		w.index[a.Name()] = a
	}

	return w, nil
}

// ID returns the worker identifier.
func (w *Worker) ID() string {
	return w.id
}

// Name returns the worker display name.
func (w *Worker) Name() string {
	return w.name
}

// Description returns the worker description.
func (w *Worker) Description() string {
	return w.description
}

// Actions returns the worker's actions in declaration order.
func (w *Worker) Actions() []action.Action {
	out := make([]action.Action, len(w.actions))
	copy(out, w.actions)
	return out
}

// Action looks up an action by name.
func (w *Worker) Action(name string) (action.Action, bool) {
	a, ok := w.index[name]
	return a, ok
}

// ActionNames returns the action names in declaration order.
func (w *Worker) ActionNames() []string {
	names := make([]string, len(w.actions))
	for i, a := range w.actions {
		names[i] = a.Name()
	}
	return names
}

// Environment recomputes the environment snapshot. A worker without an
// accessor reports an empty environment.
func (w *Worker) Environment(ctx context.Context) (Environment, error) {
	if w.environment == nil {
		return Environment{}, nil
	}
	env, err := w.environment(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrEnvironment, w.id, err)
	}
	if env == nil {
		env = Environment{}
	}
	return env, nil
}

// StaticEnvironment returns an accessor that yields a fresh copy of env on
// every call.
func StaticEnvironment(env Environment) EnvironmentFunc {
	return func(context.Context) (Environment, error) {
		out := make(Environment, len(env))
		for k, v := range env {
			out[k] = v
		}
		return out, nil
	}
}
