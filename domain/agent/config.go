package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/agent-shell/domain/worker"
)

// Snapshot is an opaque key/value view handed to the planner. The runtime
// never mutates it.
type Snapshot map[string]any

// StateFunc computes the agent-level state snapshot.
type StateFunc func(ctx context.Context) (Snapshot, error)

// Config describes an agent. Everything is fixed at construction.
type Config struct {
	Name        string
	Goal        string
	Description string
	State       StateFunc
	Workers     []*worker.Worker
}

// Validate checks the structural requirements of the configuration.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if len(c.Workers) == 0 {
		return ErrNoWorkers
	}
	seen := make(map[string]bool, len(c.Workers))
	for _, w := range c.Workers {
		if w == nil {
			return fmt.Errorf("%w: nil worker", ErrNoWorkers)
		}
		if seen[w.ID()] {
			return fmt.Errorf("%w: %s", ErrDuplicateWorker, w.ID())
		}
		seen[w.ID()] = true
	}
	return nil
}

// ReadState invokes the state accessor. A nil accessor yields an empty snapshot.
func (c Config) ReadState(ctx context.Context) (Snapshot, error) {
	if c.State == nil {
		return Snapshot{}, nil
	}
	s, err := c.State(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrState, err)
	}
	if s == nil {
		s = Snapshot{}
	}
	return s, nil
}

// StaticState returns an accessor yielding a fresh copy of s on every call.
func StaticState(s Snapshot) StateFunc {
	return func(context.Context) (Snapshot, error) {
		out := make(Snapshot, len(s))
		for k, v := range s {
			out[k] = v
		}
		return out, nil
	}
}
