// Package agent provides the core domain model for the agent runtime.
package agent

import (
	"context"
	"time"
)

// Agent is the contract the interaction drivers program against.
type Agent interface {
	// Init authenticates and prepares the agent. It must succeed before Run
	// or any worker's RunTask is called.
	Init(ctx context.Context) error

	// Run drives the agent autonomously, one tick per interval, until ctx is
	// cancelled. Tick failures are reported through the logger, not returned.
	Run(ctx context.Context, interval time.Duration, opts RunOptions) error

	// Worker returns a handle for submitting free-form tasks to one worker.
	Worker(id string) (TaskRunner, error)
}

// TaskRunner accepts a single free-form task for a worker.
type TaskRunner interface {
	RunTask(ctx context.Context, task string) error
}

// RunOptions tunes the autonomous loop.
type RunOptions struct {
	// Verbose emits per-tick diagnostics through the agent's logger.
	Verbose bool
}

// Mode identifies what triggered a planning round.
type Mode string

const (
	ModeTick Mode = "tick" // Autonomous loop iteration
	ModeTask Mode = "task" // Externally submitted task
)

// String returns the string representation of the mode.
func (m Mode) String() string {
	return string(m)
}

// DefaultInterval is the tick period used when none is configured.
const DefaultInterval = 60 * time.Second
