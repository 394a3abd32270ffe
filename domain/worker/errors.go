package worker

import "errors"

// Domain errors for workers.
var (
	// ErrEmptyID indicates a worker was created without an identifier.
	ErrEmptyID = errors.New("worker id cannot be empty")

	// ErrNoActions indicates a worker was created without actions.
	ErrNoActions = errors.New("worker requires at least one action")

	// ErrDuplicateAction indicates two actions in one worker share a name.
	ErrDuplicateAction = errors.New("duplicate action name")

	// ErrEnvironment indicates the environment accessor failed.
	ErrEnvironment = errors.New("environment accessor failed")
)
