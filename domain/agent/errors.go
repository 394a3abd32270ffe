package agent

import "errors"

// Domain errors for the agent runtime.
var (
	// ErrMissingCredential indicates the agent was constructed without an API credential.
	ErrMissingCredential = errors.New("missing API credential")

	// ErrNotInitialized indicates Run or RunTask was called before Init succeeded.
	ErrNotInitialized = errors.New("agent not initialized")

	// ErrAlreadyInitialized indicates Init was called twice.
	ErrAlreadyInitialized = errors.New("agent already initialized")

	// ErrWorkerNotFound indicates an unknown worker id.
	ErrWorkerNotFound = errors.New("worker not found")

	// ErrEmptyName indicates the agent has no name.
	ErrEmptyName = errors.New("agent name cannot be empty")

	// ErrNoWorkers indicates the agent has no workers.
	ErrNoWorkers = errors.New("agent requires at least one worker")

	// ErrDuplicateWorker indicates two workers share an id.
	ErrDuplicateWorker = errors.New("duplicate worker id")

	// ErrState indicates the state accessor failed.
	ErrState = errors.New("state accessor failed")

	// ErrInvalidInterval indicates a non-positive tick interval.
	ErrInvalidInterval = errors.New("interval must be positive")

	// ErrAuthentication indicates the credential was rejected during Init.
	ErrAuthentication = errors.New("authentication failed")
)
