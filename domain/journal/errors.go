package journal

import "errors"

// Domain errors for journal store operations.
var (
	// ErrInvalidEntry is returned when an entry is missing agent, worker or action.
	ErrInvalidEntry = errors.New("invalid journal entry")

	// ErrConnectionFailed is returned when connection to the store backend fails.
	ErrConnectionFailed = errors.New("journal store connection failed")

	// ErrMigrationFailed is returned when the store schema cannot be prepared.
	ErrMigrationFailed = errors.New("journal store migration failed")

	// ErrStoreClosed is returned when the store is used after Close.
	ErrStoreClosed = errors.New("journal store closed")

	// ErrUnknownDriver is returned when no backend matches the configured driver.
	ErrUnknownDriver = errors.New("unknown journal driver")
)
