// Package journal provides domain types and interfaces for the action journal.
package journal

import (
	"context"
	"time"

	"github.com/felixgeelhaar/agent-shell/domain/action"
	"github.com/felixgeelhaar/agent-shell/domain/agent"
)

// Entry records one executed action. Entries are append-only.
type Entry struct {
	// ID is the unique identifier for this entry.
	ID string `json:"id"`

	// Agent is the name of the agent that executed the action.
	Agent string `json:"agent"`

	// WorkerID identifies the worker owning the action.
	WorkerID string `json:"worker_id"`

	// Action is the action name.
	Action string `json:"action"`

	// Args are the arguments the action was called with.
	Args action.Args `json:"args,omitempty"`

	// Status is the outcome of the action.
	Status action.Status `json:"status"`

	// Message is the outcome message.
	Message string `json:"message,omitempty"`

	// Mode tells whether a tick or a task triggered the action.
	Mode agent.Mode `json:"mode"`

	// Task is the free-form task text, empty for ticks.
	Task string `json:"task,omitempty"`

	// Timestamp is when the action finished.
	Timestamp time.Time `json:"timestamp"`

	// Sequence is the ordering number within the agent's journal.
	Sequence uint64 `json:"sequence"`
}

// Validate checks that the entry carries the fields every backend indexes on.
func (e Entry) Validate() error {
	if e.Agent == "" || e.WorkerID == "" || e.Action == "" {
		return ErrInvalidEntry
	}
	return nil
}

// Store persists journal entries.
// Implementations may be in-memory, SQLite, Redis, or BadgerDB.
type Store interface {
	// Append persists an entry. The store assigns the ID when empty, the
	// timestamp when zero, and always the sequence number.
	Append(ctx context.Context, entry Entry) error

	// Recent returns up to limit of the newest entries for an agent, oldest first.
	Recent(ctx context.Context, agentName string, limit int) ([]Entry, error)

	// Close releases backend resources.
	Close() error
}
