package greeting

import (
	"context"
	"sync"

	"github.com/felixgeelhaar/agent-shell/domain/agent"
)

// Tracker counts sent greetings. Its snapshot is the agent state.
type Tracker struct {
	mu    sync.RWMutex
	count int
	last  *string
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Record counts one greeting.
func (t *Tracker) Record(msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.count++
	t.last = &msg
}

// Count returns the number of greetings sent.
func (t *Tracker) Count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.count
}

// State returns {greetingCount, lastGreeting}. lastGreeting is nil until
// the first greeting.
func (t *Tracker) State(context.Context) (agent.Snapshot, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var last any
	if t.last != nil {
		last = *t.last
	}
	return agent.Snapshot{
		"greetingCount": t.count,
		"lastGreeting":  last,
	}, nil
}
