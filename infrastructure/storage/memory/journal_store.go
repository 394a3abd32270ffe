// Package memory provides an in-memory journal store.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/agent-shell/domain/journal"
)

// JournalStore is an in-memory implementation of journal.Store.
type JournalStore struct {
	entries   map[string][]journal.Entry // agent -> entries
	sequences map[string]uint64
	closed    bool
	mu        sync.RWMutex
}

// NewJournalStore creates a new in-memory journal store.
func NewJournalStore() *JournalStore {
	return &JournalStore{
		entries:   make(map[string][]journal.Entry),
		sequences: make(map[string]uint64),
	}
}

// Append persists an entry.
func (s *JournalStore) Append(ctx context.Context, e journal.Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := e.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return journal.ErrStoreClosed
	}

	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	s.sequences[e.Agent]++
	e.Sequence = s.sequences[e.Agent]

	s.entries[e.Agent] = append(s.entries[e.Agent], e)
	return nil
}

// Recent returns up to limit of the newest entries for an agent, oldest first.
func (s *JournalStore) Recent(ctx context.Context, agentName string, limit int) ([]journal.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, journal.ErrStoreClosed
	}
	if limit <= 0 {
		return nil, nil
	}

	all := s.entries[agentName]
	if len(all) > limit {
		all = all[len(all)-limit:]
	}

	result := make([]journal.Entry, len(all))
	copy(result, all)
	return result, nil
}

// Len returns the number of entries stored for an agent.
func (s *JournalStore) Len(agentName string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries[agentName])
}

// Close marks the store closed.
func (s *JournalStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

var _ journal.Store = (*JournalStore)(nil)
