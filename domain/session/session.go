// Package session provides the domain model for interactive prompt sessions.
package session

import (
	"strings"
	"time"
)

// State is a stage of the prompt loop.
type State string

const (
	StateAwaitingInput State = "awaiting_input" // Waiting for the next line
	StateProcessing    State = "processing"     // A task is in flight
	StateTerminated    State = "terminated"     // Loop finished
)

// IsTerminal returns true if the loop has ended.
func (s State) IsTerminal() bool {
	return s == StateTerminated
}

// IsValid returns true if the state is recognized.
func (s State) IsValid() bool {
	switch s {
	case StateAwaitingInput, StateProcessing, StateTerminated:
		return true
	default:
		return false
	}
}

// String returns the string representation of the state.
func (s State) String() string {
	return string(s)
}

// Event drives the prompt loop between states.
type Event string

const (
	EventLine    Event = "LINE"    // A task line was read
	EventExit    Event = "EXIT"    // The exit sentinel was read
	EventEOF     Event = "EOF"     // Input ended
	EventSettled Event = "SETTLED" // The in-flight task finished, with or without error
)

// ExitCommand is the sentinel that ends a prompt session.
const ExitCommand = "exit"

// IsExit reports whether line is the exit sentinel, ignoring case and
// surrounding whitespace.
func IsExit(line string) bool {
	return strings.EqualFold(strings.TrimSpace(line), ExitCommand)
}

// Classify maps an input line to the event it triggers.
func Classify(line string) Event {
	if IsExit(line) {
		return EventExit
	}
	return EventLine
}

// Session tracks the bookkeeping of one prompt loop.
type Session struct {
	ID        string
	StartedAt time.Time
	Turns     int
	Failures  int
}

// New creates a session.
func New(id string) *Session {
	return &Session{
		ID:        id,
		StartedAt: time.Now(),
	}
}

// Record counts one settled turn.
func (s *Session) Record(err error) {
	s.Turns++
	if err != nil {
		s.Failures++
	}
}
