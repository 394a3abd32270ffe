// Package statemachine provides the statekit statechart for the prompt loop.
package statemachine

import (
	"github.com/felixgeelhaar/statekit"

	"github.com/felixgeelhaar/agent-shell/domain/session"
)

// ExitReason records why the loop terminated.
type ExitReason string

const (
	ExitNone    ExitReason = ""     // Still running
	ExitCommand ExitReason = "exit" // The exit sentinel was read
	ExitEOF     ExitReason = "eof"  // Input ended
)

// Context carries prompt loop state through the machine.
type Context struct {
	Session *session.Session
	// Line is the line being processed, set on LINE.
	Line string
	// LastErr is the outcome of the most recent settled task.
	LastErr error
	// Reason is set once the loop reaches terminated.
	Reason ExitReason
}

// NewContext creates a new machine context for a session.
func NewContext(s *session.Session) *Context {
	return &Context{Session: s}
}

// State IDs as StateID type for statekit.
const (
	stateAwaitingInput statekit.StateID = statekit.StateID(session.StateAwaitingInput)
	stateProcessing    statekit.StateID = statekit.StateID(session.StateProcessing)
	stateTerminated    statekit.StateID = statekit.StateID(session.StateTerminated)
)

// NewPromptMachine creates the prompt loop statechart:
// awaiting_input -LINE-> processing -SETTLED-> awaiting_input, and
// awaiting_input -EXIT|EOF-> terminated.
func NewPromptMachine() (*statekit.MachineConfig[*Context], error) {
	return statekit.NewMachine[*Context]("prompt").
		WithInitial(stateAwaitingInput).
		WithContext(&Context{}).
		WithAction("captureLine", captureLine).
		WithAction("recordTurn", recordTurn).
		WithAction("markExit", markExit).
		WithAction("markEOF", markEOF).
		WithGuard("isTask", guardIsTask).
		WithGuard("isExit", guardIsExit).
		State(stateAwaitingInput).
			On(EventType(session.EventLine)).Target(stateProcessing).Guard("isTask").Do("captureLine").
			On(EventType(session.EventExit)).Target(stateTerminated).Guard("isExit").Do("markExit").
			On(EventType(session.EventEOF)).Target(stateTerminated).Do("markEOF").
			Done().
		State(stateProcessing).
			On(EventType(session.EventSettled)).Target(stateAwaitingInput).Do("recordTurn").
			Done().
		State(stateTerminated).
			Final().
			Done().
		Build()
}

// EventType converts a session event to a statekit event type.
func EventType(e session.Event) statekit.EventType {
	return statekit.EventType(e)
}

// StateFromMachine converts the machine state ID to a session state.
func StateFromMachine(stateID statekit.StateID) session.State {
	return session.State(stateID)
}
