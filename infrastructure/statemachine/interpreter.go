package statemachine

import (
	"fmt"

	"github.com/felixgeelhaar/statekit"

	"github.com/felixgeelhaar/agent-shell/domain/session"
)

// Interpreter wraps the statekit interpreter with prompt-loop operations.
type Interpreter struct {
	interp *statekit.Interpreter[*Context]
	ctx    *Context
}

// NewInterpreter creates a new interpreter for the prompt machine.
func NewInterpreter(machine *statekit.MachineConfig[*Context], ctx *Context) *Interpreter {
	interp := statekit.NewInterpreter(machine)
	interp.UpdateContext(func(c **Context) {
		*c = ctx
	})
	return &Interpreter{
		interp: interp,
		ctx:    ctx,
	}
}

// Start enters awaiting_input.
func (i *Interpreter) Start() {
	i.interp.Start()
}

// Stop stops the interpreter.
func (i *Interpreter) Stop() {
	i.interp.Stop()
}

// State returns the current state.
func (i *Interpreter) State() session.State {
	return StateFromMachine(i.interp.State().Value)
}

// Matches checks if the current state matches the given state.
func (i *Interpreter) Matches(s session.State) bool {
	return i.interp.Matches(statekit.StateID(s))
}

// IsTerminal returns true once the loop has terminated.
func (i *Interpreter) IsTerminal() bool {
	return i.interp.Done()
}

// Context returns the interpreter context.
func (i *Interpreter) Context() *Context {
	return i.ctx
}

// Line feeds an input line. It returns the event the line produced: LINE
// moves to processing, EXIT terminates.
func (i *Interpreter) Line(line string) (session.Event, error) {
	ev := session.Classify(line)
	return ev, i.send(ev, LinePayload{Line: line})
}

// EOF terminates the loop because input ended.
func (i *Interpreter) EOF() error {
	return i.send(session.EventEOF, nil)
}

// Settle returns to awaiting_input after a task finished, whatever its outcome.
func (i *Interpreter) Settle(err error) error {
	return i.send(session.EventSettled, SettledPayload{Err: err})
}

func (i *Interpreter) send(ev session.Event, payload any) error {
	from := i.State()
	i.interp.Send(statekit.Event{Type: EventType(ev), Payload: payload})
	if i.State() == from {
		return fmt.Errorf("%w: %s in state %s", ErrTransitionRejected, ev, from)
	}
	return nil
}
