package statemachine

import (
	"github.com/felixgeelhaar/statekit"

	"github.com/felixgeelhaar/agent-shell/domain/session"
)

// LinePayload carries an input line with LINE and EXIT events.
type LinePayload struct {
	Line string
}

// SettledPayload carries the task outcome with SETTLED.
type SettledPayload struct {
	Err error
}

// guardIsTask rejects the exit sentinel so it can never start a task.
func guardIsTask(_ *Context, event statekit.Event) bool {
	p, ok := event.Payload.(LinePayload)
	return ok && !session.IsExit(p.Line)
}

func guardIsExit(_ *Context, event statekit.Event) bool {
	p, ok := event.Payload.(LinePayload)
	return ok && session.IsExit(p.Line)
}
