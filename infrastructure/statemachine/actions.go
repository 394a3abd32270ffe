package statemachine

import (
	"github.com/felixgeelhaar/statekit"
)

// In statekit, actions receive a pointer to the context. Since our context
// is *Context, actions receive **Context.

func captureLine(ctx **Context, event statekit.Event) {
	if ctx == nil || *ctx == nil {
		return
	}
	if p, ok := event.Payload.(LinePayload); ok {
		(*ctx).Line = p.Line
	}
}

func recordTurn(ctx **Context, event statekit.Event) {
	if ctx == nil || *ctx == nil {
		return
	}
	c := *ctx

	var err error
	if p, ok := event.Payload.(SettledPayload); ok {
		err = p.Err
	}
	c.LastErr = err
	c.Line = ""
	if c.Session != nil {
		c.Session.Record(err)
	}
}

func markExit(ctx **Context, _ statekit.Event) {
	if ctx == nil || *ctx == nil {
		return
	}
	(*ctx).Reason = ExitCommand
}

func markEOF(ctx **Context, _ statekit.Event) {
	if ctx == nil || *ctx == nil {
		return
	}
	(*ctx).Reason = ExitEOF
}
