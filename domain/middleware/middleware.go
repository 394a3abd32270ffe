// Package middleware provides composable middleware for action execution.
package middleware

import (
	"context"

	"github.com/felixgeelhaar/agent-shell/domain/action"
	"github.com/felixgeelhaar/agent-shell/domain/agent"
)

// ExecutionContext contains all information needed for middleware decisions.
type ExecutionContext struct {
	// AgentName is the name of the executing agent.
	AgentName string
	// WorkerID identifies the worker that owns the action.
	WorkerID string
	// Action is the action being executed.
	Action action.Action
	// Args are the arguments chosen by the planner.
	Args action.Args
	// Mode tells whether a tick or a task triggered the call.
	Mode agent.Mode
	// Task is the free-form task text, empty for ticks.
	Task string
	// Reason is the planner's reason for calling this action.
	Reason string
	// Log is the agent's diagnostic sink, handed to the action.
	Log action.LogFunc
	// Vars contains shared variables for the call.
	Vars map[string]any
}

// Handler executes an action and returns its result.
type Handler func(ctx context.Context, execCtx *ExecutionContext) (action.Result, error)

// Middleware wraps a Handler with additional behavior.
// Middleware can:
// - Execute code before the next handler
// - Execute code after the next handler
// - Short-circuit by not calling next
// - Modify the execution context
// - Transform results or errors
type Middleware func(next Handler) Handler

// Chain composes multiple middleware into a single middleware.
// Middleware are executed in the order provided, with each wrapping the next.
// For example, Chain(A, B, C) produces: A -> B -> C -> handler
func Chain(middlewares ...Middleware) Middleware {
	return func(final Handler) Handler {
		handler := final
		for i := len(middlewares) - 1; i >= 0; i-- {
			handler = middlewares[i](handler)
		}
		return handler
	}
}

// Noop returns a middleware that does nothing, just passes through.
func Noop() Middleware {
	return func(next Handler) Handler {
		return next
	}
}

// Execute is the terminal handler: it runs the action itself.
func Execute(ctx context.Context, ec *ExecutionContext) (action.Result, error) {
	return ec.Action.Execute(ctx, ec.Args, ec.Log), nil
}
