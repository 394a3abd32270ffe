package middleware

import (
	"context"

	"github.com/felixgeelhaar/agent-shell/domain/action"
	"github.com/felixgeelhaar/agent-shell/domain/middleware"
)

// Validation returns middleware that checks the planner's args against the
// action's declared schema. Invalid args produce a Failed result and the
// handler is never called.
func Validation() middleware.Middleware {
	return func(next middleware.Handler) middleware.Handler {
		return func(ctx context.Context, execCtx *middleware.ExecutionContext) (action.Result, error) {
			if execCtx.Args == nil {
				execCtx.Args = action.Args{}
			}
			if err := action.Validate(execCtx.Action.Args(), execCtx.Args); err != nil {
				return action.Failed(err.Error()).WithErr(err), nil
			}
			return next(ctx, execCtx)
		}
	}
}
