package middleware

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/agent-shell/domain/action"
	"github.com/felixgeelhaar/agent-shell/domain/middleware"
	"github.com/felixgeelhaar/agent-shell/infrastructure/logging"
)

// Recover returns middleware that turns a panic anywhere below it into a
// Failed result.
func Recover() middleware.Middleware {
	return func(next middleware.Handler) middleware.Handler {
		return func(ctx context.Context, execCtx *middleware.ExecutionContext) (result action.Result, err error) {
			defer func() {
				if r := recover(); r != nil {
					perr := fmt.Errorf("%w: %v", action.ErrPanicked, r)
					logging.Error().
						Add(logging.AgentName(execCtx.AgentName)).
						Add(logging.ActionName(execCtx.Action.Name())).
						Add(logging.ErrorField(perr)).
						Msg("recovered panic in action chain")
					result = action.Failed(fmt.Sprintf("Action %s panicked: %v", execCtx.Action.Name(), r)).WithErr(perr)
					err = nil
				}
			}()
			return next(ctx, execCtx)
		}
	}
}
