package middleware

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/agent-shell/domain/action"
	"github.com/felixgeelhaar/agent-shell/domain/middleware"
)

// DryRun returns middleware that reports what would run instead of calling
// the action. The report goes through the agent's sink.
func DryRun() middleware.Middleware {
	return func(_ middleware.Handler) middleware.Handler {
		return func(_ context.Context, execCtx *middleware.ExecutionContext) (action.Result, error) {
			msg := fmt.Sprintf("[dry-run] %s.%s %v", execCtx.WorkerID, execCtx.Action.Name(), map[string]any(execCtx.Args))
			if execCtx.Log != nil {
				execCtx.Log(msg)
			}
			return action.Done(msg), nil
		}
	}
}
