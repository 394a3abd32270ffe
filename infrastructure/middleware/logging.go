package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/agent-shell/domain/action"
	"github.com/felixgeelhaar/agent-shell/domain/middleware"
	"github.com/felixgeelhaar/agent-shell/infrastructure/logging"
)

// LoggingConfig configures the logging middleware.
type LoggingConfig struct {
	// LogArgs logs the action args (may contain sensitive data).
	LogArgs bool
}

// Logging returns middleware that logs action execution.
func Logging(cfg LoggingConfig) middleware.Middleware {
	return func(next middleware.Handler) middleware.Handler {
		return func(ctx context.Context, execCtx *middleware.ExecutionContext) (action.Result, error) {
			start := time.Now()

			entry := logging.Debug().
				Add(logging.AgentName(execCtx.AgentName)).
				Add(logging.WorkerID(execCtx.WorkerID)).
				Add(logging.ActionName(execCtx.Action.Name())).
				Add(logging.Mode(execCtx.Mode))

			if cfg.LogArgs && len(execCtx.Args) > 0 {
				entry = entry.Add(logging.Str("args", fmt.Sprint(map[string]any(execCtx.Args))))
			}
			if execCtx.Reason != "" {
				entry = entry.Add(logging.Reason(execCtx.Reason))
			}

			entry.Msg("executing action")

			result, err := next(ctx, execCtx)
			duration := time.Since(start)

			switch {
			case err != nil:
				logging.Error().
					Add(logging.AgentName(execCtx.AgentName)).
					Add(logging.ActionName(execCtx.Action.Name())).
					Add(logging.ErrorField(err)).
					Add(logging.Duration(duration)).
					Msg("action chain failed")
			case result.IsFailed():
				e := logging.Warn().
					Add(logging.AgentName(execCtx.AgentName)).
					Add(logging.ActionName(execCtx.Action.Name())).
					Add(logging.Status(result.Status)).
					Add(logging.Duration(duration))
				if result.Err != nil {
					e = e.Add(logging.ErrorField(result.Err))
				}
				e.Msg(result.Message)
			default:
				logging.Info().
					Add(logging.AgentName(execCtx.AgentName)).
					Add(logging.ActionName(execCtx.Action.Name())).
					Add(logging.Status(result.Status)).
					Add(logging.Duration(duration)).
					Msg("action executed")
			}

			return result, err
		}
	}
}
