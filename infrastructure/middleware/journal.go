package middleware

import (
	"context"

	"github.com/felixgeelhaar/agent-shell/domain/action"
	"github.com/felixgeelhaar/agent-shell/domain/journal"
	"github.com/felixgeelhaar/agent-shell/domain/middleware"
	"github.com/felixgeelhaar/agent-shell/infrastructure/logging"
)

// JournalConfig configures the journal recording middleware.
type JournalConfig struct {
	// Store is the journal to append to.
	Store journal.Store
}

// JournalRecording returns middleware that appends every executed action
// to the journal, even when ctx was cancelled mid-call. A failed append is
// logged and never changes the result.
func JournalRecording(cfg JournalConfig) middleware.Middleware {
	return func(next middleware.Handler) middleware.Handler {
		return func(ctx context.Context, execCtx *middleware.ExecutionContext) (action.Result, error) {
			if cfg.Store == nil {
				return next(ctx, execCtx)
			}

			result, err := next(ctx, execCtx)

			entry := journal.Entry{
				Agent:    execCtx.AgentName,
				WorkerID: execCtx.WorkerID,
				Action:   execCtx.Action.Name(),
				Args:     execCtx.Args,
				Status:   result.Status,
				Message:  result.Message,
				Mode:     execCtx.Mode,
				Task:     execCtx.Task,
			}
			if err != nil {
				entry.Status = action.StatusFailed
				entry.Message = err.Error()
			}

			if jerr := cfg.Store.Append(context.WithoutCancel(ctx), entry); jerr != nil {
				logging.Warn().
					Add(logging.AgentName(execCtx.AgentName)).
					Add(logging.ActionName(execCtx.Action.Name())).
					Add(logging.ErrorField(jerr)).
					Msg("failed to append journal entry")
			}

			return result, err
		}
	}
}
