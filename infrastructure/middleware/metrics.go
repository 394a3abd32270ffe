package middleware

import (
	"context"
	"time"

	"github.com/felixgeelhaar/agent-shell/domain/action"
	"github.com/felixgeelhaar/agent-shell/domain/middleware"
	"github.com/felixgeelhaar/agent-shell/infrastructure/telemetry"
)

// MetricsConfig configures the metrics middleware.
type MetricsConfig struct {
	// Provider is the metrics provider to use.
	Provider telemetry.Metrics
}

// Metrics creates a middleware that records the count and duration of
// action executions.
func Metrics(config MetricsConfig) middleware.Middleware {
	if config.Provider == nil {
		config.Provider = telemetry.NoopMetrics{}
	}

	return func(next middleware.Handler) middleware.Handler {
		return func(ctx context.Context, execCtx *middleware.ExecutionContext) (action.Result, error) {
			start := time.Now()

			result, err := next(ctx, execCtx)

			config.Provider.RecordAction(ctx,
				execCtx.AgentName,
				execCtx.WorkerID,
				execCtx.Action.Name(),
				err == nil && result.IsDone(),
				time.Since(start),
			)

			return result, err
		}
	}
}
