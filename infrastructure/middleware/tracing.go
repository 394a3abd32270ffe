package middleware

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/felixgeelhaar/agent-shell/domain/action"
	"github.com/felixgeelhaar/agent-shell/domain/middleware"
)

// TracingConfig configures the tracing middleware.
type TracingConfig struct {
	// TracerName is the name of the tracer to use.
	TracerName string

	// Tracer is a custom tracer to use. If nil, the global provider is used.
	Tracer trace.Tracer

	// RecordArgs records action args as span attributes.
	RecordArgs bool

	// MaxAttributeSize limits the size of recorded attributes.
	MaxAttributeSize int

	// SpanNamePrefix is prepended to span names.
	SpanNamePrefix string
}

// DefaultTracingConfig returns a sensible default configuration.
func DefaultTracingConfig() TracingConfig {
	return TracingConfig{
		TracerName:       "agentshell",
		RecordArgs:       true,
		MaxAttributeSize: 1024,
		SpanNamePrefix:   "action.",
	}
}

// Tracing returns middleware that creates OpenTelemetry spans for action executions.
func Tracing(cfg TracingConfig) middleware.Middleware {
	tracer := cfg.Tracer
	if tracer == nil {
		name := cfg.TracerName
		if name == "" {
			name = "agentshell"
		}
		tracer = otel.Tracer(name)
	}

	maxSize := cfg.MaxAttributeSize
	if maxSize <= 0 {
		maxSize = 1024
	}

	return func(next middleware.Handler) middleware.Handler {
		return func(ctx context.Context, execCtx *middleware.ExecutionContext) (action.Result, error) {
			ctx, span := tracer.Start(ctx, cfg.SpanNamePrefix+execCtx.Action.Name(),
				trace.WithSpanKind(trace.SpanKindInternal),
				trace.WithAttributes(ActionSpanAttributes(execCtx)...),
			)
			defer span.End()

			if execCtx.Reason != "" {
				span.SetAttributes(attribute.String("action.reason", truncate(execCtx.Reason, maxSize)))
			}
			if cfg.RecordArgs && len(execCtx.Args) > 0 {
				span.SetAttributes(attribute.String("action.args", truncate(fmt.Sprint(map[string]any(execCtx.Args)), maxSize)))
			}

			result, err := next(ctx, execCtx)

			switch {
			case err != nil:
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
			case result.IsFailed():
				if result.Err != nil {
					span.RecordError(result.Err)
				}
				span.SetStatus(codes.Error, result.Message)
			default:
				span.SetStatus(codes.Ok, "")
			}
			span.SetAttributes(attribute.String("action.status", result.Status.String()))

			return result, err
		}
	}
}

// TracingOption configures the tracing middleware.
type TracingOption func(*TracingConfig)

// WithTracer sets a custom tracer.
func WithTracer(tracer trace.Tracer) TracingOption {
	return func(c *TracingConfig) {
		c.Tracer = tracer
	}
}

// WithArgsRecording enables or disables args recording.
func WithArgsRecording(enabled bool) TracingOption {
	return func(c *TracingConfig) {
		c.RecordArgs = enabled
	}
}

// WithSpanNamePrefix sets the span name prefix.
func WithSpanNamePrefix(prefix string) TracingOption {
	return func(c *TracingConfig) {
		c.SpanNamePrefix = prefix
	}
}

// NewTracing creates tracing middleware with the given options.
func NewTracing(opts ...TracingOption) middleware.Middleware {
	cfg := DefaultTracingConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return Tracing(cfg)
}

// ActionSpanAttributes returns standard attributes for an action span.
func ActionSpanAttributes(execCtx *middleware.ExecutionContext) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String("agent.name", execCtx.AgentName),
		attribute.String("agent.mode", string(execCtx.Mode)),
		attribute.String("worker.id", execCtx.WorkerID),
		attribute.String("action.name", execCtx.Action.Name()),
	}
	if execCtx.Task != "" {
		attrs = append(attrs, attribute.Int("task.length", len(execCtx.Task)))
	}
	return attrs
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "...[truncated]"
}
