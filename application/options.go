package application

import (
	"go.opentelemetry.io/otel/trace"

	"github.com/felixgeelhaar/agent-shell/domain/action"
	"github.com/felixgeelhaar/agent-shell/domain/journal"
	"github.com/felixgeelhaar/agent-shell/domain/middleware"
	"github.com/felixgeelhaar/agent-shell/infrastructure/auth"
	"github.com/felixgeelhaar/agent-shell/infrastructure/planner"
	"github.com/felixgeelhaar/agent-shell/infrastructure/resilience"
	"github.com/felixgeelhaar/agent-shell/infrastructure/telemetry"
)

// RuntimeConfig holds the collaborators of a Runtime. Zero values are
// replaced by defaults in NewRuntime.
type RuntimeConfig struct {
	Planner       planner.Planner
	Authenticator auth.Authenticator
	Journal       journal.Store
	Recent        int
	Metrics       telemetry.Metrics
	Tracer        trace.Tracer
	LogSink       action.LogFunc
	Executor      *resilience.Executor
	Middleware    []middleware.Middleware
}

// Option configures the runtime.
type Option func(*RuntimeConfig)

// WithPlanner sets the planner. Defaults to the rule planner.
func WithPlanner(p planner.Planner) Option {
	return func(c *RuntimeConfig) {
		c.Planner = p
	}
}

// WithAuthenticator sets the authenticator used by Init.
func WithAuthenticator(a auth.Authenticator) Option {
	return func(c *RuntimeConfig) {
		c.Authenticator = a
	}
}

// WithJournal sets the journal store. The caller keeps ownership and closes it.
func WithJournal(s journal.Store) Option {
	return func(c *RuntimeConfig) {
		c.Journal = s
	}
}

// WithRecent sets how many journal entries the planner sees.
func WithRecent(n int) Option {
	return func(c *RuntimeConfig) {
		c.Recent = n
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m telemetry.Metrics) Option {
	return func(c *RuntimeConfig) {
		c.Metrics = m
	}
}

// WithTracer sets the tracer for tick, task and action spans.
func WithTracer(t trace.Tracer) Option {
	return func(c *RuntimeConfig) {
		c.Tracer = t
	}
}

// WithLogSink sets the diagnostic sink handed to actions and used for
// verbose output.
func WithLogSink(sink action.LogFunc) Option {
	return func(c *RuntimeConfig) {
		c.LogSink = sink
	}
}

// WithExecutor sets the executor that serializes runtime calls.
func WithExecutor(e *resilience.Executor) Option {
	return func(c *RuntimeConfig) {
		c.Executor = e
	}
}

// WithMiddleware appends middleware after the default chain, closest to
// the action itself.
func WithMiddleware(ms ...middleware.Middleware) Option {
	return func(c *RuntimeConfig) {
		c.Middleware = append(c.Middleware, ms...)
	}
}
