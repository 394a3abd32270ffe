package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records runtime measurements.
type Metrics interface {
	RecordAction(ctx context.Context, agentName, workerID, actionName string, done bool, duration time.Duration)
	RecordTick(ctx context.Context, agentName string, planSize int, err error, duration time.Duration)
	RecordTask(ctx context.Context, agentName, workerID string, err error, duration time.Duration)
	RecordPlanning(ctx context.Context, agentName, mode string, duration time.Duration)
}

// MetricsConfig configures the metrics provider.
type MetricsConfig struct {
	// MeterName defaults to the module path.
	MeterName string
	// MeterProvider defaults to the otel global.
	MeterProvider metric.MeterProvider
}

// DefaultMetricsConfig returns a default metrics configuration.
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		MeterName: "github.com/felixgeelhaar/agent-shell",
	}
}

// MetricsProvider records into otel instruments.
type MetricsProvider struct {
	actions        metric.Int64Counter
	ticks          metric.Int64Counter
	tasks          metric.Int64Counter
	errors         metric.Int64Counter
	actionDuration metric.Float64Histogram
	tickDuration   metric.Float64Histogram
	taskDuration   metric.Float64Histogram
	planDuration   metric.Float64Histogram
}

// NewMetricsProvider creates the instruments.
func NewMetricsProvider(cfg MetricsConfig) (*MetricsProvider, error) {
	if cfg.MeterName == "" {
		cfg.MeterName = DefaultMetricsConfig().MeterName
	}
	mp := cfg.MeterProvider
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	meter := mp.Meter(cfg.MeterName)

	p := &MetricsProvider{}
	var err error

	if p.actions, err = meter.Int64Counter("agent.action.executions",
		metric.WithDescription("Number of action executions"),
		metric.WithUnit("{execution}"),
	); err != nil {
		return nil, err
	}
	if p.ticks, err = meter.Int64Counter("agent.ticks",
		metric.WithDescription("Number of loop ticks"),
		metric.WithUnit("{tick}"),
	); err != nil {
		return nil, err
	}
	if p.tasks, err = meter.Int64Counter("agent.tasks",
		metric.WithDescription("Number of worker tasks"),
		metric.WithUnit("{task}"),
	); err != nil {
		return nil, err
	}
	if p.errors, err = meter.Int64Counter("agent.errors",
		metric.WithDescription("Number of errors"),
		metric.WithUnit("{error}"),
	); err != nil {
		return nil, err
	}
	if p.actionDuration, err = meter.Float64Histogram("agent.action.duration",
		metric.WithDescription("Duration of action executions"),
		metric.WithUnit("ms"),
	); err != nil {
		return nil, err
	}
	if p.tickDuration, err = meter.Float64Histogram("agent.tick.duration",
		metric.WithDescription("Duration of loop ticks"),
		metric.WithUnit("ms"),
	); err != nil {
		return nil, err
	}
	if p.taskDuration, err = meter.Float64Histogram("agent.task.duration",
		metric.WithDescription("Duration of worker tasks"),
		metric.WithUnit("ms"),
	); err != nil {
		return nil, err
	}
	if p.planDuration, err = meter.Float64Histogram("agent.planning.duration",
		metric.WithDescription("Duration of planning calls"),
		metric.WithUnit("ms"),
	); err != nil {
		return nil, err
	}

	return p, nil
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// RecordAction records one action execution.
func (p *MetricsProvider) RecordAction(ctx context.Context, agentName, workerID, actionName string, done bool, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("agent.name", agentName),
		attribute.String("worker.id", workerID),
		attribute.String("action.name", actionName),
		attribute.Bool("success", done),
	)
	p.actions.Add(ctx, 1, attrs)
	p.actionDuration.Record(ctx, ms(duration), attrs)

	if !done {
		p.errors.Add(ctx, 1, metric.WithAttributes(
			attribute.String("error.type", "action"),
			attribute.String("action.name", actionName),
		))
	}
}

// RecordTick records one loop tick.
func (p *MetricsProvider) RecordTick(ctx context.Context, agentName string, planSize int, err error, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("agent.name", agentName),
		attribute.Int("plan.size", planSize),
		attribute.Bool("success", err == nil),
	)
	p.ticks.Add(ctx, 1, attrs)
	p.tickDuration.Record(ctx, ms(duration), attrs)

	if err != nil {
		p.errors.Add(ctx, 1, metric.WithAttributes(attribute.String("error.type", "tick")))
	}
}

// RecordTask records one worker task.
func (p *MetricsProvider) RecordTask(ctx context.Context, agentName, workerID string, err error, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("agent.name", agentName),
		attribute.String("worker.id", workerID),
		attribute.Bool("success", err == nil),
	)
	p.tasks.Add(ctx, 1, attrs)
	p.taskDuration.Record(ctx, ms(duration), attrs)

	if err != nil {
		p.errors.Add(ctx, 1, metric.WithAttributes(attribute.String("error.type", "task")))
	}
}

// RecordPlanning records the duration of a planner call.
func (p *MetricsProvider) RecordPlanning(ctx context.Context, agentName, mode string, duration time.Duration) {
	p.planDuration.Record(ctx, ms(duration), metric.WithAttributes(
		attribute.String("agent.name", agentName),
		attribute.String("agent.mode", mode),
	))
}

// NoopMetrics discards all measurements.
type NoopMetrics struct{}

// RecordAction is a no-op.
func (NoopMetrics) RecordAction(context.Context, string, string, string, bool, time.Duration) {}

// RecordTick is a no-op.
func (NoopMetrics) RecordTick(context.Context, string, int, error, time.Duration) {}

// RecordTask is a no-op.
func (NoopMetrics) RecordTask(context.Context, string, string, error, time.Duration) {}

// RecordPlanning is a no-op.
func (NoopMetrics) RecordPlanning(context.Context, string, string, time.Duration) {}

var (
	_ Metrics = (*MetricsProvider)(nil)
	_ Metrics = NoopMetrics{}
)
