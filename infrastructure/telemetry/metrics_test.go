package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func setupTestMetrics(t *testing.T) (*sdkmetric.ManualReader, *MetricsProvider) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	mp, err := NewMetricsProvider(MetricsConfig{MeterProvider: provider})
	if err != nil {
		t.Fatalf("NewMetricsProvider() error = %v", err)
	}
	return reader, mp
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("failed to collect metrics: %v", err)
	}

	out := make(map[string]metricdata.Aggregation)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

func sumOf(t *testing.T, data metricdata.Aggregation) int64 {
	t.Helper()

	sum, ok := data.(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("expected Sum[int64], got %T", data)
	}
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestMetricsProvider_RecordAction(t *testing.T) {
	t.Parallel()

	reader, mp := setupTestMetrics(t)
	ctx := context.Background()

	mp.RecordAction(ctx, "bot", "greeting_worker", "greet", true, 10*time.Millisecond)
	mp.RecordAction(ctx, "bot", "greeting_worker", "greet", false, 5*time.Millisecond)

	got := collect(t, reader)
	if n := sumOf(t, got["agent.action.executions"]); n != 2 {
		t.Errorf("agent.action.executions = %d, want 2", n)
	}
	if n := sumOf(t, got["agent.errors"]); n != 1 {
		t.Errorf("agent.errors = %d, want 1", n)
	}
	if _, ok := got["agent.action.duration"].(metricdata.Histogram[float64]); !ok {
		t.Errorf("agent.action.duration = %T, want histogram", got["agent.action.duration"])
	}
}

func TestMetricsProvider_TicksAndTasks(t *testing.T) {
	t.Parallel()

	reader, mp := setupTestMetrics(t)
	ctx := context.Background()

	mp.RecordTick(ctx, "bot", 1, nil, time.Millisecond)
	mp.RecordTick(ctx, "bot", 0, errors.New("planner down"), time.Millisecond)
	mp.RecordTask(ctx, "bot", "chat_worker", nil, time.Millisecond)
	mp.RecordPlanning(ctx, "bot", "tick", time.Millisecond)

	got := collect(t, reader)
	if n := sumOf(t, got["agent.ticks"]); n != 2 {
		t.Errorf("agent.ticks = %d, want 2", n)
	}
	if n := sumOf(t, got["agent.tasks"]); n != 1 {
		t.Errorf("agent.tasks = %d, want 1", n)
	}
	if n := sumOf(t, got["agent.errors"]); n != 1 {
		t.Errorf("agent.errors = %d, want 1", n)
	}
	if _, ok := got["agent.planning.duration"]; !ok {
		t.Error("agent.planning.duration metric not found")
	}
}

func TestNoopMetrics(t *testing.T) {
	t.Parallel()

	var m Metrics = NoopMetrics{}
	m.RecordAction(context.Background(), "a", "w", "x", false, 0)
	m.RecordTick(context.Background(), "a", 0, nil, 0)
}
