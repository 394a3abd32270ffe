package telemetry

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/felixgeelhaar/agent-shell/domain/config"
)

func TestNewProvider_Disabled(t *testing.T) {
	t.Parallel()

	p, err := NewProvider(context.Background(), config.TelemetryConfig{})
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}
	_, span := p.Tracer("test").Start(context.Background(), "noop")
	if span.SpanContext().IsValid() {
		t.Error("disabled provider should hand out no-op spans")
	}
	span.End()
	if err := p.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
	if p.ServiceName() != "agentshell" {
		t.Errorf("ServiceName() = %q", p.ServiceName())
	}
}

func TestNewProvider_SpanExporter(t *testing.T) {
	t.Parallel()

	exp := tracetest.NewInMemoryExporter()
	p, err := NewProvider(context.Background(), config.TelemetryConfig{ServiceName: "svc"}, WithSpanExporter(exp))
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}

	_, span := p.Tracer("test").Start(context.Background(), "tick")
	span.End()

	spans := exp.GetSpans()
	if len(spans) != 1 || spans[0].Name != "tick" {
		t.Fatalf("spans = %v", spans.Snapshots())
	}
	if err := p.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

func TestNewProvider_Stdout(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	cfg := config.TelemetryConfig{Tracing: config.TracingConfig{Enabled: true, Exporter: config.ExporterStdout}}
	p, err := NewProvider(context.Background(), cfg, WithWriter(&buf))
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}

	_, span := p.Tracer("test").Start(context.Background(), "stdout-span")
	span.End()
	if err := p.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte("stdout-span")) {
		t.Errorf("stdout exporter output missing span: %s", buf.String())
	}
}

func TestNewProvider_UnknownExporter(t *testing.T) {
	t.Parallel()

	cfg := config.TelemetryConfig{Tracing: config.TracingConfig{Enabled: true, Exporter: "zipkin"}}
	if _, err := NewProvider(context.Background(), cfg); !errors.Is(err, ErrUnknownExporter) {
		t.Errorf("NewProvider() error = %v, want ErrUnknownExporter", err)
	}
}
