// Package telemetry provides OpenTelemetry tracing and metrics for the
// agent runtime.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/felixgeelhaar/agent-shell/domain/config"
)

// ErrUnknownExporter is returned for an unsupported tracing exporter.
var ErrUnknownExporter = errors.New("unknown trace exporter")

// Provider owns the tracer provider and its exporters.
type Provider struct {
	serviceName    string
	tracerProvider trace.TracerProvider
	shutdownFuncs  []func(context.Context) error
}

type options struct {
	version  string
	writer   io.Writer
	exporter sdktrace.SpanExporter
	global   bool
}

// Option configures a Provider.
type Option func(*options)

// WithServiceVersion sets the service.version resource attribute.
func WithServiceVersion(v string) Option {
	return func(o *options) {
		o.version = v
	}
}

// WithWriter sets where the stdout exporter writes. Defaults to os.Stderr
// so spans never mix with user-facing output.
func WithWriter(w io.Writer) Option {
	return func(o *options) {
		o.writer = w
	}
}

// WithSpanExporter overrides the configured exporter. Spans are exported
// synchronously.
func WithSpanExporter(exp sdktrace.SpanExporter) Option {
	return func(o *options) {
		o.exporter = exp
	}
}

// WithGlobal installs the provider as the otel global tracer provider.
func WithGlobal() Option {
	return func(o *options) {
		o.global = true
	}
}

// NewProvider builds a tracer provider from the telemetry config. When
// tracing is disabled the provider hands out no-op tracers.
func NewProvider(ctx context.Context, cfg config.TelemetryConfig, opts ...Option) (*Provider, error) {
	o := options{version: "dev", writer: os.Stderr}
	for _, opt := range opts {
		opt(&o)
	}

	p := &Provider{serviceName: cfg.ServiceName}
	if p.serviceName == "" {
		p.serviceName = "agentshell"
	}

	if !cfg.Tracing.Enabled && o.exporter == nil {
		p.tracerProvider = noop.NewTracerProvider()
		return p, nil
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(p.serviceName),
		semconv.ServiceVersion(o.version),
	)

	var spanOpt sdktrace.TracerProviderOption
	if o.exporter != nil {
		spanOpt = sdktrace.WithSyncer(o.exporter)
	} else {
		exporter, err := newExporter(ctx, cfg.Tracing, o.writer)
		if err != nil {
			return nil, err
		}
		spanOpt = sdktrace.WithBatcher(exporter)
	}

	tp := sdktrace.NewTracerProvider(
		spanOpt,
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	if o.global {
		otel.SetTracerProvider(tp)
		otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		))
	}

	p.tracerProvider = tp
	p.shutdownFuncs = append(p.shutdownFuncs, tp.Shutdown)
	return p, nil
}

func newExporter(ctx context.Context, cfg config.TracingConfig, w io.Writer) (sdktrace.SpanExporter, error) {
	switch cfg.Exporter {
	case config.ExporterOTLP:
		return otlptracegrpc.New(ctx,
			otlptracegrpc.WithEndpoint(cfg.Endpoint),
			otlptracegrpc.WithInsecure(),
			otlptracegrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())),
		)
	case config.ExporterStdout, "":
		return stdouttrace.New(stdouttrace.WithWriter(w))
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownExporter, cfg.Exporter)
	}
}

// Tracer returns a named tracer from the provider.
func (p *Provider) Tracer(name string) trace.Tracer {
	return p.tracerProvider.Tracer(name)
}

// ServiceName returns the service name reported on spans.
func (p *Provider) ServiceName() string {
	return p.serviceName
}

// Shutdown flushes and stops exporters.
func (p *Provider) Shutdown(ctx context.Context) error {
	var errs []error
	for _, fn := range p.shutdownFuncs {
		if err := fn(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
