package tracer

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/Aleph-Alpha/spantrace/v1/observability"
)

// instrumentationName names the tracer all spans of this module are created with.
const instrumentationName = "github.com/Aleph-Alpha/spantrace"

// Logger defines the interface for logging operations in the tracer package.
// This interface allows the package to use any logging implementation that
// conforms to these methods.
type Logger interface {
	Info(msg string, err error, fields ...map[string]interface{})
	Debug(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
	Fatal(msg string, err error, fields ...map[string]interface{})
}

// propagator is the W3C trace context + baggage propagator used for carriers.
var propagator = propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{})

// Tracer provides a simplified API for distributed tracing with OpenTelemetry.
// It wraps the OpenTelemetry TracerProvider and provides convenient methods for
// creating spans, running units of work inside them, recording errors, and
// propagating trace context across service boundaries.
//
// The Tracer is safe for concurrent use and can be shared across goroutines.
type Tracer struct {
	provider *sdktrace.TracerProvider
	tracer   trace.Tracer
	logger   Logger
	observer observability.Observer
}

// NewClient creates and initializes a new Tracer instance with OpenTelemetry.
// This function sets up the OpenTelemetry tracer provider with the provided configuration,
// configures the OTLP/HTTP exporter if enabled, and sets global OpenTelemetry settings.
//
// If the exporter fails to initialize, it will log a fatal error.
//
// The function also configures resource attributes for the service, including:
//   - Service name
//   - Deployment environment
//   - Environment tag
//
// Example:
//
//	cfg := tracer.Config{
//	    ServiceName:    "items-search",
//	    AppEnv:         "production",
//	    EnableExport:   true,
//	    ExportEndpoint: "https://api.honeycomb.io/v1/traces",
//	    ExportHeaders:  map[string]string{"x-honeycomb-team": apiKey},
//	}
//
//	tracerClient := tracer.NewClient(cfg, logger)
func NewClient(cfg Config, logger Logger) *Tracer {
	var options []sdktrace.TracerProviderOption

	if cfg.EnableExport {
		client := otlptracehttp.NewClient(exporterOptions(cfg)...)
		exporter, err := otlptrace.New(context.Background(), client)
		if err != nil {
			logger.Fatal("cannot initiate tracer", err, nil)
			return nil
		}
		options = append(options, sdktrace.WithBatcher(exporter))
		logger.Info("trace export enabled", nil, map[string]interface{}{
			"endpoint": cfg.ExportEndpoint,
		})
	}

	options = append(options, sdktrace.WithResource(resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
		semconv.DeploymentEnvironment(cfg.AppEnv),
		attribute.String("environment", cfg.AppEnv),
	)))

	tp := sdktrace.NewTracerProvider(options...)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagator)

	return NewClientWithProvider(tp, logger)
}

// NewClientWithProvider wraps a TracerProvider owned by the caller, for
// example one built with a tracetest.SpanRecorder. Global OpenTelemetry
// settings are left untouched.
func NewClientWithProvider(tp *sdktrace.TracerProvider, logger Logger) *Tracer {
	return &Tracer{
		provider: tp,
		tracer:   tp.Tracer(instrumentationName),
		logger:   logger,
	}
}

// WithObserver attaches an observer notified once per finalized span.
// It returns the same instance for chaining.
func (t *Tracer) WithObserver(observer observability.Observer) *Tracer {
	t.observer = observer
	return t
}

// Shutdown flushes pending spans and stops the provider.
func (t *Tracer) Shutdown(ctx context.Context) error {
	if t == nil || t.provider == nil {
		return nil
	}
	return t.provider.Shutdown(ctx)
}

func exporterOptions(cfg Config) []otlptracehttp.Option {
	var opts []otlptracehttp.Option
	if cfg.ExportEndpoint != "" {
		opts = append(opts, otlptracehttp.WithEndpointURL(cfg.ExportEndpoint))
	}
	if len(cfg.ExportHeaders) > 0 {
		opts = append(opts, otlptracehttp.WithHeaders(cfg.ExportHeaders))
	}
	return opts
}
