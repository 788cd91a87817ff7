package telemetry

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
)

// Config describes the traced service.
type Config struct {
	ServiceName string
	Version     string
	Environment string
	// Output receives exported spans. Default: stdout.
	Output io.Writer
}

// InitTracer installs a global tracer provider exporting to stdout and
// returns its shutdown function, suitable as a shutdown hook.
func InitTracer(cfg Config, log *slog.Logger) (func(context.Context) error, error) {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}

	exporter, err := stdouttrace.New(stdouttrace.WithWriter(out))
	if err != nil {
		return nil, err
	}

	res, err := resource.Merge(
		resource.Default(),
		// An empty schema URL avoids a conflict with the default resource's schema.
		resource.NewWithAttributes(
			"",
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.Version),
			semconv.DeploymentEnvironment(cfg.Environment),
		),
	)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	log.Info("tracing initialized", slog.String("service", cfg.ServiceName))

	return tp.Shutdown, nil
}

// Handler wraps an http.Handler so every request starts a server span.
func Handler(next http.Handler, operation string) http.Handler {
	return otelhttp.NewHandler(next, operation)
}

// Transport wraps a client transport so outbound requests start client spans
// and carry trace context headers. A nil base uses http.DefaultTransport.
func Transport(base http.RoundTripper) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	return otelhttp.NewTransport(base)
}
