package main

import (
	"context"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// tracing owns the OTLP pipeline, or nothing when export is not configured
type tracing struct {
	provider *sdktrace.TracerProvider
}

// newTracing creates an OTLP exporter if OTEL_EXPORTER_OTLP_ENDPOINT is set
func newTracing(ctx context.Context) (*tracing, error) {
	endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if endpoint == "" {
		return &tracing{}, nil
	}

	// The exporter reads the endpoint URL and scheme from the environment itself
	exporter, err := otlptracehttp.New(ctx)
	if err != nil {
		return nil, err
	}

	serviceName := os.Getenv("OTEL_SERVICE_NAME")
	if serviceName == "" {
		serviceName = "seqctl"
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(serviceName),
		)),
	)
	return &tracing{provider: provider}, nil
}

func (t *tracing) Tracer() oteltrace.Tracer {
	if t.provider == nil {
		return otel.Tracer("seqctl")
	}
	return t.provider.Tracer("seqctl")
}

// closeTracing flushes s and logs a failure, for use in defer
func closeTracing(ctx context.Context, s interface{ Shutdown(context.Context) error }, logger *slog.Logger) {
	if err := s.Shutdown(ctx); err != nil {
		logger.Warn("tracing shutdown failed", "error", err)
	}
}

// Shutdown flushes and closes the exporter
func (t *tracing) Shutdown(ctx context.Context) error {
	if t.provider == nil {
		return nil
	}
	return t.provider.Shutdown(ctx)
}
