package main

import (
	"context"
	"fmt"
	"io"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// tracing holds the tracer passes use, and shuts down the provider behind
// it, flushing any spans it's still holding.
type tracing struct {
	tracer   trace.Tracer
	provider *sdktrace.TracerProvider
}

// newTracing returns a tracer that writes spans to w as JSON when enabled,
// and a no-op tracer when it isn't.
func newTracing(enabled bool, w io.Writer) (*tracing, error) {
	if !enabled {
		return &tracing{tracer: noop.NewTracerProvider().Tracer("nest")}, nil
	}
	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w), stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, fmt.Errorf("create stdout exporter: %w", err)
	}
	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewSchemaless(
			attribute.String("service.name", "nest"),
			attribute.String("service.version", version),
		)),
	)
	return &tracing{
		tracer:   provider.Tracer("impractical.co/nest"),
		provider: provider,
	}, nil
}

func (t *tracing) Shutdown(ctx context.Context) error {
	if t.provider == nil {
		return nil
	}
	return t.provider.Shutdown(ctx)
}
