// Package observability provides OpenTelemetry tracing for the wire layer.
package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/jeeves-cluster-organization/aerowire"

// InitTracer initializes OpenTelemetry tracing with an OTLP exporter.
// Returns a shutdown function that must be called on service termination.
func InitTracer(serviceName, otlpEndpoint string) (func(context.Context) error, error) {
	ctx := context.Background()

	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(otlpEndpoint),
		otlptracegrpc.WithInsecure(), // Use TLS in production
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion("1.0.0"),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return tp.Shutdown, nil
}

// StartEncodeSpan opens a span around one command build. The returned end
// function records the frame size.
func StartEncodeSpan(ctx context.Context, kind string) (context.Context, func(bytes int, err error)) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "aerowire.encode",
		trace.WithAttributes(attribute.String("command.kind", kind)),
	)
	return ctx, func(bytes int, err error) {
		span.SetAttributes(attribute.Int("command.bytes", bytes))
		if err != nil {
			span.RecordError(err)
		}
		span.End()
	}
}

// StartParseSpan opens a span around one response parse.
func StartParseSpan(ctx context.Context, kind string) (context.Context, func(records int, err error)) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "aerowire.parse",
		trace.WithAttributes(attribute.String("command.kind", kind)),
	)
	return ctx, func(records int, err error) {
		span.SetAttributes(attribute.Int("response.records", records))
		if err != nil {
			span.RecordError(err)
		}
		span.End()
	}
}
