// Package tracing provides a trimmed-down span accessor for the layout
// engine's one suspension point (the solver call). Exporter wiring
// (Jaeger/OTLP), sampling policy, and resource attribution belong to the
// surrounding server and are out of scope here.
package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "netviz"

// Tracer returns the process-wide tracer registered under the module name.
// If the caller never configures a TracerProvider via otel.SetTracerProvider,
// this resolves to the global no-op tracer, so spans are always safe to
// start.
func Tracer() trace.Tracer {
	return otel.Tracer(instrumentationName)
}

// StartSpan starts a new span on the module tracer.
func StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return Tracer().Start(ctx, name, opts...)
}

// RecordSpanError records an error on the span carried in ctx, if any.
func RecordSpanError(ctx context.Context, err error) {
	trace.SpanFromContext(ctx).RecordError(err)
}

// AddSpanAttributes adds attributes to the span carried in ctx, if any.
func AddSpanAttributes(ctx context.Context, attrs ...attribute.KeyValue) {
	trace.SpanFromContext(ctx).SetAttributes(attrs...)
}
