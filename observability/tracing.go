package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/pavvel11/gateflow-sub005"

// Tracer provides OpenTelemetry tracing for webhook deliveries.
type Tracer struct {
	tracer trace.Tracer
}

// NewTracer creates a tracer on the global otel provider.
func NewTracer() *Tracer {
	return &Tracer{
		tracer: otel.Tracer(tracerName),
	}
}

// StartAttemptSpan starts a span for one delivery attempt.
func (t *Tracer) StartAttemptSpan(ctx context.Context, attemptID, eventType, endpointID string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "gateflow.webhook.delivery",
		trace.WithAttributes(
			attribute.String("gateflow.attempt_id", attemptID),
			attribute.String("gateflow.event_type", eventType),
			attribute.String("gateflow.endpoint_id", endpointID),
		),
	)
}

// EndAttemptSpan ends an attempt span with result attributes.
func (t *Tracer) EndAttemptSpan(span trace.Span, statusCode, latencyMs int, errMsg string) {
	span.SetAttributes(
		attribute.Int("http.status_code", statusCode),
		attribute.Int("gateflow.latency_ms", latencyMs),
	)
	if errMsg != "" {
		span.SetAttributes(attribute.String("gateflow.error", errMsg))
	}
	span.End()
}
