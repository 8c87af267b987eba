package observability

import (
	gu "github.com/xraph/go-utils/metrics"
)

// Metrics holds metric instruments for the webhook subsystem, backed by any
// go-utils MetricFactory (e.g. the forge-managed metrics system via
// fapp.Metrics()).
type Metrics struct {
	PublishesTotal  gu.Counter
	AttemptsTotal   gu.Counter
	DeliveryLatency gu.Histogram
	ActiveEndpoints gu.Gauge
	InFlight        gu.Gauge
}

// NewMetrics creates the webhook metric instruments using the supplied
// factory. Pass fapp.Metrics() from a forge extension, or
// metrics.NewMetricsCollector() for standalone usage.
func NewMetrics(factory gu.MetricFactory) *Metrics {
	return &Metrics{
		PublishesTotal:  factory.Counter("gateflow_webhook_publishes_total"),
		AttemptsTotal:   factory.Counter("gateflow_webhook_attempts_total"),
		DeliveryLatency: factory.Histogram("gateflow_webhook_delivery_latency_seconds"),
		ActiveEndpoints: factory.Gauge("gateflow_webhook_active_endpoints"),
		InFlight:        factory.Gauge("gateflow_webhook_in_flight_deliveries"),
	}
}

// RecordAttempt records a delivery attempt with its final status and latency.
func (m *Metrics) RecordAttempt(status string, latencySeconds float64) {
	m.AttemptsTotal.WithLabels(map[string]string{"status": status}).Inc()
	m.DeliveryLatency.Observe(latencySeconds)
}
