package observability

import (
	"testing"

	"github.com/xraph/go-utils/metrics"
)

func TestNewMetricsInstruments(t *testing.T) {
	m := NewMetrics(metrics.NewMetricsCollector("test"))

	if m.PublishesTotal == nil {
		t.Fatal("PublishesTotal should not be nil")
	}
	if m.AttemptsTotal == nil {
		t.Fatal("AttemptsTotal should not be nil")
	}
	if m.DeliveryLatency == nil {
		t.Fatal("DeliveryLatency should not be nil")
	}
	if m.ActiveEndpoints == nil {
		t.Fatal("ActiveEndpoints should not be nil")
	}
	if m.InFlight == nil {
		t.Fatal("InFlight should not be nil")
	}
}

func TestRecordAttempt(t *testing.T) {
	m := NewMetrics(metrics.NewMetricsCollector("test"))

	// Must not panic for either outcome.
	m.RecordAttempt("success", 0.5)
	m.RecordAttempt("failed", 1.2)
}
