package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.EventPublished()
	m.EventPublished()
	m.EventFailed()
	if got := testutil.ToFloat64(m.events.WithLabelValues("published")); got != 2 {
		t.Fatalf("expected 2 published events, got %f", got)
	}
	if got := testutil.ToFloat64(m.events.WithLabelValues("failed")); got != 1 {
		t.Fatalf("expected 1 failed event, got %f", got)
	}

	m.AvailabilityCheck(OutcomeFallback)
	if got := testutil.ToFloat64(m.checks.WithLabelValues(OutcomeFallback)); got != 1 {
		t.Fatalf("expected 1 fallback check, got %f", got)
	}

	m.FlowRejected("unavailable")
	if got := testutil.ToFloat64(m.flowRejected.WithLabelValues("unavailable")); got != 1 {
		t.Fatalf("expected 1 rejected flow, got %f", got)
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.EventPublished()
	m.EventFailed()
	m.AvailabilityCheck(OutcomeAvailable)
	m.FlowRejected("error")
}
