package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Outcomes of a single availability check as seen by the water service.
const (
	OutcomeAvailable   = "available"
	OutcomeUnavailable = "unavailable"
	OutcomeFallback    = "fallback"
	OutcomeError       = "error"
)

// Metrics are the collectors for the cross-service protocol. A nil *Metrics
// is valid and records nothing.
type Metrics struct {
	events       *prometheus.CounterVec
	checks       *prometheus.CounterVec
	flowRejected *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "irrigation_overconsumption_events_total",
			Help: "Over-consumption events handed to the notifiers, by result.",
		}, []string{"result"}),
		checks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "irrigation_availability_checks_total",
			Help: "Pump availability checks performed by the water service, by outcome.",
		}, []string{"outcome"}),
		flowRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "irrigation_flow_readings_rejected_total",
			Help: "Flow readings refused because the pump could not be confirmed available.",
		}, []string{"reason"}),
	}
	reg.MustRegister(m.events, m.checks, m.flowRejected)
	return m
}

func (m *Metrics) EventPublished() {
	if m != nil {
		m.events.WithLabelValues("published").Inc()
	}
}

func (m *Metrics) EventFailed() {
	if m != nil {
		m.events.WithLabelValues("failed").Inc()
	}
}

func (m *Metrics) AvailabilityCheck(outcome string) {
	if m != nil {
		m.checks.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) FlowRejected(reason string) {
	if m != nil {
		m.flowRejected.WithLabelValues(reason).Inc()
	}
}
