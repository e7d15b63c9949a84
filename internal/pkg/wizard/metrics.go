package wizard

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "rlyehctl"

// Metrics holds the Prometheus collectors of a wizard session.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	PollsTotal    *prometheus.CounterVec
	StatusTotal   *prometheus.CounterVec
	RequestsTotal *prometheus.CounterVec
	CurrentStep   prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		PollsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: "poller",
				Name:      "polls_total",
				Help:      "Periodic fetches by endpoint and result.",
			},
			[]string{"endpoint", "result"},
		),
		StatusTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: "classifier",
				Name:      "status_total",
				Help:      "Classified status tokens by outcome.",
			},
			[]string{"outcome"},
		),
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: "coordinator",
				Name:      "requests_total",
				Help:      "Single-flight coordinator requests by operation and result.",
			},
			[]string{"operation", "result"},
		),
		CurrentStep: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Subsystem: "wizard",
				Name:      "current_step",
				Help:      "Index of the current wizard step.",
			},
		),
	}
}

func resultLabel(err error) string {
	if err != nil {
		return "error"
	}

	return "success"
}

func (m *Metrics) recordPoll(endpoint string, err error) {
	if m == nil {
		return
	}

	m.PollsTotal.WithLabelValues(endpoint, resultLabel(err)).Inc()
}

func (m *Metrics) recordStatus(outcome string) {
	if m == nil {
		return
	}

	m.StatusTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) recordRequest(operation string, err error) {
	if m == nil {
		return
	}

	m.RequestsTotal.WithLabelValues(operation, resultLabel(err)).Inc()
}

func (m *Metrics) setStep(step int) {
	if m == nil {
		return
	}

	m.CurrentStep.Set(float64(step))
}
