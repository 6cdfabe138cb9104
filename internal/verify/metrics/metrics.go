package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the combined verifier.
type Metrics struct {
	// Outcome latencies by evidence source
	OutcomeLatency *prometheus.HistogramVec

	// Combined decisions by overall status and risk score
	Decisions *prometheus.CounterVec

	// Overall verification latency including both lookups
	VerifyLatency prometheus.Histogram
}

// New creates a new Metrics instance with all verifier metrics registered.
func New() *Metrics {
	return &Metrics{
		OutcomeLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "trustlens_verify_outcome_duration_seconds",
			Help:    "Duration of outcome gathering by source",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"source"}), // source: "registry", "sanctions"

		Decisions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "trustlens_verify_decisions_total",
			Help: "Total combined verification decisions by status and risk",
		}, []string{"status", "risk"}),

		VerifyLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "trustlens_verify_duration_seconds",
			Help:    "Duration of full combined verification including both lookups",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
	}
}

// ObserveOutcomeLatency records the duration of one outcome fetch.
func (m *Metrics) ObserveOutcomeLatency(source string, d time.Duration) {
	if m != nil {
		m.OutcomeLatency.WithLabelValues(source).Observe(d.Seconds())
	}
}

// IncrementDecision records a combined decision.
func (m *Metrics) IncrementDecision(status, risk string) {
	if m != nil {
		m.Decisions.WithLabelValues(status, risk).Inc()
	}
}

// ObserveVerifyLatency records the total verification duration.
func (m *Metrics) ObserveVerifyLatency(d time.Duration) {
	if m != nil {
		m.VerifyLatency.Observe(d.Seconds())
	}
}
