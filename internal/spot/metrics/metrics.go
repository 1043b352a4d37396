package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the SPOT module. All methods are safe
// on a nil receiver so tests can omit metrics.
type Metrics struct {
	// Ledger call latency by contract function and outcome
	LedgerLatency *prometheus.HistogramVec

	// Orchestrated action outcomes by action and status
	ActionOutcome *prometheus.CounterVec

	// Events dropped from a listing because a per-event fetch failed
	PartialReadFailures prometheus.Counter

	// Upload outcomes: stored, rejected_type, rejected_size, error
	Uploads *prometheus.CounterVec
}

// New registers all SPOT metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		LedgerLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "spot_ledger_call_duration_seconds",
			Help:    "Duration of contract calls by function and outcome",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"function", "outcome"}),

		ActionOutcome: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "spot_action_outcomes_total",
			Help: "Orchestrated action attempts by action and status",
		}, []string{"action", "status"}),

		PartialReadFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "spot_listing_partial_failures_total",
			Help: "Events omitted from listings because their fetch failed",
		}),

		Uploads: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "spot_uploads_total",
			Help: "Image uploads by outcome",
		}, []string{"outcome"}),
	}
}

// ObserveLedgerCall records one contract call.
func (m *Metrics) ObserveLedgerCall(function string, d time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.LedgerLatency.WithLabelValues(function, outcome).Observe(d.Seconds())
}

// IncrementOutcome records an orchestrated action attempt.
func (m *Metrics) IncrementOutcome(action, status string) {
	if m != nil {
		m.ActionOutcome.WithLabelValues(action, status).Inc()
	}
}

// IncrementPartialFailure records one event omitted from a listing.
func (m *Metrics) IncrementPartialFailure() {
	if m != nil {
		m.PartialReadFailures.Inc()
	}
}

// ObserveUpload records an upload outcome.
func (m *Metrics) ObserveUpload(outcome string) {
	if m != nil {
		m.Uploads.WithLabelValues(outcome).Inc()
	}
}
