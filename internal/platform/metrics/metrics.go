package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the HTTP-level Prometheus metrics.
type Metrics struct {
	RequestDuration *prometheus.HistogramVec
}

// New creates and registers the HTTP metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "spot_http_request_duration_seconds",
			Help:    "Duration of HTTP requests by route, method and status",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"route", "method", "status"}),
	}
}

// ObserveRequest records one served request. Safe on a nil receiver.
func (m *Metrics) ObserveRequest(route, method, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.RequestDuration.WithLabelValues(route, method, status).Observe(d.Seconds())
}
