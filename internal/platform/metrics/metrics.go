package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds process-wide HTTP metrics. Module-specific metrics live in
// each module's metrics package.
type Metrics struct {
	RequestDuration *prometheus.HistogramVec
	RequestsTotal   *prometheus.CounterVec
}

// New registers the HTTP metrics with the default Prometheus registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers the HTTP metrics with the given registerer. Tests pass a
// fresh prometheus.NewRegistry() to avoid duplicate registration panics.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fismapp_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"method", "status"}),
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fismapp_http_requests_total",
			Help: "Total HTTP requests by method and status",
		}, []string{"method", "status"}),
	}
}

// ObserveRequest records one served request.
func (m *Metrics) ObserveRequest(method, status string, start time.Time) {
	m.RequestDuration.WithLabelValues(method, status).Observe(time.Since(start).Seconds())
	m.RequestsTotal.WithLabelValues(method, status).Inc()
}
