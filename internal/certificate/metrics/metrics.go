package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the certificate module: issuance
// volume, bulk failure volume, and verification outcomes.
type Metrics struct {
	CertificatesIssued prometheus.Counter
	BulkItemFailures   *prometheus.CounterVec
	VerifyResults      *prometheus.CounterVec
	IssueDuration      prometheus.Histogram
}

// New registers the certificate metrics with the default registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers the certificate metrics with the given registerer.
// Tests pass a fresh prometheus.NewRegistry().
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		CertificatesIssued: factory.NewCounter(prometheus.CounterOpts{
			Name: "fismapp_certificates_issued_total",
			Help: "Total number of certificates appended to the ledger",
		}),
		BulkItemFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fismapp_bulk_item_failures_total",
			Help: "Per-recipient failures inside bulk issuance batches",
		}, []string{"kind"}),
		VerifyResults: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fismapp_verify_results_total",
			Help: "Verification outcomes (valid, not_found, malformed)",
		}, []string{"result"}),
		IssueDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "fismapp_issue_duration_seconds",
			Help:    "Duration of single certificate issuance",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// IncrementIssued records one successful issuance.
func (m *Metrics) IncrementIssued() {
	m.CertificatesIssued.Inc()
}

// IncrementBulkFailure records one per-recipient bulk failure of the given kind.
func (m *Metrics) IncrementBulkFailure(kind string) {
	m.BulkItemFailures.WithLabelValues(kind).Inc()
}

// IncrementVerifyResult records one verification outcome.
func (m *Metrics) IncrementVerifyResult(result string) {
	m.VerifyResults.WithLabelValues(result).Inc()
}

// ObserveIssue records the duration of a single issuance.
func (m *Metrics) ObserveIssue(start time.Time) {
	m.IssueDuration.Observe(time.Since(start).Seconds())
}
