package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the service counters. A nil *Metrics is valid and records nothing.
type Metrics struct {
	authResults     *prometheus.CounterVec
	reviewSubmits   *prometheus.CounterVec
	ratingConflicts prometheus.Counter
	catalogFailures *prometheus.CounterVec
}

// New creates the counters and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		authResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "showoff",
			Name:      "auth_results_total",
			Help:      "Auth flow results by flow and outcome.",
		}, []string{"flow", "outcome"}),
		reviewSubmits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "showoff",
			Name:      "review_submissions_total",
			Help:      "Review submissions by outcome.",
		}, []string{"outcome"}),
		ratingConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "showoff",
			Name:      "rating_recompute_conflicts_total",
			Help:      "Average rating writes rejected by a version check.",
		}),
		catalogFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "showoff",
			Name:      "catalog_fetch_failures_total",
			Help:      "Catalog fetches that degraded to an empty list.",
		}, []string{"kind"}),
	}
	reg.MustRegister(m.authResults, m.reviewSubmits, m.ratingConflicts, m.catalogFailures)
	return m
}

func (m *Metrics) AuthResult(flow string, success bool) {
	if m == nil {
		return
	}
	outcome := "failure"
	if success {
		outcome = "success"
	}
	m.authResults.WithLabelValues(flow, outcome).Inc()
}

func (m *Metrics) ReviewSubmitted(outcome string) {
	if m == nil {
		return
	}
	m.reviewSubmits.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RatingConflict() {
	if m == nil {
		return
	}
	m.ratingConflicts.Inc()
}

func (m *Metrics) CatalogFailure(kind string) {
	if m == nil {
		return
	}
	m.catalogFailures.WithLabelValues(kind).Inc()
}
