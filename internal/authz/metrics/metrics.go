package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the authorization engine.
// Tracks decision outcomes, evaluation latency, and grant-row anomalies.
type Metrics struct {
	Decisions          *prometheus.CounterVec
	EvaluateDuration   prometheus.Histogram
	DeleteGuardDenials prometheus.Counter
	AnomalousGrants    *prometheus.CounterVec
}

// New creates a new Metrics instance with all engine metrics registered.
func New() *Metrics {
	return &Metrics{
		Decisions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "clubdir_authz_decisions_total",
			Help: "Authorization decisions by action, resource type, and outcome",
		}, []string{"action", "resource_type", "outcome"}),
		EvaluateDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "clubdir_authz_evaluate_duration_seconds",
			Help:    "Duration of a single Authorize evaluation (request critical path)",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		DeleteGuardDenials: promauto.NewCounter(prometheus.CounterOpts{
			Name: "clubdir_authz_delete_guard_denials_total",
			Help: "Deletions blocked because dependent rows exist",
		}),
		AnomalousGrants: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "clubdir_authz_anomalous_grants_total",
			Help: "Malformed role or membership rows skipped during evaluation",
		}, []string{"kind"}),
	}
}

// RecordDecision counts one decision outcome.
func (m *Metrics) RecordDecision(action, resourceType string, allowed bool) {
	outcome := "deny"
	if allowed {
		outcome = "allow"
	}
	m.Decisions.WithLabelValues(action, resourceType, outcome).Inc()
}

// ObserveEvaluate records the duration of one evaluation.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveEvaluate(start time.Time) {
	m.EvaluateDuration.Observe(time.Since(start).Seconds())
}

// RecordAnomaly counts a malformed grant row by kind ("admin_role" or
// "club_membership").
func (m *Metrics) RecordAnomaly(kind string) {
	m.AnomalousGrants.WithLabelValues(kind).Inc()
}
