// Package metrics provides Prometheus metrics for the grading daemon.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/oddslab/gradebook/pkg/grade"
)

// GraderMetrics collects and exposes grading-related Prometheus metrics.
type GraderMetrics struct {
	registry *prometheus.Registry

	ResolutionsTotal *prometheus.CounterVec
	ResolveErrors    *prometheus.CounterVec
	ResolveDuration  *prometheus.HistogramVec
	NotReadyTotal    *prometheus.CounterVec
	PendingBets      prometheus.Gauge
	SnapshotFetches  *prometheus.CounterVec
}

// New creates a grader metrics collector with its own registry.
func New() *GraderMetrics {
	registry := prometheus.NewRegistry()

	m := &GraderMetrics{
		registry: registry,

		ResolutionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gradebook_resolutions_total",
				Help: "Total bets graded, by sport and outcome",
			},
			[]string{"sport", "outcome"},
		),
		ResolveErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gradebook_resolve_errors_total",
				Help: "Resolution attempts that errored, by sport and error kind",
			},
			[]string{"sport", "kind"},
		),
		ResolveDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gradebook_resolve_duration_seconds",
				Help:    "Time spent grading a single bet",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
			},
			[]string{"sport"},
		),
		NotReadyTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gradebook_not_ready_total",
				Help: "Resolution attempts deferred for incomplete data",
			},
			[]string{"sport"},
		),
		PendingBets: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "gradebook_pending_bets",
				Help: "Pending bets seen by the last settlement pass",
			},
		),
		SnapshotFetches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gradebook_snapshot_fetches_total",
				Help: "Snapshot lookups, by source and result",
			},
			[]string{"source", "result"},
		),
	}

	registry.MustRegister(
		m.ResolutionsTotal,
		m.ResolveErrors,
		m.ResolveDuration,
		m.NotReadyTotal,
		m.PendingBets,
		m.SnapshotFetches,
	)
	return m
}

// Registry returns the underlying Prometheus registry for serving.
func (m *GraderMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveResolve records the result of one resolution attempt.
func (m *GraderMetrics) ObserveResolve(sport string, res *grade.Resolution, err error, took time.Duration) {
	m.ResolveDuration.WithLabelValues(sport).Observe(took.Seconds())

	switch {
	case err == nil:
		m.ResolutionsTotal.WithLabelValues(sport, string(res.Outcome)).Inc()
	case grade.IsNotReady(err):
		m.NotReadyTotal.WithLabelValues(sport).Inc()
	case grade.IsUnsupported(err):
		m.ResolveErrors.WithLabelValues(sport, "unsupported").Inc()
	default:
		m.ResolveErrors.WithLabelValues(sport, "computation").Inc()
	}
}
