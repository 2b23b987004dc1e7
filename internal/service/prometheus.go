package service

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"ordercore/internal/engine"
)

// PrometheusMetricsRecorder exports operation durations and per-rule
// outcome counts through a prometheus registry, for deployments that
// scrape rather than poll expvar.
type PrometheusMetricsRecorder struct {
	durations *prometheus.HistogramVec
	results   *prometheus.CounterVec
	outcomes  *prometheus.CounterVec
}

// NewPrometheusMetricsRecorder constructs a recorder and registers its
// collectors with reg. Passing prometheus.DefaultRegisterer wires the
// recorder into the process-global registry.
func NewPrometheusMetricsRecorder(reg prometheus.Registerer) (*PrometheusMetricsRecorder, error) {
	r := &PrometheusMetricsRecorder{
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ordercore",
			Name:      "operation_duration_seconds",
			Help:      "Duration of correction service operations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation", "status"}),
		results: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ordercore",
			Name:      "operations_total",
			Help:      "Correction service operations by result.",
		}, []string{"operation", "status"}),
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ordercore",
			Name:      "rule_outcomes_total",
			Help:      "Per-rule correction outcomes by tag.",
		}, []string{"tag"}),
	}
	for _, c := range []prometheus.Collector{r.durations, r.results, r.outcomes} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Observe records one service operation.
func (r *PrometheusMetricsRecorder) Observe(_ context.Context, operation string, success bool, duration time.Duration) {
	if operation == "" {
		return
	}
	status := "error"
	if success {
		status = "success"
	}
	r.durations.WithLabelValues(operation, status).Observe(duration.Seconds())
	r.results.WithLabelValues(operation, status).Inc()
}

// CountOutcomes accumulates per-rule outcome tags.
func (r *PrometheusMetricsRecorder) CountOutcomes(_ context.Context, counts map[engine.Tag]int) {
	for tag, n := range counts {
		r.outcomes.WithLabelValues(string(tag)).Add(float64(n))
	}
}
