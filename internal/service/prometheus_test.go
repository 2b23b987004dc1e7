package service

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"ordercore/internal/engine"
)

func TestPrometheusMetricsRecorder(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	rec, err := NewPrometheusMetricsRecorder(reg)
	if err != nil {
		t.Fatalf("NewPrometheusMetricsRecorder: %v", err)
	}

	rec.Observe(ctx, "correct_document", true, 20*time.Millisecond)
	rec.Observe(ctx, "correct_document", false, 5*time.Millisecond)
	rec.Observe(ctx, "", true, time.Millisecond) // ignored
	rec.CountOutcomes(ctx, map[engine.Tag]int{engine.TagUpdated: 3, engine.TagCreated: 1})

	if got := testutil.ToFloat64(rec.results.WithLabelValues("correct_document", "success")); got != 1 {
		t.Fatalf("success counter = %v", got)
	}
	if got := testutil.ToFloat64(rec.results.WithLabelValues("correct_document", "error")); got != 1 {
		t.Fatalf("error counter = %v", got)
	}
	if got := testutil.ToFloat64(rec.outcomes.WithLabelValues("updated")); got != 3 {
		t.Fatalf("updated counter = %v", got)
	}
	if got := testutil.CollectAndCount(rec.durations); got != 2 {
		t.Fatalf("expected 2 duration series, got %d", got)
	}
}

func TestPrometheusMetricsRecorderDoubleRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewPrometheusMetricsRecorder(reg); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := NewPrometheusMetricsRecorder(reg); err == nil {
		t.Fatalf("duplicate register must fail")
	}
}
