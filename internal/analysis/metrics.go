package analysis

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var meter = otel.Meter("ludb.analysis")

var (
	simplifiedTotal  metric.Int64Counter
	analysisDuration metric.Float64Histogram

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics creates the instruments on first use. Safe to call repeatedly.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		simplifiedTotal, err = meter.Int64Counter(
			"ludb_constraints_simplified_total",
			metric.WithDescription("Constraints simplified, by backend and outcome"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		analysisDuration, err = meter.Float64Histogram(
			"ludb_analysis_duration_seconds",
			metric.WithDescription("Duration of one system analysis"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
		}
	})
	return metricsErr
}

// outcome labels a simplification: "linear" or the lowercased error code.
func outcome(code string) string {
	if code == "" {
		return "linear"
	}
	return strings.ToLower(code)
}

func recordConstraint(ctx context.Context, backend, code string) {
	if err := initMetrics(); err != nil {
		return
	}
	simplifiedTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("backend", backend),
		attribute.String("outcome", outcome(code)),
	))
}

func recordAnalysis(ctx context.Context, backend string, d time.Duration, linear bool) {
	if err := initMetrics(); err != nil {
		return
	}
	analysisDuration.Record(ctx, d.Seconds(), metric.WithAttributes(
		attribute.String("backend", backend),
		attribute.Bool("linear", linear),
	))
}
