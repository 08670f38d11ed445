package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records rxflow metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordDelivery records a value delivered to a subscriber callback.
	RecordDelivery(ctx context.Context, pipeline string)

	// RecordSuppressed records a delivery discarded because its subscription
	// was no longer active.
	RecordSuppressed(ctx context.Context, pipeline string)

	// RecordStageError records a failure converted to an error signal.
	RecordStageError(ctx context.Context, stage string)

	// RecordDebounceDropped records a value superseded inside a debounce window.
	RecordDebounceDropped(ctx context.Context, pipeline string)

	// RecordSearch records a blocking lookup with its duration, result count
	// and error status.
	RecordSearch(ctx context.Context, results int, duration time.Duration, err error)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	deliveries     metric.Int64Counter
	suppressed     metric.Int64Counter
	stageErrors    metric.Int64Counter
	debounced      metric.Int64Counter
	searchLatency  metric.Float64Histogram
	searchResults  metric.Int64Histogram
	searchFailures metric.Int64Counter
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics returns the default OTel metrics instance.
// Lazily initializes the metrics on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

// newOtelMetrics creates a new OTel metrics instance.
func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("rxflow")

	deliveries, err := meter.Int64Counter("rxflow.deliveries",
		metric.WithDescription("Number of values delivered to subscribers"),
	)
	if err != nil {
		return nil, err
	}

	suppressed, err := meter.Int64Counter("rxflow.suppressed",
		metric.WithDescription("Number of deliveries discarded after cancellation"),
	)
	if err != nil {
		return nil, err
	}

	stageErrors, err := meter.Int64Counter("rxflow.stage.errors",
		metric.WithDescription("Number of stage failures"),
	)
	if err != nil {
		return nil, err
	}

	debounced, err := meter.Int64Counter("rxflow.debounce.dropped",
		metric.WithDescription("Number of values superseded inside a debounce window"),
	)
	if err != nil {
		return nil, err
	}

	searchLatency, err := meter.Float64Histogram("rxflow.search.latency_ms",
		metric.WithDescription("Blocking lookup latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	searchResults, err := meter.Int64Histogram("rxflow.search.results",
		metric.WithDescription("Number of results returned per lookup"),
	)
	if err != nil {
		return nil, err
	}

	searchFailures, err := meter.Int64Counter("rxflow.search.errors",
		metric.WithDescription("Number of failed lookups"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		deliveries:     deliveries,
		suppressed:     suppressed,
		stageErrors:    stageErrors,
		debounced:      debounced,
		searchLatency:  searchLatency,
		searchResults:  searchResults,
		searchFailures: searchFailures,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

func (m *otelMetrics) RecordDelivery(ctx context.Context, pipeline string) {
	m.deliveries.Add(ctx, 1, metric.WithAttributes(attribute.String("pipeline", pipeline)))
}

func (m *otelMetrics) RecordSuppressed(ctx context.Context, pipeline string) {
	m.suppressed.Add(ctx, 1, metric.WithAttributes(attribute.String("pipeline", pipeline)))
}

func (m *otelMetrics) RecordStageError(ctx context.Context, stage string) {
	m.stageErrors.Add(ctx, 1, metric.WithAttributes(attribute.String("stage", stage)))
}

func (m *otelMetrics) RecordDebounceDropped(ctx context.Context, pipeline string) {
	m.debounced.Add(ctx, 1, metric.WithAttributes(attribute.String("pipeline", pipeline)))
}

// RecordSearch records a lookup.
func (m *otelMetrics) RecordSearch(ctx context.Context, results int, duration time.Duration, err error) {
	attrs := []attribute.KeyValue{
		attribute.Bool("success", err == nil),
	}
	m.searchLatency.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
	if err != nil {
		m.searchFailures.Add(ctx, 1)
		return
	}
	m.searchResults.Record(ctx, int64(results))
}
