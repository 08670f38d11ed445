// Package observability provides structured logging, metrics and tracing
// for rxflow pipelines.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"log/slog"
	"time"
)

// EnrichLogger adds pipeline context to a logger.
// Returns a new logger with pipeline and subscription_id fields.
//
// Example:
//
//	enriched := EnrichLogger(logger, "city-search", sub.ID())
//	enriched.Info("results delivered") // includes pipeline, subscription_id
func EnrichLogger(logger *slog.Logger, pipeline, subscriptionID string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("pipeline", pipeline),
		slog.String("subscription_id", subscriptionID),
	)
}

// LogSubscribe logs a new subscription to a pipeline.
func LogSubscribe(logger *slog.Logger, pipeline, subscriptionID string) {
	if logger == nil {
		return
	}
	logger.Debug("subscribed",
		slog.String("pipeline", pipeline),
		slog.String("subscription_id", subscriptionID),
	)
}

// LogCancel logs an explicit subscription cancellation.
func LogCancel(logger *slog.Logger, pipeline, subscriptionID string) {
	if logger == nil {
		return
	}
	logger.Debug("subscription cancelled",
		slog.String("pipeline", pipeline),
		slog.String("subscription_id", subscriptionID),
	)
}

// LogStageError logs a failure caught at a stage boundary.
func LogStageError(logger *slog.Logger, stage string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("stage failed",
		slog.String("stage", stage),
		slog.String("error", err.Error()),
	)
}

// LogUnhandledError logs an error that reached a subscriber without an
// error callback.
func LogUnhandledError(logger *slog.Logger, pipeline string, err error) {
	if logger == nil {
		return
	}
	logger.Error("unhandled pipeline error",
		slog.String("pipeline", pipeline),
		slog.String("error", err.Error()),
	)
}

// LogSchedulerFailure logs a unit of work that failed without a failure handler.
func LogSchedulerFailure(logger *slog.Logger, kind string, err error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Error("scheduled work failed",
		slog.String("scheduler", kind),
		slog.String("error", err.Error()),
	)
}

// LogSearchStart logs the start of a blocking lookup.
func LogSearchStart(logger *slog.Logger, query string) {
	if logger == nil {
		return
	}
	logger.Debug("search starting",
		slog.String("query", query),
	)
}

// LogSearchComplete logs a successful lookup.
func LogSearchComplete(logger *slog.Logger, query string, results int, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Info("search completed",
		slog.String("query", query),
		slog.Int("results", results),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogSearchError logs a failed lookup.
func LogSearchError(logger *slog.Logger, query string, err error, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Error("search failed",
		slog.String("query", query),
		slog.String("error", err.Error()),
		slog.Float64("duration_ms", durationMs),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time in milliseconds.
//
// Example:
//
//	done := TimedOperation()
//	// ... do work ...
//	durationMs := done()
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start).Microseconds()) / 1000
	}
}
