package search

import (
	"log/slog"
	"time"

	"github.com/randalmurphal/rxflow/pkg/rxflow/config"
	"github.com/randalmurphal/rxflow/pkg/rxflow/observability"
)

// liveConfig holds LiveSearch configuration.
type liveConfig struct {
	debounce  time.Duration
	logger    *slog.Logger
	metrics   observability.MetricsRecorder
	spans     observability.SpanManager
	sessionID string
}

func defaultLiveConfig() liveConfig {
	return liveConfig{
		debounce: config.DefaultDebounce,
		metrics:  observability.NoopMetrics{},
		spans:    observability.NoopSpanManager{},
	}
}

// Option configures a LiveSearch.
type Option func(*liveConfig)

// WithDebounce sets the quiet period a query must survive before it is
// looked up. Zero forwards every query after a scheduler turn.
func WithDebounce(d time.Duration) Option {
	return func(c *liveConfig) {
		c.debounce = d
	}
}

// WithLogger sets the logger for lookups and subscription lifecycle.
// A nil logger disables logging.
func WithLogger(logger *slog.Logger) Option {
	return func(c *liveConfig) {
		c.logger = logger
	}
}

// WithMetrics enables metrics collection.
//
// Example:
//
//	ls, err := search.NewLiveSearch(idx, ui, bg,
//	    search.WithMetrics(observability.NewMetricsRecorder()),
//	)
func WithMetrics(m observability.MetricsRecorder) Option {
	return func(c *liveConfig) {
		if m != nil {
			c.metrics = m
		}
	}
}

// WithTracing wraps every lookup in a span.
func WithTracing(spans observability.SpanManager) Option {
	return func(c *liveConfig) {
		if spans != nil {
			c.spans = spans
		}
	}
}

// WithSessionID sets the identifier attached to logs, spans and signals.
// A random ID is used by default.
func WithSessionID(id string) Option {
	return func(c *liveConfig) {
		c.sessionID = id
	}
}

// OptionsFromSettings translates loaded settings into options. Metrics and
// tracing use the global OpenTelemetry providers when enabled.
func OptionsFromSettings(s config.Settings, logger *slog.Logger) []Option {
	opts := []Option{
		WithDebounce(s.Debounce),
		WithLogger(logger),
	}
	if s.Metrics {
		opts = append(opts, WithMetrics(observability.NewMetricsRecorder()))
	}
	if s.Tracing {
		opts = append(opts, WithTracing(observability.NewSpanManager()))
	}
	return opts
}
