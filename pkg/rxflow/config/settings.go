package config

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Index drivers.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// Defaults.
const (
	DefaultDebounce    = 400 * time.Millisecond
	DefaultIndexPath   = ":memory:"
	DefaultSearchLimit = 20
	DefaultLogLevel    = "info"
)

// ErrInvalidSettings is wrapped by every Validate failure.
var ErrInvalidSettings = errors.New("invalid settings")

// validate is the shared validator instance.
var validate = validator.New()

// Settings configures a live search deployment.
type Settings struct {
	// Debounce is the quiet period before a query is looked up.
	Debounce time.Duration `yaml:"debounce" json:"debounce" validate:"gte=0"`
	// BackgroundWorkers sizes the background scheduler pool.
	BackgroundWorkers int `yaml:"background_workers" json:"background_workers" validate:"min=1"`
	// Index selects and configures the city index.
	Index IndexSettings `yaml:"index" json:"index"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" json:"log_level" validate:"omitempty,oneof=debug info warn warning error"`
	// Metrics enables OpenTelemetry metrics.
	Metrics bool `yaml:"metrics" json:"metrics"`
	// Tracing enables OpenTelemetry spans around lookups.
	Tracing bool `yaml:"tracing" json:"tracing"`
}

// IndexSettings configures the searchable index.
type IndexSettings struct {
	Driver string `yaml:"driver" json:"driver" validate:"oneof=memory sqlite"`
	Path   string `yaml:"path" json:"path" validate:"required_if=Driver sqlite"`
	Limit  int    `yaml:"limit" json:"limit" validate:"min=1"`
}

// Default returns the settings used when no file is given.
func Default() Settings {
	return Settings{
		Debounce:          DefaultDebounce,
		BackgroundWorkers: runtime.NumCPU(),
		Index: IndexSettings{
			Driver: DriverMemory,
			Path:   DefaultIndexPath,
			Limit:  DefaultSearchLimit,
		},
		LogLevel: DefaultLogLevel,
	}
}

// FromConfig folds cfg over Default.
func FromConfig(cfg Config) Settings {
	s := Default()
	s.Debounce = cfg.Duration("debounce", s.Debounce)
	s.BackgroundWorkers = cfg.Int("background_workers", s.BackgroundWorkers)
	s.LogLevel = strings.ToLower(cfg.String("log_level", s.LogLevel))
	s.Metrics = cfg.Bool("metrics", s.Metrics)
	s.Tracing = cfg.Bool("tracing", s.Tracing)

	index := cfg.Sub("index")
	s.Index.Driver = strings.ToLower(index.String("driver", s.Index.Driver))
	s.Index.Path = index.String("path", s.Index.Path)
	s.Index.Limit = index.Int("limit", s.Index.Limit)
	return s
}

// Validate checks the settings against their struct tags.
func (s Settings) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}
	return nil
}

// Level returns LogLevel as a slog.Level. Unknown levels map to info.
func (s Settings) Level() slog.Level {
	switch strings.ToLower(s.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
