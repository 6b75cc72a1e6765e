// Package config defines service configuration structures and loading hooks.
package config

import (
	"fmt"

	"github.com/LeighHMitchell/AIMS-sub016/internal/domain/activity"
	"github.com/LeighHMitchell/AIMS-sub016/internal/domain/allocation"
)

// Storage backend names accepted in DataBackend.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// MaxImportBytes caps the accepted report size.
	MaxImportBytes int `koanf:"max_import_bytes"`

	// PreferredLang selects the narrative language, e.g. "en".
	PreferredLang string `koanf:"preferred_lang"`

	// PercentageTolerance is the allowed drift of a sector split from 100.
	PercentageTolerance float64 `koanf:"percentage_tolerance"`

	// QueueSize bounds the in-memory import queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of import workers. Zero derives from CPU
	// count.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the duplicate-submission cache.
	DedupeSize int `koanf:"dedupe_size"`

	// DataBackend selects the store: memory or sqlite.
	DataBackend string `koanf:"data_backend"`

	// DBPath is the SQLite database file, required for the sqlite backend.
	DBPath string `koanf:"db_path"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		Addr:                ":9080",
		MaxImportBytes:      activity.DefaultMaxBytes,
		PreferredLang:       "en",
		PercentageTolerance: allocation.DefaultTolerance,
		QueueSize:           10_000,
		WorkerCount:         0,
		DedupeSize:          50_000,
		DataBackend:         BackendMemory,
	}
}

// Validate checks cross-field constraints after loading.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if c.MaxImportBytes <= 0 {
		return fmt.Errorf("%w: max_import_bytes must be positive", ErrInvalidConfig)
	}
	if c.PercentageTolerance < 0 {
		return fmt.Errorf("%w: percentage_tolerance must not be negative", ErrInvalidConfig)
	}
	switch c.DataBackend {
	case BackendMemory:
	case BackendSQLite:
		if c.DBPath == "" {
			return fmt.Errorf("%w: db_path is required for the sqlite backend", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown data_backend %q", ErrInvalidConfig, c.DataBackend)
	}
	return nil
}
