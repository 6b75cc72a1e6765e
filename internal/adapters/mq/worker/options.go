package worker

import (
	"github.com/LeighHMitchell/AIMS-sub016/internal/domain/activity"
	"github.com/LeighHMitchell/AIMS-sub016/pkg/logger"
)

// Option applies a configuration option to the ImportWorker.
type Option func(*ImportWorker)

// WithName sets the worker name for identification and logging.
func WithName(name string) Option {
	return func(w *ImportWorker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(l logger.Logger) Option {
	return func(w *ImportWorker) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithMaxImportBytes caps the accepted report size.
func WithMaxImportBytes(n int) Option {
	return func(w *ImportWorker) {
		if n > 0 {
			w.extractOpts = append(w.extractOpts, activity.WithMaxBytes(n))
		}
	}
}

// WithPreferredLang sets the language preferred for narratives.
func WithPreferredLang(lang string) Option {
	return func(w *ImportWorker) {
		if lang != "" {
			w.extractOpts = append(w.extractOpts, activity.WithPreferredLang(lang))
		}
	}
}

// WithTolerance sets the advisory percentage-sum tolerance.
func WithTolerance(tol float64) Option {
	return func(w *ImportWorker) {
		if tol > 0 {
			w.tolerance = tol
		}
	}
}
