package service

import (
	"github.com/LeighHMitchell/AIMS-sub016/internal/adapters/repository"
	"github.com/LeighHMitchell/AIMS-sub016/internal/domain/currency"
	"github.com/LeighHMitchell/AIMS-sub016/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of worker goroutines. Non-positive means
// CPU-derived.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the import queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the duplicate-submission cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithMaxImportBytes caps the accepted report size.
func WithMaxImportBytes(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxImportBytes = n
		}
	}
}

// WithPreferredLang sets the language preferred for narratives.
func WithPreferredLang(lang string) Option {
	return func(s *Service) {
		s.preferredLang = lang
	}
}

// WithTolerance sets the percentage-sum tolerance for allocation checks.
func WithTolerance(tol float64) Option {
	return func(s *Service) {
		if tol > 0 {
			s.tolerance = tol
		}
	}
}

// WithStore injects the activity store backend.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithConverter injects the currency converter.
func WithConverter(conv currency.Converter) Option {
	return func(s *Service) {
		if conv != nil {
			s.converter = conv
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
