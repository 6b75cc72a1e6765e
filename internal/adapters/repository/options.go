package repository

import "time"

// Option applies a configuration option to the MemStore.
type Option func(*MemStore)

// WithClock overrides the time source used to stamp imports. Intended for
// tests.
func WithClock(now func() time.Time) Option {
	return func(s *MemStore) {
		if now != nil {
			s.now = now
		}
	}
}

// WithImportLogCap bounds the retained import log. Oldest entries are
// dropped first. Zero or negative means unbounded.
func WithImportLogCap(n int) Option {
	return func(s *MemStore) {
		s.logCap = n
	}
}
