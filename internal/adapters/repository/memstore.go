package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/LeighHMitchell/AIMS-sub016/internal/domain/model"
	"github.com/LeighHMitchell/AIMS-sub016/pkg/metrics"
)

const defaultImportLogCap = 10000

// MemStore is an in-memory Store implementation guarded by a single
// RWMutex. Activities are keyed by IATI identifier; the import log is an
// append-only ring bounded by logCap.
type MemStore struct {
	mu         sync.RWMutex
	activities map[string]StoredActivity
	txs        map[string][]model.TransactionRecord
	log        []model.ImportOutcome
	logCap     int
	now        func() time.Time
}

// NewMemStore creates an empty in-memory store.
func NewMemStore(opts ...Option) *MemStore {
	s := &MemStore{
		activities: make(map[string]StoredActivity),
		txs:        make(map[string][]model.TransactionRecord),
		logCap:     defaultImportLogCap,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// UpsertActivity inserts or replaces an activity. ImportedAt is stamped
// when the caller left it zero.
func (s *MemStore) UpsertActivity(_ context.Context, act StoredActivity) (bool, error) {
	if act.IATIIdentifier == "" {
		return false, ErrEmptyID
	}
	if act.ImportedAt.IsZero() {
		act.ImportedAt = s.now()
	}

	s.mu.Lock()
	_, existed := s.activities[act.IATIIdentifier]
	s.activities[act.IATIIdentifier] = act
	count := len(s.activities)
	s.mu.Unlock()

	metrics.UpdateActivitiesStored(count)
	return !existed, nil
}

func (s *MemStore) Activity(_ context.Context, iatiID string) (StoredActivity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	act, ok := s.activities[iatiID]
	if !ok {
		return StoredActivity{}, ErrNotFound
	}
	return act, nil
}

func (s *MemStore) Activities(_ context.Context) ([]StoredActivity, error) {
	s.mu.RLock()
	out := make([]StoredActivity, 0, len(s.activities))
	for _, act := range s.activities {
		out = append(out, act)
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].ImportedAt.Equal(out[j].ImportedAt) {
			return out[i].ImportedAt.After(out[j].ImportedAt)
		}
		return out[i].IATIIdentifier < out[j].IATIIdentifier
	})
	return out, nil
}

func (s *MemStore) PutTransactions(_ context.Context, iatiID string, txs []model.TransactionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.activities[iatiID]; !ok {
		return ErrNotFound
	}
	// Copy so later caller mutations cannot reach stored state.
	s.txs[iatiID] = append([]model.TransactionRecord(nil), txs...)
	return nil
}

func (s *MemStore) Transactions(_ context.Context, iatiID string) ([]model.TransactionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.activities[iatiID]; !ok {
		return nil, ErrNotFound
	}
	return append([]model.TransactionRecord(nil), s.txs[iatiID]...), nil
}

func (s *MemStore) RecordImport(_ context.Context, outcome model.ImportOutcome) error {
	if outcome.CompletedAt.IsZero() {
		outcome.CompletedAt = s.now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.log = append(s.log, outcome)
	if s.logCap > 0 && len(s.log) > s.logCap {
		s.log = s.log[len(s.log)-s.logCap:]
	}
	return nil
}

func (s *MemStore) ImportLog(_ context.Context, limit int) ([]model.ImportOutcome, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.log)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]model.ImportOutcome, 0, n)
	for i := len(s.log) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, s.log[i])
	}
	return out, nil
}

func (s *MemStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.activities)
}
