// Package service provides the application service that implements the
// dependencies required by the HTTP API and wires the import pipeline.
package service

import (
	"context"
	"sync"

	importqueue "github.com/LeighHMitchell/AIMS-sub016/internal/adapters/mq/queue"
	workerpool "github.com/LeighHMitchell/AIMS-sub016/internal/adapters/mq/worker"
	"github.com/LeighHMitchell/AIMS-sub016/internal/adapters/repository"
	"github.com/LeighHMitchell/AIMS-sub016/internal/domain/activity"
	"github.com/LeighHMitchell/AIMS-sub016/internal/domain/allocation"
	"github.com/LeighHMitchell/AIMS-sub016/internal/domain/codelist"
	"github.com/LeighHMitchell/AIMS-sub016/internal/domain/currency"
	"github.com/LeighHMitchell/AIMS-sub016/internal/domain/dedupe"
	"github.com/LeighHMitchell/AIMS-sub016/internal/domain/model"
	"github.com/LeighHMitchell/AIMS-sub016/internal/domain/sectoragg"
	"github.com/LeighHMitchell/AIMS-sub016/pkg/logger"
	"github.com/LeighHMitchell/AIMS-sub016/pkg/metrics"
)

// Service wires the queue, worker pool, dedupe guard, store, and currency
// converter behind the API dependency surface.
type Service struct {
	mu sync.RWMutex

	store     repository.Store
	deduper   dedupe.Deduper
	queue     importqueue.Queue
	pool      *workerpool.Pool
	converter currency.Converter

	workerCount    int
	queueSize      int
	dedupeSize     int
	maxImportBytes int
	preferredLang  string
	tolerance      float64

	started bool
	cancel  context.CancelFunc

	logger logger.Logger
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		queueSize:      10000,
		dedupeSize:     50000,
		maxImportBytes: activity.DefaultMaxBytes,
		tolerance:      allocation.DefaultTolerance,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	s.logger.Info(ctx, "starting import service")

	if s.store == nil {
		s.store = repository.NewMemStore()
		s.logger.Info(ctx, "using in-memory store")
	}
	if s.converter == nil {
		s.converter = currency.NewTableConverter()
	}
	s.deduper = dedupe.New(dedupe.WithMaxSize(s.dedupeSize))
	s.queue = importqueue.NewInMemoryQueue(importqueue.WithCapacity(s.queueSize))

	workerOpts := []workerpool.Option{
		workerpool.WithMaxImportBytes(s.maxImportBytes),
		workerpool.WithTolerance(s.tolerance),
	}
	if s.preferredLang != "" {
		workerOpts = append(workerOpts, workerpool.WithPreferredLang(s.preferredLang))
	}
	s.pool = workerpool.NewPool(s.workerCount, s.queue, s.store, s.converter, workerOpts...)

	runCtx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.pool.Start(runCtx)

	s.started = true
	s.logger.Info(ctx, "import service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queue_size", s.queueSize),
		logger.Int("dedupe_size", s.dedupeSize),
	)
	return nil
}

// Stop drains the queue and shuts the service down.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	ctx := context.Background()
	s.logger.Info(ctx, "stopping import service")

	if s.pool != nil {
		_ = s.pool.Shutdown(ctx)
	}
	if s.cancel != nil {
		s.cancel()
	}
	if closer, ok := s.store.(interface{ Close() error }); ok {
		_ = closer.Close()
	}

	s.started = false
	s.logger.Info(ctx, "import service stopped")
}

// SeenAndRecord atomically checks whether a job id was seen and records it
// if not.
func (s *Service) SeenAndRecord(ctx context.Context, id string) bool {
	return s.deduper.SeenAndRecord(ctx, id)
}

// Unrecord removes a job id from the seen list, allowing a retry.
func (s *Service) Unrecord(ctx context.Context, id string) {
	s.deduper.Unrecord(ctx, id)
}

// Size returns the number of job ids the dedupe guard tracks.
func (s *Service) Size() int {
	if s.deduper == nil {
		return 0
	}
	return s.deduper.Size()
}

// Enqueue submits an import job for asynchronous processing.
func (s *Service) Enqueue(ctx context.Context, j model.ImportJob) bool {
	ok := s.queue.Enqueue(ctx, j)
	if !ok {
		s.logger.Warn(ctx, "import queue full",
			logger.String("job_id", j.JobID),
		)
	}
	return ok
}

// Activities returns all stored activities, newest import first.
func (s *Service) Activities(ctx context.Context) ([]repository.StoredActivity, error) {
	return s.store.Activities(ctx)
}

// Activity returns one stored activity by IATI identifier.
func (s *Service) Activity(ctx context.Context, iatiID string) (repository.StoredActivity, error) {
	return s.store.Activity(ctx, iatiID)
}

// AggregateSectors computes the value-weighted sector distribution for one
// stored activity's transactions.
func (s *Service) AggregateSectors(ctx context.Context, iatiID string) (sectoragg.Summary, error) {
	txs, err := s.store.Transactions(ctx, iatiID)
	if err != nil {
		return sectoragg.Summary{}, err
	}
	sum := sectoragg.Aggregate(txs)
	metrics.RecordAggregation()
	return sum, nil
}

// ImportLog returns logged import outcomes, newest first.
func (s *Service) ImportLog(ctx context.Context, limit int) ([]model.ImportOutcome, error) {
	return s.store.ImportLog(ctx, limit)
}

// ExtractMeta runs the synchronous preview path over raw report text.
func (s *Service) ExtractMeta(raw string) (activity.Meta, error) {
	opts := []activity.Option{activity.WithMaxBytes(s.maxImportBytes)}
	if s.preferredLang != "" {
		opts = append(opts, activity.WithPreferredLang(s.preferredLang))
	}
	return activity.ExtractMeta(raw, opts...)
}

// ValidateCode reports whether code belongs to the named category's
// vocabulary. Unknown categories are an error, not an invalid code.
func (s *Service) ValidateCode(category, code string) (bool, error) {
	cat, ok := codelist.ParseCategory(category)
	if !ok {
		return false, NewUnknownCategory(category)
	}
	valid := codelist.IsValid(cat, code)
	if !valid {
		metrics.RecordCodeCheckFailure(string(cat))
	}
	return valid, nil
}

// ValidateAllocation checks that a percentage split sums to 100 within the
// configured tolerance.
func (s *Service) ValidateAllocation(allocs []allocation.Allocation) allocation.Result {
	res := allocation.ValidateSumTo100(allocs, allocation.WithTolerance(s.tolerance))
	metrics.RecordAllocationCheck(res.Valid)
	return res
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":      s.started,
		"worker_count": s.workerCount,
		"queue_size":   s.queueSize,
		"dedupe_size":  s.dedupeSize,
	}
	if s.started {
		ctx := context.Background()
		stats["queue_length"] = s.queue.Len(ctx)
		stats["activities"] = s.store.Count(ctx)
		stats["deduped_ids"] = s.deduper.Size()
	}
	return stats
}
