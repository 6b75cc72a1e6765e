// Package worker drains the import queue and runs the report pipeline:
// metadata extraction, advisory validation, currency conversion, storage.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/LeighHMitchell/AIMS-sub016/internal/adapters/repository"
	"github.com/LeighHMitchell/AIMS-sub016/internal/domain/activity"
	"github.com/LeighHMitchell/AIMS-sub016/internal/domain/allocation"
	"github.com/LeighHMitchell/AIMS-sub016/internal/domain/codelist"
	"github.com/LeighHMitchell/AIMS-sub016/internal/domain/currency"
	"github.com/LeighHMitchell/AIMS-sub016/internal/domain/model"
	"github.com/LeighHMitchell/AIMS-sub016/pkg/logger"
	"github.com/LeighHMitchell/AIMS-sub016/pkg/metrics"
)

const (
	defaultWorkerMultiplier = 4
	poolShutdownTimeout     = 30 * time.Second
)

// Job is what workers read off the queue.
type Job = model.ImportJob

// Store is the slice of the repository workers write to.
type Store interface {
	UpsertActivity(ctx context.Context, act repository.StoredActivity) (bool, error)
	PutTransactions(ctx context.Context, iatiID string, txs []model.TransactionRecord) error
	RecordImport(ctx context.Context, outcome model.ImportOutcome) error
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Job
}

// Worker processes import jobs until stopped.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown stops the worker, waiting for the in-flight job.
	Shutdown(ctx context.Context) error
}

// ImportWorker implements Worker for the report pipeline.
type ImportWorker struct {
	queue     Queue
	store     Store
	converter currency.Converter
	name      string

	extractOpts []activity.Option
	tolerance   float64

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewImportWorker creates a worker with configuration options.
func NewImportWorker(queue Queue, store Store, converter currency.Converter, opts ...Option) *ImportWorker {
	w := &ImportWorker{
		queue:     queue,
		store:     store,
		converter: converter,
		name:      "worker",
		tolerance: allocation.DefaultTolerance,
		shutdown:  make(chan struct{}),
		done:      make(chan struct{}),
		logger:    logger.Get().Named("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}
	return w
}

// Run starts the worker loop.
func (w *ImportWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			if err := w.processJob(ctx, job); err != nil {
				w.logger.Error(ctx, "import job failed",
					logger.String("job_id", job.JobID),
					logger.Error(err),
				)
			}
		}
	}
}

// Shutdown stops the worker.
func (w *ImportWorker) Shutdown(ctx context.Context) error {
	close(w.shutdown)

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// processJob runs the full pipeline for one queued report.
func (w *ImportWorker) processJob(ctx context.Context, job Job) error {
	start := time.Now()

	meta, err := activity.ExtractMeta(job.Payload, w.extractOpts...)
	metrics.RecordExtractLatency(float64(time.Since(start).Milliseconds()))
	if err != nil {
		return w.fail(ctx, job, err)
	}

	txs, err := activity.ExtractTransactions(job.Payload, w.extractOpts...)
	if err != nil {
		return w.fail(ctx, job, err)
	}

	w.advisoryChecks(ctx, job, txs)
	w.fillUSDValues(ctx, txs)

	if _, err := w.store.UpsertActivity(ctx, repository.StoredActivity{
		IATIIdentifier:   meta.IATIIdentifier,
		ReportingOrgRef:  meta.ReportingOrgRef,
		ReportingOrgName: meta.ReportingOrgName,
		LastUpdated:      meta.LastUpdated,
	}); err != nil {
		metrics.RecordWorkerError()
		return fmt.Errorf("store activity %s: %w", meta.IATIIdentifier, err)
	}
	if err := w.store.PutTransactions(ctx, meta.IATIIdentifier, txs); err != nil {
		metrics.RecordWorkerError()
		return fmt.Errorf("store transactions for %s: %w", meta.IATIIdentifier, err)
	}

	if err := w.store.RecordImport(ctx, model.ImportOutcome{
		JobID:          job.JobID,
		FileName:       job.FileName,
		IATIIdentifier: meta.IATIIdentifier,
		OK:             true,
	}); err != nil {
		w.logger.Warn(ctx, "import log write failed", logger.Error(err))
	}
	metrics.RecordImportCompleted()

	w.logger.Info(ctx, "import completed",
		logger.String("job_id", job.JobID),
		logger.String("iati_identifier", meta.IATIIdentifier),
		logger.Int("transactions", len(txs)),
	)
	return nil
}

// fail records a rejected import and surfaces the extraction error.
func (w *ImportWorker) fail(ctx context.Context, job Job, cause error) error {
	kind := "unknown"
	if k, ok := activity.KindOf(cause); ok {
		kind = string(k)
	}
	metrics.RecordParseError(kind)
	metrics.RecordWorkerError()

	if err := w.store.RecordImport(ctx, model.ImportOutcome{
		JobID:     job.JobID,
		FileName:  job.FileName,
		OK:        false,
		ErrorKind: kind,
	}); err != nil {
		w.logger.Warn(ctx, "import log write failed", logger.Error(err))
	}
	return fmt.Errorf("extract job %s: %w", job.JobID, cause)
}

// advisoryChecks validates codes and sector splits. Failures are logged and
// counted but never block the import.
func (w *ImportWorker) advisoryChecks(ctx context.Context, job Job, txs []model.TransactionRecord) {
	for _, tx := range txs {
		if tx.Type != "" && !codelist.IsValid(codelist.TransactionType, tx.Type) {
			metrics.RecordCodeCheckFailure(string(codelist.TransactionType))
			w.logger.Warn(ctx, "unknown transaction type code",
				logger.String("job_id", job.JobID),
				logger.String("transaction", tx.ID),
				logger.String("code", tx.Type),
			)
		}

		if len(tx.SectorLines) == 0 {
			continue
		}
		allocs := make([]allocation.Allocation, len(tx.SectorLines))
		for i, line := range tx.SectorLines {
			allocs[i] = allocation.Allocation{Code: line.Code, Percentage: line.Percentage}
			if !codelist.IsValid(codelist.SectorCode, line.Code) {
				metrics.RecordCodeCheckFailure(string(codelist.SectorCode))
				w.logger.Warn(ctx, "invalid sector code",
					logger.String("job_id", job.JobID),
					logger.String("transaction", tx.ID),
					logger.String("code", line.Code),
				)
			}
		}

		res := allocation.ValidateSumTo100(allocs, allocation.WithTolerance(w.tolerance))
		metrics.RecordAllocationCheck(res.Valid)
		if !res.Valid {
			w.logger.Warn(ctx, "sector split does not sum to 100",
				logger.String("job_id", job.JobID),
				logger.String("transaction", tx.ID),
				logger.String("warning", res.Warning),
			)
		}
	}
}

// fillUSDValues converts face amounts for transactions that arrived without
// a USD value. Unknown currencies are left unconverted; the aggregator
// falls back to the face amount.
func (w *ImportWorker) fillUSDValues(ctx context.Context, txs []model.TransactionRecord) {
	if w.converter == nil {
		return
	}
	for i := range txs {
		tx := &txs[i]
		if tx.ValueUSD != nil || tx.Currency == "" {
			continue
		}
		usd, _, err := w.converter.Convert(ctx, tx.ValueAmount, tx.Currency, tx.Date)
		if err != nil {
			w.logger.Debug(ctx, "currency not converted",
				logger.String("transaction", tx.ID),
				logger.String("currency", tx.Currency),
			)
			continue
		}
		tx.ValueUSD = &usd
	}
}

// Pool manages multiple workers.
type Pool struct {
	workers []*ImportWorker
	logger  logger.Logger
}

// NewPool creates a pool of workerCount workers sharing the same queue,
// store, and converter. A non-positive count sizes the pool from the CPU
// count.
func NewPool(workerCount int, queue Queue, store Store, converter currency.Converter, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	p := &Pool{
		workers: make([]*ImportWorker, workerCount),
		logger:  logger.Get().Named("worker-pool"),
	}
	for i := 0; i < workerCount; i++ {
		named := append([]Option{WithName("worker-" + strconv.Itoa(i))}, opts...)
		p.workers[i] = NewImportWorker(queue, store, converter, named...)
	}

	metrics.UpdateWorkerCount(workerCount)
	return p
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Shutdown stops every worker, waiting up to the pool timeout.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := any(p.workers[0].queue).(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}
	metrics.UpdateWorkerCount(0)
	return nil
}
