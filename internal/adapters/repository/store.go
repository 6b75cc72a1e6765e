// Package repository defines the activity store interface and errors.
package repository

import (
	"context"
	"time"

	"github.com/LeighHMitchell/AIMS-sub016/internal/domain/model"
)

// StoredActivity is one imported activity with its reporting metadata.
type StoredActivity struct {
	IATIIdentifier   string
	ReportingOrgRef  string
	ReportingOrgName string
	LastUpdated      string
	ImportedAt       time.Time
}

// Store provides read/write access to imported activities, their
// transactions, and the import log.
type Store interface {
	// UpsertActivity inserts or replaces an activity keyed by its IATI
	// identifier. Returns true when the activity was new.
	UpsertActivity(ctx context.Context, act StoredActivity) (bool, error)

	// Activity returns one activity by IATI identifier.
	// Returns ErrNotFound when the identifier is unknown.
	Activity(ctx context.Context, iatiID string) (StoredActivity, error)

	// Activities returns all stored activities ordered by import time,
	// newest first.
	Activities(ctx context.Context) ([]StoredActivity, error)

	// PutTransactions replaces the transaction set of an activity.
	// Returns ErrNotFound when the activity is unknown.
	PutTransactions(ctx context.Context, iatiID string, txs []model.TransactionRecord) error

	// Transactions returns the transactions of an activity.
	// Returns ErrNotFound when the activity is unknown.
	Transactions(ctx context.Context, iatiID string) ([]model.TransactionRecord, error)

	// RecordImport appends an import outcome to the log.
	RecordImport(ctx context.Context, outcome model.ImportOutcome) error

	// ImportLog returns logged outcomes, newest first, capped at limit.
	// A non-positive limit returns the full log.
	ImportLog(ctx context.Context, limit int) ([]model.ImportOutcome, error)

	// Count returns the number of activities stored.
	Count(ctx context.Context) int
}
