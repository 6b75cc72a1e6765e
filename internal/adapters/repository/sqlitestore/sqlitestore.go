// Package sqlitestore is a SQLite-backed implementation of the activity
// store, for deployments that need imports to survive a restart.
package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/LeighHMitchell/AIMS-sub016/internal/adapters/repository"
	"github.com/LeighHMitchell/AIMS-sub016/internal/domain/model"
	"github.com/LeighHMitchell/AIMS-sub016/pkg/metrics"
)

// timeLayout keeps timestamps lexically sortable in TEXT columns.
const timeLayout = time.RFC3339Nano

// Store implements repository.Store on a SQLite database file.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the database at dbPath and migrates its schema.
func New(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) UpsertActivity(ctx context.Context, act repository.StoredActivity) (bool, error) {
	if act.IATIIdentifier == "" {
		return false, repository.ErrEmptyID
	}
	if act.ImportedAt.IsZero() {
		act.ImportedAt = time.Now()
	}

	var exists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM activities WHERE iati_identifier = ?", act.IATIIdentifier,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check activity: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO activities (iati_identifier, reporting_org_ref, reporting_org_name, last_updated, imported_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (iati_identifier) DO UPDATE SET
			reporting_org_ref  = excluded.reporting_org_ref,
			reporting_org_name = excluded.reporting_org_name,
			last_updated       = excluded.last_updated,
			imported_at        = excluded.imported_at`,
		act.IATIIdentifier, act.ReportingOrgRef, act.ReportingOrgName,
		act.LastUpdated, act.ImportedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return false, fmt.Errorf("upsert activity: %w", err)
	}

	metrics.UpdateActivitiesStored(s.Count(ctx))
	return exists == 0, nil
}

func (s *Store) Activity(ctx context.Context, iatiID string) (repository.StoredActivity, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT iati_identifier, reporting_org_ref, reporting_org_name, last_updated, imported_at
		FROM activities WHERE iati_identifier = ?`, iatiID)

	act, err := scanActivity(row)
	if errors.Is(err, sql.ErrNoRows) {
		return repository.StoredActivity{}, repository.ErrNotFound
	}
	if err != nil {
		return repository.StoredActivity{}, fmt.Errorf("get activity: %w", err)
	}
	return act, nil
}

func (s *Store) Activities(ctx context.Context) ([]repository.StoredActivity, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT iati_identifier, reporting_org_ref, reporting_org_name, last_updated, imported_at
		FROM activities ORDER BY imported_at DESC, iati_identifier ASC`)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	out := make([]repository.StoredActivity, 0)
	for rows.Next() {
		act, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		out = append(out, act)
	}
	return out, rows.Err()
}

func (s *Store) PutTransactions(ctx context.Context, iatiID string, txs []model.TransactionRecord) error {
	if _, err := s.Activity(ctx, iatiID); err != nil {
		return err
	}

	dbtx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer dbtx.Rollback()

	// Cascades into sector_lines.
	if _, err := dbtx.ExecContext(ctx,
		"DELETE FROM transactions WHERE activity_id = ?", iatiID); err != nil {
		return fmt.Errorf("clear transactions: %w", err)
	}

	for _, tx := range txs {
		var usd sql.NullFloat64
		if tx.ValueUSD != nil {
			usd = sql.NullFloat64{Float64: *tx.ValueUSD, Valid: true}
		}
		var date string
		if !tx.Date.IsZero() {
			date = tx.Date.UTC().Format(timeLayout)
		}

		res, err := dbtx.ExecContext(ctx, `
			INSERT INTO transactions (activity_id, tx_id, tx_type, value_amount, currency, value_usd, tx_date)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			iatiID, tx.ID, tx.Type, tx.ValueAmount, tx.Currency, usd, date)
		if err != nil {
			return fmt.Errorf("insert transaction: %w", err)
		}
		seq, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("transaction seq: %w", err)
		}

		for _, line := range tx.SectorLines {
			if _, err := dbtx.ExecContext(ctx, `
				INSERT INTO sector_lines (transaction_seq, code, name, percentage)
				VALUES (?, ?, ?, ?)`,
				seq, line.Code, line.Name, line.Percentage); err != nil {
				return fmt.Errorf("insert sector line: %w", err)
			}
		}
	}
	return dbtx.Commit()
}

func (s *Store) Transactions(ctx context.Context, iatiID string) ([]model.TransactionRecord, error) {
	if _, err := s.Activity(ctx, iatiID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, tx_id, tx_type, value_amount, currency, value_usd, tx_date
		FROM transactions WHERE activity_id = ? ORDER BY seq ASC`, iatiID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var (
		out  []model.TransactionRecord
		seqs []int64
	)
	for rows.Next() {
		var (
			seq  int64
			tx   model.TransactionRecord
			usd  sql.NullFloat64
			date string
		)
		if err := rows.Scan(&seq, &tx.ID, &tx.Type, &tx.ValueAmount, &tx.Currency, &usd, &date); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		if usd.Valid {
			v := usd.Float64
			tx.ValueUSD = &v
		}
		if date != "" {
			if tx.Date, err = time.Parse(timeLayout, date); err != nil {
				return nil, fmt.Errorf("parse transaction date: %w", err)
			}
		}
		out = append(out, tx)
		seqs = append(seqs, seq)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, seq := range seqs {
		lines, err := s.sectorLines(ctx, seq)
		if err != nil {
			return nil, err
		}
		out[i].SectorLines = lines
	}
	return out, nil
}

func (s *Store) sectorLines(ctx context.Context, seq int64) ([]model.SectorLine, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT code, name, percentage FROM sector_lines
		WHERE transaction_seq = ? ORDER BY rowid ASC`, seq)
	if err != nil {
		return nil, fmt.Errorf("list sector lines: %w", err)
	}
	defer rows.Close()

	var out []model.SectorLine
	for rows.Next() {
		var line model.SectorLine
		if err := rows.Scan(&line.Code, &line.Name, &line.Percentage); err != nil {
			return nil, fmt.Errorf("scan sector line: %w", err)
		}
		out = append(out, line)
	}
	return out, rows.Err()
}

func (s *Store) RecordImport(ctx context.Context, outcome model.ImportOutcome) error {
	if outcome.CompletedAt.IsZero() {
		outcome.CompletedAt = time.Now()
	}
	ok := 0
	if outcome.OK {
		ok = 1
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO import_log (job_id, file_name, iati_identifier, ok, error_kind, completed_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		outcome.JobID, outcome.FileName, outcome.IATIIdentifier,
		ok, outcome.ErrorKind, outcome.CompletedAt.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("record import: %w", err)
	}
	return nil
}

func (s *Store) ImportLog(ctx context.Context, limit int) ([]model.ImportOutcome, error) {
	q := `
		SELECT job_id, file_name, iati_identifier, ok, error_kind, completed_at
		FROM import_log ORDER BY seq DESC`
	args := []any{}
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list import log: %w", err)
	}
	defer rows.Close()

	out := make([]model.ImportOutcome, 0)
	for rows.Next() {
		var (
			o         model.ImportOutcome
			ok        int
			completed string
		)
		if err := rows.Scan(&o.JobID, &o.FileName, &o.IATIIdentifier, &ok, &o.ErrorKind, &completed); err != nil {
			return nil, fmt.Errorf("scan import log: %w", err)
		}
		o.OK = ok != 0
		if o.CompletedAt, err = time.Parse(timeLayout, completed); err != nil {
			return nil, fmt.Errorf("parse completed_at: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (s *Store) Count(ctx context.Context) int {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM activities").Scan(&n); err != nil {
		return 0
	}
	return n
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanActivity(row rowScanner) (repository.StoredActivity, error) {
	var (
		act      repository.StoredActivity
		imported string
	)
	if err := row.Scan(&act.IATIIdentifier, &act.ReportingOrgRef,
		&act.ReportingOrgName, &act.LastUpdated, &imported); err != nil {
		return repository.StoredActivity{}, err
	}
	var err error
	if act.ImportedAt, err = time.Parse(timeLayout, imported); err != nil {
		return repository.StoredActivity{}, err
	}
	return act, nil
}
