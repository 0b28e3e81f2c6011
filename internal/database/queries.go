package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/zapponejosh/tibcal-api/internal/calendar"
)

// =============================================================================
// Helper Functions
// =============================================================================

// parseTimestamp parses a timestamp from SQLite TEXT format.
// Tries multiple formats and returns nil if parsing fails.
func parseTimestamp(ns sql.NullString) *time.Time {
	if !ns.Valid || ns.String == "" {
		return nil
	}

	if t, err := time.Parse(time.RFC3339Nano, ns.String); err == nil {
		return &t
	}

	// SQLite datetime('now') format
	if t, err := time.Parse("2006-01-02 15:04:05", ns.String); err == nil {
		return &t
	}

	return nil
}

// =============================================================================
// Snapshot Writes
// =============================================================================

// ExportTable writes every descriptor of t as a new run with a fresh id.
func (db *DB) ExportTable(ctx context.Context, t *calendar.Table) (*ExportRun, error) {
	run := &ExportRun{
		ID:          uuid.New().String(),
		CreatedAt:   time.Now().UTC(),
		RecordCount: t.Len(),
		Anchor:      t.Anchor().Key().String(),
	}

	if err := db.SaveSnapshot(ctx, run, RowsFromMonths(t.Months())); err != nil {
		return nil, err
	}
	return run, nil
}

// SaveSnapshot stores a run and its rows in one transaction. Nothing is
// written if any row fails.
func (db *DB) SaveSnapshot(ctx context.Context, run *ExportRun, rows []MonthRow) error {
	if run.RecordCount != len(rows) {
		return fmt.Errorf("run %s declares %d records, got %d rows", run.ID, run.RecordCount, len(rows))
	}

	err := db.WithTx(ctx, func(tx *Tx) error {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO export_runs (id, created_at, record_count, anchor) VALUES (?, ?, ?, ?)",
			run.ID, run.CreatedAt.UTC().Format(time.RFC3339Nano), run.RecordCount, run.Anchor,
		)
		if err != nil {
			return fmt.Errorf("insert export run: %w", err)
		}
		return tx.insertMonthRows(ctx, run.ID, rows)
	})
	if err != nil {
		return fmt.Errorf("save snapshot %s: %w", run.ID, err)
	}

	db.logger.Info("snapshot saved",
		slog.String("run_id", run.ID),
		slog.Int("records", len(rows)),
	)
	return nil
}

// insertMonthRows inserts rows through one prepared statement.
func (tx *Tx) insertMonthRows(ctx context.Context, runID string, rows []MonthRow) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO month_descriptors (
			run_id, seq, rabjung, tib_year, tib_month, month_flag,
			elapsed_month_index, skip1, skip2, double1, double2, western_start_date
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare month insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		_, err := stmt.ExecContext(ctx,
			runID, r.Seq, r.Rabjung, r.Year, r.Month, r.Flag,
			r.ElapsedMonthIndex, r.Skip1, r.Skip2, r.Double1, r.Double2, r.WesternStartDate,
		)
		if err != nil {
			return fmt.Errorf("insert month %d (%d/%d/%d/%d): %w", r.Seq, r.Rabjung, r.Year, r.Month, r.Flag, err)
		}
	}
	return nil
}

// =============================================================================
// Snapshot Reads
// =============================================================================

// ListExportRuns returns all runs, newest first.
func (db *DB) ListExportRuns(ctx context.Context) ([]ExportRun, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, created_at, record_count, anchor
		FROM export_runs
		ORDER BY created_at DESC, rowid DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query export runs: %w", err)
	}
	defer rows.Close()

	runs := make([]ExportRun, 0)
	for rows.Next() {
		run, err := scanExportRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate export runs: %w", err)
	}
	return runs, nil
}

// GetExportRun returns one run or ErrNotFound.
func (db *DB) GetExportRun(ctx context.Context, id string) (*ExportRun, error) {
	row := db.QueryRowContext(ctx,
		"SELECT id, created_at, record_count, anchor FROM export_runs WHERE id = ?", id)

	run, err := scanExportRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return run, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanExportRun(s scanner) (*ExportRun, error) {
	var run ExportRun
	var createdAt sql.NullString

	if err := s.Scan(&run.ID, &createdAt, &run.RecordCount, &run.Anchor); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan export run: %w", err)
	}
	if t := parseTimestamp(createdAt); t != nil {
		run.CreatedAt = *t
	}
	return &run, nil
}

// GetExportedMonth returns the stored descriptor for key in a run, or
// ErrNotFound.
func (db *DB) GetExportedMonth(ctx context.Context, runID string, key calendar.MonthKey) (*MonthRow, error) {
	var r MonthRow
	err := db.QueryRowContext(ctx, `
		SELECT run_id, seq, rabjung, tib_year, tib_month, month_flag,
			elapsed_month_index, skip1, skip2, double1, double2, western_start_date
		FROM month_descriptors
		WHERE run_id = ? AND rabjung = ? AND tib_year = ? AND tib_month = ? AND month_flag = ?
	`, runID, key.Rabjung, key.Year, key.Month, int(key.Flag)).Scan(
		&r.RunID, &r.Seq, &r.Rabjung, &r.Year, &r.Month, &r.Flag,
		&r.ElapsedMonthIndex, &r.Skip1, &r.Skip2, &r.Double1, &r.Double2, &r.WesternStartDate,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query exported month %s: %w", key, err)
	}
	return &r, nil
}

// CountExportedMonths returns how many rows a run stored.
func (db *DB) CountExportedMonths(ctx context.Context, runID string) (int, error) {
	var n int
	err := db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM month_descriptors WHERE run_id = ?", runID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count exported months: %w", err)
	}
	return n, nil
}
