package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/quarterclose/sift/internal/common"
	"github.com/quarterclose/sift/internal/engine"
	"github.com/quarterclose/sift/internal/model"
)

// Run is a persisted analysis run summary.
type Run struct {
	CreatedAt      time.Time
	ID             string
	SourceFile     string
	RecordCount    int
	FlaggedCount   int
	MatchedCount   int
	UnmatchedCount int
	GatePassed     *bool
	GateBlocked    bool
}

// SavedFinding is one persisted flagged row with its category.
type SavedFinding struct {
	TransactionID string
	Category      string
	Row           int
}

// SaveRun persists a report summary and its findings, returning the new run
// id.
func (s *SQLiteStorage) SaveRun(ctx context.Context, sourceFile string, report *engine.Report) (string, error) {
	if report == nil || report.Bundle == nil {
		return "", fmt.Errorf("report must not be nil")
	}

	id := uuid.New().String()

	var gatePassed *bool
	if report.Reconciliation != nil {
		passed := report.Reconciliation.Passed
		gatePassed = &passed
	}

	matched, unmatched := 0, 0
	for _, m := range report.Bundle.Matches {
		if m.Status == model.StatusMatched {
			matched++
		} else {
			unmatched++
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, source_file, record_count, flagged_count, gate_passed, gate_blocked, matched_count, unmatched_count)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, sourceFile, report.Dataset.Len(), report.Bundle.FlaggedCount(),
		gatePassed, report.GateBlocked, matched, unmatched)
	if err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO findings (run_id, row_index, transaction_id, category) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("failed to prepare findings insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, category := range report.Bundle.CategoryOrder {
		for _, row := range report.Bundle.Categories[category] {
			txnID := ""
			if row >= 0 && row < len(report.Dataset.Records) {
				txnID = report.Dataset.Records[row].TransactionID
			}
			if _, err := stmt.ExecContext(ctx, id, row, txnID, category); err != nil {
				return "", fmt.Errorf("failed to insert finding: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit run: %w", err)
	}

	return id, nil
}

// ListRuns returns run summaries, most recent first.
func (s *SQLiteStorage) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, source_file, record_count, flagged_count, gate_passed, gate_blocked, matched_count, unmatched_count
		 FROM runs ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []Run
	for rows.Next() {
		var r Run
		var gatePassed sql.NullBool
		if err := rows.Scan(&r.ID, &r.CreatedAt, &r.SourceFile, &r.RecordCount, &r.FlaggedCount,
			&gatePassed, &r.GateBlocked, &r.MatchedCount, &r.UnmatchedCount); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		if gatePassed.Valid {
			r.GatePassed = &gatePassed.Bool
		}
		runs = append(runs, r)
	}

	return runs, rows.Err()
}

// GetRunFindings returns a run's persisted findings in insertion order.
func (s *SQLiteStorage) GetRunFindings(ctx context.Context, runID string) ([]SavedFinding, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM runs WHERE id = ?`, runID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to look up run: %w", err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("run %s: %w", runID, common.ErrNotFound)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT row_index, transaction_id, category FROM findings WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query findings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var findings []SavedFinding
	for rows.Next() {
		var f SavedFinding
		if err := rows.Scan(&f.Row, &f.TransactionID, &f.Category); err != nil {
			return nil, fmt.Errorf("failed to scan finding: %w", err)
		}
		findings = append(findings, f)
	}

	if err := rows.Err(); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	return findings, nil
}
