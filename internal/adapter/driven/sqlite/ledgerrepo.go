package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/wborn/checkstyle-github-action/internal/domain/model"
	"github.com/wborn/checkstyle-github-action/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.ReportLedger = (*LedgerRepo)(nil)

// LedgerRepo is the SQLite implementation of the ReportLedger port.
type LedgerRepo struct {
	db *DB
}

// NewLedgerRepo creates a new LedgerRepo backed by the given DB.
func NewLedgerRepo(db *DB) *LedgerRepo {
	return &LedgerRepo{db: db}
}

// RecordUpload inserts one upload record.
func (r *LedgerRepo) RecordUpload(ctx context.Context, rec model.UploadRecord) error {
	const query = `
		INSERT INTO uploads (
			invocation_id, repository, head_sha, check_name, check_run_id, action,
			batch_index, batch_size, total_count, conclusion, recorded_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	recordedAt := rec.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = time.Now()
	}

	if _, err := r.db.Writer.ExecContext(ctx, query,
		rec.InvocationID, rec.Repository, rec.HeadSHA, rec.CheckName, rec.CheckRunID, string(rec.Action),
		rec.BatchIndex, rec.BatchSize, rec.TotalCount, string(rec.Conclusion),
		recordedAt.UTC().Format(time.RFC3339Nano),
	); err != nil {
		return fmt.Errorf("insert upload for check run %d: %w", rec.CheckRunID, err)
	}

	return nil
}

// ListByInvocation returns the uploads of one invocation ordered by batch.
func (r *LedgerRepo) ListByInvocation(ctx context.Context, invocationID string) ([]model.UploadRecord, error) {
	const query = `
		SELECT id, invocation_id, repository, head_sha, check_name, check_run_id, action,
		       batch_index, batch_size, total_count, conclusion, recorded_at
		FROM uploads
		WHERE invocation_id = ?
		ORDER BY batch_index, id
	`

	rows, err := r.db.Reader.QueryContext(ctx, query, invocationID)
	if err != nil {
		return nil, fmt.Errorf("query uploads for invocation %s: %w", invocationID, err)
	}
	defer rows.Close()

	var records []model.UploadRecord
	for rows.Next() {
		rec, err := scanUpload(rows)
		if err != nil {
			return nil, fmt.Errorf("scan upload: %w", err)
		}
		records = append(records, *rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate uploads: %w", err)
	}

	return records, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUpload(s scanner) (*model.UploadRecord, error) {
	var rec model.UploadRecord
	var action, conclusion, recordedAt string

	err := s.Scan(
		&rec.ID, &rec.InvocationID, &rec.Repository, &rec.HeadSHA, &rec.CheckName, &rec.CheckRunID, &action,
		&rec.BatchIndex, &rec.BatchSize, &rec.TotalCount, &conclusion, &recordedAt,
	)
	if err != nil {
		return nil, err
	}

	rec.Action = model.UploadAction(action)
	rec.Conclusion = model.Conclusion(conclusion)

	rec.RecordedAt, err = parseTime(recordedAt)
	if err != nil {
		return nil, fmt.Errorf("parse recorded_at: %w", err)
	}

	return &rec, nil
}

// parseTime parses the timestamp formats SQLite may hand back.
func parseTime(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
	}

	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized time format: %q", s)
}
