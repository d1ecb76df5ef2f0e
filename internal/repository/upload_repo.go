package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"budget_forecast/internal/models"
)

type UploadSQLite struct {
	db *sql.DB
}

func NewUploadSQLite(db *sql.DB) *UploadSQLite {
	return &UploadSQLite{db: db}
}

var _ UploadRepo = (*UploadSQLite)(nil)

const (
	insertUploadSQL = `INSERT INTO uploaded_files (owner, filename, file_hash, row_count, date_range_start, date_range_end, uploaded_at) VALUES (?, ?, ?, ?, ?, ?, ?)`
	uploadTotalsSQL = `SELECT COUNT(*), COALESCE(SUM(row_count), 0) FROM uploaded_files WHERE owner = ?`
)

// insertUpload stores f inside tx and returns its ID. Uploads are only
// written together with the prediction computed from them.
func insertUpload(ctx context.Context, tx *sql.Tx, f models.UploadedFile) (int64, error) {
	if f.UploadedAt.IsZero() {
		f.UploadedAt = time.Now()
	}
	res, err := tx.ExecContext(ctx, insertUploadSQL,
		f.Owner,
		f.Filename,
		f.Hash,
		f.RowCount,
		nullString(f.RangeStart),
		nullString(f.RangeEnd),
		sqliteTime(f.UploadedAt),
	)
	if err != nil {
		return 0, fmt.Errorf("insert upload %q: %w", f.Filename, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id for upload %q: %w", f.Filename, err)
	}
	return id, nil
}

// Totals returns how many files an owner uploaded and how many rows they held.
func (r *UploadSQLite) Totals(ctx context.Context, owner string) (int, int, error) {
	var files, rows int
	if err := r.db.QueryRowContext(ctx, uploadTotalsSQL, owner).Scan(&files, &rows); err != nil {
		return 0, 0, fmt.Errorf("upload totals for %q: %w", owner, err)
	}
	return files, rows, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
