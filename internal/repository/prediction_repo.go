package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"budget_forecast/internal/models"
)

type PredictionSQLite struct {
	db *sql.DB
}

func NewPredictionSQLite(db *sql.DB) *PredictionSQLite {
	return &PredictionSQLite{db: db}
}

var _ PredictionRepo = (*PredictionSQLite)(nil)

const (
	insertPredictionSQL = `
		INSERT INTO predictions (id, owner, file_id, model, model_params, aic, forecast_months, reason, forecast, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	insertAnomalySQL = `
		INSERT INTO anomalies (prediction_id, owner, period, actual, predicted, residual, std_deviations, severity, description, detected_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	listPredictionsSQL = `
		SELECT p.id, p.owner, p.file_id, p.model, p.aic, p.forecast_months, p.reason, p.created_at,
			(SELECT COUNT(*) FROM anomalies a WHERE a.prediction_id = p.id)
		FROM predictions p WHERE p.owner = ?
		ORDER BY p.created_at DESC LIMIT ?
	`

	selectPredictionSQL = `
		SELECT id, owner, file_id, model, model_params, aic, forecast_months, reason, forecast, created_at
		FROM predictions WHERE id = ? AND owner = ?
	`

	selectPredictionAnomaliesSQL = `
		SELECT id, prediction_id, period, actual, predicted, residual, std_deviations, severity, description, detected_at
		FROM anomalies WHERE prediction_id = ? ORDER BY period ASC
	`

	predictionCountSQL = `SELECT COUNT(*), MAX(created_at) FROM predictions WHERE owner = ?`

	modelUsageSQL = `
		SELECT model, COUNT(*) AS uses FROM predictions WHERE owner = ?
		GROUP BY model ORDER BY uses DESC, model ASC LIMIT ?
	`

	deleteOldAnomaliesSQL   = `DELETE FROM anomalies WHERE prediction_id IN (SELECT id FROM predictions WHERE created_at < ?)`
	deleteOldPredictionsSQL = `DELETE FROM predictions WHERE created_at < ?`
)

func marshalJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Save stores the upload, the prediction and its anomalies in one
// transaction. Nothing is kept when any insert fails.
func (r *PredictionSQLite) Save(ctx context.Context, upload models.UploadedFile, rec models.PredictionRecord) (int64, error) {
	params, err := marshalJSON(rec.ModelParams)
	if err != nil {
		return 0, fmt.Errorf("encode model params: %w", err)
	}
	forecast, err := marshalJSON(rec.Forecast)
	if err != nil {
		return 0, fmt.Errorf("encode forecast: %w", err)
	}
	created := rec.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin prediction transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	fileID, err := insertUpload(ctx, tx, upload)
	if err != nil {
		return 0, err
	}

	if _, err := tx.ExecContext(ctx, insertPredictionSQL,
		rec.ID,
		rec.Owner,
		sql.NullInt64{Int64: fileID, Valid: fileID > 0},
		rec.Model,
		params,
		rec.AIC,
		rec.ForecastMonths,
		rec.Reason,
		forecast,
		sqliteTime(created),
	); err != nil {
		return 0, fmt.Errorf("insert prediction %s: %w", rec.ID, err)
	}

	for _, a := range rec.Anomalies {
		if _, err := tx.ExecContext(ctx, insertAnomalySQL,
			rec.ID,
			rec.Owner,
			a.Period.Format(models.DateLayout),
			a.Actual,
			a.Predicted,
			a.Residual,
			a.StdDeviations,
			string(a.Severity),
			a.Description,
			sqliteTime(created),
		); err != nil {
			return 0, fmt.Errorf("insert anomaly for %s: %w", rec.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit prediction %s: %w", rec.ID, err)
	}
	return fileID, nil
}

// List returns the owner's newest predictions first.
func (r *PredictionSQLite) List(ctx context.Context, owner string, limit int) ([]models.PredictionSummary, error) {
	rows, err := r.db.QueryContext(ctx, listPredictionsSQL, owner, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.PredictionSummary, 0, 16)
	for rows.Next() {
		var (
			s       models.PredictionSummary
			fileID  sql.NullInt64
			created string
		)
		if err := rows.Scan(&s.ID, &s.Owner, &fileID, &s.Model, &s.AIC, &s.ForecastMonths, &s.Reason, &created, &s.AnomalyCount); err != nil {
			return nil, err
		}
		s.FileID = fileID.Int64
		if s.CreatedAt, err = parseSQLiteTime(created); err != nil {
			return nil, fmt.Errorf("prediction %s created_at: %w", s.ID, err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Get loads one prediction with its anomalies. Returns (nil, nil) if the
// owner has no such prediction.
func (r *PredictionSQLite) Get(ctx context.Context, owner, id string) (*models.PredictionRecord, error) {
	var (
		rec      models.PredictionRecord
		fileID   sql.NullInt64
		params   sql.NullString
		forecast string
		created  string
	)
	err := r.db.QueryRowContext(ctx, selectPredictionSQL, id, owner).Scan(
		&rec.ID,
		&rec.Owner,
		&fileID,
		&rec.Model,
		&params,
		&rec.AIC,
		&rec.ForecastMonths,
		&rec.Reason,
		&forecast,
		&created,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select prediction %s: %w", id, err)
	}
	rec.FileID = fileID.Int64
	if rec.CreatedAt, err = parseSQLiteTime(created); err != nil {
		return nil, fmt.Errorf("prediction %s created_at: %w", id, err)
	}
	if params.Valid && params.String != "" {
		if err := json.Unmarshal([]byte(params.String), &rec.ModelParams); err != nil {
			return nil, fmt.Errorf("decode model params of %s: %w", id, err)
		}
	}
	if err := json.Unmarshal([]byte(forecast), &rec.Forecast); err != nil {
		return nil, fmt.Errorf("decode forecast of %s: %w", id, err)
	}

	rows, err := r.db.QueryContext(ctx, selectPredictionAnomaliesSQL, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rec.Anomalies, err = scanAnomalies(rows)
	if err != nil {
		return nil, err
	}
	rec.AnomalyCount = len(rec.Anomalies)
	return &rec, nil
}

// Usage returns the owner's prediction count, the time of the latest one and
// the top most used models.
func (r *PredictionSQLite) Usage(ctx context.Context, owner string, top int) (int, *time.Time, []models.ModelUsage, error) {
	var (
		count int
		last  sql.NullString
	)
	if err := r.db.QueryRowContext(ctx, predictionCountSQL, owner).Scan(&count, &last); err != nil {
		return 0, nil, nil, fmt.Errorf("count predictions for %q: %w", owner, err)
	}

	var lastAt *time.Time
	if last.Valid {
		t, err := parseSQLiteTime(last.String)
		if err != nil {
			return 0, nil, nil, fmt.Errorf("latest prediction time: %w", err)
		}
		lastAt = &t
	}

	rows, err := r.db.QueryContext(ctx, modelUsageSQL, owner, top)
	if err != nil {
		return 0, nil, nil, err
	}
	defer rows.Close()

	usage := make([]models.ModelUsage, 0, 4)
	for rows.Next() {
		var u models.ModelUsage
		if err := rows.Scan(&u.Model, &u.Uses); err != nil {
			return 0, nil, nil, err
		}
		usage = append(usage, u)
	}
	if err := rows.Err(); err != nil {
		return 0, nil, nil, err
	}
	return count, lastAt, usage, nil
}

// DeleteOlderThan removes predictions created before cutoff together with
// their anomalies and returns the number of predictions removed.
func (r *PredictionSQLite) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	ts := sqliteTime(cutoff)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin retention transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, deleteOldAnomaliesSQL, ts); err != nil {
		return 0, fmt.Errorf("delete old anomalies: %w", err)
	}
	res, err := tx.ExecContext(ctx, deleteOldPredictionsSQL, ts)
	if err != nil {
		return 0, fmt.Errorf("delete old predictions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit retention: %w", err)
	}
	return n, nil
}
