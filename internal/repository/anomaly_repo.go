package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"budget_forecast/internal/models"
)

type AnomalySQLite struct {
	db *sql.DB
}

func NewAnomalySQLite(db *sql.DB) *AnomalySQLite { return &AnomalySQLite{db: db} }

var _ AnomalyRepo = (*AnomalySQLite)(nil)

const (
	selectAnomaliesSQL = `SELECT id, prediction_id, period, actual, predicted, residual, std_deviations, severity, description, detected_at FROM anomalies`
	severityCountSQL   = `SELECT severity, COUNT(*) FROM anomalies WHERE owner = ? GROUP BY severity`
)

// List returns anomalies matching q, ordered by period and then by detection.
// From and To compare against the anomaly's month, both inclusive.
func (r *AnomalySQLite) List(ctx context.Context, q AnomalyQuery) ([]models.Anomaly, error) {
	var (
		conds []string
		args  []any
	)

	if q.Owner != "" {
		conds = append(conds, "owner = ?")
		args = append(args, q.Owner)
	}
	if q.Severity != "" {
		conds = append(conds, "severity = ?")
		args = append(args, string(q.Severity))
	}
	if !q.From.IsZero() {
		conds = append(conds, "period >= ?")
		args = append(args, q.From.UTC().Format(models.DateLayout))
	}
	if !q.To.IsZero() {
		conds = append(conds, "period <= ?")
		args = append(args, q.To.UTC().Format(models.DateLayout))
	}

	query := selectAnomaliesSQL
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY period ASC, id ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAnomalies(rows)
}

// CountBySeverity tallies the owner's anomalies per tier.
func (r *AnomalySQLite) CountBySeverity(ctx context.Context, owner string) (map[models.Severity]int, error) {
	rows, err := r.db.QueryContext(ctx, severityCountSQL, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[models.Severity]int{
		models.SeverityLow:    0,
		models.SeverityMedium: 0,
		models.SeverityHigh:   0,
	}
	for rows.Next() {
		var (
			sev string
			n   int
		)
		if err := rows.Scan(&sev, &n); err != nil {
			return nil, err
		}
		out[models.Severity(sev)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanAnomalies(rows *sql.Rows) ([]models.Anomaly, error) {
	out := make([]models.Anomaly, 0, 16)
	for rows.Next() {
		var (
			a        models.Anomaly
			period   string
			severity string
			detected string
		)
		if err := rows.Scan(&a.ID, &a.PredictionID, &period, &a.Actual, &a.Predicted, &a.Residual,
			&a.StdDeviations, &severity, &a.Description, &detected); err != nil {
			return nil, err
		}
		p, err := time.Parse(models.DateLayout, period)
		if err != nil {
			return nil, fmt.Errorf("anomaly %d period: %w", a.ID, err)
		}
		a.Period, a.Date = p, period
		a.Severity = models.Severity(severity)
		detectedAt, err := parseSQLiteTime(detected)
		if err != nil {
			return nil, fmt.Errorf("anomaly %d detected_at: %w", a.ID, err)
		}
		a.DetectedAt = &detectedAt
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
