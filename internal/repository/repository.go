package repository

import (
	"context"
	"database/sql"
	"time"

	"budget_forecast/internal/models"
)

type UploadRepo interface {
	Totals(ctx context.Context, owner string) (files, rows int, err error)
}

type PredictionRepo interface {
	// Save stores the upload and the prediction made from it atomically and
	// returns the upload ID.
	Save(ctx context.Context, upload models.UploadedFile, rec models.PredictionRecord) (int64, error)
	List(ctx context.Context, owner string, limit int) ([]models.PredictionSummary, error)
	Get(ctx context.Context, owner, id string) (*models.PredictionRecord, error)
	Usage(ctx context.Context, owner string, top int) (count int, last *time.Time, usage []models.ModelUsage, err error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type AnomalyRepo interface {
	List(ctx context.Context, q AnomalyQuery) ([]models.Anomaly, error)
	CountBySeverity(ctx context.Context, owner string) (map[models.Severity]int, error)
}

type EventRepo interface {
	Append(ctx context.Context, e models.AuditEvent) error
	List(ctx context.Context, from, to time.Time, typ, owner string) ([]models.AuditEvent, error)
}

// AnomalyQuery filters persisted anomalies. Zero fields are ignored.
type AnomalyQuery struct {
	Owner    string
	Severity models.Severity
	From     time.Time
	To       time.Time
}

type Repository struct {
	Uploads     UploadRepo
	Predictions PredictionRepo
	Anomalies   AnomalyRepo
	EventRepo   EventRepo
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Uploads:     NewUploadSQLite(db),
		Predictions: NewPredictionSQLite(db),
		Anomalies:   NewAnomalySQLite(db),
		EventRepo:   NewEventSQLite(db),
	}
}

// timestamps are stored as "YYYY-MM-DD HH:MM:SS" UTC so that string
// comparison in SQL orders them
const sqliteTimeLayout = "2006-01-02 15:04:05"

func sqliteTime(t time.Time) string {
	return t.UTC().Format(sqliteTimeLayout)
}

func parseSQLiteTime(s string) (time.Time, error) {
	t, err := time.Parse(sqliteTimeLayout, s)
	if err != nil {
		return time.Parse(time.RFC3339Nano, s)
	}
	return t, nil
}
