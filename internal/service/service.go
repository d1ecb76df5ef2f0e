package service

import (
	"context"
	"errors"
	"time"

	"budget_forecast/internal/analysis"
	"budget_forecast/internal/config"
	"budget_forecast/internal/logger"
	"budget_forecast/internal/models"
	"budget_forecast/internal/repository"
)

// Prediction runs the full pipeline on an uploaded file.
type Prediction interface {
	Predict(ctx context.Context, req PredictRequest) (models.PredictionResult, error)
}

// History exposes an owner's stored predictions.
type History interface {
	List(ctx context.Context, owner string) ([]models.PredictionSummary, error)
	Get(ctx context.Context, owner, id string) (*models.PredictionRecord, error)
}

// Anomalies exposes stored anomalies across predictions.
type Anomalies interface {
	List(ctx context.Context, f AnomalyFilter) ([]models.Anomaly, error)
}

// Stats summarizes an owner's activity.
type Stats interface {
	Overview(ctx context.Context, owner string) (models.StatsOverview, error)
}

// EventLog exposes the append-only audit trail with filtering access.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]models.AuditEvent, error)
}

// Retention deletes old predictions in the background.
// Stop via context cancellation in main() for graceful shutdown.
type Retention interface {
	Run(ctx context.Context, tick time.Duration)
	Sweep(ctx context.Context) (int64, error)
}

// APIKeys resolves a presented key to its owner.
type APIKeys interface {
	Enabled() bool
	Verify(key string) (string, error)
}

type Service struct {
	Prediction
	History
	Anomalies
	Stats
	EventLog
	Retention
	APIKeys
}

// Domain errors shared by handlers.
var (
	ErrNotFound        = errors.New("not found")
	ErrUnauthorized    = errors.New("invalid or missing api key")
	ErrInvalidSeverity = errors.New("invalid severity: must be LOW, MEDIUM or HIGH")
)

// Options carries the runtime settings services need beyond repositories.
type Options struct {
	Classifier      *analysis.Classifier
	MinSeverity     models.Severity
	MaxUploadBytes  int64
	RetentionMaxAge time.Duration
	Auth            config.AuthConfig
	Metrics         MetricsRecorder
	Log             *logger.Logger
}

func (o Options) withDefaults() Options {
	if o.Metrics == nil {
		o.Metrics = nopMetrics{}
	}
	if o.Log == nil {
		o.Log = logger.Nop()
	}
	if o.MinSeverity == "" {
		o.MinSeverity = models.SeverityLow
	}
	return o
}

func NewService(repos *repository.Repository, opts Options) *Service {
	opts = opts.withDefaults()
	return &Service{
		Prediction: NewPredictionService(repos.Predictions, repos.EventRepo, opts),
		History:    NewHistoryService(repos.Predictions),
		Anomalies:  NewAnomalyService(repos.Anomalies),
		Stats:      NewStatsService(repos.Uploads, repos.Predictions, repos.Anomalies),
		EventLog:   NewEventLogService(repos.EventRepo),
		Retention:  NewRetentionService(repos.Predictions, repos.EventRepo, opts.RetentionMaxAge, opts.Metrics, opts.Log),
		APIKeys:    NewAPIKeyService(opts.Auth),
	}
}
