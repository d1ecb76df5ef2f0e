package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"budget_forecast/internal/analysis"
	"budget_forecast/internal/forecast"
	"budget_forecast/internal/ingest"
	"budget_forecast/internal/logger"
	"budget_forecast/internal/models"
	"budget_forecast/internal/repository"
)

const statusSuccess = "success"

// Pipeline stages reported on failure.
const (
	stageIngest   = "ingest"
	stageDuration = "duration"
	stageForecast = "forecast"
	stagePersist  = "persist"
)

type PredictionService struct {
	predictions repository.PredictionRepo
	eventRepo   repository.EventRepo

	classifier  *analysis.Classifier
	minSeverity models.Severity
	maxBytes    int64
	metrics     MetricsRecorder
	log         *logger.Logger
	now         func() time.Time
}

func NewPredictionService(
	predictions repository.PredictionRepo,
	eventRepo repository.EventRepo,
	opts Options,
) *PredictionService {
	opts = opts.withDefaults()
	classifier := opts.Classifier
	if classifier == nil {
		// default tiers always validate
		classifier, _ = analysis.NewClassifier(analysis.DefaultThresholds())
	}
	return &PredictionService{
		predictions: predictions,
		eventRepo:   eventRepo,
		classifier:  classifier,
		minSeverity: opts.MinSeverity,
		maxBytes:    opts.MaxUploadBytes,
		metrics:     opts.Metrics,
		log:         opts.Log,
		now:         time.Now,
	}
}

// Predict cleans the file, validates the horizon, fits a model, classifies
// its residuals and stores the outcome.
func (s *PredictionService) Predict(ctx context.Context, req PredictRequest) (models.PredictionResult, error) {
	var notes []string

	ds, err := ingest.Clean(req.Content, ingest.Options{MaxBytes: s.maxBytes, Code: req.Code})
	if err != nil {
		return models.PredictionResult{}, s.fail(ctx, req, stageIngest, err)
	}
	notes = append(notes, fmt.Sprintf("Cleaned %d rows into %d monthly points (%s to %s)",
		ds.Rows, len(ds.Series),
		ds.Series[0].Period.Format(models.DateLayout),
		ds.Series[len(ds.Series)-1].Period.Format(models.DateLayout)))

	decision, err := analysis.ValidateDuration(ds.Series, req.Months)
	if err != nil {
		return models.PredictionResult{}, s.fail(ctx, req, stageDuration, err)
	}
	notes = append(notes, describeDecision(decision))
	if decision.Sparse {
		notes = append(notes, fmt.Sprintf("Sparse data: only %.1f%% of months have spending", decision.Density))
	}

	model, err := forecast.Fit(ds.Series)
	if err != nil {
		return models.PredictionResult{}, s.fail(ctx, req, stageForecast, err)
	}
	info := model.Info()
	notes = append(notes, fmt.Sprintf("Selected %s (AIC %.2f)", info.Name, info.AIC))

	fc := model.Forecast(decision.ValidatedMonths)
	anomalies := filterBySeverity(s.classifier.Classify(model.Residuals()), s.minSeverity)
	notes = append(notes, fmt.Sprintf("%d anomalies at or above %s", len(anomalies), s.minSeverity))

	now := s.now().UTC()
	upload := models.UploadedFile{
		Owner:      req.Owner,
		Filename:   req.Filename,
		Hash:       ds.Hash,
		RowCount:   ds.Rows,
		RangeStart: ds.FirstDate.Format(models.DateLayout),
		RangeEnd:   ds.LastDate.Format(models.DateLayout),
		UploadedAt: now,
	}

	id := uuid.NewString()
	for i := range anomalies {
		anomalies[i].PredictionID = id
		anomalies[i].DetectedAt = &now
	}
	rec := models.PredictionRecord{
		PredictionSummary: models.PredictionSummary{
			ID:             id,
			Owner:          req.Owner,
			Model:          info.Name,
			AIC:            info.AIC,
			ForecastMonths: decision.ValidatedMonths,
			Reason:         string(decision.Reason),
			AnomalyCount:   len(anomalies),
			CreatedAt:      now,
		},
		ModelParams: info.Params,
		Forecast:    fc,
		Anomalies:   anomalies,
	}
	// the upload is stored in the same transaction as the prediction
	if _, err := s.predictions.Save(ctx, upload, rec); err != nil {
		return models.PredictionResult{}, s.fail(ctx, req, stagePersist, err)
	}

	s.audit(ctx, req.Owner, id, decision, info, anomalies)
	s.metrics.PredictionCompleted(info.Name, decision.ValidatedMonths)
	for sev, n := range countBySeverity(anomalies) {
		s.metrics.AnomaliesDetected(sev, n)
	}

	return models.PredictionResult{
		PredictionID: id,
		Status:       statusSuccess,
		ModelInfo:    info,
		DurationInfo: models.NewDurationInfo(decision),
		History:      historySeries(ds.Series),
		Forecast:     fc,
		Anomalies:    anomalies,
		Explanations: notes,
		Timestamp:    now,
	}, nil
}

// fail records the failure and returns err wrapped with its stage.
func (s *PredictionService) fail(ctx context.Context, req PredictRequest, stage string, err error) error {
	s.metrics.PredictionFailed(stage)
	s.log.Warnw("prediction_failed", "owner", req.Owner, "file", req.Filename, "stage", stage, "err", err)
	s.appendEvent(ctx, models.AuditEvent{
		Type:        models.EventError,
		Owner:       req.Owner,
		Description: fmt.Sprintf("Prediction failed during %s", stage),
		Metadata:    map[string]any{"stage": stage, "error": err.Error(), "filename": req.Filename},
	})
	return fmt.Errorf("%s: %w", stage, err)
}

func (s *PredictionService) audit(ctx context.Context, owner, id string, d models.DurationDecision, info models.ModelInfo, anomalies []models.Anomaly) {
	s.appendEvent(ctx, models.AuditEvent{
		Type:        models.EventPrediction,
		Owner:       owner,
		Description: fmt.Sprintf("Forecast of %d months with %s", d.ValidatedMonths, info.Name),
		Metadata:    map[string]any{"prediction_id": id, "model": info.Name, "months": d.ValidatedMonths, "reason": d.Reason},
	})

	if d.Reason == models.ReasonUserReduced {
		s.log.Infow("duration_reduced", "prediction_id", id, "requested", *d.RequestedMonths, "validated", d.ValidatedMonths)
		s.appendEvent(ctx, models.AuditEvent{
			Type:        models.EventDurationReduced,
			Owner:       owner,
			Description: fmt.Sprintf("Requested %d months reduced to %d", *d.RequestedMonths, d.ValidatedMonths),
			Metadata:    map[string]any{"prediction_id": id, "requested": *d.RequestedMonths, "validated": d.ValidatedMonths},
		})
	}

	if d.Sparse {
		s.appendEvent(ctx, models.AuditEvent{
			Type:        models.EventSparseData,
			Owner:       owner,
			Description: fmt.Sprintf("Only %.1f%% of months have spending", d.Density),
			Metadata:    map[string]any{"prediction_id": id, "active_months": d.ActiveMonths, "total_months": d.TotalMonths},
		})
	}

	if len(anomalies) > 0 {
		s.appendEvent(ctx, models.AuditEvent{
			Type:        models.EventAnomalyDetected,
			Owner:       owner,
			Description: fmt.Sprintf("%d anomalies detected", len(anomalies)),
			Metadata:    map[string]any{"prediction_id": id, "by_severity": countBySeverity(anomalies)},
		})
	}
}

// appendEvent never fails the caller; audit write errors are only logged.
func (s *PredictionService) appendEvent(ctx context.Context, e models.AuditEvent) {
	if err := s.eventRepo.Append(ctx, e); err != nil {
		s.log.Errorw("audit_append_failed", "type", e.Type, "err", err)
	}
}

func describeDecision(d models.DurationDecision) string {
	switch d.Reason {
	case models.ReasonUserReduced:
		return fmt.Sprintf("Requested %d months reduced to %d: %d active months support at most %d",
			*d.RequestedMonths, d.ValidatedMonths, d.ActiveMonths, d.SafeMonths)
	case models.ReasonUserApproved:
		return fmt.Sprintf("Requested %d months accepted (%d active months)", d.ValidatedMonths, d.ActiveMonths)
	default:
		return fmt.Sprintf("Forecasting %d months from %d active months", d.ValidatedMonths, d.ActiveMonths)
	}
}

func filterBySeverity(in []models.Anomaly, floor models.Severity) []models.Anomaly {
	out := make([]models.Anomaly, 0, len(in))
	for _, a := range in {
		if a.Severity.Rank() >= floor.Rank() {
			out = append(out, a)
		}
	}
	return out
}

func countBySeverity(in []models.Anomaly) map[models.Severity]int {
	out := make(map[models.Severity]int, 3)
	for _, a := range in {
		out[a.Severity]++
	}
	return out
}

func historySeries(s models.TimeSeries) models.Series {
	out := models.Series{
		Dates:  make([]string, len(s)),
		Values: make([]float64, len(s)),
	}
	for i, p := range s {
		out.Dates[i] = p.Period.Format(models.DateLayout)
		out.Values[i] = p.Value
	}
	return out
}
