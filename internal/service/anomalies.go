package service

import (
	"context"
	"strings"

	"budget_forecast/internal/models"
	"budget_forecast/internal/repository"
)

type AnomalyService struct {
	anomalies repository.AnomalyRepo
}

func NewAnomalyService(anomalies repository.AnomalyRepo) *AnomalyService {
	return &AnomalyService{anomalies: anomalies}
}

func (s *AnomalyService) List(ctx context.Context, f AnomalyFilter) ([]models.Anomaly, error) {
	from, to := normalizeToUTC(f.From), normalizeToUTC(f.To)
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return nil, ErrInvalidTimeRange
	}

	var sev models.Severity
	if raw := strings.TrimSpace(f.Severity); raw != "" {
		parsed, ok := models.ParseSeverity(raw)
		if !ok {
			return nil, ErrInvalidSeverity
		}
		sev = parsed
	}

	return s.anomalies.List(ctx, repository.AnomalyQuery{
		Owner:    f.Owner,
		Severity: sev,
		From:     from,
		To:       to,
	})
}
