package service

import (
	"context"

	"budget_forecast/internal/models"
	"budget_forecast/internal/repository"
)

const topModels = 3

type StatsService struct {
	uploads     repository.UploadRepo
	predictions repository.PredictionRepo
	anomalies   repository.AnomalyRepo
}

func NewStatsService(uploads repository.UploadRepo, predictions repository.PredictionRepo, anomalies repository.AnomalyRepo) *StatsService {
	return &StatsService{uploads: uploads, predictions: predictions, anomalies: anomalies}
}

// Overview returns the owner's usage. An owner with no activity gets a
// zeroed overview, not an error.
func (s *StatsService) Overview(ctx context.Context, owner string) (models.StatsOverview, error) {
	files, rows, err := s.uploads.Totals(ctx, owner)
	if err != nil {
		return models.StatsOverview{}, err
	}
	count, last, usage, err := s.predictions.Usage(ctx, owner, topModels)
	if err != nil {
		return models.StatsOverview{}, err
	}
	breakdown, err := s.anomalies.CountBySeverity(ctx, owner)
	if err != nil {
		return models.StatsOverview{}, err
	}

	total := 0
	for _, n := range breakdown {
		total += n
	}
	if usage == nil {
		usage = []models.ModelUsage{}
	}
	if last != nil {
		utc := last.UTC()
		last = &utc
	}

	return models.StatsOverview{
		Owner:              owner,
		FilesUploaded:      files,
		PredictionsMade:    count,
		RowsProcessed:      rows,
		AnomaliesDetected:  total,
		AnomaliesBreakdown: breakdown,
		ModelsUsed:         usage,
		LastPredictionAt:   last,
	}, nil
}
