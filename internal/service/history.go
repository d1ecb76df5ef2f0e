package service

import (
	"context"

	"budget_forecast/internal/models"
	"budget_forecast/internal/repository"
)

const historyLimit = 100

type HistoryService struct {
	predictions repository.PredictionRepo
}

func NewHistoryService(predictions repository.PredictionRepo) *HistoryService {
	return &HistoryService{predictions: predictions}
}

// List returns the owner's latest predictions, newest first.
func (s *HistoryService) List(ctx context.Context, owner string) ([]models.PredictionSummary, error) {
	return s.predictions.List(ctx, owner, historyLimit)
}

// Get returns one prediction of the owner or ErrNotFound.
func (s *HistoryService) Get(ctx context.Context, owner, id string) (*models.PredictionRecord, error) {
	rec, err := s.predictions.Get(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrNotFound
	}
	return rec, nil
}
