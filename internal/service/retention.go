package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"budget_forecast/internal/logger"
	"budget_forecast/internal/models"
	"budget_forecast/internal/repository"
)

// RetentionService deletes predictions older than maxAge on every tick.
type RetentionService struct {
	predictions repository.PredictionRepo
	eventRepo   repository.EventRepo
	maxAge      time.Duration
	metrics     MetricsRecorder
	log         *logger.Logger
	now         func() time.Time
}

func NewRetentionService(
	predictions repository.PredictionRepo,
	eventRepo repository.EventRepo,
	maxAge time.Duration,
	metrics MetricsRecorder,
	log *logger.Logger,
) *RetentionService {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &RetentionService{
		predictions: predictions,
		eventRepo:   eventRepo,
		maxAge:      maxAge,
		metrics:     metrics,
		log:         log,
		now:         time.Now,
	}
}

// Run sweeps at the given interval until ctx is canceled. A zero maxAge
// disables the worker.
func (s *RetentionService) Run(ctx context.Context, tick time.Duration) {
	if s.maxAge <= 0 || tick <= 0 {
		return
	}
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if _, err := s.Sweep(ctx); err != nil {
				s.log.Errorw("retention_failed", "err", err)
			}
		}
	}
}

// Sweep deletes expired predictions once and returns how many were removed.
func (s *RetentionService) Sweep(ctx context.Context) (int64, error) {
	if s.maxAge <= 0 {
		return 0, nil
	}
	now := s.now().UTC()
	cutoff := now.Add(-s.maxAge)

	n, err := s.predictions.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete predictions before %s: %w", cutoff.Format(time.RFC3339), err)
	}
	if n == 0 {
		return 0, nil
	}

	s.metrics.RetentionSwept(n)
	s.log.Infow("retention_swept", "deleted", n, "cutoff", cutoff)
	if err := s.eventRepo.Append(ctx, models.AuditEvent{
		EventID:     uuid.NewString(),
		OccurredAt:  now,
		Type:        models.EventRetention,
		Description: fmt.Sprintf("Deleted %d predictions older than %s", n, s.maxAge),
		Metadata:    map[string]any{"deleted": n, "cutoff": cutoff.Format(time.RFC3339)},
	}); err != nil {
		s.log.Errorw("audit_append_failed", "type", models.EventRetention, "err", err)
	}
	return n, nil
}
