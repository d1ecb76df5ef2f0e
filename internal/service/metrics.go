package service

import "budget_forecast/internal/models"

// MetricsRecorder receives domain counters. The Prometheus implementation
// lives in internal/monitoring.
type MetricsRecorder interface {
	PredictionCompleted(model string, months int)
	PredictionFailed(stage string)
	AnomaliesDetected(sev models.Severity, n int)
	RetentionSwept(n int64)
}

type nopMetrics struct{}

func (nopMetrics) PredictionCompleted(string, int)        {}
func (nopMetrics) PredictionFailed(string)                {}
func (nopMetrics) AnomaliesDetected(models.Severity, int) {}
func (nopMetrics) RetentionSwept(int64)                   {}
