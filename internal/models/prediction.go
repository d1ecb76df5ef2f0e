package models

import "time"

// UploadedFile records one ingested CSV.
type UploadedFile struct {
	ID         int64     `json:"file_id"`
	Owner      string    `json:"owner"`
	Filename   string    `json:"filename"`
	Hash       string    `json:"file_hash"` // SHA-256 of the content
	RowCount   int       `json:"row_count"`
	RangeStart string    `json:"date_range_start,omitempty"`
	RangeEnd   string    `json:"date_range_end,omitempty"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// ModelInfo describes the fitted forecasting model.
type ModelInfo struct {
	Name   string             `json:"name"`
	Params map[string]float64 `json:"params,omitempty"`
	AIC    float64            `json:"aic"`
}

// Series is a JSON friendly view of a TimeSeries.
type Series struct {
	Dates  []string  `json:"dates"`
	Values []float64 `json:"values"`
}

// ForecastSeries holds point forecasts and their 95% bounds.
type ForecastSeries struct {
	Dates           []string  `json:"dates"`
	Values          []float64 `json:"values"`
	ConfidenceUpper []float64 `json:"confidence_upper"`
	ConfidenceLower []float64 `json:"confidence_lower"`
}

// DurationInfo is the wire form of a DurationDecision.
type DurationInfo struct {
	RequestedMonths *int           `json:"requested_months"`
	ValidatedMonths int            `json:"validated_months"`
	Reason          DurationReason `json:"reason"`
	SafeMonths      int            `json:"safe_months"`
	ActiveMonths    int            `json:"active_months"`
	TotalMonths     int            `json:"total_months"`
	Density         float64        `json:"density_pct"`
	Sparse          bool           `json:"sparse"`
}

// NewDurationInfo converts a decision for the response.
func NewDurationInfo(d DurationDecision) DurationInfo {
	return DurationInfo{
		RequestedMonths: d.RequestedMonths,
		ValidatedMonths: d.ValidatedMonths,
		Reason:          d.Reason,
		SafeMonths:      d.SafeMonths,
		ActiveMonths:    d.ActiveMonths,
		TotalMonths:     d.TotalMonths,
		Density:         d.Density,
		Sparse:          d.Sparse,
	}
}

// PredictionResult is the full answer to a prediction request.
type PredictionResult struct {
	PredictionID string         `json:"prediction_id"`
	Status       string         `json:"status"`
	ModelInfo    ModelInfo      `json:"model_info"`
	DurationInfo DurationInfo   `json:"duration_info"`
	History      Series         `json:"history"`
	Forecast     ForecastSeries `json:"forecast"`
	Anomalies    []Anomaly      `json:"anomalies"`
	Explanations []string       `json:"explanations"`
	Timestamp    time.Time      `json:"timestamp"`
}

// PredictionSummary is a persisted prediction without its payload.
type PredictionSummary struct {
	ID             string    `json:"prediction_id"`
	Owner          string    `json:"owner"`
	FileID         int64     `json:"file_id"`
	Model          string    `json:"model"`
	AIC            float64   `json:"aic"`
	ForecastMonths int       `json:"forecast_months"`
	Reason         string    `json:"reason"`
	AnomalyCount   int       `json:"anomaly_count"`
	CreatedAt      time.Time `json:"created_at"`
}

// PredictionRecord is a persisted prediction with its forecast and anomalies.
type PredictionRecord struct {
	PredictionSummary
	ModelParams map[string]float64 `json:"model_params,omitempty"`
	Forecast    ForecastSeries     `json:"forecast"`
	Anomalies   []Anomaly          `json:"anomalies"`
}

// ModelUsage counts predictions per model name.
type ModelUsage struct {
	Model string `json:"model"`
	Uses  int    `json:"uses"`
}

// StatsOverview summarizes an owner's activity.
type StatsOverview struct {
	Owner              string           `json:"owner"`
	FilesUploaded      int              `json:"files_uploaded"`
	PredictionsMade    int              `json:"predictions_made"`
	RowsProcessed      int              `json:"total_rows_processed"`
	AnomaliesDetected  int              `json:"anomalies_detected"`
	AnomaliesBreakdown map[Severity]int `json:"anomalies_breakdown"`
	ModelsUsed         []ModelUsage     `json:"models_used"`
	LastPredictionAt   *time.Time       `json:"last_prediction_at"`
}
