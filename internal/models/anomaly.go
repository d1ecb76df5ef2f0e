package models

import (
	"strings"
	"time"
)

// Severity is the tier of an anomaly.
type Severity string

const (
	SeverityLow    Severity = "LOW"
	SeverityMedium Severity = "MEDIUM"
	SeverityHigh   Severity = "HIGH"
)

// Rank orders tiers; unknown values rank below LOW.
func (s Severity) Rank() int {
	switch s {
	case SeverityLow:
		return 1
	case SeverityMedium:
		return 2
	case SeverityHigh:
		return 3
	default:
		return 0
	}
}

// ParseSeverity normalizes s and reports whether it names a tier.
func ParseSeverity(s string) (Severity, bool) {
	sev := Severity(strings.ToUpper(strings.TrimSpace(s)))
	return sev, sev.Rank() > 0
}

// Anomaly is an in-sample period whose residual crossed a severity tier.
type Anomaly struct {
	ID            int64      `json:"id,omitempty"`
	PredictionID  string     `json:"prediction_id,omitempty"`
	Period        time.Time  `json:"-"`
	Date          string     `json:"date"`
	Actual        float64    `json:"actual_value"`
	Predicted     float64    `json:"predicted_value"`
	Residual      float64    `json:"residual"`
	StdDeviations float64    `json:"std_deviations"`
	Severity      Severity   `json:"severity"`
	Description   string     `json:"description"`
	DetectedAt    *time.Time `json:"detected_at,omitempty"` // set when the prediction is saved
}
