package models

import "time"

// DateLayout is the wire format of monthly periods.
const DateLayout = "2006-01-02"

// Point is a single monthly observation.
type Point struct {
	Period time.Time `json:"period"`
	Value  float64   `json:"value"`
}

// TimeSeries is ordered by Period, one entry per calendar month.
type TimeSeries []Point

// Values returns the observation values in order.
func (s TimeSeries) Values() []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.Value
	}
	return out
}

// ActiveMonths counts periods with a strictly positive value.
func (s TimeSeries) ActiveMonths() int {
	n := 0
	for _, p := range s {
		if p.Value > 0 {
			n++
		}
	}
	return n
}

// DurationReason explains how the forecast horizon was chosen.
type DurationReason string

const (
	ReasonAuto         DurationReason = "AUTO"
	ReasonUserApproved DurationReason = "USER_APPROVED"
	ReasonUserReduced  DurationReason = "USER_REDUCED"
)

// DurationRequest is the input of the horizon validation.
type DurationRequest struct {
	ActiveMonthCount int
	RequestedMonths  *int
}

// DurationDecision is the validated forecast horizon.
type DurationDecision struct {
	ValidatedMonths int            `json:"validated_months"`
	RequestedMonths *int           `json:"requested_months"`
	Reason          DurationReason `json:"reason"`

	ActiveMonths int     `json:"active_months"`
	TotalMonths  int     `json:"total_months"`
	SafeMonths   int     `json:"safe_months"`
	Density      float64 `json:"density_pct"`
	Sparse       bool    `json:"sparse"`
}

// ResidualPoint is an in-sample fit for one period.
type ResidualPoint struct {
	Period    time.Time
	Actual    float64
	Predicted float64
	Residual  float64 // Actual - Predicted
}
