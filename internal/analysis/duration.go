package analysis

import (
	"fmt"

	"budget_forecast/internal/models"
)

// Forecast horizon bounds, in months.
const (
	MinMonths = 3
	MaxMonths = 24

	// observationsPerParam is the rule of thumb of three active
	// observations for every month of forecast horizon.
	observationsPerParam = 3

	// sparseDensityPct marks a series whose active months cover less than
	// this share of the period.
	sparseDensityPct = 20.0
)

// SafeDuration returns the horizon supported by activeMonths, clamped to
// [MinMonths, MaxMonths].
func SafeDuration(activeMonths int) int {
	raw := activeMonths / observationsPerParam
	return max(MinMonths, min(raw, MaxMonths))
}

// Decide reconciles a user request with the safe horizon.
// A nil RequestedMonths selects the safe horizon. Requests above it are
// reduced, requests below MinMonths are rejected.
func Decide(req models.DurationRequest) (models.DurationDecision, error) {
	if req.ActiveMonthCount < 0 {
		return models.DurationDecision{}, fmt.Errorf("%w: negative active month count %d", ErrInvalidArgument, req.ActiveMonthCount)
	}
	safe := SafeDuration(req.ActiveMonthCount)

	d := models.DurationDecision{
		RequestedMonths: req.RequestedMonths,
		ActiveMonths:    req.ActiveMonthCount,
		SafeMonths:      safe,
	}

	if req.RequestedMonths == nil {
		d.ValidatedMonths = safe
		d.Reason = models.ReasonAuto
		return d, nil
	}

	requested := *req.RequestedMonths
	switch {
	case requested <= 0:
		return models.DurationDecision{}, fmt.Errorf("%w: requested months must be positive, got %d", ErrInvalidArgument, requested)
	case requested < MinMonths:
		return models.DurationDecision{}, fmt.Errorf("%w: requested months must be at least %d, got %d", ErrInvalidArgument, MinMonths, requested)
	case requested > safe:
		d.ValidatedMonths = safe
		d.Reason = models.ReasonUserReduced
	default:
		d.ValidatedMonths = requested
		d.Reason = models.ReasonUserApproved
	}
	return d, nil
}

// ValidateDuration computes the forecast horizon for series.
func ValidateDuration(series models.TimeSeries, requested *int) (models.DurationDecision, error) {
	if len(series) == 0 {
		return models.DurationDecision{}, fmt.Errorf("%w: series has no periods", ErrInsufficientData)
	}

	active := series.ActiveMonths()
	d, err := Decide(models.DurationRequest{
		ActiveMonthCount: active,
		RequestedMonths:  requested,
	})
	if err != nil {
		return models.DurationDecision{}, err
	}

	d.TotalMonths = len(series)
	d.Density = float64(active) / float64(len(series)) * 100
	d.Sparse = d.Density < sparseDensityPct
	return d, nil
}
