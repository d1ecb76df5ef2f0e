package analysis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"budget_forecast/internal/models"
)

// Thresholds are the |z| lower bounds of each severity tier.
type Thresholds struct {
	Low    float64 `mapstructure:"low"`
	Medium float64 `mapstructure:"medium"`
	High   float64 `mapstructure:"high"`
}

// DefaultThresholds flags residuals at one, two and three standard deviations.
func DefaultThresholds() Thresholds {
	return Thresholds{Low: 1.0, Medium: 2.0, High: 3.0}
}

// Validate checks that the tiers are finite and strictly increasing.
func (t Thresholds) Validate() error {
	for _, v := range []float64{t.Low, t.Medium, t.High} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: thresholds must be finite, got %+v", ErrInvalidConfiguration, t)
		}
	}
	if !(t.Low < t.Medium && t.Medium < t.High) {
		return fmt.Errorf("%w: thresholds must satisfy low < medium < high, got %+v", ErrInvalidConfiguration, t)
	}
	return nil
}

// Classifier flags residuals that lie unusually far from zero.
// It holds no mutable state and is safe for concurrent use.
type Classifier struct {
	thresholds Thresholds
}

// NewClassifier validates the thresholds once, at construction.
func NewClassifier(t Thresholds) (*Classifier, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &Classifier{thresholds: t}, nil
}

// Thresholds returns the configured tiers.
func (c *Classifier) Thresholds() Thresholds { return c.thresholds }

// Severity maps a z-score to a tier. ok is false below the Low tier.
func (c *Classifier) Severity(z float64) (sev models.Severity, ok bool) {
	switch {
	case z >= c.thresholds.High:
		return models.SeverityHigh, true
	case z >= c.thresholds.Medium:
		return models.SeverityMedium, true
	case z >= c.thresholds.Low:
		return models.SeverityLow, true
	default:
		return "", false
	}
}

// Classify returns one Anomaly per point whose |residual|/sigma reaches the
// Low tier, in input order. Empty input or zero spread yields no anomalies.
func (c *Classifier) Classify(points []models.ResidualPoint) []models.Anomaly {
	out := make([]models.Anomaly, 0)
	if len(points) == 0 {
		return out
	}

	residuals := make([]float64, len(points))
	for i, p := range points {
		residuals[i] = p.Residual
	}
	sigma := PopulationStdDev(residuals)
	if degenerate(sigma, residuals) {
		return out
	}

	for _, p := range points {
		z := math.Abs(p.Residual) / sigma
		sev, ok := c.Severity(z)
		if !ok {
			continue
		}
		out = append(out, models.Anomaly{
			Period:        p.Period,
			Date:          p.Period.Format(models.DateLayout),
			Actual:        p.Actual,
			Predicted:     p.Predicted,
			Residual:      p.Residual,
			StdDeviations: z,
			Severity:      sev,
			Description:   Describe(p.Actual, p.Predicted, sev),
		})
	}
	return out
}

// Describe renders the deviation of actual from predicted as a sentence.
func Describe(actual, predicted float64, sev models.Severity) string {
	pct := 0.0
	if predicted != 0 {
		pct = (actual - predicted) / predicted * 100
	}
	direction := "above"
	if actual < predicted {
		direction = "below"
	}
	return fmt.Sprintf("%s: spending %.0f%% %s normal", sev, math.Abs(math.Round(pct)), direction)
}

// relativeEpsilon absorbs rounding in the mean of a constant series.
const relativeEpsilon = 1e-12

func degenerate(sigma float64, residuals []float64) bool {
	if sigma == 0 || math.IsNaN(sigma) {
		return true
	}
	var scale float64
	for _, r := range residuals {
		scale = max(scale, math.Abs(r))
	}
	return sigma <= scale*relativeEpsilon
}

// PopulationStdDev is the standard deviation with denominator n.
func PopulationStdDev(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return stat.PopStdDev(xs, nil)
}
