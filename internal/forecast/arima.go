package forecast

import (
	"gonum.org/v1/gonum/mat"

	"budget_forecast/internal/models"
)

const (
	// autoregressive candidates need a year of history
	minARLength = 12
	maxAROrder  = 2
	// designs worse conditioned than this are collinear, e.g. an exact line
	maxCondition = 1e8
	// roots closer than this to the unit circle count as non-stationary
	stationarityMargin = 1e-6
)

// fitAR is the better of AR(1) and AR(2) with a constant.
func fitAR(series models.TimeSeries) *Model {
	return better(fitAutoregressive(series, 1, 0), fitAutoregressive(series, 2, 0))
}

// fitARIMA is the better of ARIMA(1,1,0) and ARIMA(2,1,0) with drift.
func fitARIMA(series models.TimeSeries) *Model {
	return better(fitAutoregressive(series, 1, 1), fitAutoregressive(series, 2, 1))
}

// fitAutoregressive fits an AR(p) model with a constant to the series
// differenced d times, by conditional least squares. Both orders regress on
// the same observations so their AIC values compare directly. Fits that are
// collinear or not stationary return nil.
func fitAutoregressive(series models.TimeSeries, p, d int) *Model {
	y := series.Values()
	if len(y) < minARLength {
		return nil
	}
	z := y
	if d == 1 {
		z = differences(y)
	}

	rows := len(z) - maxAROrder
	design := mat.NewDense(rows, p+1, nil)
	target := mat.NewVecDense(rows, nil)
	for r := 0; r < rows; r++ {
		t := maxAROrder + r
		design.Set(r, 0, 1)
		for j := 1; j <= p; j++ {
			design.Set(r, j, z[t-j])
		}
		target.SetVec(r, z[t])
	}
	if mat.Cond(design, 2) > maxCondition {
		return nil
	}

	var coef mat.VecDense
	if err := coef.SolveVec(design, target); err != nil {
		return nil
	}
	intercept := coef.AtVec(0)
	phi := make([]float64, p)
	for j := range phi {
		phi[j] = coef.AtVec(j + 1)
	}
	if !stationary(phi) {
		return nil
	}

	fitted := make([]float64, len(y))
	for t := maxAROrder; t < len(z); t++ {
		v := intercept
		for j, c := range phi {
			v += c * z[t-1-j]
		}
		if d == 1 {
			fitted[t+1] = y[t] + v
		} else {
			fitted[t] = v
		}
	}

	name := AR
	if d == 1 {
		name = ARIMA
	}
	params := map[string]float64{"p": float64(p), "d": float64(d), "const": intercept}
	for j, c := range phi {
		params[phiParams[j]] = c
	}
	m := &Model{
		name:      name,
		params:    params,
		series:    series,
		fitted:    fitted,
		start:     maxAROrder + d,
		phi:       phi,
		intercept: intercept,
		diff:      d,
	}
	m.finish(p + 1)
	return m
}

var phiParams = [maxAROrder]string{"phi1", "phi2"}

// stationary checks the AR(1) and AR(2) stationarity regions.
func stationary(phi []float64) bool {
	bound := 1 - stationarityMargin
	switch len(phi) {
	case 1:
		return phi[0] < bound && phi[0] > -bound
	case 2:
		return phi[0]+phi[1] < bound && phi[1]-phi[0] < bound && phi[1] < bound && phi[1] > -bound
	default:
		return false
	}
}

// autoregressive runs the fitted recursion k steps past the end of the
// series and returns the last step on the original scale.
func (m *Model) autoregressive(k int) float64 {
	y := m.series.Values()
	z := y
	if m.diff == 1 {
		z = differences(y)
	}

	path := append(make([]float64, 0, len(z)+k), z...)
	for i := 0; i < k; i++ {
		v := m.intercept
		for j, c := range m.phi {
			v += c * path[len(path)-1-j]
		}
		path = append(path, v)
	}
	if m.diff == 0 {
		return path[len(path)-1]
	}

	level := y[len(y)-1]
	for _, step := range path[len(z):] {
		level += step
	}
	return level
}

func differences(y []float64) []float64 {
	out := make([]float64, len(y)-1)
	for i := range out {
		out[i] = y[i+1] - y[i]
	}
	return out
}

func better(a, b *Model) *Model {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	case b.aic < a.aic:
		return b
	default:
		return a
	}
}
