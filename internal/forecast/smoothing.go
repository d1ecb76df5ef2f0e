package forecast

import (
	"budget_forecast/internal/models"
)

// Grids searched for the smoothing constants.
var (
	sesGrid    = []float64{0.05, 0.1, 0.15, 0.2, 0.25, 0.3, 0.35, 0.4, 0.45, 0.5, 0.55, 0.6, 0.65, 0.7, 0.75, 0.8, 0.85, 0.9, 0.95}
	holtGrid   = []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9}
	seasonGrid = []float64{0.1, 0.3, 0.5, 0.7, 0.9}
)

// fitSES is simple exponential smoothing, initialized on the first value.
func fitSES(series models.TimeSeries) *Model {
	y := series.Values()
	if len(y) < 2 {
		return nil
	}

	var best *Model
	for _, alpha := range sesGrid {
		fitted := make([]float64, len(y))
		level := y[0]
		for t := 1; t < len(y); t++ {
			fitted[t] = level
			level = alpha*y[t] + (1-alpha)*level
		}
		m := &Model{
			name:   SES,
			params: map[string]float64{"alpha": alpha},
			series: series,
			fitted: fitted,
			start:  1,
			level:  level,
		}
		m.finish(2)
		if best == nil || m.aic < best.aic {
			best = m
		}
	}
	return best
}

// fitHolt is additive-trend smoothing, initialized on the first two values.
func fitHolt(series models.TimeSeries) *Model {
	y := series.Values()
	if len(y) < 4 {
		return nil
	}

	var best *Model
	for _, alpha := range holtGrid {
		for _, beta := range holtGrid {
			fitted := make([]float64, len(y))
			level, trend := y[1], y[1]-y[0]
			for t := 2; t < len(y); t++ {
				fitted[t] = level + trend
				prev := level
				level = alpha*y[t] + (1-alpha)*(level+trend)
				trend = beta*(level-prev) + (1-beta)*trend
			}
			m := &Model{
				name:   Holt,
				params: map[string]float64{"alpha": alpha, "beta": beta},
				series: series,
				fitted: fitted,
				start:  2,
				level:  level,
				trend:  trend,
			}
			m.finish(4)
			if best == nil || m.aic < best.aic {
				best = m
			}
		}
	}
	return best
}

// fitHoltWinters is additive trend and additive yearly seasonality. It needs
// two full seasons to initialize.
func fitHoltWinters(series models.TimeSeries) *Model {
	y := series.Values()
	if len(y) < 2*seasonLength {
		return nil
	}
	level0, trend0, season0 := initSeasonal(y)

	var best *Model
	for _, alpha := range seasonGrid {
		for _, beta := range seasonGrid {
			for _, gamma := range seasonGrid {
				season := make([]float64, seasonLength)
				copy(season, season0)
				fitted := make([]float64, len(y))
				level, trend := level0, trend0

				for t := seasonLength; t < len(y); t++ {
					i := t % seasonLength
					fitted[t] = level + trend + season[i]
					prev := level
					level = alpha*(y[t]-season[i]) + (1-alpha)*(level+trend)
					trend = beta*(level-prev) + (1-beta)*trend
					season[i] = gamma*(y[t]-level) + (1-gamma)*season[i]
				}
				m := &Model{
					name:   HoltWinters,
					params: map[string]float64{"alpha": alpha, "beta": beta, "gamma": gamma},
					series: series,
					fitted: fitted,
					start:  seasonLength,
					level:  level,
					trend:  trend,
					season: season,
				}
				m.finish(3 + 2 + seasonLength)
				if best == nil || m.aic < best.aic {
					best = m
				}
			}
		}
	}
	return best
}

// initSeasonal derives the state at t = seasonLength-1 from the first two
// seasons: the trend from their means, the level on that trend line and the
// seasonal terms as deviations from it.
func initSeasonal(y []float64) (level, trend float64, season []float64) {
	m := float64(seasonLength)
	var first, second float64
	for i := 0; i < seasonLength; i++ {
		first += y[i]
		second += y[i+seasonLength]
	}
	first /= m
	second /= m

	trend = (second - first) / m
	center := (m - 1) / 2
	level = first + trend*center

	season = make([]float64, seasonLength)
	for i := 0; i < seasonLength; i++ {
		season[i] = y[i] - (first + trend*(float64(i)-center))
	}
	return level, trend, season
}
