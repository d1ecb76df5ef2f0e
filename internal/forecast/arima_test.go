package forecast

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"budget_forecast/internal/models"
)

func autoregressiveSeries(seed int64, n int) models.TimeSeries {
	rng := rand.New(rand.NewSource(seed))
	prev := 1000.0
	return generate(n, func(int) float64 {
		prev = 500 + 0.5*prev + 20*rng.NormFloat64()
		return prev
	})
}

func randomWalk(seed int64, n int) models.TimeSeries {
	rng := rand.New(rand.NewSource(seed))
	level := 1000.0
	return generate(n, func(int) float64 {
		level += 15 + 10*rng.NormFloat64()
		return level
	})
}

func TestFit_MeanRevertingSeriesPicksAR(t *testing.T) {
	t.Parallel()

	for seed := int64(1); seed <= 3; seed++ {
		m, err := Fit(autoregressiveSeries(seed, 120))
		require.NoError(t, err)
		assert.Equal(t, AR, m.Name(), "seed=%d", seed)

		info := m.Info()
		assert.Equal(t, 0.0, info.Params["d"])
		assert.Contains(t, info.Params, "phi1")
		assert.Len(t, m.Residuals(), 120-maxAROrder)
	}
}

func TestFitAutoregressive_ForecastFollowsRecursion(t *testing.T) {
	t.Parallel()

	series := autoregressiveSeries(4, 40)
	m := fitAutoregressive(series, 2, 0)
	require.NotNil(t, m)
	assert.Equal(t, AR, m.Name())

	p := m.Info().Params
	c, phi1, phi2 := p["const"], p["phi1"], p["phi2"]
	y := series.Values()
	prev2, prev1 := y[len(y)-2], y[len(y)-1]

	fc := m.Forecast(4)
	for k, v := range fc.Values {
		want := c + phi1*prev1 + phi2*prev2
		assert.InDelta(t, want, v, 1e-9, "step %d", k+1)
		prev2, prev1 = prev1, want
	}
}

func TestFitAutoregressive_DifferencedForecastFollowsRecursion(t *testing.T) {
	t.Parallel()

	series := randomWalk(5, 36)
	m := fitAutoregressive(series, 1, 1)
	require.NotNil(t, m)
	assert.Equal(t, ARIMA, m.Name())
	assert.Len(t, m.Residuals(), 36-3)

	p := m.Info().Params
	y := series.Values()
	level, step := y[len(y)-1], y[len(y)-1]-y[len(y)-2]

	fc := m.Forecast(3)
	for k, v := range fc.Values {
		step = p["const"] + p["phi1"]*step
		level += step
		assert.InDelta(t, level, v, 1e-9, "step %d", k+1)
	}
}

func TestFitAutoregressive_FittedIsOneStepAhead(t *testing.T) {
	t.Parallel()

	series := autoregressiveSeries(6, 30)
	m := fitAutoregressive(series, 1, 0)
	require.NotNil(t, m)

	p := m.Info().Params
	res := m.Residuals()
	require.Len(t, res, 30-maxAROrder)
	for j, r := range res {
		i := maxAROrder + j
		assert.Equal(t, series[i].Period, r.Period)
		assert.InDelta(t, p["const"]+p["phi1"]*series[i-1].Value, r.Predicted, 1e-9)
	}
}

func TestFitAutoregressive_Rejects(t *testing.T) {
	t.Parallel()

	line := generate(20, func(t int) float64 { return float64(t + 1) })

	tests := []struct {
		name   string
		series models.TimeSeries
		p, d   int
	}{
		{"too short", autoregressiveSeries(1, minARLength-1), 1, 0},
		{"unit root", line, 1, 0},
		{"collinear lags", line, 2, 0},
		{"constant differences", line, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, fitAutoregressive(tt.series, tt.p, tt.d))
		})
	}
}

func TestStationary(t *testing.T) {
	t.Parallel()

	tests := []struct {
		phi  []float64
		want bool
	}{
		{[]float64{0.5}, true},
		{[]float64{-0.9}, true},
		{[]float64{1}, false},
		{[]float64{-1.2}, false},
		{[]float64{0.5, 0.3}, true},
		{[]float64{0.6, 0.5}, false},
		{[]float64{-0.5, 0.6}, false},
		{[]float64{1.9, -1}, false},
		{nil, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, stationary(tt.phi), "%v", tt.phi)
	}
}
