// Package forecast fits exponential smoothing and low-order ARIMA models to a
// monthly series and picks the one with the lowest AIC.
package forecast

import (
	"errors"
	"math"

	"budget_forecast/internal/models"
)

// Model names reported in ModelInfo.
const (
	NaiveConstant = "NAIVE_CONSTANT"
	SES           = "SES"
	Holt          = "HOLT"
	HoltWinters   = "HOLT_WINTERS"
	AR            = "AR"
	ARIMA         = "ARIMA"
)

// Names lists every model Fit can choose.
var Names = []string{NaiveConstant, SES, Holt, HoltWinters, AR, ARIMA}

const (
	seasonLength = 12
	// z-value of a two-sided 95% interval
	confidenceZ = 1.96
	minSSE      = 1e-12
)

var ErrEmptySeries = errors.New("forecast: empty series")

// Model is a fitted forecaster. It is immutable after Fit.
type Model struct {
	name   string
	params map[string]float64
	aic    float64
	k      int // estimated parameters, initial states included

	series models.TimeSeries
	fitted []float64 // one-step-ahead fit, valid from index start
	start  int

	level  float64
	trend  float64
	season []float64 // indexed by t mod seasonLength
	sigma  float64

	phi       []float64 // autoregressive coefficients, lag 1 first
	intercept float64
	diff      int
}

// Fit chooses and fits the best model for series.
func Fit(series models.TimeSeries) (*Model, error) {
	if len(series) == 0 {
		return nil, ErrEmptySeries
	}
	y := series.Values()

	if distinct(y) <= 1 {
		return naive(series), nil
	}

	var candidates []*Model
	common := 0
	for _, fit := range []func(models.TimeSeries) *Model{fitSES, fitHolt, fitHoltWinters, fitAR, fitARIMA} {
		m := fit(series)
		if m == nil {
			continue
		}
		candidates = append(candidates, m)
		common = max(common, m.start)
	}

	// candidates are scored on one window, from the latest start onwards
	var best *Model
	for _, m := range candidates {
		m.score(common)
		if math.IsInf(m.aic, 0) || math.IsNaN(m.aic) {
			continue
		}
		if best == nil || m.aic < best.aic {
			best = m
		}
	}
	if best == nil {
		// two distinct points are the shortest series that reaches here,
		// SES always fits them
		return naive(series), nil
	}
	return best, nil
}

// Info describes the chosen model.
func (m *Model) Info() models.ModelInfo {
	params := make(map[string]float64, len(m.params))
	for k, v := range m.params {
		params[k] = v
	}
	return models.ModelInfo{Name: m.name, Params: params, AIC: m.aic}
}

// Name returns the chosen model name.
func (m *Model) Name() string { return m.name }

// Sigma is the standard error of the one-step-ahead fit.
func (m *Model) Sigma() float64 { return m.sigma }

// Residuals returns the in-sample fit for every period past the
// initialization window, in chronological order.
func (m *Model) Residuals() []models.ResidualPoint {
	out := make([]models.ResidualPoint, 0, len(m.series)-m.start)
	for i := m.start; i < len(m.series); i++ {
		p := m.series[i]
		out = append(out, models.ResidualPoint{
			Period:    p.Period,
			Actual:    p.Value,
			Predicted: m.fitted[i],
			Residual:  p.Value - m.fitted[i],
		})
	}
	return out
}

// Forecast projects h months past the last observed period.
func (m *Model) Forecast(h int) models.ForecastSeries {
	fs := models.ForecastSeries{
		Dates:           make([]string, 0, h),
		Values:          make([]float64, 0, h),
		ConfidenceUpper: make([]float64, 0, h),
		ConfidenceLower: make([]float64, 0, h),
	}
	if h <= 0 {
		return fs
	}

	n := len(m.series)
	last := m.series[n-1].Period
	for k := 1; k <= h; k++ {
		v := m.pointForecast(n, k)
		margin := confidenceZ * m.sigma * math.Sqrt(float64(k))

		fs.Dates = append(fs.Dates, last.AddDate(0, k, 0).Format(models.DateLayout))
		fs.Values = append(fs.Values, v)
		fs.ConfidenceUpper = append(fs.ConfidenceUpper, v+margin)
		fs.ConfidenceLower = append(fs.ConfidenceLower, v-margin)
	}
	return fs
}

func (m *Model) pointForecast(n, k int) float64 {
	switch m.name {
	case NaiveConstant, SES:
		return m.level
	case Holt:
		return m.level + float64(k)*m.trend
	case HoltWinters:
		return m.level + float64(k)*m.trend + m.season[(n-1+k)%seasonLength]
	case AR, ARIMA:
		return m.autoregressive(k)
	default:
		return math.NaN()
	}
}

func naive(series models.TimeSeries) *Model {
	n := len(series)
	fitted := make([]float64, n)
	last := series[n-1].Value
	for i := range fitted {
		fitted[i] = last
	}
	return &Model{
		name:   NaiveConstant,
		params: map[string]float64{},
		series: series,
		fitted: fitted,
		start:  1,
		level:  last,
	}
}

// finish computes sigma and AIC from the one-step-ahead residuals.
// k is the number of estimated parameters including initial states.
func (m *Model) finish(k int) {
	m.k = k
	sse, count := m.sse(m.start)
	if count == 0 {
		m.aic = math.Inf(1)
		return
	}
	m.sigma = math.Sqrt(sse / float64(count))
	m.aic = aic(sse, count, k)
}

// score recomputes the AIC over the residuals from index from onwards.
// Sigma keeps the model's own window.
func (m *Model) score(from int) {
	sse, count := m.sse(max(from, m.start))
	if count == 0 {
		m.aic = math.Inf(1)
		return
	}
	m.aic = aic(sse, count, m.k)
}

func (m *Model) sse(from int) (sse float64, count int) {
	for i := from; i < len(m.series); i++ {
		d := m.series[i].Value - m.fitted[i]
		sse += d * d
		count++
	}
	return sse, count
}

func aic(sse float64, n, k int) float64 {
	sse = math.Max(sse, minSSE)
	return float64(n)*math.Log(sse/float64(n)) + 2*float64(k)
}

func distinct(y []float64) int {
	seen := make(map[float64]struct{}, len(y))
	for _, v := range y {
		seen[v] = struct{}{}
	}
	return len(seen)
}
