// Package monitoring exposes Prometheus metrics for the HTTP layer and the
// prediction pipeline.
package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"budget_forecast/internal/models"
)

const namespace = "budget_forecast"

// Metrics owns its registry so tests and multiple routers do not collide on
// the global one.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	httpInFlight prometheus.Gauge

	predictions      *prometheus.CounterVec
	predictionFails  *prometheus.CounterVec
	forecastHorizon  prometheus.Histogram
	anomalies        *prometheus.CounterVec
	retentionDeleted prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"method", "route"}),
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_in_flight_requests",
			Help:      "Current number of in-flight HTTP requests",
		}),
		predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "predictions_total",
			Help:      "Completed predictions by selected model",
		}, []string{"model"}),
		predictionFails: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "prediction_failures_total",
			Help:      "Failed predictions by pipeline stage",
		}, []string{"stage"}),
		forecastHorizon: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "forecast_horizon_months",
			Help:      "Validated forecast horizon in months",
			Buckets:   []float64{3, 6, 9, 12, 18, 24},
		}),
		anomalies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "anomalies_detected_total",
			Help:      "Anomalies reported to callers by severity",
		}, []string{"severity"}),
		retentionDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "retention_deleted_predictions_total",
			Help:      "Predictions removed by the retention worker",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.httpInFlight,
		m.predictions,
		m.predictionFails,
		m.forecastHorizon,
		m.anomalies,
		m.retentionDeleted,
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Middleware records request count, latency and in-flight requests. Routes
// are labelled by their gin pattern to keep cardinality bounded.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		m.httpInFlight.Inc()
		defer m.httpInFlight.Dec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) PredictionCompleted(model string, months int) {
	m.predictions.WithLabelValues(model).Inc()
	m.forecastHorizon.Observe(float64(months))
}

func (m *Metrics) PredictionFailed(stage string) {
	m.predictionFails.WithLabelValues(stage).Inc()
}

func (m *Metrics) AnomaliesDetected(sev models.Severity, n int) {
	m.anomalies.WithLabelValues(string(sev)).Add(float64(n))
}

func (m *Metrics) RetentionSwept(n int64) {
	m.retentionDeleted.Add(float64(n))
}
