package handlers

import (
	"time"

	"budget_forecast/internal/analysis"
	"budget_forecast/internal/forecast"
	"budget_forecast/internal/ingest"
	"budget_forecast/internal/logger"
	"budget_forecast/internal/models"
	"budget_forecast/internal/monitoring"
	"budget_forecast/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "budget_forecast/docs"
)

const defaultStreamInterval = 5 * time.Second

// Options carries the HTTP layer settings that are not services.
type Options struct {
	Metrics        *monitoring.Metrics // nil disables /metrics and the HTTP middleware
	StreamInterval time.Duration       // default /ws push period
	MaxUploadBytes int64
	Thresholds     analysis.Thresholds
	MinSeverity    models.Severity
	AuthEnabled    bool
	Version        string
}

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
	metrics  *monitoring.Metrics

	streamInterval time.Duration
	maxUploadBytes int64
	info           ServiceInfo
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger, opts Options) *Handler {
	if opts.StreamInterval <= 0 {
		opts.StreamInterval = defaultStreamInterval
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = ingest.DefaultMaxBytes
	}
	if opts.MinSeverity == "" {
		opts.MinSeverity = models.SeverityLow
	}
	if opts.Thresholds == (analysis.Thresholds{}) {
		opts.Thresholds = analysis.DefaultThresholds()
	}
	return &Handler{
		services:       services,
		log:            log,
		metrics:        opts.Metrics,
		streamInterval: opts.StreamInterval,
		maxUploadBytes: opts.MaxUploadBytes,
		info: ServiceInfo{
			Service:        "budget_forecast",
			Version:        opts.Version,
			Models:         append([]string(nil), forecast.Names...),
			MinMonths:      analysis.MinMonths,
			MaxMonths:      analysis.MaxMonths,
			Thresholds:     thresholdInfo(opts.Thresholds),
			MinSeverity:    string(opts.MinSeverity),
			MaxUploadBytes: opts.MaxUploadBytes,
			AuthEnabled:    opts.AuthEnabled,
		},
	}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), h.requestLogger)
	if h.metrics != nil {
		router.Use(h.metrics.Middleware())
		router.GET("/metrics", gin.WrapH(h.metrics.Handler()))
	}

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", h.health)
	router.GET("/info", h.getInfo)

	// Versioned API endpoints (owner resolved from the API key)
	h.registerAPIRoutes(router)

	// Browsers cannot set headers on the upgrade request, so ?api_key= works here too.
	router.GET("/ws", h.apiKeyMiddleware, h.wsConnect)

	return router
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.apiKeyMiddleware)
	{
		api.POST("/predict", h.predict)
		h.registerPredictionRoutes(api)
		api.GET("/anomalies", h.getAnomalies)
		api.GET("/stats/overview", h.getStatsOverview)
		api.GET("/events", h.getEvents)
	}
}

func (h *Handler) registerPredictionRoutes(api *gin.RouterGroup) {
	predictions := api.Group("/predictions")
	{
		predictions.GET("", h.listPredictions)
		predictions.GET("/:id", h.getPrediction)
	}
}
