package handlers

import (
	"errors"
	"net/http"

	"budget_forecast/internal/analysis"
	"budget_forecast/internal/forecast"
	"budget_forecast/internal/ingest"
	"budget_forecast/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	statusOK = "ok"

	errInternal = "internal error"
)

// ServiceInfo describes what the service can do and how it is configured.
type ServiceInfo struct {
	Service        string         `json:"service" example:"budget_forecast"`
	Version        string         `json:"version,omitempty"`
	Models         []string       `json:"models"`
	MinMonths      int            `json:"min_months" example:"3"`
	MaxMonths      int            `json:"max_months" example:"24"`
	Thresholds     ThresholdsInfo `json:"anomaly_thresholds"`
	MinSeverity    string         `json:"min_severity" example:"LOW"`
	MaxUploadBytes int64          `json:"max_upload_bytes"`
	AuthEnabled    bool           `json:"auth_enabled"`
}

// ThresholdsInfo lists the residual cut-offs in standard deviations.
type ThresholdsInfo struct {
	Low    float64 `json:"low" example:"1"`
	Medium float64 `json:"medium" example:"2"`
	High   float64 `json:"high" example:"3"`
}

func thresholdInfo(t analysis.Thresholds) ThresholdsInfo {
	return ThresholdsInfo{Low: t.Low, Medium: t.Medium, High: t.High}
}

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// respondError maps a service error to its status. Client errors carry the
// error text; anything else is logged and hidden behind errInternal.
func (h *Handler) respondError(c *gin.Context, err error, logKey string, kv ...interface{}) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		h.logAndJSONError(c, code, errInternal, logKey, err, kv...)
		return
	}
	if h.log != nil {
		h.log.Infow(logKey, append([]interface{}{"err", err, "status", code}, kv...)...)
	}
	c.JSON(code, gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, analysis.ErrInsufficientData),
		errors.Is(err, analysis.ErrInvalidArgument),
		errors.Is(err, forecast.ErrEmptySeries),
		errors.Is(err, ingest.ErrEmptyFile),
		errors.Is(err, ingest.ErrFileTooLarge),
		errors.Is(err, ingest.ErrMalformedCSV),
		errors.Is(err, ingest.ErrColumnsNotFound),
		errors.Is(err, ingest.ErrNoValidRows),
		errors.Is(err, service.ErrInvalidSeverity),
		errors.Is(err, service.ErrInvalidTimeRange):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      Service capabilities
// @Description  Forecasting models, horizon bounds, anomaly thresholds and upload limits.
// @Tags         system
// @Produce      json
// @Success      200  {object}  ServiceInfo
// @Router       /info [get]
func (h *Handler) getInfo(c *gin.Context) {
	c.JSON(http.StatusOK, h.info)
}
