package handlers

import (
	"net/http"

	"budget_forecast/internal/service"

	"github.com/gin-gonic/gin"
)

// @Summary      List predictions
// @Description  The caller's most recent predictions, newest first.
// @Tags         predictions
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, predictions"
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/predictions [get]
// @Security     ApiKeyAuth
func (h *Handler) listPredictions(c *gin.Context) {
	owner := ownerFrom(c)
	items, err := h.services.History.List(c.Request.Context(), owner)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to load predictions", "predictions_list_failed", err, "owner", owner)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":       len(items),
		"predictions": items,
	})
}

// @Summary      Get prediction
// @Tags         predictions
// @Produce      json
// @Param        id   path      string  true  "Prediction ID"
// @Success      200  {object}  models.PredictionRecord
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/predictions/{id} [get]
// @Security     ApiKeyAuth
func (h *Handler) getPrediction(c *gin.Context) {
	owner, id := ownerFrom(c), c.Param("id")
	rec, err := h.services.History.Get(c.Request.Context(), owner, id)
	if err != nil {
		h.respondError(c, err, "prediction_get_failed", "owner", owner, "id", id)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// @Summary      List anomalies
// @Description  Stored anomalies of the caller's predictions in chronological order. 'from' and 'to' bound the anomalous month.
// @Tags         anomalies
// @Produce      json
// @Param        severity  query  string  false  "Severity tier"  Enums(LOW,MEDIUM,HIGH)
// @Param        from      query  string  false  "First month (RFC3339 or YYYY-MM-DD)"  example(2024-01-01)
// @Param        to        query  string  false  "Last month (RFC3339 or YYYY-MM-DD)"  example(2024-12-31)
// @Success      200  {object}  map[string]interface{}  "count, anomalies"
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/anomalies [get]
// @Security     ApiKeyAuth
func (h *Handler) getAnomalies(c *gin.Context) {
	from, to, err := queryRange(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	owner := ownerFrom(c)
	items, err := h.services.Anomalies.List(c.Request.Context(), service.AnomalyFilter{
		Owner:    owner,
		Severity: c.Query("severity"),
		From:     from,
		To:       to,
	})
	if err != nil {
		h.respondError(c, err, "anomalies_list_failed", "owner", owner)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":     len(items),
		"anomalies": items,
	})
}

// @Summary      Usage overview
// @Tags         stats
// @Produce      json
// @Success      200  {object}  models.StatsOverview
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/stats/overview [get]
// @Security     ApiKeyAuth
func (h *Handler) getStatsOverview(c *gin.Context) {
	owner := ownerFrom(c)
	ov, err := h.services.Stats.Overview(c.Request.Context(), owner)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to load stats", "stats_overview_failed", err, "owner", owner)
		return
	}
	c.JSON(http.StatusOK, ov)
}
