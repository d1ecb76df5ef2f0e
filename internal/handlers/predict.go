package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"budget_forecast/internal/ingest"
	"budget_forecast/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	formFile   = "file"
	formMonths = "months"
	formCode   = "code"

	// room for multipart boundaries and the other form fields
	multipartOverhead = 1 << 20

	errMissingFile   = "missing 'file' upload"
	errInvalidMonths = "invalid 'months'; expected an integer"
)

// @Summary      Forecast an uploaded spending file
// @Description  Cleans the CSV, validates the horizon, fits the best smoothing model by AIC and flags residual anomalies. Omit 'months' to let the service choose.
// @Tags         predictions
// @Accept       multipart/form-data
// @Produce      json
// @Param        file    formData  file    true   "CSV with a date and an amount column"
// @Param        months  formData  int     false  "Forecast horizon in months (3..24)"
// @Param        code    formData  string  false  "Keep only rows with this ordonnateur/establishment code"
// @Success      200     {object}  models.PredictionResult
// @Failure      400     {object}  map[string]string
// @Failure      401     {object}  map[string]string
// @Failure      500     {object}  map[string]string
// @Router       /api/v1/predict [post]
// @Security     ApiKeyAuth
func (h *Handler) predict(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes+multipartOverhead)

	fh, err := c.FormFile(formFile)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.respondError(c, ingest.ErrFileTooLarge, "predict_upload_too_large", "owner", ownerFrom(c))
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": errMissingFile})
		return
	}

	months, err := parseMonths(formValue(c, formMonths))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidMonths})
		return
	}

	content, err := readUpload(fh, h.maxUploadBytes)
	if err != nil {
		h.logAndJSONError(c, http.StatusBadRequest, "failed to read upload", "predict_read_failed", err, "filename", fh.Filename)
		return
	}

	res, err := h.services.Prediction.Predict(c.Request.Context(), service.PredictRequest{
		Owner:    ownerFrom(c),
		Filename: fh.Filename,
		Content:  content,
		Months:   months,
		Code:     strings.TrimSpace(formValue(c, formCode)),
	})
	if err != nil {
		h.respondError(c, err, "predict_failed", "owner", ownerFrom(c), "filename", fh.Filename)
		return
	}
	c.JSON(http.StatusOK, res)
}

// formValue reads a multipart field and falls back to the query string.
func formValue(c *gin.Context, key string) string {
	if v, ok := c.GetPostForm(key); ok {
		return v
	}
	return c.Query(key)
}

// parseMonths returns nil for an absent value so the service picks the horizon.
func parseMonths(s string) (*int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("parse months %q: %w", s, err)
	}
	return &v, nil
}

// readUpload reads at most limit+1 bytes so the ingest size check still fires.
func readUpload(fh *multipart.FileHeader, limit int64) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return io.ReadAll(io.LimitReader(f, limit+1))
}
