package handlers

import (
	"context"
	"net/http"

	"budget_forecast/internal/models"
	"budget_forecast/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAPIKeys struct {
	enabled bool
	keys    map[string]string // key -> owner
	lastKey string
}

func (m *mockAPIKeys) Enabled() bool { return m.enabled }

func (m *mockAPIKeys) Verify(key string) (string, error) {
	m.lastKey = key
	if !m.enabled {
		return service.AnonymousOwner, nil
	}
	if owner, ok := m.keys[key]; ok {
		return owner, nil
	}
	return "", service.ErrUnauthorized
}

type mockPrediction struct {
	resp    models.PredictionResult
	err     error
	lastReq service.PredictRequest
	calls   int
}

func (m *mockPrediction) Predict(ctx context.Context, req service.PredictRequest) (models.PredictionResult, error) {
	m.calls++
	m.lastReq = req
	return m.resp, m.err
}

type mockHistory struct {
	list      []models.PredictionSummary
	listErr   error
	rec       *models.PredictionRecord
	getErr    error
	lastOwner string
	lastID    string
}

func (m *mockHistory) List(ctx context.Context, owner string) ([]models.PredictionSummary, error) {
	m.lastOwner = owner
	return m.list, m.listErr
}

func (m *mockHistory) Get(ctx context.Context, owner, id string) (*models.PredictionRecord, error) {
	m.lastOwner = owner
	m.lastID = id
	return m.rec, m.getErr
}

type mockAnomalies struct {
	resp       []models.Anomaly
	err        error
	lastFilter service.AnomalyFilter
}

func (m *mockAnomalies) List(ctx context.Context, f service.AnomalyFilter) ([]models.Anomaly, error) {
	m.lastFilter = f
	return m.resp, m.err
}

type mockStats struct {
	resp      models.StatsOverview
	err       error
	lastOwner string
}

func (m *mockStats) Overview(ctx context.Context, owner string) (models.StatsOverview, error) {
	m.lastOwner = owner
	return m.resp, m.err
}

type mockEventLog struct {
	resp       []models.AuditEvent
	err        error
	lastFilter service.LogFilter
}

func (m *mockEventLog) List(ctx context.Context, f service.LogFilter) ([]models.AuditEvent, error) {
	m.lastFilter = f
	return m.resp, m.err
}

// ---- Shared Test Helpers ----

// anonymousKeys is the APIKeys mock with authentication disabled.
func anonymousKeys() *mockAPIKeys { return &mockAPIKeys{} }

func newTestRouter(s *service.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	if s.APIKeys == nil {
		s.APIKeys = anonymousKeys()
	}
	h := NewHandler(s, nil, Options{})
	return h.InitRoutes()
}

func keyHeader(key string) http.Header {
	h := http.Header{}
	if key != "" {
		h.Set(apiKeyHeader, key)
	}
	return h
}
