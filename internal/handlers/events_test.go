package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"budget_forecast/internal/models"
	"budget_forecast/internal/service"
)

func TestEventsHandler_ListAndValidation(t *testing.T) {
	keys := &mockAPIKeys{enabled: true, keys: map[string]string{"valid": "alice"}}
	now := time.Now().UTC().Truncate(time.Second)
	events := []models.AuditEvent{
		{EventID: "e1", OccurredAt: now, Type: models.EventPrediction, Description: "prediction"},
		{EventID: "e2", OccurredAt: now.Add(1 * time.Second), Type: models.EventAnomalyDetected, Description: "anomalies"},
	}
	logs := &mockEventLog{resp: events}
	s := &service.Service{
		APIKeys:  keys,
		EventLog: logs,
	}
	r := newTestRouter(s)

	// invalid 'from' → 400
	w := httptest.NewRecorder()
	req := withKey(httptest.NewRequest(http.MethodGet, "/api/v1/events?from=notatime", nil), "valid")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 invalid 'from', got %d", w.Code)
	}

	// Valid range and type (lowercase type should be normalized to upper in service call)
	w = httptest.NewRecorder()
	q := "/api/v1/events?from=" + now.Format(time.RFC3339) + "&to=" + now.Add(2*time.Second).Format(time.RFC3339) + "&type=anomaly_detected"
	req = withKey(httptest.NewRequest(http.MethodGet, q, nil), "valid")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("events status=%d, body=%s", w.Code, w.Body.String())
	}
	var out struct {
		Count  int                 `json:"count"`
		Events []models.AuditEvent `json:"events"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	if out.Count != 2 || len(out.Events) != 2 {
		t.Fatalf("unexpected response: %+v", out)
	}
	if logs.lastFilter.Type != "ANOMALY_DETECTED" {
		t.Fatalf("expected type ANOMALY_DETECTED, got %q", logs.lastFilter.Type)
	}
	if logs.lastFilter.Owner != "alice" {
		t.Fatalf("expected owner alice, got %q", logs.lastFilter.Owner)
	}
	if !logs.lastFilter.From.Equal(now) {
		t.Fatalf("from=%v; want %v", logs.lastFilter.From, now)
	}
}

func TestEventsHandler_DateOnlyToIsEndOfDay(t *testing.T) {
	logs := &mockEventLog{}
	r := newTestRouter(&service.Service{EventLog: logs})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/events?to=2025-08-31", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	want := time.Date(2025, 8, 31, 23, 59, 59, 999999999, time.UTC)
	if !logs.lastFilter.To.Equal(want) {
		t.Fatalf("to=%v; want %v", logs.lastFilter.To, want)
	}
}

func TestEventsHandler_ServiceError(t *testing.T) {
	r := newTestRouter(&service.Service{EventLog: &mockEventLog{err: errors.New("db")}})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/events", nil))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d; want 500", w.Code)
	}
}

func TestParseQueryTime(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
	}{
		{"2025-08-27T15:04:05Z", time.Date(2025, 8, 27, 15, 4, 5, 0, time.UTC)},
		{"2025-08-27T17:04:05+02:00", time.Date(2025, 8, 27, 15, 4, 5, 0, time.UTC)},
		{"2025-08-27 15:04:05", time.Date(2025, 8, 27, 15, 4, 5, 0, time.UTC)},
		{"2025-08-27", time.Date(2025, 8, 27, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		got, err := parseQueryTime(tc.in)
		if err != nil {
			t.Fatalf("parseQueryTime(%q): %v", tc.in, err)
		}
		if !got.Equal(tc.want) || got.Location() != time.UTC {
			t.Fatalf("parseQueryTime(%q)=%v; want %v", tc.in, got, tc.want)
		}
	}
	if _, err := parseQueryTime("27/08/2025"); err == nil {
		t.Fatal("expected error for unsupported layout")
	}
}
