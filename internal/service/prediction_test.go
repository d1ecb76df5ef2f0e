package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"budget_forecast/internal/analysis"
	"budget_forecast/internal/ingest"
	"budget_forecast/internal/models"
)

// yearCSV has one row on the last day of every month of 2023.
func yearCSV(values [12]float64) []byte {
	var b strings.Builder
	b.WriteString("date;montant\n")
	for i, v := range values {
		last := time.Date(2023, time.Month(i+2), 0, 0, 0, 0, 0, time.UTC)
		fmt.Fprintf(&b, "%s;%.2f\n", last.Format("2006-01-02"), v)
	}
	return []byte(b.String())
}

type predictionFixture struct {
	svc     *PredictionService
	preds   *fakePredictionRepo
	events  *fakeEventRepo
	metrics *fakeMetrics
}

func newPredictionFixture(opts Options) *predictionFixture {
	f := &predictionFixture{
		preds:   &fakePredictionRepo{fileID: 9},
		events:  &fakeEventRepo{},
		metrics: &fakeMetrics{},
	}
	opts.Metrics = f.metrics
	f.svc = NewPredictionService(f.preds, f.events, opts)
	f.svc.now = func() time.Time { return time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC) }
	return f
}

func intPtr(v int) *int { return &v }

func TestPredict_AutoDuration(t *testing.T) {
	t.Parallel()

	f := newPredictionFixture(Options{})
	content := yearCSV([12]float64{100, 120, 90, 110, 105, 95, 600, 100, 115, 98, 102, 108})

	res, err := f.svc.Predict(context.Background(), PredictRequest{Owner: "alice", Filename: "a.csv", Content: content})
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}

	if res.Status != "success" || res.PredictionID == "" {
		t.Fatalf("unexpected status/id: %q %q", res.Status, res.PredictionID)
	}
	// 12 active months -> floor(12/3) = 4
	if res.DurationInfo.ValidatedMonths != 4 || res.DurationInfo.Reason != models.ReasonAuto {
		t.Fatalf("duration = %+v", res.DurationInfo)
	}
	if len(res.Forecast.Values) != 4 || res.Forecast.Dates[0] != "2024-01-01" {
		t.Fatalf("forecast = %+v", res.Forecast)
	}
	if len(res.History.Values) != 12 || res.History.Dates[0] != "2023-01-01" {
		t.Fatalf("history = %+v", res.History)
	}
	if len(res.Explanations) == 0 {
		t.Fatal("expected explanations")
	}

	if len(f.preds.uploads) != 1 {
		t.Fatalf("uploads = %d", len(f.preds.uploads))
	}
	up := f.preds.uploads[0]
	if up.Owner != "alice" || up.RowCount != 12 || up.RangeStart != "2023-01-31" || up.RangeEnd != "2023-12-31" || len(up.Hash) != 64 {
		t.Fatalf("upload = %+v", up)
	}

	if len(f.preds.saved) != 1 {
		t.Fatalf("saved = %d", len(f.preds.saved))
	}
	rec := f.preds.saved[0]
	if rec.ID != res.PredictionID || rec.FileID != 9 || rec.ForecastMonths != 4 || rec.Model != res.ModelInfo.Name {
		t.Fatalf("record = %+v", rec.PredictionSummary)
	}
	for _, a := range res.Anomalies {
		if a.PredictionID != res.PredictionID || a.DetectedAt == nil || a.DetectedAt.IsZero() {
			t.Fatalf("anomaly not stamped: %+v", a)
		}
	}

	types := f.events.types()
	if len(types) == 0 || types[0] != models.EventPrediction {
		t.Fatalf("events = %v", types)
	}
	hasAnomalyEvent := false
	for _, typ := range types {
		if typ == models.EventAnomalyDetected {
			hasAnomalyEvent = true
		}
		if typ == models.EventDurationReduced {
			t.Fatalf("unexpected DURATION_REDUCED event")
		}
	}
	if hasAnomalyEvent != (len(res.Anomalies) > 0) {
		t.Fatalf("ANOMALY_DETECTED event=%v with %d anomalies", hasAnomalyEvent, len(res.Anomalies))
	}
	if len(f.metrics.completed) != 1 || len(f.metrics.failed) != 0 {
		t.Fatalf("metrics = %+v", f.metrics)
	}
}

func TestPredict_ReducesOversizedRequest(t *testing.T) {
	t.Parallel()

	f := newPredictionFixture(Options{})
	content := yearCSV([12]float64{100, 120, 90, 110, 105, 95, 130, 100, 115, 98, 102, 108})

	res, err := f.svc.Predict(context.Background(), PredictRequest{Owner: "alice", Content: content, Months: intPtr(12)})
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	d := res.DurationInfo
	if d.Reason != models.ReasonUserReduced || d.ValidatedMonths != 4 || d.RequestedMonths == nil || *d.RequestedMonths != 12 {
		t.Fatalf("duration = %+v", d)
	}
	if len(res.Forecast.Values) != 4 {
		t.Fatalf("forecast len = %d", len(res.Forecast.Values))
	}

	found := false
	for _, e := range f.events.appended {
		if e.Type == models.EventDurationReduced {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected DURATION_REDUCED event, got %v", f.events.types())
	}
}

func TestPredict_SparseData(t *testing.T) {
	t.Parallel()

	f := newPredictionFixture(Options{})
	content := []byte("date,amount\n2023-01-31,100\n2023-12-31,50\n")

	res, err := f.svc.Predict(context.Background(), PredictRequest{Owner: "bob", Content: content})
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if !res.DurationInfo.Sparse || res.DurationInfo.ValidatedMonths != 3 {
		t.Fatalf("duration = %+v", res.DurationInfo)
	}

	found := false
	for _, typ := range f.events.types() {
		if typ == models.EventSparseData {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected SPARSE_DATA event, got %v", f.events.types())
	}
}

func TestPredict_Errors(t *testing.T) {
	t.Parallel()

	valid := yearCSV([12]float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12})

	tests := []struct {
		name      string
		req       PredictRequest
		saveErr   error
		want      error
		wantStage string
	}{
		{"empty file", PredictRequest{}, nil, ingest.ErrEmptyFile, stageIngest},
		{"no columns", PredictRequest{Content: []byte("a,b\n1,2\n")}, nil, ingest.ErrColumnsNotFound, stageIngest},
		{"zero months", PredictRequest{Content: valid, Months: intPtr(0)}, nil, analysis.ErrInvalidArgument, stageDuration},
		{"negative months", PredictRequest{Content: valid, Months: intPtr(-2)}, nil, analysis.ErrInvalidArgument, stageDuration},
		{"save fails", PredictRequest{Content: valid}, errors.New("disk full"), nil, stagePersist},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newPredictionFixture(Options{})
			f.preds.saveErr = tt.saveErr

			_, err := f.svc.Predict(context.Background(), tt.req)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if tt.saveErr != nil && !errors.Is(err, tt.saveErr) {
				t.Fatalf("expected save error, got %v", err)
			}
			if len(f.metrics.failed) != 1 || f.metrics.failed[0] != tt.wantStage {
				t.Fatalf("failed stages = %v", f.metrics.failed)
			}
			types := f.events.types()
			if len(types) != 1 || types[0] != models.EventError {
				t.Fatalf("events = %v", types)
			}
			if len(f.preds.saved) != 0 || len(f.preds.uploads) != 0 {
				t.Fatalf("nothing should be persisted: %d predictions, %d uploads", len(f.preds.saved), len(f.preds.uploads))
			}
		})
	}
}

func TestPredict_AuditFailureDoesNotFailRequest(t *testing.T) {
	t.Parallel()

	f := newPredictionFixture(Options{})
	f.events.appendErr = errors.New("locked")

	_, err := f.svc.Predict(context.Background(), PredictRequest{
		Content: yearCSV([12]float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}),
	})
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
}

func TestFilterBySeverity(t *testing.T) {
	t.Parallel()

	in := []models.Anomaly{
		{Date: "2023-01-01", Severity: models.SeverityLow},
		{Date: "2023-02-01", Severity: models.SeverityHigh},
		{Date: "2023-03-01", Severity: models.SeverityMedium},
	}

	tests := []struct {
		floor models.Severity
		want  []string
	}{
		{models.SeverityLow, []string{"2023-01-01", "2023-02-01", "2023-03-01"}},
		{models.SeverityMedium, []string{"2023-02-01", "2023-03-01"}},
		{models.SeverityHigh, []string{"2023-02-01"}},
	}
	for _, tt := range tests {
		got := filterBySeverity(in, tt.floor)
		if len(got) != len(tt.want) {
			t.Fatalf("%s: got %d anomalies, want %d", tt.floor, len(got), len(tt.want))
		}
		for i := range got {
			if got[i].Date != tt.want[i] {
				t.Fatalf("%s: order changed: %v", tt.floor, got)
			}
		}
	}
}

func TestDescribeDecision(t *testing.T) {
	t.Parallel()

	reduced := describeDecision(models.DurationDecision{
		ValidatedMonths: 4, RequestedMonths: intPtr(12), Reason: models.ReasonUserReduced,
		ActiveMonths: 12, SafeMonths: 4,
	})
	if !strings.Contains(reduced, "12 months reduced to 4") {
		t.Fatalf("reduced: %q", reduced)
	}
	auto := describeDecision(models.DurationDecision{ValidatedMonths: 3, Reason: models.ReasonAuto, ActiveMonths: 5})
	if !strings.Contains(auto, "Forecasting 3 months") {
		t.Fatalf("auto: %q", auto)
	}
}
