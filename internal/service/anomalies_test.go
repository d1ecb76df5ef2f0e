package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"budget_forecast/internal/models"
)

func TestAnomalyService_List_NormalizesFilter(t *testing.T) {
	t.Parallel()

	repo := &fakeAnomalyRepo{out: []models.Anomaly{{Date: "2024-01-01"}}}
	svc := NewAnomalyService(repo)

	from := time.Date(2024, 1, 1, 2, 0, 0, 0, time.FixedZone("UTC+2", 2*3600))
	got, err := svc.List(context.Background(), AnomalyFilter{Owner: "alice", Severity: " high ", From: from})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d", len(got))
	}
	q := repo.gotQuery
	if q.Owner != "alice" || q.Severity != models.SeverityHigh || !q.To.IsZero() {
		t.Fatalf("query = %+v", q)
	}
	if q.From.Location() != time.UTC || !q.From.Equal(from) {
		t.Fatalf("from = %v", q.From)
	}
}

func TestAnomalyService_List_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		f    AnomalyFilter
		want error
	}{
		{"unknown severity", AnomalyFilter{Severity: "critical"}, ErrInvalidSeverity},
		{"inverted range", AnomalyFilter{
			From: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			To:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		}, ErrInvalidTimeRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeAnomalyRepo{}
			_, err := NewAnomalyService(repo).List(context.Background(), tt.f)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if repo.calls != 0 {
				t.Fatalf("repo should not be called, calls=%d", repo.calls)
			}
		})
	}
}
