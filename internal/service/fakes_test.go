package service

import (
	"context"
	"time"

	"budget_forecast/internal/models"
	"budget_forecast/internal/repository"
)

type fakeUploadRepo struct {
	files, rows int
	totalsErr   error
}

func (f *fakeUploadRepo) Totals(_ context.Context, _ string) (int, int, error) {
	return f.files, f.rows, f.totalsErr
}

type fakePredictionRepo struct {
	// uploads and saved only grow on success, like the real transaction
	uploads []models.UploadedFile
	saved   []models.PredictionRecord
	fileID  int64
	saveErr error

	list     []models.PredictionSummary
	gotLimit int
	listErr  error

	rec    *models.PredictionRecord
	getErr error

	count    int
	last     *time.Time
	usage    []models.ModelUsage
	usageErr error

	deleted   int64
	deleteErr error
	gotCutoff time.Time
}

func (f *fakePredictionRepo) Save(_ context.Context, upload models.UploadedFile, rec models.PredictionRecord) (int64, error) {
	if f.saveErr != nil {
		return 0, f.saveErr
	}
	rec.FileID = f.fileID
	f.uploads = append(f.uploads, upload)
	f.saved = append(f.saved, rec)
	return f.fileID, nil
}

func (f *fakePredictionRepo) List(_ context.Context, _ string, limit int) ([]models.PredictionSummary, error) {
	f.gotLimit = limit
	return f.list, f.listErr
}

func (f *fakePredictionRepo) Get(_ context.Context, _, _ string) (*models.PredictionRecord, error) {
	return f.rec, f.getErr
}

func (f *fakePredictionRepo) Usage(_ context.Context, _ string, _ int) (int, *time.Time, []models.ModelUsage, error) {
	return f.count, f.last, f.usage, f.usageErr
}

func (f *fakePredictionRepo) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	f.gotCutoff = cutoff
	return f.deleted, f.deleteErr
}

type fakeAnomalyRepo struct {
	gotQuery repository.AnomalyQuery
	calls    int
	out      []models.Anomaly
	err      error

	bySeverity map[models.Severity]int
	countErr   error
}

func (f *fakeAnomalyRepo) List(_ context.Context, q repository.AnomalyQuery) ([]models.Anomaly, error) {
	f.calls++
	f.gotQuery = q
	return f.out, f.err
}

func (f *fakeAnomalyRepo) CountBySeverity(_ context.Context, _ string) (map[models.Severity]int, error) {
	return f.bySeverity, f.countErr
}

type fakeMetrics struct {
	completed []string
	failed    []string
	anomalies map[models.Severity]int
	swept     int64
}

func (f *fakeMetrics) PredictionCompleted(model string, _ int) {
	f.completed = append(f.completed, model)
}

func (f *fakeMetrics) PredictionFailed(stage string) { f.failed = append(f.failed, stage) }

func (f *fakeMetrics) AnomaliesDetected(sev models.Severity, n int) {
	if f.anomalies == nil {
		f.anomalies = map[models.Severity]int{}
	}
	f.anomalies[sev] += n
}

func (f *fakeMetrics) RetentionSwept(n int64) { f.swept += n }
