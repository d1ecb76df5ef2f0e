package service

import "time"

// PredictRequest is one uploaded file plus the caller's options.
type PredictRequest struct {
	Owner    string
	Filename string
	Content  []byte
	Months   *int   // nil lets the service choose
	Code     string // optional ordonnateur/establishment filter
}

// LogFilter supports history filtering by time range and type.
type LogFilter struct {
	From  time.Time // inclusive; zero means no lower bound
	To    time.Time // inclusive; zero means no upper bound
	Type  string    // "", "PREDICTION", "DURATION_REDUCED", "SPARSE_DATA", "ANOMALY_DETECTED", "RETENTION", "ERROR"
	Owner string    // empty lists every owner's events
}

// AnomalyFilter narrows stored anomalies by owner, tier and month range.
type AnomalyFilter struct {
	Owner    string
	Severity string // case-insensitive; empty means all
	From     time.Time
	To       time.Time
}
