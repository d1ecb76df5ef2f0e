package models

import "time"

// Audit event types.
const (
	EventPrediction      = "PREDICTION"
	EventDurationReduced = "DURATION_REDUCED"
	EventSparseData      = "SPARSE_DATA"
	EventAnomalyDetected = "ANOMALY_DETECTED"
	EventRetention       = "RETENTION"
	EventError           = "ERROR"
)

// AuditEvent is a single audit log entry.
type AuditEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"` // PREDICTION | DURATION_REDUCED | SPARSE_DATA | ANOMALY_DETECTED | RETENTION | ERROR
	Owner       string    `json:"owner,omitempty"`
	Description string    `json:"description"` // human-readable
	Metadata    any       `json:"metadata,omitempty"`
}
