package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// InitDB opens/creates a SQLite DB file and ensures tables exist.
func InitDB(path string) (*sql.DB, error) {
	db, err := sql.Open(sqliteDriverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite at %q: %w", path, err)
	}

	// SQLite serializes writers anyway
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA foreign_keys = ON;",
		"PRAGMA busy_timeout = 5000;",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	if err := ensureSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return db, nil
}

const sqliteDriverName = "sqlite"

const schemaUploadedFiles = `
CREATE TABLE IF NOT EXISTS uploaded_files (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    owner TEXT NOT NULL,
    filename TEXT NOT NULL,
    file_hash TEXT NOT NULL,
    row_count INTEGER NOT NULL,
    date_range_start TEXT,
    date_range_end TEXT,
    uploaded_at TIMESTAMP NOT NULL
);
`

const schemaPredictions = `
CREATE TABLE IF NOT EXISTS predictions (
    id TEXT PRIMARY KEY,
    owner TEXT NOT NULL,
    file_id INTEGER REFERENCES uploaded_files(id) ON DELETE SET NULL,
    model TEXT NOT NULL,
    model_params TEXT,
    aic REAL NOT NULL,
    forecast_months INTEGER NOT NULL,
    reason TEXT NOT NULL,
    forecast TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL
);
`

const schemaAnomalies = `
CREATE TABLE IF NOT EXISTS anomalies (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    prediction_id TEXT NOT NULL REFERENCES predictions(id) ON DELETE CASCADE,
    owner TEXT NOT NULL,
    period TEXT NOT NULL,
    actual REAL NOT NULL,
    predicted REAL NOT NULL,
    residual REAL NOT NULL,
    std_deviations REAL NOT NULL,
    severity TEXT NOT NULL,
    description TEXT NOT NULL,
    detected_at TIMESTAMP NOT NULL
);
`

const schemaAuditEvents = `
CREATE TABLE IF NOT EXISTS audit_events (
    id TEXT PRIMARY KEY,
    occurred_at TIMESTAMP NOT NULL,
    type TEXT NOT NULL,
    owner TEXT,
    message TEXT NOT NULL,
    meta TEXT
);
`

const schemaIndexes = `
CREATE INDEX IF NOT EXISTS idx_predictions_owner_created ON predictions(owner, created_at);
CREATE INDEX IF NOT EXISTS idx_anomalies_owner_period ON anomalies(owner, period);
CREATE INDEX IF NOT EXISTS idx_anomalies_prediction ON anomalies(prediction_id);
CREATE INDEX IF NOT EXISTS idx_audit_events_occurred ON audit_events(occurred_at);
`

func ensureSchema(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin schema transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for i, stmt := range []string{
		schemaUploadedFiles,
		schemaPredictions,
		schemaAnomalies,
		schemaAuditEvents,
		schemaIndexes,
	} {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema transaction: %w", err)
	}
	return nil
}
