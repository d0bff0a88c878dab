package history

import (
	"database/sql"
	"fmt"

	"savesync/internal/history/migrations"
	"savesync/internal/saves"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteHistory implements saves.HistoryStore using SQLite.
type SQLiteHistory struct {
	db   *sql.DB
	path string
}

// NewSQLiteHistory opens (or creates) the history database at path and
// brings its schema up to date. path can be ":memory:" for an in-memory
// store.
func NewSQLiteHistory(path string) (*SQLiteHistory, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	// A single connection keeps the PRAGMA in effect for every query and
	// makes ":memory:" share one database instead of one per pooled
	// connection.
	db.SetMaxOpenConns(1)

	// Enable foreign key constraints (SQLite default is OFF for backward compatibility)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := migrations.MigrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating history database: %w", err)
	}

	return &SQLiteHistory{db: db, path: path}, nil
}

// BeginRun records the start of a run.
func (h *SQLiteHistory) BeginRun(run *saves.Run) error {
	_, err := h.db.Exec(
		`INSERT INTO runs (id, started_at, status) VALUES (?, ?, 'running')`,
		run.ID, run.StartedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}
	return nil
}

// FinishRun records the end of the run with final status and totals.
func (h *SQLiteHistory) FinishRun(run *saves.Run) error {
	res, err := h.db.Exec(
		`UPDATE runs SET finished_at = ?, status = ?, backup_set = ?, downloaded = ?, uploaded = ? WHERE id = ?`,
		run.FinishedAt, run.Status, run.BackupSet, run.Downloaded, run.Uploaded, run.ID,
	)
	if err != nil {
		return fmt.Errorf("finishing run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finishing run: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("run not found: %s", run.ID)
	}
	return nil
}

// RecordDevice records one device's outcome for a run.
func (h *SQLiteHistory) RecordDevice(rd *saves.RunDevice) error {
	_, err := h.db.Exec(
		`INSERT INTO run_devices (run_id, device, status, detail, downloaded, uploaded) VALUES (?, ?, ?, ?, ?, ?)`,
		rd.RunID, rd.Device, rd.Status, rd.Detail, rd.Downloaded, rd.Uploaded,
	)
	if err != nil {
		return fmt.Errorf("inserting device outcome: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first.
func (h *SQLiteHistory) ListRuns(limit int) ([]*saves.Run, error) {
	rows, err := h.db.Query(
		`SELECT id, started_at, finished_at, status, backup_set, downloaded, uploaded
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []*saves.Run
	for rows.Next() {
		var r saves.Run
		var finished sql.NullTime
		if err := rows.Scan(&r.ID, &r.StartedAt, &finished, &r.Status, &r.BackupSet, &r.Downloaded, &r.Uploaded); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		if finished.Valid {
			r.FinishedAt = finished.Time
		}
		runs = append(runs, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	return runs, nil
}

// ListRunDevices returns the device outcomes for a run in recorded order.
func (h *SQLiteHistory) ListRunDevices(runID string) ([]*saves.RunDevice, error) {
	rows, err := h.db.Query(
		`SELECT run_id, device, status, detail, downloaded, uploaded
		 FROM run_devices WHERE run_id = ? ORDER BY id`, runID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing device outcomes: %w", err)
	}
	defer rows.Close()

	var outcomes []*saves.RunDevice
	for rows.Next() {
		var rd saves.RunDevice
		if err := rows.Scan(&rd.RunID, &rd.Device, &rd.Status, &rd.Detail, &rd.Downloaded, &rd.Uploaded); err != nil {
			return nil, fmt.Errorf("scanning device outcome: %w", err)
		}
		outcomes = append(outcomes, &rd)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing device outcomes: %w", err)
	}
	return outcomes, nil
}

// Path returns the database file path (or ":memory:").
func (h *SQLiteHistory) Path() string { return h.path }

// Close closes the database connection.
func (h *SQLiteHistory) Close() error {
	if h.db != nil {
		return h.db.Close()
	}
	return nil
}

// Compile-time check that SQLiteHistory implements saves.HistoryStore.
var _ saves.HistoryStore = (*SQLiteHistory)(nil)
