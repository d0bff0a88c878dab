package saves

import "time"

// Run is one recorded sync run.
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time // zero if the run never finished
	Status     string    // "success" or "error"
	BackupSet  string
	Downloaded int
	Uploaded   int
}

// RunDevice is one device's recorded outcome within a run.
type RunDevice struct {
	RunID      string
	Device     string
	Status     string // StatusSynced or one of the failure statuses
	Detail     string // failure message, empty on success
	Downloaded int
	Uploaded   int
}

// HistoryStore records sync runs and their per-device outcomes. Store
// failures are local database failures and abort the run, like any other
// local-storage error.
type HistoryStore interface {
	// BeginRun records the start of a run.
	BeginRun(run *Run) error

	// FinishRun records the end of the run with final status and totals.
	FinishRun(run *Run) error

	// RecordDevice records one device's outcome for a run.
	RecordDevice(rd *RunDevice) error

	// ListRuns returns the most recent runs, newest first.
	ListRuns(limit int) ([]*Run, error)

	// ListRunDevices returns the device outcomes for a run, in the order
	// they were recorded.
	ListRunDevices(runID string) ([]*RunDevice, error)

	// Close closes the store.
	Close() error
}
