package app

import (
	"fmt"
	"os"

	"savesync/internal/config"
	"savesync/internal/fs"
	ftptransport "savesync/internal/ftp"
	"savesync/internal/history"
	"savesync/internal/mirror"
	"savesync/internal/saves"
)

// SyncApp is the application layer between the CLI and the sync service.
// It constructs all dependencies from config and manages their lifecycle
// on Close.
type SyncApp struct {
	cfg     *config.Config
	history saves.HistoryStore
	service *saves.SyncService
	store   *saves.BackupStore
	logFile *os.File
}

// NewSyncApp creates a fully wired SyncApp from the given config.
// The caller must call Close when done.
func NewSyncApp(cfg *config.Config) (*SyncApp, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger, logFile, err := newLogger(cfg.LogDir)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	hist, err := history.NewHistoryFromConfig(cfg.History)
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("creating history store: %w", err)
	}

	mir, err := mirror.NewMirrorFromConfig(cfg.Mirror)
	if err != nil {
		hist.Close()
		logFile.Close()
		return nil, fmt.Errorf("creating mirror: %w", err)
	}

	devices, err := cfg.DeviceList()
	if err != nil {
		hist.Close()
		logFile.Close()
		return nil, fmt.Errorf("loading devices: %w", err)
	}

	fsmgr := fs.NewOSFilesystemManager()
	store := saves.NewBackupStore(cfg.BackupRoot, fsmgr, saves.RealClock{})

	run := saves.RunContext{
		Devices:        devices,
		SaveFolder:     cfg.SaveFolder,
		MaxBackups:     cfg.MaxBackups,
		ConnectTimeout: cfg.ConnectTimeout(),
	}
	svc := saves.NewSyncService(run, ftptransport.NewDialer(fsmgr), fsmgr, store, hist, mir, logger, saves.RealClock{}, saves.UUIDGenerator{})

	return &SyncApp{
		cfg:     cfg,
		history: hist,
		service: svc,
		store:   store,
		logFile: logFile,
	}, nil
}

// Sync performs one complete run.
func (a *SyncApp) Sync() (*saves.RunSummary, error) {
	return a.service.Sync()
}

// Prune applies the retention cap without running a sync. Returns the
// names of the deleted backup sets.
func (a *SyncApp) Prune() ([]string, error) {
	return a.store.Prune(a.cfg.MaxBackups)
}

// ListRuns returns the most recent sync runs, newest first.
func (a *SyncApp) ListRuns(limit int) ([]*saves.Run, error) {
	return a.history.ListRuns(limit)
}

// ListRunDevices returns the per-device outcomes for a run.
func (a *SyncApp) ListRunDevices(runID string) ([]*saves.RunDevice, error) {
	return a.history.ListRunDevices(runID)
}

// Close releases all resources.
func (a *SyncApp) Close() error {
	var firstErr error
	if err := a.history.Close(); err != nil {
		firstErr = fmt.Errorf("closing history store: %w", err)
	}
	if a.logFile != nil {
		a.logFile.Close()
	}
	return firstErr
}
