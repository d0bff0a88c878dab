package saves

import (
	"fmt"
	"path/filepath"
	"time"
)

// RunContext carries the static parameters for one sync run. It is
// constructed once from configuration and passed to the service; there is
// no ambient global state.
type RunContext struct {
	Devices        []Device
	SaveFolder     string
	MaxBackups     int
	ConnectTimeout time.Duration
}

// DeviceOutcome is the per-run result for one device. Session is set only
// when the download phase completed for the device, and is the connection
// the upload phase reuses.
type DeviceOutcome struct {
	Device     string
	Session    Session
	Status     string
	Err        error
	Downloaded int
	Uploaded   int
}

// Failed reports whether the device hit any error this run.
func (o *DeviceOutcome) Failed() bool { return o.Err != nil }

// RunSummary is what a completed run produced.
type RunSummary struct {
	RunID      string
	BackupSet  string
	Pruned     []string
	Outcomes   []*DeviceOutcome
	Published  []string
	Downloaded int
	Uploaded   int
}

// SyncService drives the end-to-end flow: prune old backup sets, create
// the run's set, download from every device, reconcile winners, publish
// them to the canonical save folder, and upload the canonical folder back
// to every device that still has a live session.
//
// Execution is strictly sequential: each device is processed to
// completion (or its failure point) before the next begins. Per-device
// errors are caught at the device boundary and never propagate; only
// local filesystem and history-store errors abort the run.
type SyncService struct {
	run     RunContext
	dialer  Dialer
	fs      FilesystemManager
	store   *BackupStore
	history HistoryStore
	mirror  Mirror
	logger  Logger
	clock   Clock
	idgen   IDGenerator
}

// NewSyncService creates a SyncService with the provided dependencies.
func NewSyncService(run RunContext, dialer Dialer, fsm FilesystemManager, store *BackupStore, history HistoryStore, mirror Mirror, logger Logger, clock Clock, idgen IDGenerator) *SyncService {
	return &SyncService{
		run:     run,
		dialer:  dialer,
		fs:      fsm,
		store:   store,
		history: history,
		mirror:  mirror,
		logger:  logger,
		clock:   clock,
		idgen:   idgen,
	}
}

// Sync performs one complete run. The returned error is non-nil only for
// fatal local failures; partial device failures are reported in the
// summary's outcomes and the run history, not as an error.
func (s *SyncService) Sync() (*RunSummary, error) {
	run := &Run{
		ID:        s.idgen.New(),
		StartedAt: s.clock.Now(),
		Status:    "error",
	}
	if err := s.history.BeginRun(run); err != nil {
		return nil, fmt.Errorf("recording run start: %w", err)
	}

	summary, syncErr := s.sync(run)

	run.FinishedAt = s.clock.Now()
	if syncErr == nil {
		run.Status = "success"
		run.BackupSet = summary.BackupSet
		run.Downloaded = summary.Downloaded
		run.Uploaded = summary.Uploaded
	}
	if err := s.history.FinishRun(run); err != nil {
		if syncErr == nil {
			return summary, fmt.Errorf("recording run finish: %w", err)
		}
		s.logger.Error("recording run finish", "error", err)
	}
	return summary, syncErr
}

func (s *SyncService) sync(run *Run) (*RunSummary, error) {
	summary := &RunSummary{RunID: run.ID}

	if err := s.fs.MkdirAll(s.run.SaveFolder); err != nil {
		return summary, fmt.Errorf("creating save folder: %w", err)
	}

	pruned, err := s.store.Prune(s.run.MaxBackups)
	if err != nil {
		return summary, fmt.Errorf("pruning backup sets: %w", err)
	}
	summary.Pruned = pruned
	for _, name := range pruned {
		s.logger.Info("deleted old backup set", "set", name)
	}

	set, err := s.store.NewSet()
	if err != nil {
		return summary, fmt.Errorf("creating backup set: %w", err)
	}
	summary.BackupSet = set.Name()
	s.logger.Info("created backup set", "set", set.Name())

	// Download phase. Every device is attempted; reconciliation needs the
	// full per-device inventory before it can run.
	catalog := NewCatalog(set, s.fs, s.run.Devices)
	for _, dev := range s.run.Devices {
		outcome, err := s.downloadDevice(dev, set, catalog)
		if err != nil {
			s.closeSessions(summary.Outcomes)
			return summary, err
		}
		summary.Outcomes = append(summary.Outcomes, outcome)
		summary.Downloaded += outcome.Downloaded
	}

	// Reconcile and publish winners.
	published, err := s.publish(catalog, set)
	if err != nil {
		s.closeSessions(summary.Outcomes)
		return summary, err
	}
	summary.Published = published

	s.mirrorPublished(published)

	// Upload phase: push the canonical folder to every device that kept
	// its session. Devices that failed earlier are not retried.
	if err := s.upload(summary); err != nil {
		s.closeSessions(summary.Outcomes)
		return summary, err
	}
	s.closeSessions(summary.Outcomes)

	for _, o := range summary.Outcomes {
		rd := &RunDevice{
			RunID:      run.ID,
			Device:     o.Device,
			Status:     o.Status,
			Downloaded: o.Downloaded,
			Uploaded:   o.Uploaded,
		}
		if o.Err != nil {
			rd.Detail = o.Err.Error()
		}
		if err := s.history.RecordDevice(rd); err != nil {
			return summary, fmt.Errorf("recording device outcome: %w", err)
		}
	}

	s.logger.Info("sync complete",
		"set", set.Name(),
		"downloaded", summary.Downloaded,
		"published", len(summary.Published),
		"uploaded", summary.Uploaded,
	)
	return summary, nil
}

// downloadDevice runs one device's connect/auth/cwd/list/download
// sequence. Transport failures are recorded on the outcome and never
// returned; the returned error is reserved for fatal local filesystem
// failures.
func (s *SyncService) downloadDevice(dev Device, set *BackupSet, catalog *Catalog) (*DeviceOutcome, error) {
	outcome := &DeviceOutcome{Device: dev.Name, Status: StatusSynced}
	s.logger.Info("connecting", "device", dev.Name, "addr", dev.Addr())

	sess, err := s.dialer.Dial(dev, s.run.ConnectTimeout)
	if err != nil {
		return s.failDevice(outcome, err), nil
	}

	if err := sess.ChangeDir(dev.RemotePath); err != nil {
		sess.Close()
		return s.failDevice(outcome, err), nil
	}

	files, err := sess.List()
	if err != nil {
		sess.Close()
		return s.failDevice(outcome, fmt.Errorf("listing saves on %s: %w", dev.Name, err)), nil
	}

	deviceDir, err := set.DeviceDir(dev.Name)
	if err != nil {
		sess.Close()
		return outcome, err
	}

	for _, f := range files {
		if f.IsListingArtifact(dev.RemotePath) {
			s.logger.Debug("skipping listing artifact", "device", dev.Name, "entry", f.Name)
			continue
		}
		dest := filepath.Join(deviceDir, f.Name)
		if err := sess.Retrieve(f, dest); err != nil {
			sess.Close()
			return s.failDevice(outcome, fmt.Errorf("downloading %s from %s: %w", f.Name, dev.Name, err)), nil
		}
		catalog.Add(f.Name)
		outcome.Downloaded++
		s.logger.Info("downloaded", "device", dev.Name, "file", f.Name, "mtime", f.ModTime)
	}

	// Retain the connection for the upload phase.
	outcome.Session = sess
	return outcome, nil
}

func (s *SyncService) failDevice(outcome *DeviceOutcome, err error) *DeviceOutcome {
	outcome.Err = err
	outcome.Status = classifyFailure(err)
	s.logger.Error("device skipped", "device", outcome.Device, "stage", outcome.Status, "error", err)
	return outcome
}

// publish copies each filename's winner into the canonical save folder
// and the set's Latest Saves subdirectory. Filenames with no surviving
// candidate are skipped. Publishing the same backup set twice yields the
// same canonical contents.
func (s *SyncService) publish(catalog *Catalog, set *BackupSet) ([]string, error) {
	latestDir, err := set.LatestDir()
	if err != nil {
		return nil, err
	}

	var published []string
	for _, name := range catalog.Names() {
		winner, ok := catalog.Winner(name)
		if !ok {
			continue
		}
		src := set.FilePath(winner.Device, name)
		if err := s.fs.CopyFile(src, filepath.Join(s.run.SaveFolder, name)); err != nil {
			return published, fmt.Errorf("publishing %s: %w", name, err)
		}
		if err := s.fs.CopyFile(src, filepath.Join(latestDir, name)); err != nil {
			return published, fmt.Errorf("copying %s to %s: %w", name, LatestSavesDir, err)
		}
		published = append(published, name)
		s.logger.Info("reconciled", "file", name, "winner", winner.Device)
	}
	return published, nil
}

// mirrorPublished pushes the published winners to the configured mirror.
// Best-effort: failures are logged and do not affect the run.
func (s *SyncService) mirrorPublished(published []string) {
	for _, name := range published {
		path := filepath.Join(s.run.SaveFolder, name)
		info, err := s.fs.Stat(path)
		if err != nil {
			s.logger.Warn("mirror skipped", "mirror", s.mirror.Name(), "file", name, "error", err)
			continue
		}
		f, err := s.fs.Open(path)
		if err != nil {
			s.logger.Warn("mirror skipped", "mirror", s.mirror.Name(), "file", name, "error", err)
			continue
		}
		err = s.mirror.Upload(name, f, info.Size())
		f.Close()
		if err != nil {
			s.logger.Warn("mirror upload failed", "mirror", s.mirror.Name(), "file", name, "error", err)
			continue
		}
		s.logger.Debug("mirrored", "mirror", s.mirror.Name(), "file", name)
	}
}

// upload pushes every file in the canonical save folder to every device
// with a retained session.
func (s *SyncService) upload(summary *RunSummary) error {
	entries, err := s.fs.ReadDir(s.run.SaveFolder)
	if err != nil {
		return fmt.Errorf("listing save folder: %w", err)
	}

	for _, outcome := range summary.Outcomes {
		if outcome.Session == nil {
			continue
		}
		s.logger.Info("uploading", "device", outcome.Device)
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			localPath := filepath.Join(s.run.SaveFolder, e.Name())
			if err := outcome.Session.Store(localPath, e.Name()); err != nil {
				s.failDevice(outcome, fmt.Errorf("uploading %s to %s: %w", e.Name(), outcome.Device, err))
				outcome.Status = StatusUploadFailed
				break
			}
			outcome.Uploaded++
		}
		summary.Uploaded += outcome.Uploaded
	}
	return nil
}

// closeSessions releases all retained connections, best-effort.
func (s *SyncService) closeSessions(outcomes []*DeviceOutcome) {
	for _, o := range outcomes {
		if o.Session == nil {
			continue
		}
		if err := o.Session.Close(); err != nil {
			s.logger.Debug("closing session", "device", o.Device, "error", err)
		}
		o.Session = nil
	}
}
