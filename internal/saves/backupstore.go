package saves

import (
	"fmt"
	"path/filepath"
)

// SetTimeFormat names backup-set directories after their creation instant.
// The format sorts lexicographically in chronological order, so retention
// can treat directory-name order as age order.
const SetTimeFormat = "2006.01.02 15-04-05"

// LatestSavesDir is the backup-set subdirectory holding the reconciled
// winners for the run.
const LatestSavesDir = "Latest Saves"

// BackupStore manages the root backup directory: retention of historical
// backup sets and creation of the current run's set.
type BackupStore struct {
	root  string
	fs    FilesystemManager
	clock Clock
}

// NewBackupStore creates a store rooted at root. The directory is created
// on first use.
func NewBackupStore(root string, fsm FilesystemManager, clock Clock) *BackupStore {
	return &BackupStore{root: root, fs: fsm, clock: clock}
}

// Root returns the backup root directory.
func (s *BackupStore) Root() string { return s.root }

// Sets returns the names of the existing backup-set directories in
// lexicographic (= chronological) order.
func (s *BackupStore) Sets() ([]string, error) {
	if err := s.fs.MkdirAll(s.root); err != nil {
		return nil, fmt.Errorf("creating backup root: %w", err)
	}
	entries, err := s.fs.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("listing backup root: %w", err)
	}
	var sets []string
	for _, e := range entries {
		if e.IsDir() {
			sets = append(sets, e.Name())
		}
	}
	return sets, nil
}

// Prune deletes the oldest backup sets one at a time until fewer than
// maxSets remain, re-listing the root after each deletion. Returns the
// names of the deleted sets, oldest first.
func (s *BackupStore) Prune(maxSets int) ([]string, error) {
	if maxSets <= 0 {
		return nil, fmt.Errorf("retention cap must be positive, got %d", maxSets)
	}

	var removed []string
	for {
		sets, err := s.Sets()
		if err != nil {
			return removed, err
		}
		if len(sets) < maxSets {
			return removed, nil
		}
		oldest := sets[0]
		if err := s.fs.RemoveAll(filepath.Join(s.root, oldest)); err != nil {
			return removed, fmt.Errorf("deleting backup set %s: %w", oldest, err)
		}
		removed = append(removed, oldest)
	}
}

// NewSet creates the current run's backup set, named after the current
// instant. Device subdirectories are added lazily as devices connect.
func (s *BackupStore) NewSet() (*BackupSet, error) {
	name := s.clock.Now().Format(SetTimeFormat)
	dir := filepath.Join(s.root, name)
	if err := s.fs.MkdirAll(dir); err != nil {
		return nil, fmt.Errorf("creating backup set %s: %w", name, err)
	}
	return &BackupSet{name: name, dir: dir, fs: s.fs}, nil
}

// BackupSet is one run's snapshot: a per-device subdirectory for every
// device that connected, plus the Latest Saves subdirectory of winners.
// Immutable once the run completes.
type BackupSet struct {
	name string
	dir  string
	fs   FilesystemManager
}

// Name returns the set's directory name (its creation timestamp).
func (b *BackupSet) Name() string { return b.name }

// Dir returns the set's absolute directory path.
func (b *BackupSet) Dir() string { return b.dir }

// DeviceDir creates (if needed) and returns the subdirectory holding the
// named device's downloads.
func (b *BackupSet) DeviceDir(device string) (string, error) {
	dir := filepath.Join(b.dir, device)
	if err := b.fs.MkdirAll(dir); err != nil {
		return "", fmt.Errorf("creating device directory %s: %w", device, err)
	}
	return dir, nil
}

// LatestDir creates (if needed) and returns the Latest Saves subdirectory.
func (b *BackupSet) LatestDir() (string, error) {
	dir := filepath.Join(b.dir, LatestSavesDir)
	if err := b.fs.MkdirAll(dir); err != nil {
		return "", fmt.Errorf("creating %s directory: %w", LatestSavesDir, err)
	}
	return dir, nil
}

// FilePath returns where the named file from the named device lives in
// this set. The file may not exist if the device never had it or its
// download failed.
func (b *BackupSet) FilePath(device, name string) string {
	return filepath.Join(b.dir, device, name)
}
