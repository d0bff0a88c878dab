package saves_test

import (
	"fmt"
	"path/filepath"
	"reflect"
	"testing"

	"savesync/internal/saves"
	"savesync/internal/testutil"
)

const backupRoot = "/backups"

func newStore(fsm *testutil.MockFilesystemManager) *saves.BackupStore {
	return saves.NewBackupStore(backupRoot, fsm, testutil.FixedClock())
}

// addSets creates n backup-set directories named so that lexicographic
// order matches creation order.
func addSets(t *testing.T, fsm *testutil.MockFilesystemManager, n int) []string {
	t.Helper()
	names := make([]string, 0, n)
	for i := 0; i < n; i++ {
		name := fmt.Sprintf("2024.02.%02d 12-00-00", i+1)
		if err := fsm.MkdirAll(filepath.Join(backupRoot, name)); err != nil {
			t.Fatalf("MkdirAll() error = %v", err)
		}
		names = append(names, name)
	}
	return names
}

func TestBackupStore_Prune(t *testing.T) {
	tests := []struct {
		name        string
		existing    int
		maxSets     int
		wantRemoved int
	}{
		{name: "below cap is a no-op", existing: 3, maxSets: 10, wantRemoved: 0},
		{name: "at cap removes one", existing: 10, maxSets: 10, wantRemoved: 1},
		{name: "over cap removes down to cap minus one", existing: 13, maxSets: 10, wantRemoved: 4},
		{name: "empty root", existing: 0, maxSets: 10, wantRemoved: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsm := testutil.NewMockFilesystemManager()
			names := addSets(t, fsm, tt.existing)
			store := newStore(fsm)

			removed, err := store.Prune(tt.maxSets)
			if err != nil {
				t.Fatalf("Prune() error = %v", err)
			}
			if len(removed) != tt.wantRemoved {
				t.Fatalf("Prune() removed %d sets, want %d", len(removed), tt.wantRemoved)
			}
			// Oldest sets go first.
			if !reflect.DeepEqual(removed, append([]string(nil), names[:tt.wantRemoved]...)) {
				t.Errorf("Prune() removed = %v, want %v", removed, names[:tt.wantRemoved])
			}

			sets, err := store.Sets()
			if err != nil {
				t.Fatalf("Sets() error = %v", err)
			}
			if len(sets) != tt.existing-tt.wantRemoved {
				t.Errorf("Sets() returned %d sets, want %d", len(sets), tt.existing-tt.wantRemoved)
			}
			for _, name := range removed {
				if fsm.Exists(filepath.Join(backupRoot, name)) {
					t.Errorf("pruned set %s still on disk", name)
				}
			}
		})
	}
}

func TestBackupStore_PruneRejectsNonPositiveCap(t *testing.T) {
	store := newStore(testutil.NewMockFilesystemManager())
	if _, err := store.Prune(0); err == nil {
		t.Error("Prune(0) error = nil, want error")
	}
}

func TestBackupStore_NewSet(t *testing.T) {
	fsm := testutil.NewMockFilesystemManager()
	store := newStore(fsm)

	set, err := store.NewSet()
	if err != nil {
		t.Fatalf("NewSet() error = %v", err)
	}
	// FixedClock is 2024-03-10 12:00:00 UTC.
	if got, want := set.Name(), "2024.03.10 12-00-00"; got != want {
		t.Errorf("Name() = %q, want %q", got, want)
	}
	if !fsm.Exists(filepath.Join(backupRoot, set.Name())) {
		t.Error("set directory was not created")
	}
}

func TestBackupSet_Dirs(t *testing.T) {
	fsm := testutil.NewMockFilesystemManager()
	store := newStore(fsm)
	set, err := store.NewSet()
	if err != nil {
		t.Fatalf("NewSet() error = %v", err)
	}

	deviceDir, err := set.DeviceDir("Switch")
	if err != nil {
		t.Fatalf("DeviceDir() error = %v", err)
	}
	if want := filepath.Join(backupRoot, set.Name(), "Switch"); deviceDir != want {
		t.Errorf("DeviceDir() = %q, want %q", deviceDir, want)
	}
	if !fsm.Exists(deviceDir) {
		t.Error("device directory was not created")
	}

	latestDir, err := set.LatestDir()
	if err != nil {
		t.Fatalf("LatestDir() error = %v", err)
	}
	if want := filepath.Join(backupRoot, set.Name(), saves.LatestSavesDir); latestDir != want {
		t.Errorf("LatestDir() = %q, want %q", latestDir, want)
	}

	if got, want := set.FilePath("Switch", "game.srm"), filepath.Join(deviceDir, "game.srm"); got != want {
		t.Errorf("FilePath() = %q, want %q", got, want)
	}
}
