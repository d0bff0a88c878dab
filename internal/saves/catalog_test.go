package saves_test

import (
	"reflect"
	"testing"
	"time"

	"savesync/internal/saves"
	"savesync/internal/testutil"
)

func mustDevice(t *testing.T, name string) saves.Device {
	t.Helper()
	d, err := saves.NewDevice(name, "192.168.0.10", 5000, "saves/", "", "")
	if err != nil {
		t.Fatalf("NewDevice(%s) error = %v", name, err)
	}
	return d
}

// catalogFixture builds a backup set with per-device files already in
// place, the way the download phase leaves them.
func catalogFixture(t *testing.T, devices ...saves.Device) (*saves.Catalog, *saves.BackupSet, *testutil.MockFilesystemManager) {
	t.Helper()
	fsm := testutil.NewMockFilesystemManager()
	store := saves.NewBackupStore(backupRoot, fsm, testutil.FixedClock())
	set, err := store.NewSet()
	if err != nil {
		t.Fatalf("NewSet() error = %v", err)
	}
	return saves.NewCatalog(set, fsm, devices), set, fsm
}

func TestCatalog_Names(t *testing.T) {
	catalog, _, _ := catalogFixture(t, mustDevice(t, "Switch"))

	catalog.Add("zelda.srm")
	catalog.Add("game.srm")
	catalog.Add("zelda.srm") // duplicate from a second device

	want := []string{"game.srm", "zelda.srm"}
	if got := catalog.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}

func TestCatalog_Winner(t *testing.T) {
	older := time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC)
	newer := older.Add(2 * time.Hour)

	tests := []struct {
		name       string
		files      map[string]time.Time // device -> mtime of game.srm
		wantDevice string
	}{
		{
			name:       "newest copy wins",
			files:      map[string]time.Time{"Switch": older, "Phone": newer},
			wantDevice: "Phone",
		},
		{
			name:       "single candidate wins",
			files:      map[string]time.Time{"Phone": older},
			wantDevice: "Phone",
		},
		{
			name:       "equal times resolve to earlier-configured device",
			files:      map[string]time.Time{"Switch": older, "Phone": older},
			wantDevice: "Switch",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			devices := []saves.Device{mustDevice(t, "Switch"), mustDevice(t, "Phone")}
			catalog, set, fsm := catalogFixture(t, devices...)

			catalog.Add("game.srm")
			for device, mtime := range tt.files {
				fsm.AddFile(set.FilePath(device, "game.srm"), []byte(device), mtime)
			}

			winner, ok := catalog.Winner("game.srm")
			if !ok {
				t.Fatal("Winner() ok = false, want true")
			}
			if winner.Device != tt.wantDevice {
				t.Errorf("Winner().Device = %q, want %q", winner.Device, tt.wantDevice)
			}
		})
	}
}

func TestCatalog_WinnerNoCandidates(t *testing.T) {
	catalog, _, _ := catalogFixture(t, mustDevice(t, "Switch"))

	// Recorded during download, but the copy never made it to disk.
	catalog.Add("game.srm")

	if _, ok := catalog.Winner("game.srm"); ok {
		t.Error("Winner() ok = true, want false")
	}
}

func TestCatalog_CandidatesSkipDirectories(t *testing.T) {
	devices := []saves.Device{mustDevice(t, "Switch"), mustDevice(t, "Phone")}
	catalog, set, fsm := catalogFixture(t, devices...)

	catalog.Add("game.srm")
	if err := fsm.MkdirAll(set.FilePath("Switch", "game.srm")); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	fsm.AddFile(set.FilePath("Phone", "game.srm"), []byte("phone"), time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC))

	cands := catalog.Candidates("game.srm")
	if len(cands) != 1 {
		t.Fatalf("Candidates() returned %d candidates, want 1", len(cands))
	}
	if cands[0].Device != "Phone" {
		t.Errorf("Candidates()[0].Device = %q, want %q", cands[0].Device, "Phone")
	}
}
