package testutil

import (
	"fmt"
	"sort"

	"savesync/internal/saves"
)

// MemoryHistory is an in-memory saves.HistoryStore for tests.
type MemoryHistory struct {
	Runs    map[string]*saves.Run
	Devices []*saves.RunDevice

	// BeginErr, when set, is returned by BeginRun.
	BeginErr error
}

func NewMemoryHistory() *MemoryHistory {
	return &MemoryHistory{Runs: make(map[string]*saves.Run)}
}

func (h *MemoryHistory) BeginRun(run *saves.Run) error {
	if h.BeginErr != nil {
		return h.BeginErr
	}
	if _, ok := h.Runs[run.ID]; ok {
		return fmt.Errorf("duplicate run: %s", run.ID)
	}
	cp := *run
	h.Runs[run.ID] = &cp
	return nil
}

func (h *MemoryHistory) FinishRun(run *saves.Run) error {
	stored, ok := h.Runs[run.ID]
	if !ok {
		return fmt.Errorf("run not found: %s", run.ID)
	}
	*stored = *run
	return nil
}

func (h *MemoryHistory) RecordDevice(rd *saves.RunDevice) error {
	cp := *rd
	h.Devices = append(h.Devices, &cp)
	return nil
}

func (h *MemoryHistory) ListRuns(limit int) ([]*saves.Run, error) {
	runs := make([]*saves.Run, 0, len(h.Runs))
	for _, r := range h.Runs {
		runs = append(runs, r)
	}
	sort.Slice(runs, func(i, j int) bool {
		return runs[i].StartedAt.After(runs[j].StartedAt)
	})
	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

func (h *MemoryHistory) ListRunDevices(runID string) ([]*saves.RunDevice, error) {
	var out []*saves.RunDevice
	for _, d := range h.Devices {
		if d.RunID == runID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (h *MemoryHistory) Close() error { return nil }

// Compile-time check
var _ saves.HistoryStore = (*MemoryHistory)(nil)
