package history

import (
	"fmt"
	"os"
	"path/filepath"

	"savesync/internal/config"
	"savesync/internal/saves"
)

// NewHistoryFromConfig creates a HistoryStore based on the history config type.
func NewHistoryFromConfig(cfg config.HistoryConfig) (saves.HistoryStore, error) {
	switch cfg.Type {
	case "sqlite":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("data_dir required for sqlite history")
		}
		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			return nil, fmt.Errorf("creating history data dir: %w", err)
		}
		return NewSQLiteHistory(filepath.Join(cfg.DataDir, "savesync.db"))
	case "memory":
		return NewSQLiteHistory(":memory:")
	default:
		return nil, fmt.Errorf("unknown history type: %s", cfg.Type)
	}
}
