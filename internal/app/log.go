package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"savesync/internal/saves"
)

// newLogger creates the run logger: colorized human-readable output on
// stderr (errors highlighted) plus a structured log file under logDir.
// It returns the logger and the open log file (for cleanup).
func newLogger(logDir string) (saves.Logger, *os.File, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, nil, fmt.Errorf("creating log directory: %w", err)
	}

	logPath := filepath.Join(logDir, "savesync.log")
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}

	console := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	l := zerolog.New(zerolog.MultiLevelWriter(console, f)).With().Timestamp().Logger()
	return &zerologAdapter{l: l}, f, nil
}

// zerologAdapter wraps a zerolog.Logger to satisfy the saves.Logger
// interface. Args follow slog conventions: alternating key/value pairs.
type zerologAdapter struct {
	l zerolog.Logger
}

func (a *zerologAdapter) Debug(msg string, args ...any) { emit(a.l.Debug(), msg, args) }
func (a *zerologAdapter) Info(msg string, args ...any)  { emit(a.l.Info(), msg, args) }
func (a *zerologAdapter) Warn(msg string, args ...any)  { emit(a.l.Warn(), msg, args) }
func (a *zerologAdapter) Error(msg string, args ...any) { emit(a.l.Error(), msg, args) }

func emit(ev *zerolog.Event, msg string, args []any) {
	for i := 0; i+1 < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			key = fmt.Sprint(args[i])
		}
		ev = ev.Interface(key, args[i+1])
	}
	ev.Msg(msg)
}
