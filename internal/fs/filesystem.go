package fs

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"savesync/internal/saves"
)

// OSFilesystemManager is the real filesystem implementation of
// saves.FilesystemManager, backed by the os package.
type OSFilesystemManager struct{}

// NewOSFilesystemManager creates a filesystem manager that operates on
// the real filesystem.
func NewOSFilesystemManager() *OSFilesystemManager {
	return &OSFilesystemManager{}
}

// MkdirAll creates the directory and any missing parents.
func (m *OSFilesystemManager) MkdirAll(path string) error {
	return os.MkdirAll(path, 0755)
}

// ReadDir lists the entries of a directory, sorted by name.
func (m *OSFilesystemManager) ReadDir(path string) ([]fs.DirEntry, error) {
	return os.ReadDir(path)
}

// RemoveAll deletes a path and everything under it.
func (m *OSFilesystemManager) RemoveAll(path string) error {
	return os.RemoveAll(path)
}

// Stat returns file info for a path.
func (m *OSFilesystemManager) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// Create opens a file for writing, truncating it if it exists.
func (m *OSFilesystemManager) Create(path string) (io.WriteCloser, error) {
	return os.Create(path)
}

// Open opens a file for reading.
func (m *OSFilesystemManager) Open(path string) (io.ReadCloser, error) {
	return os.Open(path)
}

// Chtimes sets a file's access and modification times to mtime.
func (m *OSFilesystemManager) Chtimes(path string, mtime time.Time) error {
	return os.Chtimes(path, mtime, mtime)
}

// CopyFile copies src to dst, preserving the modification time. Winner
// selection compares mtimes, so copies must carry them.
func (m *OSFilesystemManager) CopyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat %s: %w", src, err)
	}
	if info.IsDir() {
		return fmt.Errorf("cannot copy directory: %s", src)
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copying to %s: %w", dst, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", dst, err)
	}

	if err := os.Chtimes(dst, info.ModTime(), info.ModTime()); err != nil {
		return fmt.Errorf("preserving mtime on %s: %w", dst, err)
	}
	return nil
}

// Compile-time check that OSFilesystemManager implements saves.FilesystemManager.
var _ saves.FilesystemManager = (*OSFilesystemManager)(nil)
