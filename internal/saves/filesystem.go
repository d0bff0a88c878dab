package saves

import (
	"io"
	"io/fs"
	"time"
)

// FilesystemManager provides the local filesystem operations the sync run
// needs. It abstracts file access so the backup store, catalog, and
// service can be tested without touching the real filesystem. Local
// filesystem failures are the only fatal errors in a run: without a
// backup location there is no safe place to stage downloads.
type FilesystemManager interface {
	// MkdirAll creates the directory and any missing parents.
	MkdirAll(path string) error

	// ReadDir lists the entries of a directory, sorted by name.
	ReadDir(path string) ([]fs.DirEntry, error)

	// RemoveAll deletes a path and everything under it.
	RemoveAll(path string) error

	// Stat returns file info for a path.
	Stat(path string) (fs.FileInfo, error)

	// Create opens a file for writing, truncating it if it exists.
	Create(path string) (io.WriteCloser, error)

	// Open opens a file for reading.
	Open(path string) (io.ReadCloser, error)

	// Chtimes sets a file's access and modification times.
	Chtimes(path string, mtime time.Time) error

	// CopyFile copies src to dst, preserving the modification time.
	CopyFile(src, dst string) error
}
