package testutil

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"savesync/internal/saves"
)

// MockFile represents a file or directory in the mock filesystem.
type MockFile struct {
	Content     []byte
	ModTime     time.Time
	IsDirectory bool
}

// MockFilesystemManager is an in-memory filesystem for testing. Paths are
// plain strings; callers should build them with filepath.Join so the mock
// and real implementations see identical keys.
type MockFilesystemManager struct {
	files map[string]*MockFile

	// MkdirAllErr, when set, is returned by every MkdirAll call. Used to
	// exercise the fatal local-filesystem path.
	MkdirAllErr error
}

// NewMockFilesystemManager creates an empty mock filesystem.
func NewMockFilesystemManager() *MockFilesystemManager {
	return &MockFilesystemManager{files: make(map[string]*MockFile)}
}

// AddFile adds a file with the given content and modification time,
// creating parent directories implicitly.
func (m *MockFilesystemManager) AddFile(path string, content []byte, mtime time.Time) {
	m.addParents(path)
	m.files[path] = &MockFile{Content: content, ModTime: mtime}
}

// Exists reports whether a path is present.
func (m *MockFilesystemManager) Exists(path string) bool {
	_, ok := m.files[path]
	return ok
}

// FileContent returns a file's content, or nil if absent.
func (m *MockFilesystemManager) FileContent(path string) []byte {
	if f, ok := m.files[path]; ok {
		return f.Content
	}
	return nil
}

func (m *MockFilesystemManager) addParents(path string) {
	for dir := filepath.Dir(path); dir != "." && dir != string(filepath.Separator); dir = filepath.Dir(dir) {
		if _, ok := m.files[dir]; !ok {
			m.files[dir] = &MockFile{IsDirectory: true, ModTime: time.Now()}
		}
	}
}

func (m *MockFilesystemManager) MkdirAll(path string) error {
	if m.MkdirAllErr != nil {
		return m.MkdirAllErr
	}
	m.addParents(path)
	if _, ok := m.files[path]; !ok {
		m.files[path] = &MockFile{IsDirectory: true, ModTime: time.Now()}
	}
	return nil
}

func (m *MockFilesystemManager) ReadDir(path string) ([]fs.DirEntry, error) {
	dir, ok := m.files[path]
	if !ok || !dir.IsDirectory {
		return nil, fmt.Errorf("not a directory: %s", path)
	}

	var names []string
	for p := range m.files {
		if filepath.Dir(p) == path {
			names = append(names, p)
		}
	}
	sort.Strings(names)

	entries := make([]fs.DirEntry, 0, len(names))
	for _, p := range names {
		entries = append(entries, &mockDirEntry{
			name: filepath.Base(p),
			file: m.files[p],
		})
	}
	return entries, nil
}

func (m *MockFilesystemManager) RemoveAll(path string) error {
	prefix := path + string(filepath.Separator)
	for p := range m.files {
		if p == path || strings.HasPrefix(p, prefix) {
			delete(m.files, p)
		}
	}
	return nil
}

func (m *MockFilesystemManager) Stat(path string) (fs.FileInfo, error) {
	f, ok := m.files[path]
	if !ok {
		return nil, fmt.Errorf("file not found: %s", path)
	}
	return &mockFileInfo{name: filepath.Base(path), file: f}, nil
}

func (m *MockFilesystemManager) Create(path string) (io.WriteCloser, error) {
	m.addParents(path)
	return &mockWriter{fs: m, path: path}, nil
}

func (m *MockFilesystemManager) Open(path string) (io.ReadCloser, error) {
	f, ok := m.files[path]
	if !ok {
		return nil, fmt.Errorf("file not found: %s", path)
	}
	if f.IsDirectory {
		return nil, fmt.Errorf("cannot open directory: %s", path)
	}
	return io.NopCloser(bytes.NewReader(f.Content)), nil
}

func (m *MockFilesystemManager) Chtimes(path string, mtime time.Time) error {
	f, ok := m.files[path]
	if !ok {
		return fmt.Errorf("file not found: %s", path)
	}
	f.ModTime = mtime
	return nil
}

func (m *MockFilesystemManager) CopyFile(src, dst string) error {
	f, ok := m.files[src]
	if !ok {
		return fmt.Errorf("file not found: %s", src)
	}
	if f.IsDirectory {
		return fmt.Errorf("cannot copy directory: %s", src)
	}
	m.addParents(dst)
	m.files[dst] = &MockFile{
		Content: append([]byte(nil), f.Content...),
		ModTime: f.ModTime,
	}
	return nil
}

// mockWriter buffers writes and stores the file on Close.
type mockWriter struct {
	fs   *MockFilesystemManager
	path string
	buf  bytes.Buffer
}

func (w *mockWriter) Write(p []byte) (int, error) { return w.buf.Write(p) }

func (w *mockWriter) Close() error {
	w.fs.files[w.path] = &MockFile{
		Content: append([]byte(nil), w.buf.Bytes()...),
		ModTime: time.Now(),
	}
	return nil
}

// mockFileInfo implements fs.FileInfo.
type mockFileInfo struct {
	name string
	file *MockFile
}

func (i *mockFileInfo) Name() string       { return i.name }
func (i *mockFileInfo) Size() int64        { return int64(len(i.file.Content)) }
func (i *mockFileInfo) Mode() fs.FileMode  { return 0644 }
func (i *mockFileInfo) ModTime() time.Time { return i.file.ModTime }
func (i *mockFileInfo) IsDir() bool        { return i.file.IsDirectory }
func (i *mockFileInfo) Sys() any           { return i.file }

// mockDirEntry implements fs.DirEntry.
type mockDirEntry struct {
	name string
	file *MockFile
}

func (e *mockDirEntry) Name() string { return e.name }
func (e *mockDirEntry) IsDir() bool  { return e.file.IsDirectory }
func (e *mockDirEntry) Type() fs.FileMode {
	if e.file.IsDirectory {
		return fs.ModeDir
	}
	return 0
}
func (e *mockDirEntry) Info() (fs.FileInfo, error) {
	return &mockFileInfo{name: e.name, file: e.file}, nil
}

// Compile-time check
var _ saves.FilesystemManager = (*MockFilesystemManager)(nil)
