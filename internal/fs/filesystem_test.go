package fs

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestOSFilesystemManager_CopyFilePreservesModTime(t *testing.T) {
	dir := t.TempDir()
	m := NewOSFilesystemManager()

	src := filepath.Join(dir, "game.srm")
	if err := os.WriteFile(src, []byte("save data"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	mtime := time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC)
	if err := m.Chtimes(src, mtime); err != nil {
		t.Fatalf("Chtimes() error = %v", err)
	}

	dst := filepath.Join(dir, "copy", "game.srm")
	if err := m.MkdirAll(filepath.Dir(dst)); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := m.CopyFile(src, dst); err != nil {
		t.Fatalf("CopyFile() error = %v", err)
	}

	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != "save data" {
		t.Errorf("copied content = %q, want %q", data, "save data")
	}

	info, err := m.Stat(dst)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if !info.ModTime().Equal(mtime) {
		t.Errorf("copied mtime = %v, want %v", info.ModTime(), mtime)
	}
}

func TestOSFilesystemManager_CopyFileRejectsDirectory(t *testing.T) {
	dir := t.TempDir()
	m := NewOSFilesystemManager()

	if err := m.CopyFile(dir, filepath.Join(dir, "copy")); err == nil {
		t.Error("CopyFile() on directory error = nil, want error")
	}
}

func TestOSFilesystemManager_CreateAndOpen(t *testing.T) {
	dir := t.TempDir()
	m := NewOSFilesystemManager()
	path := filepath.Join(dir, "game.srm")

	w, err := m.Create(path)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := w.Write([]byte("save data")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	r, err := m.Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if string(data) != "save data" {
		t.Errorf("read = %q, want %q", data, "save data")
	}
}

func TestOSFilesystemManager_ReadDirAndRemoveAll(t *testing.T) {
	dir := t.TempDir()
	m := NewOSFilesystemManager()

	sub := filepath.Join(dir, "2024.03.09 10-00-00")
	if err := m.MkdirAll(sub); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := os.WriteFile(filepath.Join(sub, "game.srm"), []byte("x"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	entries, err := m.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "2024.03.09 10-00-00" {
		t.Fatalf("ReadDir() = %v, want the one subdirectory", entries)
	}

	if err := m.RemoveAll(sub); err != nil {
		t.Fatalf("RemoveAll() error = %v", err)
	}
	entries, err = m.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("ReadDir() after RemoveAll = %d entries, want 0", len(entries))
	}
}
