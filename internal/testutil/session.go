package testutil

import (
	"fmt"
	"time"

	"savesync/internal/saves"
)

// FakeFile is one file a fake device serves.
type FakeFile struct {
	Name    string
	Content []byte
	ModTime time.Time
}

// FakeDevice scripts the behavior of one remote device.
type FakeDevice struct {
	ConnectErr error // wrapped in *saves.ConnectError
	AuthErr    error // wrapped in *saves.AuthError
	PathErr    error // wrapped in *saves.PathError
	ListErr    error
	StoreErr   error
	Files      []FakeFile

	// Recorded activity.
	Uploaded []string
	Closed   bool
}

// FakeDialer hands out scripted sessions per device name. Downloads are
// written through the shared mock filesystem so the catalog sees them.
type FakeDialer struct {
	fs      *MockFilesystemManager
	devices map[string]*FakeDevice
}

// NewFakeDialer creates a dialer over the given mock filesystem.
func NewFakeDialer(fs *MockFilesystemManager) *FakeDialer {
	return &FakeDialer{fs: fs, devices: make(map[string]*FakeDevice)}
}

// AddDevice scripts a device. Returns the script so tests can inspect
// recorded activity afterwards.
func (d *FakeDialer) AddDevice(name string, dev *FakeDevice) *FakeDevice {
	d.devices[name] = dev
	return dev
}

func (d *FakeDialer) Dial(dev saves.Device, timeout time.Duration) (saves.Session, error) {
	script, ok := d.devices[dev.Name]
	if !ok {
		return nil, &saves.ConnectError{Device: dev.Name, Err: fmt.Errorf("no script for device")}
	}
	if script.ConnectErr != nil {
		return nil, &saves.ConnectError{Device: dev.Name, Err: script.ConnectErr}
	}
	if script.AuthErr != nil {
		return nil, &saves.AuthError{Device: dev.Name, Err: script.AuthErr}
	}
	return &FakeSession{device: dev.Name, script: script, fs: d.fs}, nil
}

// FakeSession is a scripted transport session.
type FakeSession struct {
	device string
	script *FakeDevice
	fs     *MockFilesystemManager
}

func (s *FakeSession) ChangeDir(path string) error {
	if s.script.PathErr != nil {
		return &saves.PathError{Device: s.device, Path: path, Err: s.script.PathErr}
	}
	return nil
}

func (s *FakeSession) List() ([]saves.RemoteFile, error) {
	if s.script.ListErr != nil {
		return nil, s.script.ListErr
	}
	files := make([]saves.RemoteFile, 0, len(s.script.Files))
	for _, f := range s.script.Files {
		files = append(files, saves.RemoteFile{Name: f.Name, ModTime: f.ModTime})
	}
	return files, nil
}

func (s *FakeSession) Retrieve(file saves.RemoteFile, destPath string) error {
	for _, f := range s.script.Files {
		if f.Name == file.Name {
			s.fs.AddFile(destPath, append([]byte(nil), f.Content...), f.ModTime)
			return nil
		}
	}
	return fmt.Errorf("no such file: %s", file.Name)
}

func (s *FakeSession) Store(localPath, remoteName string) error {
	if s.script.StoreErr != nil {
		return s.script.StoreErr
	}
	s.script.Uploaded = append(s.script.Uploaded, remoteName)
	return nil
}

func (s *FakeSession) Close() error {
	s.script.Closed = true
	return nil
}

// Compile-time checks
var (
	_ saves.Dialer  = (*FakeDialer)(nil)
	_ saves.Session = (*FakeSession)(nil)
)
