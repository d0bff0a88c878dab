// Package ftp implements the transport session on github.com/jlaffaye/ftp.
package ftp

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jlaffaye/ftp"

	"savesync/internal/saves"
)

// anonymousUser is used when a device has no credentials configured.
const anonymousUser = "anonymous"

// Dialer opens FTP sessions to devices. Only the initial connect is
// bounded by a timeout; transfers rely on the remote server responding.
type Dialer struct {
	fs saves.FilesystemManager
}

// NewDialer creates a Dialer. Downloaded files are written through fsm so
// their modification times can be stamped with the remote time.
func NewDialer(fsm saves.FilesystemManager) *Dialer {
	return &Dialer{fs: fsm}
}

// Dial connects and authenticates. Connection failures come back as
// *saves.ConnectError, login failures as *saves.AuthError.
func (d *Dialer) Dial(dev saves.Device, timeout time.Duration) (saves.Session, error) {
	conn, err := ftp.Dial(dev.Addr(), ftp.DialWithTimeout(timeout))
	if err != nil {
		return nil, &saves.ConnectError{Device: dev.Name, Err: err}
	}

	user, pass := dev.Username, dev.Password
	if dev.Anonymous() {
		user, pass = anonymousUser, anonymousUser
	}
	if err := conn.Login(user, pass); err != nil {
		conn.Quit()
		return nil, &saves.AuthError{Device: dev.Name, Err: err}
	}

	return &Session{conn: conn, device: dev.Name, fs: d.fs}, nil
}

// Session is one live FTP connection to a device.
type Session struct {
	conn   *ftp.ServerConn
	device string
	fs     saves.FilesystemManager
	closed bool
}

// ChangeDir moves to the device's save directory.
func (s *Session) ChangeDir(path string) error {
	if err := s.conn.ChangeDir(path); err != nil {
		return &saves.PathError{Device: s.device, Path: path, Err: err}
	}
	return nil
}

// List returns the regular files in the current remote directory. The
// client negotiates MLSD where the server supports it, which carries the
// modify fact this tool reconciles on; entries the server reports without
// a usable time are resolved individually over MDTM. Times are reduced to
// second precision — some daemons (notably the Switch ftpd) report a
// fractional suffix that must be discarded.
func (s *Session) List() ([]saves.RemoteFile, error) {
	entries, err := s.conn.List("")
	if err != nil {
		return nil, fmt.Errorf("LIST failed: %w", err)
	}

	var files []saves.RemoteFile
	for _, e := range entries {
		if e.Type != ftp.EntryTypeFile {
			continue
		}
		t := e.Time
		if t.IsZero() {
			t, err = s.conn.GetTime(e.Name)
			if err != nil {
				return nil, fmt.Errorf("MDTM %s failed: %w", e.Name, err)
			}
		}
		files = append(files, saves.RemoteFile{
			Name:    e.Name,
			ModTime: t.Truncate(time.Second).UTC(),
		})
	}
	return files, nil
}

// Retrieve downloads the remote file to destPath in binary mode, then
// stamps the local copy with the remote modification time so the catalog
// can reconcile on local mtimes alone.
func (s *Session) Retrieve(file saves.RemoteFile, destPath string) error {
	resp, err := s.conn.Retr(file.Name)
	if err != nil {
		return fmt.Errorf("RETR %s: %w", file.Name, err)
	}

	dst, err := s.fs.Create(destPath)
	if err != nil {
		resp.Close()
		return fmt.Errorf("creating %s: %w", destPath, err)
	}

	_, copyErr := io.Copy(dst, resp)
	closeErr := dst.Close()
	resp.Close()
	if copyErr != nil {
		return fmt.Errorf("downloading %s: %w", file.Name, copyErr)
	}
	if closeErr != nil {
		return fmt.Errorf("writing %s: %w", destPath, closeErr)
	}

	if err := s.fs.Chtimes(destPath, file.ModTime); err != nil {
		return fmt.Errorf("stamping %s: %w", destPath, err)
	}
	return nil
}

// Store uploads the local file under remoteName, binary mode.
func (s *Session) Store(localPath, remoteName string) error {
	f, err := s.fs.Open(localPath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", localPath, err)
	}
	defer f.Close()

	if err := s.conn.Stor(remoteName, f); err != nil {
		return fmt.Errorf("STOR %s: %w", remoteName, err)
	}
	return nil
}

// Close quits the connection. Idempotent; errors from an already-closed
// control connection are swallowed.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if err := s.conn.Quit(); err != nil {
		// The server may have dropped the control connection already.
		if strings.Contains(err.Error(), "use of closed") {
			return nil
		}
		return err
	}
	return nil
}

// Compile-time checks.
var (
	_ saves.Dialer  = (*Dialer)(nil)
	_ saves.Session = (*Session)(nil)
)
