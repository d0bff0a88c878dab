package saves

import "time"

// Dialer opens transport sessions to devices. Implementations return
// *ConnectError or *AuthError so the orchestrator can classify failures
// without unwinding past the device boundary.
type Dialer interface {
	// Dial connects to the device within timeout and authenticates with
	// the device's credentials (anonymous login when none are configured).
	Dial(device Device, timeout time.Duration) (Session, error)
}

// Session is a live file-transfer connection to one device. All failures
// are isolated to the device the session belongs to.
type Session interface {
	// ChangeDir moves to the given remote directory. Returns *PathError
	// when the directory is missing or forbidden.
	ChangeDir(path string) error

	// List returns the regular files in the current remote directory with
	// their modification times resolved to second precision.
	List() ([]RemoteFile, error)

	// Retrieve downloads the named remote file to destPath in binary mode
	// and stamps the local file's modification time with file.ModTime, so
	// later local stat calls reflect the device-reported time.
	Retrieve(file RemoteFile, destPath string) error

	// Store uploads the local file to the current remote directory under
	// remoteName, binary mode.
	Store(localPath, remoteName string) error

	// Close releases the connection. Idempotent and best-effort.
	Close() error
}
