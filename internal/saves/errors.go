package saves

import (
	"errors"
	"fmt"
)

// Per-device transport errors. Each carries the device name so the
// orchestrator can report which endpoint failed, and wraps the underlying
// cause. None of these abort the run; they mark the one device as skipped.

// ConnectError means the network connection to a device could not be
// established (unreachable, refused, or timed out).
type ConnectError struct {
	Device string
	Err    error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("connecting to %s: %v", e.Device, e.Err)
}

func (e *ConnectError) Unwrap() error { return e.Err }

// AuthError means the device rejected the configured credentials.
type AuthError struct {
	Device string
	Err    error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authenticating to %s: %v", e.Device, e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// PathError means the remote save directory is missing or forbidden.
// The device's connection is abandoned; it takes no further part in the run.
type PathError struct {
	Device string
	Path   string
	Err    error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("changing to %s on %s: %v", e.Path, e.Device, e.Err)
}

func (e *PathError) Unwrap() error { return e.Err }

// Device outcome statuses recorded in the run history.
const (
	StatusSynced         = "synced"
	StatusConnectFailed  = "connect-failed"
	StatusAuthFailed     = "auth-failed"
	StatusPathFailed     = "path-failed"
	StatusTransferFailed = "transfer-failed"
	StatusUploadFailed   = "upload-failed"
)

// classifyFailure maps a per-device error to its outcome status.
func classifyFailure(err error) string {
	var ce *ConnectError
	if errors.As(err, &ce) {
		return StatusConnectFailed
	}
	var ae *AuthError
	if errors.As(err, &ae) {
		return StatusAuthFailed
	}
	var pe *PathError
	if errors.As(err, &pe) {
		return StatusPathFailed
	}
	return StatusTransferFailed
}
