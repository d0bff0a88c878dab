package saves

import "io"

// Mirror receives a copy of every published winner. Mirror failures are
// logged and never fatal: the canonical folder and backup set are already
// written by the time the mirror runs.
type Mirror interface {
	// Upload stores the named save's content offsite.
	Upload(name string, r io.Reader, size int64) error

	// Name identifies the mirror in logs.
	Name() string
}

// NopMirror discards everything. Used when no mirror is configured.
type NopMirror struct{}

func NewNopMirror() *NopMirror { return &NopMirror{} }

func (*NopMirror) Upload(string, io.Reader, int64) error { return nil }
func (*NopMirror) Name() string                          { return "none" }
