package mirror

import (
	"fmt"

	"savesync/internal/config"
	"savesync/internal/saves"
)

// NewMirrorFromConfig creates a Mirror based on the mirror config type.
// An empty type means no mirror.
func NewMirrorFromConfig(cfg config.MirrorConfig) (saves.Mirror, error) {
	switch cfg.Type {
	case "", "none":
		return saves.NewNopMirror(), nil
	case "s3":
		return NewS3Mirror(cfg.S3Bucket, cfg.S3Prefix, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey)
	default:
		return nil, fmt.Errorf("unknown mirror type: %s", cfg.Type)
	}
}
