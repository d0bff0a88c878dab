package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"savesync/internal/saves"
)

// Config is the main configuration for savesync.
type Config struct {
	SaveFolder            string         `toml:"save_folder"`
	BackupRoot            string         `toml:"backup_root"`
	MaxBackups            int            `toml:"max_backups"`
	ConnectTimeoutSeconds int            `toml:"connect_timeout_seconds"`
	LogDir                string         `toml:"log_dir"`
	Devices               []DeviceConfig `toml:"devices"`
	History               HistoryConfig  `toml:"history"`
	Mirror                MirrorConfig   `toml:"mirror"`
}

// DeviceConfig is one sync endpoint. Password may be left empty alongside
// a username; the CLI then prompts for it at run time.
type DeviceConfig struct {
	Name       string `toml:"name"`
	Hostname   string `toml:"hostname"`
	Port       int    `toml:"port"`
	RemotePath string `toml:"remote_path"`
	Username   string `toml:"username,omitempty"`
	Password   string `toml:"password,omitempty"`
}

// HistoryConfig configures the run-history store.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type HistoryConfig struct {
	Type    string `toml:"type"`               // "sqlite" or "memory"
	DataDir string `toml:"data_dir,omitempty"` // only used for type=sqlite
}

// MirrorConfig configures the optional offsite mirror of reconciled saves.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type MirrorConfig struct {
	Type string `toml:"type"` // "none" or "s3"

	// S3-specific fields (only used when Type == "s3")
	S3Bucket    string `toml:"s3_bucket,omitempty"`
	S3Prefix    string `toml:"s3_prefix,omitempty"`
	S3Region    string `toml:"s3_region,omitempty"`
	S3AccessKey string `toml:"s3_access_key,omitempty"` // empty means default credential chain
	S3SecretKey string `toml:"s3_secret_key,omitempty"`
}

// NewConfig creates a Config with defaults rooted at baseDir.
func NewConfig(baseDir string) *Config {
	return &Config{
		SaveFolder:            filepath.Join(baseDir, "saves"),
		BackupRoot:            filepath.Join(baseDir, "backups"),
		MaxBackups:            10,
		ConnectTimeoutSeconds: 10,
		LogDir:                filepath.Join(baseDir, "log"),
		History: HistoryConfig{
			Type:    "sqlite",
			DataDir: filepath.Join(baseDir, "data"),
		},
		Mirror: MirrorConfig{Type: "none"},
	}
}

// ConnectTimeout returns the connect timeout as a duration.
func (c *Config) ConnectTimeout() time.Duration {
	return time.Duration(c.ConnectTimeoutSeconds) * time.Second
}

// Validate checks the config for problems that would make a run unsafe.
func (c *Config) Validate() error {
	if c.SaveFolder == "" {
		return fmt.Errorf("save_folder is required")
	}
	if c.BackupRoot == "" {
		return fmt.Errorf("backup_root is required")
	}
	if c.MaxBackups <= 0 {
		return fmt.Errorf("max_backups must be positive, got %d", c.MaxBackups)
	}
	if c.ConnectTimeoutSeconds <= 0 {
		return fmt.Errorf("connect_timeout_seconds must be positive, got %d", c.ConnectTimeoutSeconds)
	}
	if len(c.Devices) == 0 {
		return fmt.Errorf("no devices configured")
	}

	seen := make(map[string]bool)
	for _, d := range c.Devices {
		if seen[d.Name] {
			return fmt.Errorf("duplicate device name: %s", d.Name)
		}
		seen[d.Name] = true
		if _, err := d.Device(); err != nil {
			return err
		}
	}
	return nil
}

// Device converts the record to a validated saves.Device.
func (d DeviceConfig) Device() (saves.Device, error) {
	return saves.NewDevice(d.Name, d.Hostname, d.Port, d.RemotePath, d.Username, d.Password)
}

// Devices converts all device records, in configuration order. The order
// matters: it is the tie-break when two devices report the same
// modification time.
func (c *Config) DeviceList() ([]saves.Device, error) {
	devices := make([]saves.Device, 0, len(c.Devices))
	for _, dc := range c.Devices {
		d, err := dc.Device()
		if err != nil {
			return nil, err
		}
		devices = append(devices, d)
	}
	return devices, nil
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// writeToFile writes a Config to the specified file path.
func writeToFile(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init initializes a new config file at the specified path with the
// provided Config. Refuses to overwrite an existing file.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
