package config

import (
	"bytes"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func validConfig() *Config {
	cfg := NewConfig("/home/user/.local/share/savesync")
	cfg.Devices = []DeviceConfig{
		{Name: "Switch", Hostname: "192.168.0.54", Port: 5000, RemotePath: "retroarch/cores/savefiles/", Username: "user", Password: "secret"},
		{Name: "Phone", Hostname: "192.168.0.53", Port: 12345, RemotePath: "RetroArch/savefiles/"},
	}
	return cfg
}

func TestConfig_RoundTrip(t *testing.T) {
	cfg := validConfig()
	m := &Manager{}

	var buf bytes.Buffer
	if err := m.Write(&buf, cfg); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	got, err := m.Read(&buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if !reflect.DeepEqual(got, cfg) {
		t.Errorf("round trip = %+v, want %+v", got, cfg)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid",
			mutate:  func(*Config) {},
			wantErr: false,
		},
		{
			name:    "missing save folder",
			mutate:  func(c *Config) { c.SaveFolder = "" },
			wantErr: true,
		},
		{
			name:    "missing backup root",
			mutate:  func(c *Config) { c.BackupRoot = "" },
			wantErr: true,
		},
		{
			name:    "non-positive retention cap",
			mutate:  func(c *Config) { c.MaxBackups = 0 },
			wantErr: true,
		},
		{
			name:    "non-positive connect timeout",
			mutate:  func(c *Config) { c.ConnectTimeoutSeconds = 0 },
			wantErr: true,
		},
		{
			name:    "no devices",
			mutate:  func(c *Config) { c.Devices = nil },
			wantErr: true,
		},
		{
			name: "duplicate device names",
			mutate: func(c *Config) {
				c.Devices = append(c.Devices, c.Devices[0])
			},
			wantErr: true,
		},
		{
			name: "invalid device",
			mutate: func(c *Config) {
				c.Devices[0].Port = 0
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_ConnectTimeout(t *testing.T) {
	cfg := validConfig()
	cfg.ConnectTimeoutSeconds = 25
	if got, want := cfg.ConnectTimeout(), 25*time.Second; got != want {
		t.Errorf("ConnectTimeout() = %v, want %v", got, want)
	}
}

func TestConfig_DeviceListPreservesOrder(t *testing.T) {
	cfg := validConfig()
	devices, err := cfg.DeviceList()
	if err != nil {
		t.Fatalf("DeviceList() error = %v", err)
	}
	if len(devices) != 2 {
		t.Fatalf("DeviceList() returned %d devices, want 2", len(devices))
	}
	if devices[0].Name != "Switch" || devices[1].Name != "Phone" {
		t.Errorf("DeviceList() order = [%s, %s], want [Switch, Phone]", devices[0].Name, devices[1].Name)
	}
}

func TestInit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "savesync.toml")
	cfg := validConfig()

	if err := Init(path, cfg); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	got, err := ReadFromFile(path)
	if err != nil {
		t.Fatalf("ReadFromFile() error = %v", err)
	}
	if !reflect.DeepEqual(got, cfg) {
		t.Errorf("ReadFromFile() = %+v, want %+v", got, cfg)
	}

	// A second Init must not clobber the existing file.
	if err := Init(path, NewConfig(dir)); err == nil {
		t.Error("Init() on existing file error = nil, want error")
	}
}
