package saves

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// Device is one configured sync endpoint. Devices are defined at
// configuration time and immutable for the run; the transport session a
// device acquires during the download phase lives on its DeviceOutcome,
// not here.
type Device struct {
	Name       string
	Hostname   string
	Port       int
	RemotePath string
	Username   string // empty means anonymous login
	Password   string
}

// NewDevice validates the fields and returns a Device.
func NewDevice(name, hostname string, port int, remotePath, username, password string) (Device, error) {
	if name == "" {
		return Device{}, fmt.Errorf("device name is required")
	}
	if hostname == "" {
		return Device{}, fmt.Errorf("device %s: hostname is required", name)
	}
	if port <= 0 || port > 65535 {
		return Device{}, fmt.Errorf("device %s: invalid port %d", name, port)
	}
	if remotePath == "" {
		return Device{}, fmt.Errorf("device %s: remote_path is required", name)
	}
	if username == "" && password != "" {
		return Device{}, fmt.Errorf("device %s: password set without username", name)
	}
	return Device{
		Name:       name,
		Hostname:   hostname,
		Port:       port,
		RemotePath: remotePath,
		Username:   username,
		Password:   password,
	}, nil
}

// Addr returns the host:port dial address for the device.
func (d Device) Addr() string {
	return net.JoinHostPort(d.Hostname, strconv.Itoa(d.Port))
}

// Anonymous reports whether the device should use anonymous login.
func (d Device) Anonymous() bool {
	return d.Username == ""
}

// RemoteFile is one file entry observed on a device during listing.
// ModTime is the device-reported modification instant, already resolved
// to second precision.
type RemoteFile struct {
	Name    string
	ModTime time.Time
}

// IsListingArtifact reports whether this entry is a pseudo-entry some FTP
// daemons emit for the listed directory itself (the Switch ftpd returns
// the directory path as the first entry). An entry whose name, minus any
// leading slash, appears inside the device's configured remote path is
// not a real save file.
func (f RemoteFile) IsListingArtifact(remotePath string) bool {
	name := strings.TrimPrefix(f.Name, "/")
	if name == "" {
		return true
	}
	return strings.Contains(remotePath, name)
}
