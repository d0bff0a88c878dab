package saves

import (
	"sort"
)

// Candidate is one device's copy of a save file, identified by the local
// modification time of the downloaded copy. The local time is read back
// from disk after download (the download stamps it with the remote time),
// which keeps reconciliation independent of the remote listing.
type Candidate struct {
	Device  string
	ModTime int64 // Unix seconds
}

// Catalog is the reconciliation core. It accumulates the union of
// filenames seen across all devices during the download phase, then
// determines the winning device per filename by comparing the local
// modification times of the copies in the backup set.
type Catalog struct {
	set     *BackupSet
	fs      FilesystemManager
	devices []Device
	names   map[string]struct{}
}

// NewCatalog creates a catalog over the given backup set. devices must be
// in configuration order; it is the documented tie-break for equal
// modification times.
func NewCatalog(set *BackupSet, fsm FilesystemManager, devices []Device) *Catalog {
	return &Catalog{
		set:     set,
		fs:      fsm,
		devices: devices,
		names:   make(map[string]struct{}),
	}
}

// Add records a filename as successfully downloaded from some device.
func (c *Catalog) Add(name string) {
	c.names[name] = struct{}{}
}

// Names returns the union of recorded filenames in lexicographic order,
// so reconciliation output is reproducible run to run.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.names))
	for n := range c.names {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Candidates returns, in device configuration order, every device whose
// backup-set subdirectory actually contains the named file, with the
// file's local modification time. Devices that never had the file or
// whose download failed are simply absent.
func (c *Catalog) Candidates(name string) []Candidate {
	var cands []Candidate
	for _, d := range c.devices {
		info, err := c.fs.Stat(c.set.FilePath(d.Name, name))
		if err != nil || info.IsDir() {
			continue
		}
		cands = append(cands, Candidate{
			Device:  d.Name,
			ModTime: info.ModTime().Unix(),
		})
	}
	return cands
}

// Winner selects the device holding the newest copy of the named file.
// The sort is stable over candidates collected in configuration order, so
// equal modification times resolve to the earlier-configured device.
// Returns false when no device provided the file this run.
func (c *Catalog) Winner(name string) (Candidate, bool) {
	cands := c.Candidates(name)
	if len(cands) == 0 {
		return Candidate{}, false
	}
	sort.SliceStable(cands, func(i, j int) bool {
		return cands[i].ModTime > cands[j].ModTime
	})
	return cands[0], true
}
