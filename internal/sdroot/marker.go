package sdroot

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// MarkerName is the file recording the last successful boot
const MarkerName = ".mistboot.last"

// BootMarker records which kickstart the card last booted
type BootMarker struct {
	Timestamp time.Time `json:"timestamp"`
	Config    string    `json:"config"`
	Kickstart string    `json:"kickstart"`
	Checksum  string    `json:"checksum"`
}

// MarkBooted writes the boot marker into root
func MarkBooted(root, configName, kickstart, checksum string) error {
	marker := BootMarker{
		Timestamp: time.Now().UTC(),
		Config:    configName,
		Kickstart: kickstart,
		Checksum:  checksum,
	}

	data, err := json.MarshalIndent(marker, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(root, MarkerName), data, 0o644)
}

// LastBoot reads the boot marker. ok is false when there is none.
func LastBoot(root string) (marker BootMarker, ok bool) {
	data, err := os.ReadFile(filepath.Join(root, MarkerName))
	if err != nil {
		return BootMarker{}, false
	}
	if err := json.Unmarshal(data, &marker); err != nil {
		return BootMarker{}, false
	}
	return marker, true
}

// IsCurrent reports whether the card last booted kickstart with checksum
func IsCurrent(root, kickstart, checksum string) bool {
	marker, ok := LastBoot(root)
	if !ok {
		return false
	}
	if marker.Kickstart != kickstart {
		return false
	}
	return checksum == "" || marker.Checksum == checksum
}

// Clean removes the boot marker
func Clean(root string) error {
	err := os.Remove(filepath.Join(root, MarkerName))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
