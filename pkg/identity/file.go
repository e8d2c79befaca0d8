package identity

import (
	"os"
	"strings"
)

// FileSource resolves identity from small text files under a state
// directory, with environment variable overrides. This is the default
// source wired by cmd/update-agent: on real hardware these files (or the
// env vars) would be populated by a provisioning step that reads the
// device's hardware registers directly.
type FileSource struct {
	DeviceIDPath      string
	FirmwareVersionPath string
	HardwareRev string

	DeviceIDEnv      string
	FirmwareVersionEnv string
}

// DeviceID implements Source.
func (f FileSource) DeviceID() (string, error) {
	if v := os.Getenv(f.DeviceIDEnv); v != "" {
		return v, nil
	}
	return readTrimmed(f.DeviceIDPath)
}

// FirmwareVersion implements Source.
func (f FileSource) FirmwareVersion() (string, error) {
	if v := os.Getenv(f.FirmwareVersionEnv); v != "" {
		return v, nil
	}
	return readTrimmed(f.FirmwareVersionPath)
}

// HardwareRevision implements Source.
func (f FileSource) HardwareRevision() string {
	if f.HardwareRev == "" {
		return "0"
	}
	return f.HardwareRev
}

func readTrimmed(path string) (string, error) {
	if path == "" {
		return "", ErrMissing
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", ErrMissing
	}
	v := strings.TrimSpace(string(data))
	if v == "" {
		return "", ErrMissing
	}
	return v, nil
}

// Compile-time interface satisfaction check.
var _ Source = FileSource{}
