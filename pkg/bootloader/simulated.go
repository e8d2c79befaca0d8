package bootloader

import (
	"os"
	"path/filepath"
	"strconv"
	"sync"
)

// Simulated is a file-backed Bootloader for host builds and tests. The
// confirmation flag, alternate-slot contents, and upgrade-armed marker each
// live in their own file under dir, mirroring how the real bootloader
// keeps this state in distinct flash regions. The reported version is
// held in memory, as passed to NewSimulated.
type Simulated struct {
	mu          sync.Mutex
	dir         string
	altSlotSize int64
	version     string
}

// NewSimulated creates a simulated bootloader rooted at dir. altSlotSize
// is the alternate slot's fixed capacity; version is the value
// ImageVersion reports for the currently running image.
func NewSimulated(dir string, altSlotSize int64, version string) (*Simulated, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Simulated{dir: dir, altSlotSize: altSlotSize, version: version}, nil
}

func (s *Simulated) confirmedPath() string { return filepath.Join(s.dir, "confirmed") }
func (s *Simulated) altSlotPath() string   { return filepath.Join(s.dir, "alt_slot.bin") }
func (s *Simulated) armedPath() string     { return filepath.Join(s.dir, "armed") }

// IsImageConfirmed implements Bootloader.
func (s *Simulated) IsImageConfirmed() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := os.Stat(s.confirmedPath())
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// WriteImageConfirmed implements Bootloader.
func (s *Simulated) WriteImageConfirmed() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return os.WriteFile(s.confirmedPath(), []byte("1"), 0o644)
}

// EraseAltSlot implements Bootloader.
func (s *Simulated) EraseAltSlot() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.altSlotPath())
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// AltSlotSize implements Bootloader.
func (s *Simulated) AltSlotSize() (int64, error) {
	return s.altSlotSize, nil
}

// RequestUpgrade implements Bootloader.
func (s *Simulated) RequestUpgrade(slot Slot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return os.WriteFile(s.armedPath(), []byte(strconv.Itoa(int(slot))), 0o644)
}

// ImageVersion implements Bootloader.
func (s *Simulated) ImageVersion() (string, error) {
	return s.version, nil
}

// Armed reports whether RequestUpgrade has ever been called on this state
// directory, and with which slot; EraseAltSlot does not clear it.
// Test-only inspection hook.
func (s *Simulated) Armed() (bool, Slot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.armedPath())
	if err != nil {
		return false, 0
	}
	n, err := strconv.Atoi(string(data))
	if err != nil {
		return false, 0
	}
	return true, Slot(n)
}

// Compile-time interface satisfaction check.
var _ Bootloader = (*Simulated)(nil)
