package identity

// Static is a fixed identity, useful for tests and for hosts that have no
// hardware identity registers to read from.
type Static struct {
	ID       string
	Version  string
	HWRev    string
	MissingID      bool
	MissingVersion bool
}

// DeviceID implements Source.
func (s Static) DeviceID() (string, error) {
	if s.MissingID || s.ID == "" {
		return "", ErrMissing
	}
	return s.ID, nil
}

// FirmwareVersion implements Source.
func (s Static) FirmwareVersion() (string, error) {
	if s.MissingVersion || s.Version == "" {
		return "", ErrMissing
	}
	return s.Version, nil
}

// HardwareRevision implements Source.
func (s Static) HardwareRevision() string {
	if s.HWRev == "" {
		return "0"
	}
	return s.HWRev
}

// Compile-time interface satisfaction check.
var _ Source = Static{}
