// Package identity models the device identity and hardware-revision
// sources as external collaborators: opaque, immutable-per-device tokens
// read from hardware or provisioning data.
package identity

import "errors"

// ErrMissing is returned when an identity source has no value to offer.
// The orchestrator maps this to rollout.MetadataError during its
// identity-fetch transition.
var ErrMissing = errors.New("identity: value not available")

// Source resolves the device's identity, firmware version, and hardware
// revision. DeviceID doubles as the VIN used in configData pushes.
type Source interface {
	// DeviceID returns the opaque device identity token.
	DeviceID() (string, error)

	// FirmwareVersion returns the running image's version string.
	FirmwareVersion() (string, error)

	// HardwareRevision returns the hardware revision string sent in
	// ConfigMessage.Data.HWRevision. Unlike DeviceID and FirmwareVersion it
	// has no failure mode in this module: devices without a distinct
	// hardware revision report a fixed default.
	HardwareRevision() string
}
