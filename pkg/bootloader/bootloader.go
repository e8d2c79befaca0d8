// Package bootloader models the bootloader primitives treated as external
// collaborators: image confirmation, alternate-slot
// erase/sizing, and one-shot upgrade arming. The orchestrator depends only
// on the Bootloader interface; this package also ships a Simulated
// implementation, file-backed so host builds and tests can drive a full
// probe cycle without real flash.
package bootloader

// Slot identifies which image slot a request_upgrade call targets. The
// protocol only ever arms the secondary slot for a one-shot test boot, so
// Slot has a single constructible value today;
// it stays a distinct type so a future confirmed-upgrade mode cannot be
// passed where only TEST is valid.
type Slot uint8

// SlotTest arms the alternate image for a single test boot.
const SlotTest Slot = 1

// Bootloader is the contract the orchestrator drives during
// CHECK_IMAGE_CONFIRMED and ARM_BOOT.
type Bootloader interface {
	// IsImageConfirmed reports whether the currently running image has
	// been marked permanent.
	IsImageConfirmed() (bool, error)

	// WriteImageConfirmed promotes the running image to permanent. Called
	// once, from agentinit, after a successful boot.
	WriteImageConfirmed() error

	// EraseAltSlot erases the alternate (candidate) flash slot.
	EraseAltSlot() error

	// AltSlotSize returns the alternate slot's capacity in bytes, used by
	// pkg/descriptor to reject oversized artifacts.
	AltSlotSize() (int64, error)

	// RequestUpgrade arms slot for a one-shot boot attempt.
	RequestUpgrade(slot Slot) error

	// ImageVersion returns the running image's version string.
	ImageVersion() (string, error)
}
