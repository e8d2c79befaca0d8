//go:build linux

package autohandler

import "golang.org/x/sys/unix"

// Syscall is the production Rebooter: a direct LINUX_REBOOT_CMD_RESTART,
// issued only after the kernel has synced and remounted read-only file
// systems is not this package's concern — the caller runs as PID 1's
// direct child on these devices and the init system owns shutdown order.
type Syscall struct{}

// Reboot implements Rebooter.
func (Syscall) Reboot() error {
	return unix.Reboot(unix.LINUX_REBOOT_CMD_RESTART)
}

var _ Rebooter = Syscall{}
