// Package autohandler runs the recurring probe loop: call
// Orchestrator.Probe, log a human-readable line, and
// reschedule after the cycle's PollInterval. UnconfirmedImage is the one
// outcome that ends the loop instead of rescheduling it, by requesting a
// warm reboot — the bootloader reverts to the previously confirmed image
// on the next boot.
package autohandler
