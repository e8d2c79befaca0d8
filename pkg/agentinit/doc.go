// Package agentinit runs the one-shot boot-time confirmation step: open
// the action-id store, read the persisted ActionID informationally, and
// confirm the running image if the bootloader has
// not already marked it permanent. An unconfirmed image at this point
// means the previous cycle's ARM_BOOT staged a test boot that just
// succeeded; confirming it here promotes it and frees the alternate slot
// for the next rollout.
package agentinit
