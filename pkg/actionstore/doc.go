// Package actionstore persists the last successfully installed ActionID
// across reboots. The real device keeps a single 32-bit record at a
// fixed flash address; Store abstracts
// that so the orchestrator never depends on a particular storage medium,
// and FileStore gives host builds and tests a concrete, file-backed
// implementation.
package actionstore
