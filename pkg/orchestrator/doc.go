// Package orchestrator implements the update agent's single-cycle state
// machine: from confirming the running image, through polling the
// rollout server, to staging and arming a new firmware image. Probe
// constructs a fresh cycle value each call so no state survives one cycle
// to the next except the persisted ActionID and the current PollInterval,
// rather than carrying a module-level global session.
package orchestrator
