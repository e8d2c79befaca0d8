// Package log provides structured protocol logging for the update agent.
//
// This package defines the Logger interface and Event types for capturing
// update-cycle events: HTTP exchanges with the rollout server, state
// transitions in the orchestrator's state machine, download progress, and
// the final outcome of a cycle. It is separate from operational logging
// (slog) - protocol capture provides a complete machine-readable event
// trace for field diagnostics.
//
// # Basic Usage
//
// Applications configure logging by setting orchestrator.Deps.Logger to a
// Logger implementation:
//
//	// For development: log to console via slog
//	deps.Logger = log.NewSlogAdapter(slog.Default())
//
//	// For production: write to binary file
//	fileLogger, err := log.NewFileLogger("/var/log/update-agent/cycles.ulog")
//	deps.Logger = fileLogger
//
//	// Both: use MultiLogger
//	deps.Logger = log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    fileLogger,
//	)
//
// # Event Types
//
// Events are captured at multiple layers:
//   - Transport: HTTP exchange summaries (ExchangeEvent)
//   - Orchestrator: state transitions (StateChangeEvent) and cycle outcomes (CycleEvent)
//   - Download: flash-write progress (DownloadEvent)
//
// Errors at any layer get a dedicated event type.
//
// # File Format
//
// Log files use CBOR encoding with .ulog extension. The update-agent-log
// CLI tool provides viewing, filtering, and export capabilities.
package log
