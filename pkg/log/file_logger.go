package log

import (
	"os"
	"strings"
	"sync"

	"github.com/fxamacker/cbor/v2"
)

// Ext is the file extension conventionally used for the CBOR event logs
// FileLogger writes. cmd/update-agent-log's commands assume it when they
// open a log for viewing, filtering, or export.
const Ext = ".ulog"

// FileLogger appends cycle events to a file as a stream of CBOR-encoded
// Event values, one per Log call. It is safe for concurrent use: Exchange,
// Download, and StateChange events from the same cycle may arrive from
// different goroutines.
type FileLogger struct {
	file    *os.File
	encoder *cbor.Encoder
	mu      sync.Mutex
	closed  bool
}

// NewFileLogger opens path for appending, creating it with permissions
// 0644 if it does not exist; its parent directory must already exist.
// Opening in append-only mode
// means a log file surviving a crash mid-write still has every event
// up to the crash intact; only the final, possibly truncated, CBOR item
// needs to be tolerated by a reader.
//
// path conventionally ends in Ext, but NewFileLogger does not enforce it.
func NewFileLogger(path string) (*FileLogger, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	return &FileLogger{
		file:    f,
		encoder: NewEncoder(f),
	}, nil
}

// HasLogExt reports whether path ends in the conventional .ulog extension.
func HasLogExt(path string) bool {
	return strings.HasSuffix(path, Ext)
}

// Log CBOR-encodes event and appends it to the file. A closed FileLogger
// silently drops the event, and an encoding error is swallowed rather than
// propagated: a cycle's outcome must never hinge on whether its own log
// write succeeded.
func (l *FileLogger) Log(event Event) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return
	}
	_ = l.encoder.Encode(event)
}

// Close flushes and closes the underlying file. It is safe to call more
// than once; subsequent Log calls after Close are no-ops.
func (l *FileLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}
	l.closed = true
	return l.file.Close()
}

var _ Logger = (*FileLogger)(nil)
