package flashslot

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
)

// ErrAppendAfterFinal is returned if Append is called again after a final
// write, which would indicate a bug in the caller's chunk handling.
var ErrAppendAfterFinal = errors.New("flashslot: append after final write")

// Simulated is a file-backed Streamer standing in for the alternate flash
// slot on a host build. It truncates and reopens the backing file on Init,
// matching how the real slot is erased before a new download starts.
type Simulated struct {
	mu      sync.Mutex
	path    string
	f       *os.File
	written int64
	final   bool
}

// NewSimulated creates a simulated flash streamer writing to path.
func NewSimulated(path string) *Simulated {
	return &Simulated{path: path}
}

// Init implements Streamer.
func (s *Simulated) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	if s.f != nil {
		s.f.Close()
	}
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	s.f = f
	s.written = 0
	s.final = false
	return nil
}

// Append implements Streamer.
func (s *Simulated) Append(data []byte, isFinal bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.final {
		return ErrAppendAfterFinal
	}
	if s.f == nil {
		return errors.New("flashslot: Append before Init")
	}

	n, err := s.f.Write(data)
	s.written += int64(n)
	if err != nil {
		return err
	}

	if isFinal {
		s.final = true
		if err := s.f.Sync(); err != nil {
			return err
		}
		return s.f.Close()
	}
	return nil
}

// BytesWritten implements Streamer.
func (s *Simulated) BytesWritten() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.written
}

// Compile-time interface satisfaction check.
var _ Streamer = (*Simulated)(nil)
