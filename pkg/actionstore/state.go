package actionstore

import (
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/rollout-edge/update-agent/pkg/rollout"
)

// recordSize is exactly sizeof(int32).
const recordSize = 4

// Store reads and writes the single persisted ActionID. Write is invoked
// exactly once per successful install; Read returns rollout.NoActionID on
// an empty/never-written store.
type Store interface {
	Read() (rollout.ActionID, error)
	Write(id rollout.ActionID) error
}

// FileStore is a Store backed by a single small file, standing in for the
// fixed-address flash record the real device uses. It has exactly one
// record, so there is nothing to key by in practice.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a file-backed action-id store at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Read implements Store. A missing file is treated as "never written" and
// returns rollout.NoActionID, not an error — a freshly provisioned device
// has no record yet.
func (s *FileStore) Read() (rollout.ActionID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return rollout.NoActionID, nil
	}
	if err != nil {
		return 0, err
	}
	if len(data) != recordSize {
		return 0, errors.New("actionstore: corrupt record size")
	}
	return rollout.ActionID(int32(binary.LittleEndian.Uint32(data))), nil
}

// Write implements Store. It writes via a temporary file and rename so a
// crash mid-write cannot leave a truncated record behind.
func (s *FileStore) Write(id rollout.ActionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	var buf [recordSize]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(int32(id)))

	tmp, err := os.CreateTemp(dir, ".actionid-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(buf[:]); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return os.Rename(tmpPath, s.path)
}

// Compile-time interface satisfaction check.
var _ Store = (*FileStore)(nil)
