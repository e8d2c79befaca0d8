package actionstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rollout-edge/update-agent/pkg/rollout"
)

func truncateFile(path string, size int64) error {
	return os.Truncate(path, size)
}

func TestFileStoreEmptyReadsNoActionID(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(filepath.Join(dir, "action_id.bin"))

	got, err := store.Read()
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if got != rollout.NoActionID {
		t.Errorf("Read() = %v, want NoActionID", got)
	}
}

func TestFileStoreWriteThenRead(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(filepath.Join(dir, "action_id.bin"))

	if err := store.Write(42); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, err := store.Read()
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if got != 42 {
		t.Errorf("Read() = %v, want 42", got)
	}
}

func TestFileStoreOverwrite(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(filepath.Join(dir, "action_id.bin"))

	for _, id := range []rollout.ActionID{7, 99, 42} {
		if err := store.Write(id); err != nil {
			t.Fatalf("Write(%v) error = %v", id, err)
		}
		got, err := store.Read()
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}
		if got != id {
			t.Errorf("Read() = %v, want %v", got, id)
		}
	}
}

func TestFileStoreCorruptRecord(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "action_id.bin")
	store := NewFileStore(path)

	if err := store.Write(1); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	// Truncate the record to simulate a corrupted/partial flash write.
	if err := truncateFile(path, 2); err != nil {
		t.Fatalf("truncateFile() error = %v", err)
	}

	if _, err := store.Read(); err == nil {
		t.Error("Read() on corrupt record: want error, got nil")
	}
}
