package agentinit

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/rollout-edge/update-agent/pkg/actionstore"
	"github.com/rollout-edge/update-agent/pkg/bootloader"
	"github.com/rollout-edge/update-agent/pkg/log"
	"github.com/rollout-edge/update-agent/pkg/rollout"
)

func newDeps(t *testing.T, confirmed bool) (Deps, *bootloader.Simulated, *actionstore.FileStore) {
	t.Helper()
	dir := t.TempDir()

	boot, err := bootloader.NewSimulated(filepath.Join(dir, "boot"), 4096, "1.0.0")
	if err != nil {
		t.Fatalf("NewSimulated failed: %v", err)
	}
	if confirmed {
		if err := boot.WriteImageConfirmed(); err != nil {
			t.Fatalf("WriteImageConfirmed failed: %v", err)
		}
	}

	store := actionstore.NewFileStore(filepath.Join(dir, "action_id.bin"))
	return Deps{Bootloader: boot, Store: store, Logger: log.NoopLogger{}}, boot, store
}

func TestRunConfirmsAndErasesWhenUnconfirmed(t *testing.T) {
	deps, boot, store := newDeps(t, false)
	if err := store.Write(7); err != nil {
		t.Fatalf("seed store.Write failed: %v", err)
	}

	result, err := Run(deps)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !result.Confirmed {
		t.Error("Confirmed = false, want true")
	}
	if result.PersistedActionID != 7 {
		t.Errorf("PersistedActionID = %v, want 7", result.PersistedActionID)
	}

	confirmed, err := boot.IsImageConfirmed()
	if err != nil {
		t.Fatalf("IsImageConfirmed() error = %v", err)
	}
	if !confirmed {
		t.Error("bootloader should be confirmed after Run")
	}
}

func TestRunIsNoopWhenAlreadyConfirmed(t *testing.T) {
	deps, _, _ := newDeps(t, true)

	result, err := Run(deps)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Confirmed {
		t.Error("Confirmed = true, want false when already confirmed at boot")
	}
	if result.PersistedActionID != rollout.NoActionID {
		t.Errorf("PersistedActionID = %v, want NoActionID", result.PersistedActionID)
	}
}

type failingBootloader struct {
	bootloader.Bootloader
	confirmErr error
}

func (f failingBootloader) IsImageConfirmed() (bool, error) { return false, nil }
func (f failingBootloader) WriteImageConfirmed() error      { return f.confirmErr }

func TestRunAbortsOnConfirmFailure(t *testing.T) {
	dir := t.TempDir()
	store := actionstore.NewFileStore(filepath.Join(dir, "action_id.bin"))
	wantErr := errors.New("flash write failed")

	_, err := Run(Deps{
		Bootloader: failingBootloader{confirmErr: wantErr},
		Store:      store,
		Logger:     log.NoopLogger{},
	})
	if err == nil {
		t.Fatal("expected an error when WriteImageConfirmed fails")
	}
}
