package assemble

import (
	"path/filepath"
	"testing"

	"github.com/rollout-edge/update-agent/pkg/flashslot"
	"github.com/rollout-edge/update-agent/pkg/log"
	"github.com/rollout-edge/update-agent/pkg/rollout"
)

func newTestFlash(t *testing.T, contentSize int64) (*Flash, *flashslot.Simulated) {
	t.Helper()
	streamer := flashslot.NewSimulated(filepath.Join(t.TempDir(), "altslot.bin"))
	a, err := NewFlash(streamer, contentSize, log.NoopLogger{}, "cycle-1", "dev-1", "42")
	if err != nil {
		t.Fatalf("NewFlash failed: %v", err)
	}
	return a, streamer
}

func TestFlashStreamsChunksToStreamer(t *testing.T) {
	a, streamer := newTestFlash(t, 10)

	if err := a.Handle([]byte("01234"), false); err != nil {
		t.Fatalf("Handle(first) failed: %v", err)
	}
	if err := a.Handle([]byte("56789"), true); err != nil {
		t.Fatalf("Handle(final) failed: %v", err)
	}

	if streamer.BytesWritten() != 10 {
		t.Errorf("BytesWritten() = %d, want 10", streamer.BytesWritten())
	}

	select {
	case err := <-a.Done():
		if err != nil {
			t.Errorf("Done() returned error: %v", err)
		}
	default:
		t.Fatal("Done() channel was not signaled")
	}
}

func TestFlashProgressIsMonotonicNonDecreasing(t *testing.T) {
	a, _ := newTestFlash(t, 100)

	last := -1
	for i := 0; i < 10; i++ {
		if err := a.Handle(make([]byte, 10), i == 9); err != nil {
			t.Fatalf("Handle failed at chunk %d: %v", i, err)
		}
		pct := a.State().DownloadProgressPercent
		if pct < last {
			t.Fatalf("percent decreased: %d -> %d", last, pct)
		}
		last = pct
	}
	if last != 100 {
		t.Errorf("final percent = %d, want 100", last)
	}
}

func TestFlashReportsDownloadErrorOnLengthMismatch(t *testing.T) {
	a, _ := newTestFlash(t, 100)

	err := a.Handle(make([]byte, 10), true)
	if err == nil {
		t.Fatal("expected error for incomplete download")
	}
	assembleErr, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *assemble.Error, got %T", err)
	}
	if assembleErr.Outcome != rollout.DownloadError {
		t.Errorf("Outcome = %v, want DownloadError", assembleErr.Outcome)
	}

	select {
	case doneErr := <-a.Done():
		if doneErr == nil {
			t.Error("Done() should have carried the error")
		}
	default:
		t.Fatal("Done() channel was not signaled")
	}
}

type failingStreamer struct{ initErr, appendErr error }

func (f *failingStreamer) Init() error { return f.initErr }
func (f *failingStreamer) Append(data []byte, isFinal bool) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	return nil
}
func (f *failingStreamer) BytesWritten() int64 { return 0 }

func TestFlashPropagatesStreamerAppendError(t *testing.T) {
	streamer := &failingStreamer{appendErr: errAppendBoom}
	a, err := NewFlash(streamer, 10, log.NoopLogger{}, "cycle-1", "dev-1", "42")
	if err != nil {
		t.Fatalf("NewFlash failed: %v", err)
	}

	err = a.Handle([]byte("01234"), false)
	if err == nil {
		t.Fatal("expected error from failing streamer")
	}
	assembleErr, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *assemble.Error, got %T", err)
	}
	if assembleErr.Outcome != rollout.DownloadError {
		t.Errorf("Outcome = %v, want DownloadError", assembleErr.Outcome)
	}
}

func TestNewFlashPropagatesStreamerInitError(t *testing.T) {
	streamer := &failingStreamer{initErr: errAppendBoom}
	_, err := NewFlash(streamer, 10, log.NoopLogger{}, "cycle-1", "dev-1", "42")
	if err == nil {
		t.Fatal("expected error when streamer Init fails")
	}
}

var errAppendBoom = flashAppendError("boom")

type flashAppendError string

func (e flashAppendError) Error() string { return string(e) }
