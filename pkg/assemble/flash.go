package assemble

import (
	"time"

	"github.com/rollout-edge/update-agent/pkg/flashslot"
	"github.com/rollout-edge/update-agent/pkg/log"
	"github.com/rollout-edge/update-agent/pkg/rollout"
)

// Flash streams an artifact download's response chunks into a flash slot,
// tracking progress in a rollout.DownloadState and signaling completion on
// Done rather than a blocking semaphore: the Go scheduler already
// serializes access to the assembler without a separate primitive.
type Flash struct {
	streamer flashslot.Streamer
	state    rollout.DownloadState
	logger   log.Logger
	cycleID  string
	deviceID string
	actionID string
	done     chan error
}

// NewFlash creates a Flash assembler. contentSize is the artifact size
// from the deployment descriptor, used both as the flash capacity check
// performed by pkg/descriptor and as the denominator for progress percent.
func NewFlash(streamer flashslot.Streamer, contentSize int64, logger log.Logger, cycleID, deviceID, actionID string) (*Flash, error) {
	if logger == nil {
		logger = log.NoopLogger{}
	}
	if err := streamer.Init(); err != nil {
		return nil, downloadErr("assemble: failed to initialize flash streamer: " + err.Error())
	}
	return &Flash{
		streamer: streamer,
		state:    rollout.DownloadState{HTTPContentSize: contentSize},
		logger:   logger,
		cycleID:  cycleID,
		deviceID: deviceID,
		actionID: actionID,
		done:     make(chan error, 1),
	}, nil
}

// Handle implements transport.ChunkHandler. It appends chunk to the flash
// slot, advances the download state, and emits a progress event only when
// the percentage changes or the chunk is the final one.
func (a *Flash) Handle(chunk []byte, final bool) error {
	if len(chunk) > 0 || final {
		if err := a.streamer.Append(chunk, final); err != nil {
			wrapped := downloadErr("assemble: flash streamer rejected write: " + err.Error())
			a.finish(wrapped)
			return wrapped
		}
	}

	advanced := a.state.Advance(int64(len(chunk)))
	if advanced || final {
		a.logger.Log(log.Event{
			Timestamp: time.Now(),
			CycleID:   a.cycleID,
			Layer:     log.LayerDownload,
			Category:  log.CategoryDownload,
			DeviceID:  a.deviceID,
			ActionID:  a.actionID,
			Download: &log.DownloadEvent{
				Written: a.state.DownloadedSize,
				Total:   a.state.HTTPContentSize,
				Percent: a.state.DownloadProgressPercent,
				Final:   final,
			},
		})
	}

	if final {
		if !a.state.Complete() {
			wrapped := downloadErr("assemble: downloaded size does not match advertised content length")
			a.finish(wrapped)
			return wrapped
		}
		a.finish(nil)
	}

	return nil
}

// finish signals Done exactly once.
func (a *Flash) finish(err error) {
	select {
	case a.done <- err:
	default:
	}
}

// Done returns a channel that receives the terminal error (nil on
// success) once the final chunk has been processed.
func (a *Flash) Done() <-chan error {
	return a.done
}

// State returns a snapshot of the current download progress.
func (a *Flash) State() rollout.DownloadState {
	return a.state
}
