package rollout

// OutcomeCode is the terminal result of one probe cycle. It is a plain
// result value, not a Go error: several codes (Ok, NoUpdate, CancelUpdate,
// UpdateInstalled) describe a successfully completed cycle rather than a
// failure. The orchestrator returns these values, and the descriptor and
// assemble packages' typed errors carry one for it to return; only the
// eight documented codes exist — there is no "unrecognized enum" fallback
// to guard against at runtime.
type OutcomeCode uint8

const (
	// Ok indicates the deployment already matched the persisted action id;
	// a feedback ack was sent and nothing was installed.
	Ok OutcomeCode = iota

	// NoUpdate indicates the control response carried no deploymentBase link.
	NoUpdate

	// CancelUpdate indicates the server requested cancellation and it was acked.
	CancelUpdate

	// UpdateInstalled indicates the artifact was staged and the bootloader armed.
	UpdateInstalled

	// UnconfirmedImage indicates the running image was not confirmed at
	// cycle start; the cycle exits immediately without opening a session.
	UnconfirmedImage

	// DownloadError indicates an oversized artifact, a flash append
	// failure, or a rejected request_upgrade.
	DownloadError

	// NetworkingError indicates a resolve, connect, or request failure.
	NetworkingError

	// MetadataError indicates a malformed or unexpected server document.
	MetadataError
)

// String returns a human-readable outcome name, suitable for logging.
func (o OutcomeCode) String() string {
	switch o {
	case Ok:
		return "Ok"
	case NoUpdate:
		return "NoUpdate"
	case CancelUpdate:
		return "CancelUpdate"
	case UpdateInstalled:
		return "UpdateInstalled"
	case UnconfirmedImage:
		return "UnconfirmedImage"
	case DownloadError:
		return "DownloadError"
	case NetworkingError:
		return "NetworkingError"
	case MetadataError:
		return "MetadataError"
	default:
		return "Unknown"
	}
}

// Reboots reports whether the autohandler should warm-reboot after this
// outcome. Only UnconfirmedImage triggers a reboot; UpdateInstalled relies
// on an external actor.
func (o OutcomeCode) Reboots() bool {
	return o == UnconfirmedImage
}
