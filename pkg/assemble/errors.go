package assemble

import "github.com/rollout-edge/update-agent/pkg/rollout"

// Error wraps an assembler failure with the OutcomeCode the orchestrator
// should exit with.
type Error struct {
	Outcome rollout.OutcomeCode
	Msg     string
}

func (e *Error) Error() string { return e.Msg }

func metadataErr(msg string) *Error {
	return &Error{Outcome: rollout.MetadataError, Msg: msg}
}

func downloadErr(msg string) *Error {
	return &Error{Outcome: rollout.DownloadError, Msg: msg}
}
