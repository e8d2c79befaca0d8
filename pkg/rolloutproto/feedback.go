package rolloutproto

import (
	"encoding/json"
	"fmt"
)

// Execution is the feedback status's execution state.
type Execution string

// Valid execution values. Decoding any other token fails with an error —
// there is no "unrecognized enum" runtime path.
const (
	ExecutionClosed     Execution = "closed"
	ExecutionProceeding Execution = "proceeding"
	ExecutionCanceled   Execution = "canceled"
	ExecutionScheduled  Execution = "scheduled"
	ExecutionRejected   Execution = "rejected"
	ExecutionResumed    Execution = "resumed"
	ExecutionNone       Execution = "none"
)

func (e Execution) valid() bool {
	switch e {
	case ExecutionClosed, ExecutionProceeding, ExecutionCanceled,
		ExecutionScheduled, ExecutionRejected, ExecutionResumed, ExecutionNone:
		return true
	default:
		return false
	}
}

// UnmarshalJSON rejects any token outside the documented enum.
func (e *Execution) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v := Execution(s)
	if !v.valid() {
		return fmt.Errorf("rolloutproto: invalid execution state %q", s)
	}
	*e = v
	return nil
}

// Finished is the feedback result's finished state.
type Finished string

// Valid finished values.
const (
	FinishedSuccess Finished = "success"
	FinishedFailure Finished = "failure"
	FinishedNone    Finished = "none"
)

func (f Finished) valid() bool {
	switch f {
	case FinishedSuccess, FinishedFailure, FinishedNone:
		return true
	default:
		return false
	}
}

// UnmarshalJSON rejects any token outside the documented enum.
func (f *Finished) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v := Finished(s)
	if !v.valid() {
		return fmt.Errorf("rolloutproto: invalid finished state %q", s)
	}
	*f = v
	return nil
}

// FeedbackMessage is the status report the device posts to close a cancel
// or deployment interaction.
type FeedbackMessage struct {
	ID     string         `json:"id"`
	Time   string         `json:"time,omitempty"`
	Status FeedbackStatus `json:"status"`
}

// FeedbackStatus nests the execution and result fields.
type FeedbackStatus struct {
	Execution Execution      `json:"execution"`
	Result    FeedbackResult `json:"result"`
}

// FeedbackResult carries the finished outcome.
type FeedbackResult struct {
	Finished Finished `json:"finished"`
}

// NewClosedSuccessFeedback builds the {closed, success} feedback message
// every terminal acknowledgement sends (CANCEL_ACK, ALREADY_DONE).
func NewClosedSuccessFeedback(id string, now string) FeedbackMessage {
	return FeedbackMessage{
		ID:   id,
		Time: now,
		Status: FeedbackStatus{
			Execution: ExecutionClosed,
			Result:    FeedbackResult{Finished: FinishedSuccess},
		},
	}
}

// Encode marshals the feedback message to JSON.
func (m FeedbackMessage) Encode() ([]byte, error) {
	return json.Marshal(m)
}

// DecodeFeedbackMessage parses a feedback document. Provided for
// round-trip testing; the orchestrator only encodes.
func DecodeFeedbackMessage(data []byte) (FeedbackMessage, error) {
	var m FeedbackMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return FeedbackMessage{}, err
	}
	return m, nil
}
