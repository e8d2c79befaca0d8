package orchestrator

import (
	"net/http"
	"strconv"
	"time"

	"github.com/rollout-edge/update-agent/pkg/log"
	"github.com/rollout-edge/update-agent/pkg/rollout"
)

// transition logs one state-machine edge.
func (c *cycle) transition(from, to, reason string) {
	c.deps.Logger.Log(log.Event{
		Timestamp: time.Now(),
		CycleID:   c.id,
		Layer:     log.LayerOrchestrator,
		Category:  log.CategoryState,
		DeviceID:  c.devID,
		StateChange: &log.StateChangeEvent{
			From:   from,
			To:     to,
			Reason: reason,
		},
	})
}

// logError logs a failure encountered at layer while performing context.
func (c *cycle) logError(layer log.Layer, context string, err error) {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	c.deps.Logger.Log(log.Event{
		Timestamp: time.Now(),
		CycleID:   c.id,
		Layer:     layer,
		Category:  log.CategoryError,
		DeviceID:  c.devID,
		Error: &log.ErrorEventData{
			Layer:   layer,
			Message: msg,
			Context: context,
		},
	})
}

// logCycleOutcome logs the terminal outcome of this cycle and the
// interval the next one is scheduled after.
func (c *cycle) logCycleOutcome(outcome rollout.OutcomeCode) {
	c.deps.Logger.Log(log.Event{
		Timestamp: time.Now(),
		CycleID:   c.id,
		Layer:     log.LayerOrchestrator,
		Category:  log.CategoryCycle,
		DeviceID:  c.devID,
		Cycle: &log.CycleEvent{
			Outcome:  outcome,
			NextPoll: c.o.PollInterval(),
		},
	})
}

// contentLengthOf parses the Content-Length header, returning 0 (unknown)
// if absent or malformed.
func contentLengthOf(headers http.Header) int64 {
	if headers == nil {
		return 0
	}
	n, err := strconv.ParseInt(headers.Get("Content-Length"), 10, 64)
	if err != nil {
		return 0
	}
	return n
}
