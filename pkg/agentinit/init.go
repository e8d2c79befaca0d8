package agentinit

import (
	"fmt"
	"time"

	"github.com/rollout-edge/update-agent/pkg/actionstore"
	"github.com/rollout-edge/update-agent/pkg/bootloader"
	"github.com/rollout-edge/update-agent/pkg/log"
	"github.com/rollout-edge/update-agent/pkg/rollout"
)

// Deps collects init's external collaborators.
type Deps struct {
	Bootloader bootloader.Bootloader
	Store      actionstore.Store
	Logger     log.Logger
}

// Result reports what Run observed and did.
type Result struct {
	// PersistedActionID is the action id read from the store, informational
	// only — init never installs anything.
	PersistedActionID rollout.ActionID

	// Confirmed is true when this call promoted the running image and
	// erased the alternate slot. It is false when the image was already
	// confirmed and Run did nothing.
	Confirmed bool
}

// Run performs the one-shot boot confirmation sequence. Any failure
// aborts init; the caller decides what that means for the rest of
// startup.
func Run(deps Deps) (Result, error) {
	if deps.Logger == nil {
		deps.Logger = log.NoopLogger{}
	}

	persisted, err := deps.Store.Read()
	if err != nil {
		return Result{}, fmt.Errorf("agentinit: reading action store: %w", err)
	}

	confirmed, err := deps.Bootloader.IsImageConfirmed()
	if err != nil {
		return Result{}, fmt.Errorf("agentinit: checking image confirmation: %w", err)
	}
	if confirmed {
		return Result{PersistedActionID: persisted}, nil
	}

	if err := deps.Bootloader.WriteImageConfirmed(); err != nil {
		return Result{}, fmt.Errorf("agentinit: confirming image: %w", err)
	}
	if err := deps.Bootloader.EraseAltSlot(); err != nil {
		return Result{}, fmt.Errorf("agentinit: erasing alternate slot: %w", err)
	}

	deps.Logger.Log(log.Event{
		Timestamp: time.Now(),
		Layer:     log.LayerOrchestrator,
		Category:  log.CategoryState,
		StateChange: &log.StateChangeEvent{
			From: "UNCONFIRMED",
			To:   "CONFIRMED",
		},
	})

	return Result{PersistedActionID: persisted, Confirmed: true}, nil
}
