package autohandler

import (
	"context"
	"log/slog"
	"time"

	"github.com/rollout-edge/update-agent/pkg/orchestrator"
)

// Scheduler drives the recurring probe loop. It owns no
// protocol state of its own: every cycle's state lives in the
// Orchestrator it wraps, so Scheduler only decides when to call Probe
// again and whether to reboot.
type Scheduler struct {
	orch   *orchestrator.Orchestrator
	reboot Rebooter
	logger *slog.Logger
}

// New creates a Scheduler. logger receives one human-readable line per
// cycle; pass slog.Default() when the caller has not configured one.
func New(orch *orchestrator.Orchestrator, reboot Rebooter, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{orch: orch, reboot: reboot, logger: logger}
}

// Run blocks, probing on a loop until ctx is canceled or an
// UnconfirmedImage outcome triggers a reboot. It returns the error from
// the reboot request, or nil if the loop exited because ctx was
// canceled.
func (s *Scheduler) Run(ctx context.Context) error {
	for {
		outcome := s.orch.Probe(ctx)
		s.logger.Info("probe cycle finished",
			"outcome", outcome.String(),
			"next_poll", s.orch.PollInterval())

		if outcome.Reboots() {
			s.logger.Warn("running image unconfirmed, requesting warm reboot")
			return s.reboot.Reboot()
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(s.orch.PollInterval()):
		}
	}
}
