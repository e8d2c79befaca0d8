package orchestrator

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rollout-edge/update-agent/pkg/actionstore"
	"github.com/rollout-edge/update-agent/pkg/bootloader"
	"github.com/rollout-edge/update-agent/pkg/flashslot"
	"github.com/rollout-edge/update-agent/pkg/identity"
	"github.com/rollout-edge/update-agent/pkg/log"
	"github.com/rollout-edge/update-agent/pkg/rollout"
	"github.com/rollout-edge/update-agent/pkg/transport"
)

// Config holds the per-device, mostly-static parameters a cycle needs to
// reach and address the rollout server.
type Config struct {
	// Host and Port address the rollout server.
	Host string
	Port int

	// TLS carries the pinned-CA configuration. Nil means plain HTTP, used
	// for local/test servers.
	TLS *transport.TLSConfig

	// Board is interpolated into every URL as "<board>-<devid>".
	Board string

	// PollBounds clamps server-supplied poll intervals.
	PollBounds rollout.PollBounds
}

// Deps collects the orchestrator's external collaborators, each an
// interface so tests can substitute simulated implementations.
type Deps struct {
	Identity   identity.Source
	Bootloader bootloader.Bootloader
	Streamer   flashslot.Streamer
	Store      actionstore.Store
	Logger     log.Logger

	// Dial opens a transport session. Defaults to transport.Open; tests
	// override it to point at an httptest.Server without going through
	// TLS/DNS machinery.
	Dial func(cfg transport.Config) (transport.Session, error)
}

// Orchestrator runs probe cycles against one configured rollout server. It
// is the long-lived value that owns the current PollInterval across
// cycles; each Probe call builds a fresh cycle that does the actual work.
type Orchestrator struct {
	cfg  Config
	deps Deps

	mu           sync.Mutex
	pollInterval time.Duration
}

// New creates an Orchestrator. The initial poll interval is the
// configured default until the first server response changes it.
func New(cfg Config, deps Deps) *Orchestrator {
	if deps.Dial == nil {
		deps.Dial = transport.Open
	}
	if deps.Logger == nil {
		deps.Logger = log.NoopLogger{}
	}
	if cfg.PollBounds == (rollout.PollBounds{}) {
		cfg.PollBounds = rollout.DefaultPollBounds()
	}
	return &Orchestrator{
		cfg:          cfg,
		deps:         deps,
		pollInterval: cfg.PollBounds.Default,
	}
}

// Config returns the orchestrator's static per-device configuration, for
// callers (such as a debug console) that want to display the endpoint a
// running agent is talking to without threading it through separately.
func (o *Orchestrator) Config() Config {
	return o.cfg
}

// PollInterval returns the interval the next cycle should be scheduled
// after, as last updated by POLL_BASE.
func (o *Orchestrator) PollInterval() time.Duration {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.pollInterval
}

func (o *Orchestrator) setPollInterval(d time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.pollInterval = o.cfg.PollBounds.Clamp(d)
}

// Probe runs exactly one cycle of the update state machine and returns
// its terminal OutcomeCode. It never returns a Go error: every failure
// mode is translated to the nearest OutcomeCode at this boundary.
func (o *Orchestrator) Probe(ctx context.Context) rollout.OutcomeCode {
	c := &cycle{
		id:   uuid.NewString(),
		o:    o,
		ctx:  ctx,
		deps: o.deps,
		cfg:  o.cfg,
	}
	return c.run()
}
