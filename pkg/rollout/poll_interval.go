package rollout

import "time"

// Poll interval defaults.
const (
	DefaultPollIntervalMin = 2 * time.Minute
	DefaultPollIntervalMax = 720*time.Minute - time.Second
	DefaultPollInterval    = 5 * time.Minute
)

// PollBounds clamps server-supplied poll intervals to a configured range.
type PollBounds struct {
	Min     time.Duration
	Max     time.Duration
	Default time.Duration
}

// DefaultPollBounds returns the package's default poll interval bounds.
func DefaultPollBounds() PollBounds {
	return PollBounds{
		Min:     DefaultPollIntervalMin,
		Max:     DefaultPollIntervalMax,
		Default: DefaultPollInterval,
	}
}

// Clamp bounds d to [Min, Max]. A non-positive d is invalid and returns the
// configured Default instead.
func (b PollBounds) Clamp(d time.Duration) time.Duration {
	if d <= 0 {
		return b.Default
	}
	if d < b.Min {
		return b.Min
	}
	if d > b.Max {
		return b.Max
	}
	return d
}
