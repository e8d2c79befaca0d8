package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes protocol events to an slog.Logger.
// Useful for development when you want to see cycle events in console.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger at Debug level.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("cycle_id", event.CycleID),
		slog.String("layer", event.Layer.String()),
		slog.String("category", event.Category.String()),
	}

	if event.DeviceID != "" {
		attrs = append(attrs, slog.String("device_id", event.DeviceID))
	}
	if event.ActionID != "" {
		attrs = append(attrs, slog.String("action_id", event.ActionID))
	}

	switch {
	case event.Exchange != nil:
		attrs = append(attrs,
			slog.String("method", event.Exchange.Method),
			slog.String("path", event.Exchange.Path),
			slog.Int("status", event.Exchange.StatusCode),
			slog.Int64("response_bytes", event.Exchange.ResponseBytes),
			slog.Duration("duration", event.Exchange.Duration),
		)
	case event.StateChange != nil:
		attrs = append(attrs,
			slog.String("from", event.StateChange.From),
			slog.String("to", event.StateChange.To),
		)
		if event.StateChange.Reason != "" {
			attrs = append(attrs, slog.String("reason", event.StateChange.Reason))
		}
	case event.Download != nil:
		attrs = append(attrs,
			slog.Int64("written", event.Download.Written),
			slog.Int64("total", event.Download.Total),
			slog.Int("percent", event.Download.Percent),
			slog.Bool("final", event.Download.Final),
		)
	case event.Cycle != nil:
		attrs = append(attrs,
			slog.String("outcome", event.Cycle.Outcome.String()),
			slog.Duration("next_poll", event.Cycle.NextPoll),
		)
	case event.Error != nil:
		attrs = append(attrs,
			slog.String("error_layer", event.Error.Layer.String()),
			slog.String("error_msg", event.Error.Message),
			slog.String("error_context", event.Error.Context),
		)
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "update-cycle", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
