// Package commands implements the update-agent-log CLI commands.
package commands

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rollout-edge/update-agent/pkg/log"
)

// ViewFilter specifies criteria for filtering events in the view command.
// Base is delegated straight to log.Filter; Direction is not a log.Filter
// field, so RunView checks it itself against every event's Direction
// (events other than exchanges carry the zero value, DirectionIn).
type ViewFilter struct {
	Base      log.Filter
	Direction *log.Direction
}

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	// Header line: timestamp [cycle:id] DIR LAYER Type
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")
	cycleID := shortenCycleID(event.CycleID)

	dir := "---"
	if event.Category == log.CategoryExchange {
		dir = event.Direction.String()
	}

	var typeLabel string
	switch {
	case event.Exchange != nil:
		typeLabel = "Exchange"
	case event.StateChange != nil:
		typeLabel = "State"
	case event.Download != nil:
		typeLabel = "Download"
	case event.Cycle != nil:
		typeLabel = "Cycle"
	case event.Error != nil:
		typeLabel = "Error"
	default:
		typeLabel = "Unknown"
	}

	fmt.Fprintf(w, "%s [cycle:%s] %-3s %s %s\n", ts, cycleID, dir, event.Layer.String(), typeLabel)

	switch {
	case event.Exchange != nil:
		formatExchangeDetails(w, event.Exchange)
	case event.StateChange != nil:
		formatStateChangeDetails(w, event.StateChange)
	case event.Download != nil:
		formatDownloadDetails(w, event.Download)
	case event.Cycle != nil:
		formatCycleDetails(w, event.Cycle)
	case event.Error != nil:
		formatErrorDetails(w, event.Error)
	}

	if event.DeviceID != "" {
		fmt.Fprintf(w, "  Device: %s\n", event.DeviceID)
	}
	if event.ActionID != "" {
		fmt.Fprintf(w, "  Action: %s\n", event.ActionID)
	}

	fmt.Fprintln(w) // Blank line between events
}

// shortenCycleID returns the first 8 characters of the cycle ID.
func shortenCycleID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

// formatExchangeDetails writes HTTP exchange details.
func formatExchangeDetails(w io.Writer, ex *log.ExchangeEvent) {
	fmt.Fprintf(w, "  %s %s\n", ex.Method, ex.Path)
	if ex.StatusCode != 0 {
		fmt.Fprintf(w, "  Status: %d\n", ex.StatusCode)
	}
	if ex.ResponseBytes != 0 {
		fmt.Fprintf(w, "  ResponseBytes: %d\n", ex.ResponseBytes)
	}
	fmt.Fprintf(w, "  Duration: %s\n", formatDuration(ex.Duration))
}

// formatStateChangeDetails writes orchestrator state transition details.
func formatStateChangeDetails(w io.Writer, sc *log.StateChangeEvent) {
	if sc.From != "" {
		fmt.Fprintf(w, "  %s -> %s\n", sc.From, sc.To)
	} else {
		fmt.Fprintf(w, "  -> %s\n", sc.To)
	}
	if sc.Reason != "" {
		fmt.Fprintf(w, "  Reason: %s\n", sc.Reason)
	}
}

// formatDownloadDetails writes artifact download progress details.
func formatDownloadDetails(w io.Writer, d *log.DownloadEvent) {
	fmt.Fprintf(w, "  %d/%d bytes (%d%%)", d.Written, d.Total, d.Percent)
	if d.Final {
		fmt.Fprint(w, " (final)")
	}
	fmt.Fprintln(w)
}

// formatCycleDetails writes the terminal outcome of a probe cycle.
func formatCycleDetails(w io.Writer, c *log.CycleEvent) {
	fmt.Fprintf(w, "  Outcome: %s\n", c.Outcome)
	if c.NextPoll != 0 {
		fmt.Fprintf(w, "  NextPoll: %s\n", c.NextPoll)
	}
}

// formatErrorDetails writes error details.
func formatErrorDetails(w io.Writer, err *log.ErrorEventData) {
	fmt.Fprintf(w, "  Layer: %s\n", err.Layer.String())
	fmt.Fprintf(w, "  Message: %s\n", err.Message)
	if err.Context != "" {
		fmt.Fprintf(w, "  Context: %s\n", err.Context)
	}
}

// formatDuration formats a duration for display.
func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%.3fus", float64(d.Nanoseconds())/1000)
	}
	if d < time.Second {
		return fmt.Sprintf("%.3fms", float64(d.Microseconds())/1000)
	}
	return fmt.Sprintf("%.3fs", d.Seconds())
}

// ParseLayerFlag parses a layer string from command-line flag (case-insensitive).
func ParseLayerFlag(s string) (log.Layer, error) {
	return parseLayer(s)
}

// parseLayer parses a layer string (case-insensitive).
func parseLayer(s string) (log.Layer, error) {
	switch strings.ToLower(s) {
	case "transport":
		return log.LayerTransport, nil
	case "orchestrator":
		return log.LayerOrchestrator, nil
	case "download":
		return log.LayerDownload, nil
	default:
		return 0, fmt.Errorf("invalid layer: %s (must be transport, orchestrator, or download)", s)
	}
}

// ParseDirectionFlag parses a direction string from command-line flag (case-insensitive).
func ParseDirectionFlag(s string) (log.Direction, error) {
	return parseDirection(s)
}

// parseDirection parses a direction string (case-insensitive).
func parseDirection(s string) (log.Direction, error) {
	switch strings.ToLower(s) {
	case "in":
		return log.DirectionIn, nil
	case "out":
		return log.DirectionOut, nil
	default:
		return 0, fmt.Errorf("invalid direction: %s (must be in or out)", s)
	}
}

// ParseCategoryFlag parses a category string from command-line flag (case-insensitive).
func ParseCategoryFlag(s string) (log.Category, error) {
	return parseCategory(s)
}

// parseCategory parses a category string (case-insensitive).
func parseCategory(s string) (log.Category, error) {
	switch strings.ToLower(s) {
	case "exchange":
		return log.CategoryExchange, nil
	case "state":
		return log.CategoryState, nil
	case "download":
		return log.CategoryDownload, nil
	case "cycle":
		return log.CategoryCycle, nil
	case "error":
		return log.CategoryError, nil
	default:
		return 0, fmt.Errorf("invalid category: %s (must be exchange, state, download, cycle, or error)", s)
	}
}

// RunView executes the view command.
func RunView(path string, filter ViewFilter, output io.Writer) error {
	reader, err := log.NewFilteredReader(path, filter.Base)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		if filter.Direction != nil && event.Direction != *filter.Direction {
			continue
		}

		formatEvent(output, event)
	}

	return nil
}
