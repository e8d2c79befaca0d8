package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/rollout-edge/update-agent/pkg/log"
)

// Stats holds aggregate statistics about a log file.
type Stats struct {
	TotalEvents       int
	EventsByLayer     map[log.Layer]int
	EventsByCategory  map[log.Category]int
	EventsByDirection map[log.Direction]int
	Cycles            map[string]*CycleStats
	Errors            int
	TimeRange         struct {
		Start time.Time
		End   time.Time
	}
}

// CycleStats holds statistics for a single probe cycle.
type CycleStats struct {
	FirstSeen   time.Time
	LastSeen    time.Time
	Events      int
	DeviceID    string
	LastOutcome string
}

// RunStats analyzes the log file and prints statistics.
func RunStats(path string, w io.Writer) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	stats := &Stats{
		EventsByLayer:     make(map[log.Layer]int),
		EventsByCategory:  make(map[log.Category]int),
		EventsByDirection: make(map[log.Direction]int),
		Cycles:            make(map[string]*CycleStats),
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		stats.TotalEvents++
		stats.EventsByLayer[event.Layer]++
		stats.EventsByCategory[event.Category]++
		if event.Category == log.CategoryExchange {
			stats.EventsByDirection[event.Direction]++
		}

		// Track time range
		if stats.TimeRange.Start.IsZero() || event.Timestamp.Before(stats.TimeRange.Start) {
			stats.TimeRange.Start = event.Timestamp
		}
		if event.Timestamp.After(stats.TimeRange.End) {
			stats.TimeRange.End = event.Timestamp
		}

		// Track per-cycle stats
		cycle, ok := stats.Cycles[event.CycleID]
		if !ok {
			cycle = &CycleStats{
				FirstSeen: event.Timestamp,
				LastSeen:  event.Timestamp,
			}
			stats.Cycles[event.CycleID] = cycle
		}
		cycle.Events++
		if event.Timestamp.After(cycle.LastSeen) {
			cycle.LastSeen = event.Timestamp
		}
		if event.DeviceID != "" && cycle.DeviceID == "" {
			cycle.DeviceID = event.DeviceID
		}
		if event.Cycle != nil {
			cycle.LastOutcome = event.Cycle.Outcome.String()
		}

		// Count errors
		if event.Error != nil {
			stats.Errors++
		}
	}

	printStats(w, stats)
	return nil
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== Update Agent Protocol Log Statistics ===")
	fmt.Fprintln(w)

	// Time range
	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Second))
		fmt.Fprintln(w)
	}

	// Total events
	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	fmt.Fprintln(w)

	// Events by layer
	fmt.Fprintln(w, "Events by Layer:")
	for _, layer := range []log.Layer{log.LayerTransport, log.LayerOrchestrator, log.LayerDownload} {
		if count := stats.EventsByLayer[layer]; count > 0 {
			fmt.Fprintf(w, "  %-14s %d\n", layer.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	// Events by category
	fmt.Fprintln(w, "Events by Category:")
	for _, cat := range []log.Category{log.CategoryExchange, log.CategoryState, log.CategoryDownload, log.CategoryCycle, log.CategoryError} {
		if count := stats.EventsByCategory[cat]; count > 0 {
			fmt.Fprintf(w, "  %-14s %d\n", cat.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	// Exchange direction
	fmt.Fprintln(w, "Exchange Direction:")
	for _, dir := range []log.Direction{log.DirectionIn, log.DirectionOut} {
		if count := stats.EventsByDirection[dir]; count > 0 {
			fmt.Fprintf(w, "  %-14s %d\n", dir.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	// Cycles
	fmt.Fprintf(w, "Cycles: %d\n", len(stats.Cycles))
	if len(stats.Cycles) > 0 {
		// Sort by first seen time
		type cycleInfo struct {
			id    string
			stats *CycleStats
		}
		cycles := make([]cycleInfo, 0, len(stats.Cycles))
		for id, cs := range stats.Cycles {
			cycles = append(cycles, cycleInfo{id, cs})
		}
		sort.Slice(cycles, func(i, j int) bool {
			return cycles[i].stats.FirstSeen.Before(cycles[j].stats.FirstSeen)
		})

		fmt.Fprintln(w, "")
		for _, c := range cycles {
			duration := c.stats.LastSeen.Sub(c.stats.FirstSeen).Round(time.Millisecond)
			shortID := c.id
			if len(shortID) > 8 {
				shortID = shortID[:8]
			}
			fmt.Fprintf(w, "  [%s] %d events, duration %s\n", shortID, c.stats.Events, duration)
			if c.stats.DeviceID != "" {
				fmt.Fprintf(w, "           Device: %s\n", c.stats.DeviceID)
			}
			if c.stats.LastOutcome != "" {
				fmt.Fprintf(w, "           Outcome: %s\n", c.stats.LastOutcome)
			}
		}
	}

	// Errors
	if stats.Errors > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Errors: %d\n", stats.Errors)
	}
}
