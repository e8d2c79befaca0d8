// Command update-agent-log views and analyzes update-agent protocol log
// files.
//
// Log files are created by cmd/update-agent when run with the
// -protocol-log flag.
//
// Usage:
//
//	update-agent-log <command> [flags] <file.ulog>
//
// Commands:
//
//	view     View log file in human-readable format
//	export   Export log file to JSON or CSV format
//	filter   Filter log file and write to new file
//	stats    Show statistics about the log file
//
// Examples:
//
//	# View all events
//	update-agent-log view device.ulog
//
//	# View only orchestrator-layer events
//	update-agent-log view --layer orchestrator device.ulog
//
//	# View only outgoing exchanges
//	update-agent-log view --direction out device.ulog
//
//	# Export to JSONL
//	update-agent-log export --format jsonl device.ulog
//
//	# Filter by cycle and save to new file
//	update-agent-log filter --cycle-id abc12345 -o filtered.ulog device.ulog
//
//	# Show statistics
//	update-agent-log stats device.ulog
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rollout-edge/update-agent/cmd/update-agent-log/commands"
	updatelog "github.com/rollout-edge/update-agent/pkg/log"
)

// warnIfNotLogExt prints a non-fatal hint when path doesn't carry the
// conventional log extension; every command still accepts such a path.
func warnIfNotLogExt(path string) {
	if !updatelog.HasLogExt(path) {
		fmt.Fprintf(os.Stderr, "warning: %s does not have the conventional %s extension\n", path, updatelog.Ext)
	}
}

const usage = `update-agent-log - Update Agent Protocol Log Analyzer

Usage:
  update-agent-log <command> [flags] <file.ulog>

Commands:
  view     View log file in human-readable format
  export   Export log file to JSON or CSV format
  filter   Filter log file and write to new file
  stats    Show statistics about the log file

Use "update-agent-log <command> -help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "view":
		runView(args)
	case "export":
		runExport(args)
	case "filter":
		runFilter(args)
	case "stats":
		runStats(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

func runView(args []string) {
	fs := flag.NewFlagSet("view", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `update-agent-log view - View log file in human-readable format

Usage:
  update-agent-log view [flags] <file.ulog>

Flags:
`)
		fs.PrintDefaults()
	}

	layer := fs.String("layer", "", "Filter by layer (transport, orchestrator, download)")
	direction := fs.String("direction", "", "Filter by direction (in, out)")
	category := fs.String("category", "", "Filter by category (exchange, state, download, cycle, error)")
	cycleID := fs.String("cycle-id", "", "Filter by cycle ID")
	deviceID := fs.String("device-id", "", "Filter by device ID")
	actionID := fs.String("action-id", "", "Filter by action ID")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: log file path required")
		fs.Usage()
		os.Exit(1)
	}

	path := fs.Arg(0)
	warnIfNotLogExt(path)

	// Build filter
	var filter commands.ViewFilter
	filter.Base.CycleID = *cycleID
	filter.Base.DeviceID = *deviceID
	filter.Base.ActionID = *actionID

	if *layer != "" {
		l, err := commands.ParseLayerFlag(*layer)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		filter.Base.Layer = &l
	}

	if *direction != "" {
		d, err := commands.ParseDirectionFlag(*direction)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		filter.Direction = &d
	}

	if *category != "" {
		c, err := commands.ParseCategoryFlag(*category)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		filter.Base.Category = &c
	}

	if err := commands.RunView(path, filter, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `update-agent-log export - Export log file to JSON or CSV format

Usage:
  update-agent-log export [flags] <file.ulog>

Flags:
`)
		fs.PrintDefaults()
	}

	format := fs.String("format", "jsonl", "Output format (jsonl, csv)")
	output := fs.String("o", "", "Output file (default: stdout)")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: log file path required")
		fs.Usage()
		os.Exit(1)
	}

	path := fs.Arg(0)
	warnIfNotLogExt(path)

	if err := commands.RunExport(path, *format, *output); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runFilter(args []string) {
	fs := flag.NewFlagSet("filter", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `update-agent-log filter - Filter log file and write to new file

Usage:
  update-agent-log filter [flags] <file.ulog>

Flags:
`)
		fs.PrintDefaults()
	}

	output := fs.String("o", "", "Output file (required)")
	cycleID := fs.String("cycle-id", "", "Filter by cycle ID")
	deviceID := fs.String("device-id", "", "Filter by device ID")
	actionID := fs.String("action-id", "", "Filter by action ID")
	timeStart := fs.String("time-start", "", "Filter by start time (RFC3339)")
	timeEnd := fs.String("time-end", "", "Filter by end time (RFC3339)")
	layer := fs.String("layer", "", "Filter by layer (transport, orchestrator, download)")
	direction := fs.String("direction", "", "Filter by direction (in, out)")
	category := fs.String("category", "", "Filter by category (exchange, state, download, cycle, error)")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: log file path required")
		fs.Usage()
		os.Exit(1)
	}

	if *output == "" {
		fmt.Fprintln(os.Stderr, "Error: output file (-o) required")
		fs.Usage()
		os.Exit(1)
	}

	path := fs.Arg(0)
	warnIfNotLogExt(path)

	opts := commands.FilterOptions{
		Output:    *output,
		CycleID:   *cycleID,
		DeviceID:  *deviceID,
		ActionID:  *actionID,
		TimeStart: *timeStart,
		TimeEnd:   *timeEnd,
		Layer:     *layer,
		Direction: *direction,
		Category:  *category,
	}

	if err := commands.RunFilter(path, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runStats(args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `update-agent-log stats - Show statistics about the log file

Usage:
  update-agent-log stats <file.ulog>

`)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: log file path required")
		fs.Usage()
		os.Exit(1)
	}

	path := fs.Arg(0)
	warnIfNotLogExt(path)

	if err := commands.RunStats(path, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
