// Package debugshell provides an interactive command-line console for
// driving an update-agent process by hand: triggering a probe cycle on
// demand, inspecting the current poll interval, and toggling the
// background scheduler, without having to restart the process between
// each try.
package debugshell

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/chzyer/readline"

	"github.com/rollout-edge/update-agent/pkg/autohandler"
	"github.com/rollout-edge/update-agent/pkg/orchestrator"
)

// Shell reads commands from a readline-backed prompt and drives an
// Orchestrator directly. It holds no protocol state of its own.
type Shell struct {
	orch      *orchestrator.Orchestrator
	scheduler *autohandler.Scheduler

	rl  *readline.Instance
	out io.Writer

	autoCancel context.CancelFunc
	autoDone   chan struct{}
}

// Config configures New.
type Config struct {
	// HistoryFile persists command history across shell invocations. Empty
	// disables history persistence for the session.
	HistoryFile string
}

// New opens a readline prompt bound to orch. scheduler may be nil, in
// which case the "auto"/"stop" commands report that no background
// scheduler is available.
func New(orch *orchestrator.Orchestrator, scheduler *autohandler.Scheduler, cfg Config) (*Shell, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "update-agent> ",
		HistoryFile:     cfg.HistoryFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		return nil, fmt.Errorf("debugshell: opening console: %w", err)
	}
	return &Shell{
		orch:      orch,
		scheduler: scheduler,
		rl:        rl,
		out:       rl.Stdout(),
	}, nil
}

// Stdout returns the writer console log output should be redirected to
// while the shell owns the terminal, so log lines don't clobber whatever
// the operator is typing.
func (s *Shell) Stdout() io.Writer {
	return s.out
}

// Close releases the underlying terminal.
func (s *Shell) Close() error {
	s.stopAuto()
	return s.rl.Close()
}

// Run reads and dispatches commands until the operator quits, ctx is
// canceled, or the input stream reaches EOF.
func (s *Shell) Run(ctx context.Context) error {
	fmt.Fprintln(s.out, "update-agent debug console. Type 'help' for commands.")
	for {
		line, err := s.rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		cmd, args := fields[0], fields[1:]

		switch strings.ToLower(cmd) {
		case "help", "?":
			s.printHelp()
		case "probe":
			s.cmdProbe(ctx)
		case "status":
			s.cmdStatus()
		case "auto":
			s.cmdAuto(ctx)
		case "stop":
			s.cmdStop()
		case "quit", "exit":
			return nil
		default:
			fmt.Fprintf(s.out, "unknown command: %s (type 'help')\n", cmd)
		}

		select {
		case <-ctx.Done():
			return nil
		default:
		}
	}
}

func (s *Shell) printHelp() {
	fmt.Fprint(s.out, `
Commands:
  probe    run one probe cycle now and print its outcome
  status   show the endpoint, current poll interval, and scheduler state
  auto     start the background scheduler (loops probe on its own)
  stop     stop the background scheduler started by 'auto'
  help     show this text
  quit     leave the console
`)
}

func (s *Shell) cmdProbe(ctx context.Context) {
	start := time.Now()
	outcome := s.orch.Probe(ctx)
	fmt.Fprintf(s.out, "outcome: %s (took %s)\n", outcome.String(), time.Since(start).Round(time.Millisecond))
	if outcome.Reboots() {
		fmt.Fprintln(s.out, "note: this outcome would request a reboot outside the console")
	}
}

func (s *Shell) cmdStatus() {
	cfg := s.orch.Config()
	fmt.Fprintf(s.out, "endpoint:      %s:%d (tls=%t)\n", cfg.Host, cfg.Port, cfg.TLS != nil)
	fmt.Fprintf(s.out, "board:         %s\n", cfg.Board)
	fmt.Fprintf(s.out, "poll interval: %s\n", s.orch.PollInterval())
	if s.autoDone != nil {
		fmt.Fprintln(s.out, "scheduler:     running")
	} else {
		fmt.Fprintln(s.out, "scheduler:     stopped")
	}
}

func (s *Shell) cmdAuto(ctx context.Context) {
	if s.scheduler == nil {
		fmt.Fprintln(s.out, "no background scheduler configured for this console")
		return
	}
	if s.autoDone != nil {
		fmt.Fprintln(s.out, "scheduler already running")
		return
	}

	autoCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	s.autoCancel = cancel
	s.autoDone = done

	go func() {
		defer close(done)
		if err := s.scheduler.Run(autoCtx); err != nil {
			fmt.Fprintf(s.out, "scheduler stopped: %v\n", err)
		}
	}()
	fmt.Fprintln(s.out, "scheduler started")
}

func (s *Shell) cmdStop() {
	if s.autoDone == nil {
		fmt.Fprintln(s.out, "scheduler is not running")
		return
	}
	s.stopAuto()
	fmt.Fprintln(s.out, "scheduler stopped")
}

func (s *Shell) stopAuto() {
	if s.autoCancel == nil {
		return
	}
	s.autoCancel()
	<-s.autoDone
	s.autoCancel = nil
	s.autoDone = nil
}
