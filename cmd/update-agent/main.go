// Command update-agent polls a hawkBit-style rollout server, downloads and
// stages firmware updates, and arms the bootloader for a one-shot test
// boot.
//
// Usage:
//
//	update-agent -config /etc/update-agent/agent.yaml -state-dir /var/lib/update-agent
//
// Pass -debug-shell to open an interactive console instead of looping
// automatically: it lets an operator trigger a probe cycle, inspect the
// current poll interval, and start or stop the background scheduler by
// hand, which is useful when bringing up a new board against a test
// rollout server.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rollout-edge/update-agent/internal/config"
	"github.com/rollout-edge/update-agent/pkg/actionstore"
	"github.com/rollout-edge/update-agent/pkg/agentinit"
	"github.com/rollout-edge/update-agent/pkg/autohandler"
	"github.com/rollout-edge/update-agent/pkg/bootloader"
	"github.com/rollout-edge/update-agent/pkg/debugshell"
	"github.com/rollout-edge/update-agent/pkg/flashslot"
	"github.com/rollout-edge/update-agent/pkg/identity"
	updatelog "github.com/rollout-edge/update-agent/pkg/log"
	"github.com/rollout-edge/update-agent/pkg/orchestrator"
)

// flags holds the command-line overrides, populated by flag.StringVar/etc.
// in init() and layered onto a file-loaded internal/config.Config in main.
var flags struct {
	configFile string
	stateDir   string
	caDir      string
	board      string
	serverHost string
	serverPort int
	tlsEnabled bool
	caTag      string

	oneShot     bool
	protocolLog string
	logLevel    string

	debugShell        bool
	debugShellHistory string
}

func init() {
	flag.StringVar(&flags.configFile, "config", "", "Path to the YAML configuration file")
	flag.StringVar(&flags.stateDir, "state-dir", "/var/lib/update-agent", "Directory for the bootloader/flash/action-id simulation state")
	flag.StringVar(&flags.caDir, "ca-dir", "/etc/update-agent/ca", "Directory containing pinned CA certificates named <ca_tag>.pem")

	flag.StringVar(&flags.board, "board", "", "Board identifier interpolated into every URL (overrides the config file)")
	flag.StringVar(&flags.serverHost, "server-host", "", "Rollout server hostname (overrides the config file)")
	flag.IntVar(&flags.serverPort, "server-port", 0, "Rollout server port (overrides the config file)")
	flag.BoolVar(&flags.tlsEnabled, "tls", false, "Use TLS when connecting to the rollout server")
	flag.StringVar(&flags.caTag, "ca-tag", "", "Pinned CA certificate tag (overrides the config file)")

	flag.BoolVar(&flags.oneShot, "once", false, "Run a single probe cycle and exit instead of looping")
	flag.StringVar(&flags.protocolLog, "protocol-log", "", "File path for protocol event logging (CBOR format)")
	flag.StringVar(&flags.logLevel, "log-level", "info", "Console log level: debug, info, warn, error")

	flag.BoolVar(&flags.debugShell, "debug-shell", false, "Open an interactive console instead of looping automatically")
	flag.StringVar(&flags.debugShellHistory, "debug-shell-history", "", "File to persist console command history across runs")
}

func main() {
	flag.Parse()

	cfg, err := config.Load(flags.configFile)
	if err != nil {
		log.Fatalf("loading configuration: %v", err)
	}
	applyFlagOverrides(&cfg)
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	slog.SetLogLoggerLevel(parseLogLevel(flags.logLevel))
	consoleLogger := updatelog.NewSlogAdapter(slog.Default())

	var protocolLogger *updatelog.FileLogger
	var eventLogger updatelog.Logger = consoleLogger
	if flags.protocolLog != "" {
		protocolLogger, err = updatelog.NewFileLogger(flags.protocolLog)
		if err != nil {
			log.Fatalf("opening protocol log %s: %v", flags.protocolLog, err)
		}
		defer protocolLogger.Close()
		eventLogger = updatelog.NewMultiLogger(consoleLogger, protocolLogger)
	}

	boot, err := bootloader.NewSimulated(filepath.Join(flags.stateDir, "bootloader"), 16*1024*1024, "1.0.0")
	if err != nil {
		log.Fatalf("initializing bootloader state: %v", err)
	}
	streamer := flashslot.NewSimulated(filepath.Join(flags.stateDir, "alt_slot.bin"))
	store := actionstore.NewFileStore(filepath.Join(flags.stateDir, "action_id.bin"))
	identitySource := identity.FileSource{
		DeviceIDPath:        filepath.Join(flags.stateDir, "device_id"),
		FirmwareVersionPath: filepath.Join(flags.stateDir, "firmware_version"),
		HardwareRev:         "0",
		DeviceIDEnv:         "UPDATE_AGENT_DEVICE_ID",
		FirmwareVersionEnv:  "UPDATE_AGENT_FIRMWARE_VERSION",
	}

	initResult, err := agentinit.Run(agentinit.Deps{
		Bootloader: boot,
		Store:      store,
		Logger:     eventLogger,
	})
	if err != nil {
		log.Fatalf("agent init: %v", err)
	}
	slog.Info("agent init complete", "confirmed_this_boot", initResult.Confirmed, "persisted_action_id", initResult.PersistedActionID)

	tlsCfg, err := cfg.ResolveTLS(flags.caDir)
	if err != nil {
		log.Fatalf("resolving TLS configuration: %v", err)
	}

	orch := orchestrator.New(orchestrator.Config{
		Host:       cfg.ServerHost,
		Port:       cfg.ServerPort,
		TLS:        tlsCfg,
		Board:      cfg.Board,
		PollBounds: cfg.PollBounds(),
	}, orchestrator.Deps{
		Identity:   identitySource,
		Bootloader: boot,
		Streamer:   streamer,
		Store:      store,
		Logger:     eventLogger,
	})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if flags.oneShot {
		outcome := orch.Probe(ctx)
		slog.Info("probe cycle finished", "outcome", outcome.String())
		if outcome.Reboots() {
			os.Exit(1)
		}
		return
	}

	scheduler := autohandler.New(orch, autohandler.Syscall{}, slog.Default())

	if flags.debugShell {
		shell, err := debugshell.New(orch, scheduler, debugshell.Config{HistoryFile: flags.debugShellHistory})
		if err != nil {
			log.Fatalf("opening debug shell: %v", err)
		}
		defer shell.Close()
		if err := shell.Run(ctx); err != nil {
			log.Fatalf("debug shell: %v", err)
		}
		return
	}

	if err := scheduler.Run(ctx); err != nil {
		log.Fatalf("autohandler: %v", err)
	}
}

// applyFlagOverrides layers explicitly-set flags over the file-loaded
// configuration. Flags left at their zero value do not override.
func applyFlagOverrides(cfg *config.Config) {
	if flags.board != "" {
		cfg.Board = flags.board
	}
	if flags.serverHost != "" {
		cfg.ServerHost = flags.serverHost
	}
	if flags.serverPort != 0 {
		cfg.ServerPort = flags.serverPort
	}
	if flags.tlsEnabled {
		cfg.TLSEnabled = true
	}
	if flags.caTag != "" {
		cfg.CATag = flags.caTag
	}
}

func parseLogLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
