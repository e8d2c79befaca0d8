package config

import (
	"crypto/x509"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rollout-edge/update-agent/pkg/rollout"
	"github.com/rollout-edge/update-agent/pkg/transport"
)

// Config holds the resolved run-time settings.
type Config struct {
	ServerHost string
	ServerPort int

	TLSEnabled bool
	CATag      string

	PollIntervalMin time.Duration
	PollIntervalMax time.Duration
	PollIntervalDef time.Duration

	Board string
}

// fileConfig mirrors Config's YAML representation. Poll intervals are
// strings (e.g. "2m") rather than bare time.Duration fields: yaml.v3
// decodes time.Duration as a raw integer of nanoseconds, which is not
// what an operator hand-editing this file expects to write.
type fileConfig struct {
	ServerHost string `yaml:"server_host"`
	ServerPort int    `yaml:"server_port"`

	TLSEnabled bool   `yaml:"tls_enabled"`
	CATag      string `yaml:"ca_tag"`

	PollIntervalMin string `yaml:"poll_interval_min"`
	PollIntervalMax string `yaml:"poll_interval_max"`
	PollIntervalDef string `yaml:"poll_interval_def"`

	Board string `yaml:"board"`
}

// Default returns the package's default settings with no server
// configured; the caller (YAML file or flags) must still supply
// ServerHost and Board.
func Default() Config {
	return Config{
		PollIntervalMin: rollout.DefaultPollIntervalMin,
		PollIntervalMax: rollout.DefaultPollIntervalMax,
		PollIntervalDef: rollout.DefaultPollInterval,
	}
}

// Load reads a YAML configuration file at path, overlays it onto
// Default, and validates the result. An empty path returns the defaults
// unchanged, for callers that configure entirely via flags.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return Config{}, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	if fc.ServerHost != "" {
		cfg.ServerHost = fc.ServerHost
	}
	if fc.ServerPort != 0 {
		cfg.ServerPort = fc.ServerPort
	}
	cfg.TLSEnabled = fc.TLSEnabled
	if fc.CATag != "" {
		cfg.CATag = fc.CATag
	}
	if fc.Board != "" {
		cfg.Board = fc.Board
	}

	if fc.PollIntervalMin != "" {
		d, err := time.ParseDuration(fc.PollIntervalMin)
		if err != nil {
			return Config{}, fmt.Errorf("config: poll_interval_min: %w", err)
		}
		cfg.PollIntervalMin = d
	}
	if fc.PollIntervalMax != "" {
		d, err := time.ParseDuration(fc.PollIntervalMax)
		if err != nil {
			return Config{}, fmt.Errorf("config: poll_interval_max: %w", err)
		}
		cfg.PollIntervalMax = d
	}
	if fc.PollIntervalDef != "" {
		d, err := time.ParseDuration(fc.PollIntervalDef)
		if err != nil {
			return Config{}, fmt.Errorf("config: poll_interval_def: %w", err)
		}
		cfg.PollIntervalDef = d
	}

	return cfg, cfg.Validate()
}

// Validate checks the loaded configuration. Poll-interval bounds that are
// out of order (min above max) are rejected with an error, not reordered.
func (c *Config) Validate() error {
	if c.ServerHost == "" {
		return fmt.Errorf("config: server_host is required")
	}
	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		return fmt.Errorf("config: server_port %d is out of range", c.ServerPort)
	}
	if c.Board == "" {
		return fmt.Errorf("config: board is required")
	}
	if c.TLSEnabled && c.CATag == "" {
		return fmt.Errorf("config: ca_tag is required when tls_enabled is set")
	}
	if c.PollIntervalMin <= 0 || c.PollIntervalMax <= 0 || c.PollIntervalDef <= 0 {
		return fmt.Errorf("config: poll intervals must be positive")
	}
	if c.PollIntervalMin > c.PollIntervalMax {
		return fmt.Errorf("config: poll_interval_min (%s) exceeds poll_interval_max (%s)", c.PollIntervalMin, c.PollIntervalMax)
	}
	return nil
}

// PollBounds projects the poll-interval fields into the shape
// pkg/orchestrator consumes.
func (c Config) PollBounds() rollout.PollBounds {
	return rollout.PollBounds{
		Min:     c.PollIntervalMin,
		Max:     c.PollIntervalMax,
		Default: c.PollIntervalDef,
	}
}

// ResolveTLS loads the CA certificate named by CATag from caDir (a file
// named "<ca_tag>.pem") and builds the TLSConfig the transport session
// dials with. It returns nil, nil when TLS is not enabled.
func (c Config) ResolveTLS(caDir string) (*transport.TLSConfig, error) {
	if !c.TLSEnabled {
		return nil, nil
	}

	caPath := filepath.Join(caDir, c.CATag+".pem")
	pemBytes, err := os.ReadFile(caPath)
	if err != nil {
		return nil, fmt.Errorf("config: reading CA cert %s: %w", caPath, err)
	}

	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pemBytes) {
		return nil, fmt.Errorf("config: no certificates found in %s", caPath)
	}

	return &transport.TLSConfig{
		RootCAs:    pool,
		ServerName: c.ServerHost,
	}, nil
}
