// Package config loads the update agent's run-time configuration: target
// endpoint, TLS/CA selection, the poll-interval clamp, and the board
// identifier. Values come from a YAML file (gopkg.in/yaml.v3) and may be
// overridden by command-line flags, applied on top of a set of built-in
// defaults.
package config
