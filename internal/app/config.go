package app

import (
	"github.com/raysh454/configlens/internal/platform"
)

// Config contains the runtime configuration shared by the CLI and the API
// server. Per-package options stay in their packages; this only aggregates
// what wiring needs.
type Config struct {
	// Platform is the default platform for comparisons when the caller
	// does not specify one.
	Platform platform.Platform

	// HistoryPath is the SQLite file for the run history. Empty disables
	// persistence (the CLI default).
	HistoryPath string

	// SettingsPath is the TOML settings file. Empty means the per-user
	// default location.
	SettingsPath string

	// ServerAddr is the HTTP listen address for the API server (the CLI
	// uses the orchestrator in-process and does not require the network).
	ServerAddr string
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Platform:   platform.CiscoIOS,
		ServerAddr: ":8080",
	}
}
