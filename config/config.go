// Package config handles application configuration.
//
// Configuration is split into two categories:
//   - Protocol constants: defined by presets, one per revision and preset name
//   - Tool settings: runtime configuration of the checker, can vary per machine
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// =============================================================================
// Tool Configuration (runtime settings)
// =============================================================================

// Config holds runtime settings for the invariant checker.
type Config struct {
	// Core
	DataDir string `conf:"datadir"`

	// Which constants to check
	Check CheckConfig

	// Report history
	Store StoreConfig

	// Logging
	Log LogConfig
}

// CheckConfig selects the configuration under test.
type CheckConfig struct {
	Revision   string `conf:"revision"`    // Protocol revision, e.g. "altair"
	Preset     string `conf:"preset"`      // Shipped preset name (mainnet, minimal)
	PresetFile string `conf:"preset.file"` // JSON or YAML preset; overrides Preset
}

// StoreConfig holds report history settings.
type StoreConfig struct {
	Enabled bool `conf:"store.enabled"`
	History int  `conf:"store.history"` // Reports kept per revision (0 = unlimited)
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `conf:"log.level"`
	File  string `conf:"log.file"`
	JSON  bool   `conf:"log.json"`
}

// =============================================================================
// Directory helpers
// =============================================================================

// DefaultDataDir returns the platform-specific default data directory.
//
//	Linux:   ~/.klingnet-invariants
//	macOS:   ~/Library/Application Support/KlingnetInvariants
//	Windows: %APPDATA%\KlingnetInvariants
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".klingnet-invariants"
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "KlingnetInvariants")
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "KlingnetInvariants")
		}
		return filepath.Join(home, "AppData", "Roaming", "KlingnetInvariants")
	default:
		return filepath.Join(home, ".klingnet-invariants")
	}
}

// ReportsDir returns the report history database directory.
func (c *Config) ReportsDir() string {
	return filepath.Join(c.DataDir, "reports")
}

// LogsDir returns the logs directory.
func (c *Config) LogsDir() string {
	return filepath.Join(c.DataDir, "logs")
}

// ConfigFile returns the config file path.
func (c *Config) ConfigFile() string {
	return filepath.Join(c.DataDir, "invariants.conf")
}
