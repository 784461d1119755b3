package config

import (
	"fmt"
	"strings"

	"github.com/Klingon-tech/klingnet-invariants/internal/invariant"
)

// Validate checks runtime config for obvious operator mistakes and
// normalizes the revision and preset names.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if cfg.DataDir == "" {
		return fmt.Errorf("datadir is required")
	}

	rev, err := invariant.ParseRevision(cfg.Check.Revision)
	if err != nil {
		return fmt.Errorf("revision: %w", err)
	}
	cfg.Check.Revision = rev.String()

	cfg.Check.Preset = strings.ToLower(strings.TrimSpace(cfg.Check.Preset))
	if cfg.Check.Preset == "" && cfg.Check.PresetFile == "" {
		return fmt.Errorf("either preset or preset.file is required")
	}

	if cfg.Store.History < 0 {
		return fmt.Errorf("store.history must not be negative")
	}

	switch cfg.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn, or error")
	}
	return nil
}
