package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// LoadFile loads tool configuration from a .conf file.
// Format: key = value (one per line, # for comments). A missing file
// yields no values.
func LoadFile(path string) (map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, err
	}
	defer file.Close()

	values := make(map[string]string)
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("line %d: invalid format (expected key = value)", lineNum)
		}
		values[strings.TrimSpace(key)] = unquote(strings.TrimSpace(value))
	}

	return values, scanner.Err()
}

func unquote(value string) string {
	if len(value) >= 2 {
		if (value[0] == '"' && value[len(value)-1] == '"') ||
			(value[0] == '\'' && value[len(value)-1] == '\'') {
			return value[1 : len(value)-1]
		}
	}
	return value
}

// ApplyFileConfig applies file configuration to a Config struct.
func ApplyFileConfig(cfg *Config, values map[string]string) error {
	for key, value := range values {
		if err := setConfigValue(cfg, key, value); err != nil {
			return fmt.Errorf("config key %q: %w", key, err)
		}
	}
	return nil
}

func setConfigValue(cfg *Config, key, value string) error {
	switch key {
	case "datadir":
		cfg.DataDir = value

	// Check selection
	case "revision":
		cfg.Check.Revision = value
	case "preset":
		cfg.Check.Preset = value
	case "preset.file":
		cfg.Check.PresetFile = value

	// Report history
	case "store.enabled", "store":
		cfg.Store.Enabled = parseBool(value)
	case "store.history":
		n, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		cfg.Store.History = n

	// Logging
	case "log.level":
		cfg.Log.Level = value
	case "log.file":
		cfg.Log.File = value
	case "log.json":
		cfg.Log.JSON = parseBool(value)

	default:
		// Unknown keys are ignored
	}
	return nil
}

func parseBool(s string) bool {
	s = strings.ToLower(s)
	return s == "true" || s == "1" || s == "yes" || s == "on"
}

// WriteDefaultConfig writes a default configuration file.
func WriteDefaultConfig(path string) error {
	content := `# Klingnet invariant checker configuration
#
# Protocol constants are not set here. They come from the shipped presets
# or from a preset file (JSON or YAML).

# Data directory (default: ~/.klingnet-invariants)
# datadir = ~/.klingnet-invariants

# ============================================================================
# Check selection
# ============================================================================

# Protocol revision: phase0, altair, bellatrix, capella, deneb
revision = altair

# Shipped preset: mainnet or minimal
preset = mainnet

# Preset file (overrides preset)
# preset.file = /path/to/altair.yaml

# ============================================================================
# Report history
# ============================================================================

store.enabled = true
# Reports kept per revision (0 = unlimited)
store.history = 100

# ============================================================================
# Logging
# ============================================================================

log.level = info
# log.file =
log.json = false
`
	return os.WriteFile(path, []byte(content), 0644)
}
