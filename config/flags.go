package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
)

// Version is the checker version reported by --version.
const Version = "0.1.0"

// Flags holds parsed command-line flags.
type Flags struct {
	// Commands
	Help    bool
	Version bool

	// Core
	DataDir string
	Config  string

	// Check selection
	Revision   string
	Preset     string
	PresetFile string

	// Report history
	NoStore bool

	// Logging
	LogLevel string
	LogFile  string
	LogJSON  bool

	// Remaining args: the subcommand and its arguments.
	Args []string

	// Explicitly-set bool flags (for true/false overrides).
	SetLogJSON bool
}

// ParseFlags parses command-line flags. args excludes the program name.
func ParseFlags(args []string) (*Flags, error) {
	f := &Flags{}
	fs := flag.NewFlagSet("invcheck", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	// Commands
	fs.BoolVar(&f.Help, "help", false, "Show help message")
	fs.BoolVar(&f.Help, "h", false, "Show help message (shorthand)")
	fs.BoolVar(&f.Version, "version", false, "Show version information")
	fs.BoolVar(&f.Version, "v", false, "Show version (shorthand)")

	// Core
	fs.StringVar(&f.DataDir, "datadir", "", "Data directory path")
	fs.StringVar(&f.Config, "config", "", "Config file path")
	fs.StringVar(&f.Config, "c", "", "Config file path (shorthand)")

	// Check selection
	fs.StringVar(&f.Revision, "revision", "", "Protocol revision (phase0, altair, ...)")
	fs.StringVar(&f.Preset, "preset", "", "Shipped preset name (mainnet, minimal)")
	fs.StringVar(&f.PresetFile, "preset-file", "", "Preset file (JSON or YAML)")

	// Report history
	fs.BoolVar(&f.NoStore, "no-store", false, "Do not persist the report")

	// Logging
	fs.StringVar(&f.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&f.LogFile, "log-file", "", "Log file path")
	fs.BoolVar(&f.LogJSON, "log-json", false, "Output logs as JSON")

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			f.Help = true
			return f, nil
		}
		return nil, err
	}

	f.SetLogJSON = isFlagSet(fs, "log-json")
	f.Args = fs.Args()

	// A flag after the subcommand is not parsed by the flag package.
	for _, arg := range f.Args {
		if strings.HasPrefix(arg, "-") {
			return nil, fmt.Errorf("flag %q was not parsed (flags must come before the command)", arg)
		}
	}

	return f, nil
}

// ApplyFlags applies command-line flags to a Config struct.
func ApplyFlags(cfg *Config, f *Flags) {
	if f.DataDir != "" {
		cfg.DataDir = f.DataDir
	}

	// Check selection
	if f.Revision != "" {
		cfg.Check.Revision = f.Revision
	}
	if f.Preset != "" {
		cfg.Check.Preset = f.Preset
		cfg.Check.PresetFile = ""
	}
	if f.PresetFile != "" {
		cfg.Check.PresetFile = f.PresetFile
	}

	// Report history
	if f.NoStore {
		cfg.Store.Enabled = false
	}

	// Logging
	if f.LogLevel != "" {
		cfg.Log.Level = f.LogLevel
	}
	if f.LogFile != "" {
		cfg.Log.File = f.LogFile
	}
	if f.SetLogJSON {
		cfg.Log.JSON = f.LogJSON
	}
}

func isFlagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// PrintUsage writes the help text to w.
func PrintUsage(w io.Writer) {
	usage := `Klingnet invariant checker - validates protocol constant invariants

Usage:
  invcheck [options] [command] [args]

Commands:
  check             Check the selected constants (default)
  rules             List the invariant rules and their revisions
  presets           List the shipped presets
  history [n]       Show the n most recent reports (default 10)
  export <path>     Write the selected preset to a .json or .yaml file

Core Options:
  --help, -h      Show this help message
  --version, -v   Show version information
  --datadir       Data directory (default: ~/.klingnet-invariants)
  --config, -c    Config file path (default: <datadir>/invariants.conf)

Check Options:
  --revision      Protocol revision: phase0, altair, bellatrix, capella, deneb
                  (default: altair, case-insensitive)
  --preset        Shipped preset: mainnet (default) or minimal
  --preset-file   Preset file (JSON or YAML); overrides --preset
  --no-store      Do not persist the report

Logging Options:
  --log-level     Log level: debug, info, warn, error (default: info)
  --log-file      Log file path (default: stderr only)
  --log-json      Output logs as JSON

Examples:
  # Check the altair mainnet preset
  invcheck

  # Check constants from a consensus-spec style YAML file
  invcheck --revision=ALTAIR --preset-file=./altair.yaml check

Exit status is 0 when every invariant holds and 1 otherwise.
`
	fmt.Fprint(w, usage)
}

// Load loads configuration with the following precedence:
// 1. Default values
// 2. Auto-create data dirs + default config (idempotent)
// 3. Config file
// 4. Command-line flags
//
// Help and version requests are returned in Flags without touching disk.
func Load(args []string) (*Config, *Flags, error) {
	flags, err := ParseFlags(args)
	if err != nil {
		return nil, nil, err
	}
	if flags.Help || flags.Version {
		return nil, flags, nil
	}

	cfg := Default()
	if flags.DataDir != "" {
		cfg.DataDir = flags.DataDir
	}

	if err := EnsureDataDirs(cfg); err != nil {
		return nil, nil, fmt.Errorf("ensuring data dirs: %w", err)
	}

	configPath := flags.Config
	if configPath == "" {
		configPath = cfg.ConfigFile()
	}

	fileValues, err := LoadFile(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config file: %w", err)
	}
	if err := ApplyFileConfig(cfg, fileValues); err != nil {
		return nil, nil, fmt.Errorf("applying config file: %w", err)
	}

	ApplyFlags(cfg, flags)
	if err := Validate(cfg); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, flags, nil
}

// EnsureDataDirs creates the data directory structure and a default config
// file if they don't already exist. Safe to call on every run.
func EnsureDataDirs(cfg *Config) error {
	for _, dir := range []string{cfg.DataDir, cfg.ReportsDir(), cfg.LogsDir()} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	configPath := cfg.ConfigFile()
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := WriteDefaultConfig(configPath); err != nil {
			return fmt.Errorf("writing config file: %w", err)
		}
	}
	return nil
}
