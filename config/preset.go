package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Klingon-tech/klingnet-invariants/internal/invariant"
	klog "github.com/Klingon-tech/klingnet-invariants/internal/log"
)

// =============================================================================
// Protocol Constants (per revision, defined by presets)
// These are read-only inputs to the checker.
// =============================================================================

// Shipped preset names.
const (
	PresetMainnet = "mainnet"
	PresetMinimal = "minimal"
)

// Preset is a named set of protocol constants for one revision.
type Preset struct {
	Revision  string            `json:"revision" yaml:"revision"`
	Name      string            `json:"name" yaml:"name"`
	Constants map[string]uint64 `json:"constants" yaml:"constants"`
}

// AltairMainnetPreset returns the altair constants of the mainnet preset.
func AltairMainnetPreset() *Preset {
	return &Preset{
		Revision: invariant.Altair.String(),
		Name:     PresetMainnet,
		Constants: map[string]uint64{
			// Participation flag and reward weights (out of WEIGHT_DENOMINATOR).
			invariant.TimelySourceWeight: 14,
			invariant.TimelyTargetWeight: 26,
			invariant.TimelyHeadWeight:   14,
			invariant.SyncRewardWeight:   2,
			invariant.ProposerWeight:     8,
			invariant.WeightDenominator:  64,

			// Inactivity leak
			invariant.InactivityScoreBias:         4,
			invariant.InactivityScoreRecoveryRate: 16,
			"INACTIVITY_PENALTY_QUOTIENT_ALTAIR":  3 * (1 << 24),

			// Slashing
			"MIN_SLASHING_PENALTY_QUOTIENT_ALTAIR":    64,
			"PROPORTIONAL_SLASHING_MULTIPLIER_ALTAIR": 2,

			// Sync committee
			"SYNC_COMMITTEE_SIZE":                      512,
			"EPOCHS_PER_SYNC_COMMITTEE_PERIOD":         256,
			"SYNC_COMMITTEE_SUBNET_COUNT":              4,
			"TARGET_AGGREGATORS_PER_SYNC_SUBCOMMITTEE": 16,
			"MIN_SYNC_COMMITTEE_PARTICIPANTS":          1,
			"UPDATE_TIMEOUT":                           8192, // SLOTS_PER_EPOCH * EPOCHS_PER_SYNC_COMMITTEE_PERIOD

			// Fork schedule
			"ALTAIR_FORK_EPOCH": 74240,
		},
	}
}

// AltairMinimalPreset returns the altair constants of the minimal preset.
func AltairMinimalPreset() *Preset {
	p := AltairMainnetPreset()
	p.Name = PresetMinimal

	// Smaller committees and periods for fast test networks.
	p.Constants["SYNC_COMMITTEE_SIZE"] = 32
	p.Constants["EPOCHS_PER_SYNC_COMMITTEE_PERIOD"] = 8
	p.Constants["UPDATE_TIMEOUT"] = 64
	p.Constants["ALTAIR_FORK_EPOCH"] = 1<<64 - 1 // FAR_FUTURE_EPOCH

	return p
}

var shippedPresets = map[string]func() *Preset{
	"altair/" + PresetMainnet: AltairMainnetPreset,
	"altair/" + PresetMinimal: AltairMinimalPreset,
}

// PresetNames returns the shipped presets as "revision/name", sorted.
func PresetNames() []string {
	names := make([]string, 0, len(shippedPresets))
	for k := range shippedPresets {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// PresetFor returns a fresh copy of the shipped preset for rev and name.
func PresetFor(rev invariant.Revision, name string) (*Preset, error) {
	ctor, ok := shippedPresets[rev.String()+"/"+strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("no shipped preset %q for revision %s", name, rev)
	}
	return ctor(), nil
}

// SelectPreset resolves the preset named by cfg: the preset file when set,
// otherwise the shipped preset. A file without a revision takes cfg's
// revision; a file naming a different revision is an error.
func SelectPreset(cfg *Config) (*Preset, error) {
	rev, err := invariant.ParseRevision(cfg.Check.Revision)
	if err != nil {
		return nil, err
	}

	if cfg.Check.PresetFile == "" {
		return PresetFor(rev, cfg.Check.Preset)
	}

	p, err := LoadPreset(cfg.Check.PresetFile)
	if err != nil {
		return nil, err
	}
	if p.Revision == "" {
		p.Revision = rev.String()
	}
	fileRev, err := invariant.ParseRevision(p.Revision)
	if err != nil {
		return nil, fmt.Errorf("preset file %s: %w", cfg.Check.PresetFile, err)
	}
	if fileRev != rev {
		return nil, fmt.Errorf("preset file %s is for revision %s, not %s (use --revision)",
			cfg.Check.PresetFile, fileRev, rev)
	}
	p.Revision = fileRev.String()
	if p.Name == "" {
		p.Name = strings.TrimSuffix(filepath.Base(cfg.Check.PresetFile), filepath.Ext(cfg.Check.PresetFile))
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid preset: %w", err)
	}
	return p, nil
}

// =============================================================================
// Preset file I/O
// =============================================================================

// LoadPreset loads a preset from a .json, .yaml, or .yml file.
//
// Two layouts are accepted. The structured layout has "revision", "name",
// and "constants" keys. Any other mapping is read as a flat constant file
// (the layout of consensus-spec config files): integer values become
// constants, other values are skipped, and PRESET_BASE names the preset.
func LoadPreset(path string) (*Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading preset file: %w", err)
	}

	var raw map[string]interface{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("parsing preset file: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parsing preset file: %w", err)
		}
	default:
		return nil, fmt.Errorf("preset file %s: unsupported extension (want .json, .yaml, or .yml)", path)
	}

	if constants, ok := raw["constants"].(map[string]interface{}); ok {
		return structuredPreset(raw, constants)
	}
	return flatPreset(raw)
}

func structuredPreset(raw, constants map[string]interface{}) (*Preset, error) {
	p := &Preset{Constants: make(map[string]uint64, len(constants))}
	p.Revision, _ = raw["revision"].(string)
	p.Name, _ = raw["name"].(string)

	for k, v := range constants {
		n, ok, err := toUint64(v)
		if err != nil {
			return nil, fmt.Errorf("constant %s: %w", k, err)
		}
		if !ok {
			return nil, fmt.Errorf("constant %s: not an integer", k)
		}
		p.Constants[k] = n
	}
	return p, nil
}

func flatPreset(raw map[string]interface{}) (*Preset, error) {
	p := &Preset{Constants: make(map[string]uint64, len(raw))}
	p.Name, _ = raw["PRESET_BASE"].(string)

	for k, v := range raw {
		n, ok, err := toUint64(v)
		if err != nil {
			return nil, fmt.Errorf("constant %s: %w", k, err)
		}
		if !ok {
			klog.Config.Debug().Str("key", k).Msg("Skipping non-integer preset value")
			continue
		}
		p.Constants[k] = n
	}
	return p, nil
}

// toUint64 converts a decoded JSON or YAML scalar. ok is false for values
// that are not integers; negative integers are an error.
func toUint64(v interface{}) (n uint64, ok bool, err error) {
	switch x := v.(type) {
	case int:
		if x < 0 {
			return 0, false, fmt.Errorf("negative value %d", x)
		}
		return uint64(x), true, nil
	case int64:
		if x < 0 {
			return 0, false, fmt.Errorf("negative value %d", x)
		}
		return uint64(x), true, nil
	case uint64:
		return x, true, nil
	case json.Number:
		s := x.String()
		if strings.HasPrefix(s, "-") {
			return 0, false, fmt.Errorf("negative value %s", s)
		}
		u, perr := strconv.ParseUint(s, 10, 64)
		if perr != nil {
			return 0, false, nil
		}
		return u, true, nil
	default:
		return 0, false, nil
	}
}

// Save writes the preset to path as JSON or YAML, chosen by extension.
func (p *Preset) Save(path string) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err = json.MarshalIndent(p, "", "  ")
	case ".yaml", ".yml":
		data, err = yaml.Marshal(p)
	default:
		return fmt.Errorf("preset file %s: unsupported extension (want .json, .yaml, or .yml)", path)
	}
	if err != nil {
		return fmt.Errorf("encoding preset: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing preset file: %w", err)
	}
	return nil
}

// Validate checks that the preset names a known revision and has constants.
func (p *Preset) Validate() error {
	if _, err := invariant.ParseRevision(p.Revision); err != nil {
		return err
	}
	if len(p.Constants) == 0 {
		return fmt.Errorf("preset has no constants")
	}
	return nil
}

// Configuration returns the preset's constants as an immutable configuration.
func (p *Preset) Configuration() *invariant.Configuration {
	return invariant.NewConfiguration(p.Constants)
}
