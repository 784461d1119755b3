package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"upper-case revision", func(c *Config) { c.Check.Revision = "ALTAIR" }, false},
		{"unknown revision", func(c *Config) { c.Check.Revision = "sharding" }, true},
		{"no preset", func(c *Config) { c.Check.Preset = "" }, true},
		{"preset file only", func(c *Config) { c.Check.Preset = ""; c.Check.PresetFile = "x.yaml" }, false},
		{"negative history", func(c *Config) { c.Store.History = -1 }, true},
		{"bad log level", func(c *Config) { c.Log.Level = "trace" }, true},
		{"empty datadir", func(c *Config) { c.DataDir = "" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := Validate(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	if err := Validate(nil); err == nil {
		t.Error("Validate(nil) should fail")
	}
}

func TestValidate_NormalizesRevision(t *testing.T) {
	cfg := Default()
	cfg.Check.Revision = " Altair "
	cfg.Check.Preset = "MINIMAL"
	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	if cfg.Check.Revision != "altair" || cfg.Check.Preset != "minimal" {
		t.Errorf("got %q/%q", cfg.Check.Revision, cfg.Check.Preset)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invariants.conf")
	content := `# comment
revision = bellatrix
preset = "minimal"
store.history = 5
log.json = yes
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	values, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	cfg := Default()
	if err := ApplyFileConfig(cfg, values); err != nil {
		t.Fatalf("ApplyFileConfig() error: %v", err)
	}
	if cfg.Check.Revision != "bellatrix" || cfg.Check.Preset != "minimal" {
		t.Errorf("check = %+v", cfg.Check)
	}
	if cfg.Store.History != 5 || !cfg.Log.JSON {
		t.Errorf("store/log not applied: %+v %+v", cfg.Store, cfg.Log)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	values, err := LoadFile(filepath.Join(t.TempDir(), "absent.conf"))
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if len(values) != 0 {
		t.Errorf("got %d values, want 0", len(values))
	}
}

func TestLoadFile_InvalidLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.conf")
	os.WriteFile(path, []byte("revision altair\n"), 0644)
	if _, err := LoadFile(path); err == nil {
		t.Error("line without '=' should fail")
	}
}

func TestApplyFileConfig_BadInt(t *testing.T) {
	cfg := Default()
	if err := ApplyFileConfig(cfg, map[string]string{"store.history": "many"}); err == nil {
		t.Error("non-integer store.history should fail")
	}
}

func TestParseFlags(t *testing.T) {
	f, err := ParseFlags([]string{"--revision=ALTAIR", "--preset", "minimal", "--no-store", "--log-json", "history", "5"})
	if err != nil {
		t.Fatalf("ParseFlags() error: %v", err)
	}
	if f.Revision != "ALTAIR" || f.Preset != "minimal" || !f.NoStore {
		t.Errorf("flags = %+v", f)
	}
	if !f.SetLogJSON || !f.LogJSON {
		t.Error("log-json should be marked as set")
	}
	if len(f.Args) != 2 || f.Args[0] != "history" || f.Args[1] != "5" {
		t.Errorf("Args = %v", f.Args)
	}

	if _, err := ParseFlags([]string{"check", "--preset=minimal"}); err == nil {
		t.Error("flag after the command should be rejected")
	}
	if _, err := ParseFlags([]string{"--bogus"}); err == nil {
		t.Error("unknown flag should fail")
	}

	f, err = ParseFlags([]string{"-h"})
	if err != nil || !f.Help {
		t.Errorf("ParseFlags(-h) = %+v, %v", f, err)
	}
}

func TestApplyFlags_PresetOverridesFile(t *testing.T) {
	cfg := Default()
	cfg.Check.PresetFile = "from-conf.yaml"
	ApplyFlags(cfg, &Flags{Preset: "minimal"})
	if cfg.Check.PresetFile != "" || cfg.Check.Preset != "minimal" {
		t.Errorf("check = %+v", cfg.Check)
	}

	ApplyFlags(cfg, &Flags{NoStore: true, LogLevel: "debug"})
	if cfg.Store.Enabled || cfg.Log.Level != "debug" {
		t.Errorf("store/log = %+v %+v", cfg.Store, cfg.Log)
	}
}

func TestLoad_CreatesDataDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	cfg, flags, err := Load([]string{"--datadir", dir, "--revision", "Altair"})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Check.Revision != "altair" {
		t.Errorf("Revision = %q", cfg.Check.Revision)
	}
	if len(flags.Args) != 0 {
		t.Errorf("Args = %v", flags.Args)
	}
	for _, p := range []string{cfg.ReportsDir(), cfg.LogsDir(), cfg.ConfigFile()} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("%s not created: %v", p, err)
		}
	}

	// The generated default config must load cleanly.
	values, err := LoadFile(cfg.ConfigFile())
	if err != nil {
		t.Fatalf("LoadFile(default) error: %v", err)
	}
	if values["revision"] != "altair" {
		t.Errorf("default config revision = %q", values["revision"])
	}
}

func TestLoad_HelpSkipsDisk(t *testing.T) {
	cfg, flags, err := Load([]string{"--help"})
	if err != nil || cfg != nil || !flags.Help {
		t.Errorf("Load(--help) = %v, %+v, %v", cfg, flags, err)
	}
}

func TestPrintUsage(t *testing.T) {
	var sb strings.Builder
	PrintUsage(&sb)
	if !strings.Contains(sb.String(), "--revision") {
		t.Error("usage should document --revision")
	}
}
