package cliconfig

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.ExtensionsDir != "extensions" {
		t.Errorf("ExtensionsDir = %q, want %q", cfg.ExtensionsDir, "extensions")
	}
	if cfg.ManifestName == "" {
		t.Error("ManifestName is empty")
	}
	if cfg.Debounce != 250*time.Millisecond {
		t.Errorf("Debounce = %v, want 250ms", cfg.Debounce)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"empty dir", func(c *Config) { c.ExtensionsDir = "" }, true},
		{"negative debounce", func(c *Config) { c.Debounce = -time.Second }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigValidateDefaultsManifestName(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ManifestName = ""
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if cfg.ManifestName == "" {
		t.Error("ManifestName not restored to default")
	}
}

func TestLoadFileConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
extensions_dir = "/opt/exts"
manifest_name = "plugin.toml"
debounce = "1s"
verbose = true
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	fc, err := LoadFileConfig(path)
	if err != nil {
		t.Fatalf("LoadFileConfig() error = %v", err)
	}
	if fc.ExtensionsDir != "/opt/exts" {
		t.Errorf("ExtensionsDir = %q, want %q", fc.ExtensionsDir, "/opt/exts")
	}
	if fc.ManifestName != "plugin.toml" {
		t.Errorf("ManifestName = %q, want %q", fc.ManifestName, "plugin.toml")
	}
	if fc.Debounce != "1s" {
		t.Errorf("Debounce = %q, want %q", fc.Debounce, "1s")
	}
	if fc.Verbose == nil || !*fc.Verbose {
		t.Error("Verbose not parsed as true")
	}
}

func TestLoadFileConfigMissing(t *testing.T) {
	if _, err := LoadFileConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestApplyFileConfig(t *testing.T) {
	cfg := DefaultConfig()
	verbose := true
	fc := FileConfig{
		ExtensionsDir: "/from/file",
		Debounce:      "2s",
		Verbose:       &verbose,
	}

	// --dir was set on the command line, so the file must not override it.
	changed := map[string]bool{"dir": true}
	if err := ApplyFileConfig(&cfg, fc, changed); err != nil {
		t.Fatalf("ApplyFileConfig() error = %v", err)
	}
	if cfg.ExtensionsDir != "extensions" {
		t.Errorf("ExtensionsDir = %q, flag value should win over file", cfg.ExtensionsDir)
	}
	if cfg.Debounce != 2*time.Second {
		t.Errorf("Debounce = %v, want 2s", cfg.Debounce)
	}
	if !cfg.Verbose {
		t.Error("Verbose not applied from file")
	}
}

func TestApplyFileConfigBadDuration(t *testing.T) {
	cfg := DefaultConfig()
	fc := FileConfig{Debounce: "soonish"}
	if err := ApplyFileConfig(&cfg, fc, map[string]bool{}); err == nil {
		t.Error("expected error for invalid debounce")
	}
}

func TestApplyEnvConfig(t *testing.T) {
	t.Setenv("EXTMAN_EXTENSIONS_DIR", "/from/env")
	t.Setenv("EXTMAN_DEBOUNCE", "750ms")
	t.Setenv("EXTMAN_VERBOSE", "true")

	cfg := DefaultConfig()
	if err := ApplyEnvConfig(&cfg, map[string]bool{}); err != nil {
		t.Fatalf("ApplyEnvConfig() error = %v", err)
	}
	if cfg.ExtensionsDir != "/from/env" {
		t.Errorf("ExtensionsDir = %q, want %q", cfg.ExtensionsDir, "/from/env")
	}
	if cfg.Debounce != 750*time.Millisecond {
		t.Errorf("Debounce = %v, want 750ms", cfg.Debounce)
	}
	if !cfg.Verbose {
		t.Error("Verbose not applied from env")
	}
}

func TestApplyEnvConfigRespectsFlags(t *testing.T) {
	t.Setenv("EXTMAN_EXTENSIONS_DIR", "/from/env")

	cfg := DefaultConfig()
	cfg.ExtensionsDir = "/from/flag"
	if err := ApplyEnvConfig(&cfg, map[string]bool{"dir": true}); err != nil {
		t.Fatalf("ApplyEnvConfig() error = %v", err)
	}
	if cfg.ExtensionsDir != "/from/flag" {
		t.Errorf("ExtensionsDir = %q, flag value should win over env", cfg.ExtensionsDir)
	}
}

func TestApplyEnvConfigBadDuration(t *testing.T) {
	t.Setenv("EXTMAN_DEBOUNCE", "whenever")

	cfg := DefaultConfig()
	if err := ApplyEnvConfig(&cfg, map[string]bool{}); err == nil {
		t.Error("expected error for invalid EXTMAN_DEBOUNCE")
	}
}
