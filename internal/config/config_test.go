package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Version != 1 {
		t.Errorf("Version = %d, want 1", cfg.Version)
	}
	if cfg.AppRoot != "app" {
		t.Errorf("AppRoot = %q, want %q", cfg.AppRoot, "app")
	}

	// Both policies are strict by default
	if !cfg.Resolver.StaticComponents {
		t.Error("StaticComponents should be enabled by default")
	}
	if !cfg.Resolver.StaticHelpers {
		t.Error("StaticHelpers should be enabled by default")
	}
	if cfg.Resolver.PodModulePrefix != "" {
		t.Errorf("PodModulePrefix = %q, want empty", cfg.Resolver.PodModulePrefix)
	}
	if len(cfg.Resolver.ScriptExtensions) != 2 || cfg.Resolver.ScriptExtensions[0] != ".js" {
		t.Errorf("ScriptExtensions = %v, want [.js .ts]", cfg.Resolver.ScriptExtensions)
	}

	if len(cfg.Rules.Paths) != 1 || cfg.Rules.Paths[0] != ".tir/rules" {
		t.Errorf("Rules.Paths = %v, want [.tir/rules]", cfg.Rules.Paths)
	}

	if !cfg.Scan.UseGitignore {
		t.Error("UseGitignore should be enabled by default")
	}
	if cfg.Scan.MaxFileSizeBytes <= 0 {
		t.Error("MaxFileSizeBytes should be positive")
	}

	if cfg.Index.Path != ".tir/index.db" {
		t.Errorf("Index.Path = %q, want %q", cfg.Index.Path, ".tir/index.db")
	}
	if cfg.Baseline.Path != ".tir/baseline.toml" {
		t.Errorf("Baseline.Path = %q, want %q", cfg.Baseline.Path, ".tir/baseline.toml")
	}

	if cfg.Logging.Format != "human" {
		t.Errorf("Logging.Format = %q, want %q", cfg.Logging.Format, "human")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "info")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"version 0 unsupported", func(c *Config) { c.Version = 0 }, true},
		{"version 2 unsupported", func(c *Config) { c.Version = 2 }, true},
		{"empty appRoot", func(c *Config) { c.AppRoot = "" }, true},
		{"bad logging format", func(c *Config) { c.Logging.Format = "xml" }, true},
		{"bad logging level", func(c *Config) { c.Logging.Level = "loud" }, true},
		{"empty logging ok", func(c *Config) { c.Logging = LoggingConfig{} }, false},
		{"export level in range", func(c *Config) { c.Export.Level = 19 }, false},
		{"export level out of range", func(c *Config) { c.Export.Level = 20 }, true},
		{"negative file size", func(c *Config) { c.Scan.MaxFileSizeBytes = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()

			if tt.wantErr && err == nil {
				t.Error("Validate() should return an error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Validate() returned unexpected error: %v", err)
			}
			if err != nil {
				if _, ok := err.(*ConfigError); !ok {
					t.Errorf("Validate() error type = %T, want *ConfigError", err)
				}
			}
		})
	}
}

func TestLoadConfig_MissingFileReturnsDefaults(t *testing.T) {
	tempDir := t.TempDir()

	cfg, err := LoadConfig(tempDir)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg.Version != 1 || cfg.AppRoot != "app" {
		t.Errorf("expected defaults, got version=%d appRoot=%q", cfg.Version, cfg.AppRoot)
	}
	if !cfg.Resolver.StaticComponents {
		t.Error("expected default StaticComponents=true")
	}
}

func TestLoadConfig_ReadsFile(t *testing.T) {
	tempDir := t.TempDir()
	tirDir := filepath.Join(tempDir, ".tir")
	if err := os.MkdirAll(tirDir, 0755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	configJSON := `{
  "version": 1,
  "appRoot": "frontend/app",
  "resolver": {
    "staticComponents": true,
    "staticHelpers": false,
    "podModulePrefix": "frontend/app/pods"
  },
  "rules": {
    "paths": ["rules/addons"],
    "inline": {
      "components": {
        "pick-list": {"safeToIgnore": true}
      }
    }
  },
  "baseline": {"path": "ci/accepted-warnings.toml"},
  "logging": {"format": "json", "level": "debug"}
}`
	if err := os.WriteFile(filepath.Join(tirDir, "config.json"), []byte(configJSON), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := LoadConfig(tempDir)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}

	if cfg.AppRoot != "frontend/app" {
		t.Errorf("AppRoot = %q, want %q", cfg.AppRoot, "frontend/app")
	}
	if cfg.Resolver.StaticHelpers {
		t.Error("StaticHelpers should be false from file")
	}
	if cfg.Resolver.PodModulePrefix != "frontend/app/pods" {
		t.Errorf("PodModulePrefix = %q", cfg.Resolver.PodModulePrefix)
	}
	if len(cfg.Rules.Paths) != 1 || cfg.Rules.Paths[0] != "rules/addons" {
		t.Errorf("Rules.Paths = %v", cfg.Rules.Paths)
	}
	if cfg.Baseline.Path != "ci/accepted-warnings.toml" {
		t.Errorf("Baseline.Path = %q", cfg.Baseline.Path)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Errorf("Logging = %+v", cfg.Logging)
	}

	// Unset sections keep their defaults
	if cfg.Index.Path != ".tir/index.db" {
		t.Errorf("Index.Path = %q, want default", cfg.Index.Path)
	}
	if !cfg.Scan.UseGitignore {
		t.Error("Scan.UseGitignore should keep its default")
	}

	// The inline pack survives as a raw map for the rules loader
	comps, ok := cfg.Rules.Inline["components"].(map[string]interface{})
	if !ok {
		t.Fatalf("Rules.Inline[components] = %T", cfg.Rules.Inline["components"])
	}
	if _, ok := comps["pick-list"]; !ok {
		t.Error("inline pack should keep the pick-list entry")
	}
}

func TestConfig_SaveRoundTrip(t *testing.T) {
	tempDir := t.TempDir()

	cfg := DefaultConfig()
	cfg.AppRoot = "web/app"
	cfg.Resolver.StaticHelpers = false

	if err := cfg.Save(tempDir); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded, err := LoadConfig(tempDir)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if loaded.AppRoot != "web/app" {
		t.Errorf("AppRoot = %q, want %q", loaded.AppRoot, "web/app")
	}
	if loaded.Resolver.StaticHelpers {
		t.Error("StaticHelpers should stay false after round trip")
	}
	if loaded.Resolver.StaticComponents != cfg.Resolver.StaticComponents {
		t.Error("StaticComponents should survive the round trip")
	}
}
