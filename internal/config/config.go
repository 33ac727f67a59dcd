package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config is the complete TIR configuration (v1 schema), loaded from
// .tir/config.json at the project root.
type Config struct {
	Version int `json:"version" mapstructure:"version"`

	// AppRoot is the project-relative directory holding the app
	// source tree (components, helpers, templates).
	AppRoot string `json:"appRoot" mapstructure:"appRoot"`

	Resolver ResolverConfig `json:"resolver" mapstructure:"resolver"`
	Rules    RulesConfig    `json:"rules" mapstructure:"rules"`
	Scan     ScanConfig     `json:"scan" mapstructure:"scan"`
	Index    IndexConfig    `json:"index" mapstructure:"index"`
	Baseline BaselineConfig `json:"baseline" mapstructure:"baseline"`
	Export   ExportConfig   `json:"export" mapstructure:"export"`
	Logging  LoggingConfig  `json:"logging" mapstructure:"logging"`
}

// ResolverConfig contains the resolution policies and addressing
// options.
type ResolverConfig struct {
	// StaticComponents requires every component reference to resolve
	// at build time.
	StaticComponents bool `json:"staticComponents" mapstructure:"staticComponents"`
	// StaticHelpers requires the same for helpers.
	StaticHelpers bool `json:"staticHelpers" mapstructure:"staticHelpers"`
	// PodModulePrefix enables the pod layout under the given
	// project-relative directory. Empty disables it.
	PodModulePrefix string `json:"podModulePrefix" mapstructure:"podModulePrefix"`
	// ScriptExtensions are tried in order when probing for script
	// modules.
	ScriptExtensions []string `json:"scriptExtensions" mapstructure:"scriptExtensions"`
}

// RulesConfig contains rule pack locations plus an optional inline
// pack.
type RulesConfig struct {
	// Paths lists rule pack files or directories to load, in order.
	// Later packs win on conflicting names.
	Paths []string `json:"paths" mapstructure:"paths"`
	// Inline is an inline rule pack with the same schema as a rule
	// file. It loads after all path packs.
	Inline map[string]interface{} `json:"inline" mapstructure:"inline"`
}

// ScanConfig contains template discovery configuration.
type ScanConfig struct {
	Ignore           []string `json:"ignore" mapstructure:"ignore"`
	UseGitignore     bool     `json:"useGitignore" mapstructure:"useGitignore"`
	MaxFileSizeBytes int      `json:"maxFileSizeBytes" mapstructure:"maxFileSizeBytes"`
}

// IndexConfig contains dependency index storage configuration.
type IndexConfig struct {
	Path string `json:"path" mapstructure:"path"`
}

// BaselineConfig points at the accepted-warnings baseline. Empty
// disables baselining; a configured path that does not exist yet
// behaves as an empty baseline.
type BaselineConfig struct {
	Path string `json:"path" mapstructure:"path"`
}

// ExportConfig contains report export configuration.
type ExportConfig struct {
	Compress bool `json:"compress" mapstructure:"compress"`
	// Level is a zstd compression level (1-19); 0 means the default.
	Level int `json:"level" mapstructure:"level"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Format string `json:"format" mapstructure:"format"`
	Level  string `json:"level" mapstructure:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		AppRoot: "app",
		Resolver: ResolverConfig{
			StaticComponents: true,
			StaticHelpers:    true,
			PodModulePrefix:  "",
			ScriptExtensions: []string{".js", ".ts"},
		},
		Rules: RulesConfig{
			Paths: []string{".tir/rules"},
		},
		Scan: ScanConfig{
			Ignore:           []string{"node_modules", "dist", "tmp", "vendor"},
			UseGitignore:     true,
			MaxFileSizeBytes: 1000000,
		},
		Index: IndexConfig{
			Path: ".tir/index.db",
		},
		Baseline: BaselineConfig{
			Path: ".tir/baseline.toml",
		},
		Export: ExportConfig{
			Compress: true,
			Level:    0,
		},
		Logging: LoggingConfig{
			Format: "human",
			Level:  "info",
		},
	}
}

// LoadConfig loads configuration from .tir/config.json under the
// project root. A missing file yields the defaults.
func LoadConfig(projectRoot string) (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("version", defaults.Version)
	v.SetDefault("appRoot", defaults.AppRoot)
	v.SetDefault("resolver.staticComponents", defaults.Resolver.StaticComponents)
	v.SetDefault("resolver.staticHelpers", defaults.Resolver.StaticHelpers)
	v.SetDefault("resolver.scriptExtensions", defaults.Resolver.ScriptExtensions)
	v.SetDefault("rules.paths", defaults.Rules.Paths)
	v.SetDefault("scan.ignore", defaults.Scan.Ignore)
	v.SetDefault("scan.useGitignore", defaults.Scan.UseGitignore)
	v.SetDefault("scan.maxFileSizeBytes", defaults.Scan.MaxFileSizeBytes)
	v.SetDefault("index.path", defaults.Index.Path)
	v.SetDefault("baseline.path", defaults.Baseline.Path)
	v.SetDefault("export.compress", defaults.Export.Compress)
	v.SetDefault("logging.format", defaults.Logging.Format)
	v.SetDefault("logging.level", defaults.Logging.Level)

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(projectRoot, ".tir"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the configuration to .tir/config.json under the project
// root, creating the directory if needed.
func (c *Config) Save(projectRoot string) error {
	configPath := filepath.Join(projectRoot, ".tir", "config.json")

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return err
	}
	return os.WriteFile(configPath, data, 0644)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Version != 1 {
		return &ConfigError{Field: "version", Message: "unsupported config version"}
	}
	if c.AppRoot == "" {
		return &ConfigError{Field: "appRoot", Message: "must not be empty"}
	}
	switch c.Logging.Format {
	case "", "human", "json":
	default:
		return &ConfigError{Field: "logging.format", Message: "must be \"human\" or \"json\""}
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return &ConfigError{Field: "logging.level", Message: "must be debug, info, warn or error"}
	}
	if c.Export.Level < 0 || c.Export.Level > 19 {
		return &ConfigError{Field: "export.level", Message: "must be between 0 and 19"}
	}
	if c.Scan.MaxFileSizeBytes < 0 {
		return &ConfigError{Field: "scan.maxFileSizeBytes", Message: "must not be negative"}
	}
	return nil
}

// ConfigError represents a configuration error.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
