package main

import (
	"os"

	"tir/internal/config"
	"tir/internal/version"

	"github.com/spf13/cobra"
)

var (
	// logLevelFlag is the CLI --log-level flag value
	logLevelFlag string
	// logFormatFlag is the CLI --log-format flag value
	logFormatFlag string
)

var rootCmd = &cobra.Command{
	Use:   "tir",
	Short: "TIR - Template Invocation Resolver",
	Long: `TIR resolves every component and helper reference in an app's templates
to concrete module dependencies at build time, without executing a single
template. References that cannot be pinned down under the active policies
become diagnostics instead of runtime surprises.`,
	Version: version.Version,
}

func init() {
	rootCmd.SetVersionTemplate("TIR version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "",
		"Log level: debug, info, warn, or error (default: info)")
	rootCmd.PersistentFlags().StringVar(&logFormatFlag, "log-format", "",
		"Log format: human or json (default: human)")
}

// resolveLogSetting determines an effective logging setting.
// Precedence: CLI flag > TIR_* env var > config.json > default
func resolveLogSetting(flagValue, envVar, configValue, fallback string) string {
	// 1. CLI flag (highest priority)
	if flagValue != "" {
		return flagValue
	}

	// 2. Environment variable
	if env := os.Getenv(envVar); env != "" {
		return env
	}

	// 3. Config file
	if configValue != "" {
		return configValue
	}

	// 4. Default
	return fallback
}

// resolveLogLevel returns the effective log level for this invocation.
func resolveLogLevel(cfg *config.Config) string {
	return resolveLogSetting(logLevelFlag, "TIR_LOG_LEVEL", cfg.Logging.Level, "info")
}

// resolveLogFormat returns the effective log format for this invocation.
func resolveLogFormat(cfg *config.Config) string {
	return resolveLogSetting(logFormatFlag, "TIR_LOG_FORMAT", cfg.Logging.Format, "human")
}
