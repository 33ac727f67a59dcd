package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"tir/internal/config"
	"tir/internal/output"
)

var configFormat string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage TIR configuration",
	Long:  "View and manage TIR configuration stored in .tir/config.json",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a starter configuration",
	Long: `Write the default configuration to .tir/config.json. Refuses to
overwrite an existing file.`,
	Run: runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the resolved configuration",
	Long: `Display the configuration this project resolves to, with defaults
filled in.

Examples:
  tir config show                # Annotated listing
  tir config show --format json  # Raw JSON`,
	Run: runConfigShow,
}

func init() {
	configShowCmd.Flags().StringVar(&configFormat, "format", "human", "Output format (json, human)")
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) {
	projectRoot := mustGetProjectRoot()

	configPath := filepath.Join(projectRoot, ".tir", "config.json")
	if _, err := os.Stat(configPath); err == nil {
		fmt.Fprintf(os.Stderr, "Error: %s already exists\n", configPath)
		os.Exit(1)
	}

	if err := config.DefaultConfig().Save(projectRoot); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing config: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Created .tir/config.json")
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Println("  tir resolve    # Resolve the whole app tree")
	fmt.Println("  tir index      # Build the dependency index")
}

func runConfigShow(cmd *cobra.Command, args []string) {
	projectRoot := mustGetProjectRoot()
	cfg := mustLoadConfig(projectRoot)

	if configFormat == "json" {
		data, err := output.DeterministicEncodeIndented(cfg, "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error formatting config: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(data))
		return
	}

	printConfigHuman(cfg)
}

func printConfigHuman(cfg *config.Config) {
	defaults := config.DefaultConfig()

	fmt.Println("TIR Configuration")
	fmt.Println(strings.Repeat("=", 50))
	fmt.Println()

	printConfigValue("version", cfg.Version, defaults.Version)
	printConfigValue("appRoot", cfg.AppRoot, defaults.AppRoot)

	fmt.Println("\nresolver:")
	printConfigValue("  staticComponents", cfg.Resolver.StaticComponents, defaults.Resolver.StaticComponents)
	printConfigValue("  staticHelpers", cfg.Resolver.StaticHelpers, defaults.Resolver.StaticHelpers)
	printConfigValue("  podModulePrefix", cfg.Resolver.PodModulePrefix, defaults.Resolver.PodModulePrefix)
	printConfigValue("  scriptExtensions", cfg.Resolver.ScriptExtensions, defaults.Resolver.ScriptExtensions)

	fmt.Println("\nrules:")
	printConfigValue("  paths", cfg.Rules.Paths, defaults.Rules.Paths)
	printConfigValue("  inline", len(cfg.Rules.Inline), 0)

	fmt.Println("\nscan:")
	printConfigValue("  ignore", cfg.Scan.Ignore, defaults.Scan.Ignore)
	printConfigValue("  useGitignore", cfg.Scan.UseGitignore, defaults.Scan.UseGitignore)
	printConfigValue("  maxFileSizeBytes", cfg.Scan.MaxFileSizeBytes, defaults.Scan.MaxFileSizeBytes)

	fmt.Println("\nindex:")
	printConfigValue("  path", cfg.Index.Path, defaults.Index.Path)

	fmt.Println("\nbaseline:")
	printConfigValue("  path", cfg.Baseline.Path, defaults.Baseline.Path)

	fmt.Println("\nexport:")
	printConfigValue("  compress", cfg.Export.Compress, defaults.Export.Compress)
	printConfigValue("  level", cfg.Export.Level, defaults.Export.Level)

	fmt.Println("\nlogging:")
	printConfigValue("  format", cfg.Logging.Format, defaults.Logging.Format)
	printConfigValue("  level", cfg.Logging.Level, defaults.Logging.Level)

	fmt.Println()
	fmt.Println("Use 'tir config show --format json' for the raw configuration")
}

func printConfigValue(name string, value, defaultValue interface{}) {
	modified := ""
	if fmt.Sprintf("%v", value) != fmt.Sprintf("%v", defaultValue) {
		modified = fmt.Sprintf(" (default: %v)", defaultValue)
	}
	fmt.Printf("%s: %v%s\n", name, value, modified)
}
