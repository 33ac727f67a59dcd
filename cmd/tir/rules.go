package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"tir/internal/config"
	"tir/internal/names"
	"tir/internal/rules"
)

var rulesFormat string

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Inspect and validate rule packs",
	Long:  "Show the merged capability rules and lint rule pack files before they ship.",
}

var rulesShowCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Show the merged rule table",
	Long: `List every rule in the merged table, or only the entries for one name.
Names may be given in any spelling; they collapse to the dashed form.

Examples:
  tir rules show
  tir rules show PickList
  tir rules show pick-list --format json`,
	Args: cobra.MaximumNArgs(1),
	Run:  runRulesShow,
}

var rulesLintCmd = &cobra.Command{
	Use:   "lint [file...]",
	Short: "Validate rule pack files",
	Long: `Parse each rule pack and report the first offending entry per file.
Without arguments the configured pack locations are linted.

Examples:
  tir rules lint
  tir rules lint .tir/rules/template-rules.toml`,
	Run: runRulesLint,
}

func init() {
	rulesShowCmd.Flags().StringVar(&rulesFormat, "format", "human", "Output format (json, human)")
	rulesCmd.AddCommand(rulesShowCmd)
	rulesCmd.AddCommand(rulesLintCmd)
	rootCmd.AddCommand(rulesCmd)
}

func runRulesShow(cmd *cobra.Command, args []string) {
	projectRoot := mustGetProjectRoot()
	cfg := mustLoadConfig(projectRoot)

	table, err := loadRuleTable(projectRoot, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	entries := table.Entries()
	if len(args) == 1 {
		key := names.Canonical(args[0])
		filtered := entries[:0]
		for _, e := range entries {
			if e.Name == key {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
		if len(entries) == 0 {
			fmt.Fprintf(os.Stderr, "No rule found for %q\n", args[0])
			os.Exit(1)
		}
	}

	out, err := formatRuleEntries(entries, OutputFormat(rulesFormat))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Print(out)
}

func runRulesLint(cmd *cobra.Command, args []string) {
	projectRoot := mustGetProjectRoot()
	cfg := mustLoadConfig(projectRoot)

	files := args
	if len(files) == 0 {
		files = configuredPackFiles(projectRoot, cfg)
		if len(files) == 0 {
			fmt.Println("No rule packs found.")
			return
		}
	}

	failed := false
	for _, f := range files {
		pack, err := rules.LoadFile(f)
		if err != nil {
			failed = true
			fmt.Printf("✗ %s\n  %v\n", f, err)
			continue
		}
		fmt.Printf("✓ %s (%d components)\n", f, len(pack.Components))
	}

	if failed {
		os.Exit(1)
	}
}

// configuredPackFiles lists the pack files the configured locations
// currently hold.
func configuredPackFiles(projectRoot string, cfg *config.Config) []string {
	var files []string
	for _, p := range cfg.Rules.Paths {
		abs := filepath.Join(projectRoot, filepath.FromSlash(p))
		info, err := os.Stat(abs)
		if err != nil {
			continue
		}
		if info.IsDir() {
			files = append(files, rules.Discover(abs)...)
		} else {
			files = append(files, abs)
		}
	}
	return files
}
