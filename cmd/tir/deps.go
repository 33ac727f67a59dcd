package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tir/internal/config"
	"tir/internal/logging"
	"tir/internal/resolve"
)

var depsFormat string

var depsCmd = &cobra.Command{
	Use:   "deps <template>",
	Short: "List the resolved dependencies of one template",
	Long: `Resolve one template and print its dependency records, sorted by
runtime name. Diagnostics go to stderr; the command exits nonzero when
the template produced an error-severity diagnostic.

Examples:
  tir deps app/templates/index.hbs
  tir deps app/templates/index.hbs --format json`,
	Args: cobra.ExactArgs(1),
	Run:  runDeps,
}

func init() {
	depsCmd.Flags().StringVar(&depsFormat, "format", "human", "Output format (json, human)")
	rootCmd.AddCommand(depsCmd)
}

func runDeps(cmd *cobra.Command, args []string) {
	projectRoot := mustGetProjectRoot()
	cfg := mustLoadConfig(projectRoot)
	logger := newLogger(cfg)

	result, err := depsRun(projectRoot, cfg, args[0], logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	for _, d := range result.Diagnostics {
		fmt.Fprintln(os.Stderr, formatDiagnostic(d))
	}

	out, err := formatDeps(result, OutputFormat(depsFormat))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Print(out)

	if result.Failed() {
		os.Exit(1)
	}
}

// depsRun resolves a single template given as a CLI argument.
func depsRun(projectRoot string, cfg *config.Config, arg string, logger *logging.Logger) (*resolve.TemplateResult, error) {
	eng, _, err := newEngine(projectRoot, cfg, logger)
	if err != nil {
		return nil, err
	}

	templates, err := canonicalizeArgs(projectRoot, []string{arg})
	if err != nil {
		return nil, err
	}

	results, err := resolveTemplates(eng, projectRoot, templates)
	if err != nil {
		return nil, err
	}
	return results[0], nil
}
