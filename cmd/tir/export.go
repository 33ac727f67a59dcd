package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"tir/internal/config"
	"tir/internal/export"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the full-tree dependency report",
	Long: `Resolve the whole app tree and write the complete report, including
rewrite bindings, to a file. A .zst extension selects zstd compression;
without --out the config's export settings pick the default name.

Examples:
  tir export                      # deps.json.zst (or deps.json)
  tir export --out report.json
  tir export --out report.json.zst`,
	Run: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "", "Output file (default deps.json, or deps.json.zst when export.compress is set)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) {
	projectRoot := mustGetProjectRoot()
	cfg := mustLoadConfig(projectRoot)
	logger := newLogger(cfg)

	rep, err := resolveRun(projectRoot, cfg, nil, resolveOptions{includeRewrites: true}, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	out := exportOut
	if out == "" {
		out = defaultExportName(cfg)
	}

	exporter := export.NewExporter(cfg.Export.Level, logger)
	if err := exporter.WriteReport(rep, filepath.Join(projectRoot, filepath.FromSlash(out))); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Report written: %s\n", out)
	fmt.Printf("Templates: %d, Dependencies: %d\n", rep.Summary.Templates, len(rep.Dependencies))
	if rep.Summary.Errors > 0 {
		fmt.Printf("Errors: %d (see the report's diagnostics)\n", rep.Summary.Errors)
	}
}

// defaultExportName picks the output filename from the export
// configuration.
func defaultExportName(cfg *config.Config) string {
	if cfg.Export.Compress {
		return "deps.json.zst"
	}
	return "deps.json"
}
