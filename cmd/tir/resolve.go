package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"tir/internal/baseline"
	"tir/internal/config"
	"tir/internal/errors"
	"tir/internal/logging"
	"tir/internal/output"
	"tir/internal/resolve"
	"tir/internal/scan"
)

var (
	resolveFormat        string
	resolveRewrite       bool
	resolveWriteBaseline bool
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [template...]",
	Short: "Resolve template references to module dependencies",
	Long: `Resolve every component and helper reference in the given templates to
concrete module dependencies, without executing a single template.

With no arguments the whole app tree is resolved. The command exits
nonzero when any template produced an error-severity diagnostic.

Examples:
  tir resolve                            # Resolve the whole tree
  tir resolve app/templates/index.hbs    # Resolve one template
  tir resolve --format json              # Machine-readable report
  tir resolve --rewrite                  # Include rewrite bindings
  tir resolve --write-baseline           # Accept the current warnings`,
	Run: runResolve,
}

func init() {
	resolveCmd.Flags().StringVar(&resolveFormat, "format", "human", "Output format (json, human)")
	resolveCmd.Flags().BoolVar(&resolveRewrite, "rewrite", false, "Include rewrite bindings in the report")
	resolveCmd.Flags().BoolVar(&resolveWriteBaseline, "write-baseline", false, "Record the current warnings as accepted")
	rootCmd.AddCommand(resolveCmd)
}

// resolveOptions control one resolution run.
type resolveOptions struct {
	includeRewrites bool
	writeBaseline   bool
}

func runResolve(cmd *cobra.Command, args []string) {
	projectRoot := mustGetProjectRoot()
	cfg := mustLoadConfig(projectRoot)
	logger := newLogger(cfg)

	rep, err := resolveRun(projectRoot, cfg, args, resolveOptions{
		includeRewrites: resolveRewrite,
		writeBaseline:   resolveWriteBaseline,
	}, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	out, err := formatReport(rep, OutputFormat(resolveFormat))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Print(out)

	if rep.Summary.Failed > 0 {
		os.Exit(1)
	}
}

// resolveRun resolves the requested templates (or the whole tree) and
// assembles the run report.
func resolveRun(projectRoot string, cfg *config.Config, args []string, opts resolveOptions, logger *logging.Logger) (*output.Report, error) {
	start := time.Now()

	eng, loc, err := newEngine(projectRoot, cfg, logger)
	if err != nil {
		return nil, err
	}

	fullTree := len(args) == 0
	var templates []string
	if fullTree {
		if err := checkAppRoot(projectRoot, cfg); err != nil {
			return nil, err
		}
		templates, err = scan.NewScanner(cfg, logger).Templates(projectRoot, loc.TemplateRoots())
	} else {
		templates, err = canonicalizeArgs(projectRoot, args)
	}
	if err != nil {
		return nil, err
	}

	results, err := resolveTemplates(eng, projectRoot, templates)
	if err != nil {
		return nil, err
	}

	if !opts.includeRewrites {
		for _, tr := range results {
			tr.Rewrites = nil
		}
	}

	var suppressed int
	if opts.writeBaseline {
		suppressed, err = writeBaseline(projectRoot, cfg, results, logger)
	} else {
		suppressed, err = applyBaseline(projectRoot, cfg, results, fullTree, logger)
	}
	if err != nil {
		return nil, err
	}

	rep := output.BuildReport(newRunInfo(projectRoot, start), policiesFromConfig(cfg), results)
	rep.Summary.Suppressed = suppressed
	return rep, nil
}

// writeBaseline records every current warning as accepted, then applies
// the fresh baseline so the returned report reflects the accepted
// state.
func writeBaseline(projectRoot string, cfg *config.Config, results []*resolve.TemplateResult, logger *logging.Logger) (int, error) {
	if cfg.Baseline.Path == "" {
		return 0, errors.New(errors.BaselineInvalid,
			"baseline.path is empty, nowhere to write the baseline", nil)
	}

	b := baseline.New(results)
	path := filepath.Join(projectRoot, filepath.FromSlash(cfg.Baseline.Path))
	if err := b.Save(path); err != nil {
		return 0, err
	}
	logger.Info("Baseline written", map[string]interface{}{
		"path":    cfg.Baseline.Path,
		"entries": len(b.Entries),
	})

	return baseline.Apply(b, results), nil
}
