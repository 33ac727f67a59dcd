package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"tir/internal/config"
	"tir/internal/logging"
	"tir/internal/scan"
	"tir/internal/storage"
	"tir/internal/version"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build the dependency index",
	Long: `Resolve the whole app tree and store every template's dependency
records in the index database. The index is rebuilt from scratch on
every run; it is an analysis artifact, not a build cache.

Reverse lookups run against the index:
  tir query --uses component:pick-list

Examples:
  tir index`,
	Run: runIndexBuild,
}

func init() {
	rootCmd.AddCommand(indexCmd)
}

func runIndexBuild(cmd *cobra.Command, args []string) {
	projectRoot := mustGetProjectRoot()
	cfg := mustLoadConfig(projectRoot)
	logger := newLogger(cfg)

	templates, dependencies, err := indexRun(projectRoot, cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Indexed %d templates, %d dependencies\n", templates, dependencies)
	fmt.Printf("Index: %s\n", cfg.Index.Path)
}

// indexRun resolves the whole tree and swaps the index contents for
// this run. It returns the stored template and dependency counts.
func indexRun(projectRoot string, cfg *config.Config, logger *logging.Logger) (int, int, error) {
	start := time.Now()

	if err := checkAppRoot(projectRoot, cfg); err != nil {
		return 0, 0, err
	}

	eng, loc, err := newEngine(projectRoot, cfg, logger)
	if err != nil {
		return 0, 0, err
	}

	templates, err := scan.NewScanner(cfg, logger).Templates(projectRoot, loc.TemplateRoots())
	if err != nil {
		return 0, 0, err
	}

	results, err := resolveTemplates(eng, projectRoot, templates)
	if err != nil {
		return 0, 0, err
	}

	// Index contents match what resolve reports: accepted warnings are
	// already removed.
	if _, err := applyBaseline(projectRoot, cfg, results, true, logger); err != nil {
		return 0, 0, err
	}

	db, err := storage.Open(filepath.Join(projectRoot, filepath.FromSlash(cfg.Index.Path)), logger)
	if err != nil {
		return 0, 0, err
	}
	defer func() { _ = db.Close() }()

	store := storage.NewIndexStore(db)
	run := storage.IndexRun{
		ID:               uuid.NewString(),
		GeneratedAt:      start.UTC(),
		Root:             filepath.Base(projectRoot),
		ToolVersion:      version.Version,
		StaticComponents: cfg.Resolver.StaticComponents,
		StaticHelpers:    cfg.Resolver.StaticHelpers,
	}
	if err := store.Replace(run, results); err != nil {
		return 0, 0, err
	}

	templateCount, dependencyCount, err := store.Counts()
	if err != nil {
		return 0, 0, err
	}

	logger.Info("Index rebuilt", map[string]interface{}{
		"templates":    templateCount,
		"dependencies": dependencyCount,
		"durationMs":   time.Since(start).Milliseconds(),
	})
	return templateCount, dependencyCount, nil
}
