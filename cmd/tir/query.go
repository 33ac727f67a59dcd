package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"tir/internal/config"
	"tir/internal/errors"
	"tir/internal/logging"
	"tir/internal/storage"
)

var (
	queryUses   string
	queryFormat string
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Query the dependency index",
	Long: `Answer reverse-dependency questions from the index built by tir index.

The --uses name may be spelled as a runtime name, a canonical dashed
name, or a module path:
  tir query --uses component:pick-list
  tir query --uses pick-list
  tir query --uses app/components/pick-list.js`,
	Run: runQuery,
}

func init() {
	queryCmd.Flags().StringVar(&queryUses, "uses", "", "List templates depending on a component, helper, or module")
	queryCmd.Flags().StringVar(&queryFormat, "format", "human", "Output format (json, human)")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) {
	if queryUses == "" {
		fmt.Fprintln(os.Stderr, "Error: --uses is required")
		_ = cmd.Usage()
		os.Exit(1)
	}

	projectRoot := mustGetProjectRoot()
	cfg := mustLoadConfig(projectRoot)
	logger := newLogger(cfg)

	uses, err := queryRun(projectRoot, cfg, queryUses, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	out, err := formatUses(queryUses, uses, OutputFormat(queryFormat))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Print(out)
}

// queryRun opens the index and returns every dependency record
// matching name.
func queryRun(projectRoot string, cfg *config.Config, name string, logger *logging.Logger) ([]storage.TemplateUse, error) {
	dbPath := filepath.Join(projectRoot, filepath.FromSlash(cfg.Index.Path))
	if _, err := os.Stat(dbPath); err != nil {
		return nil, errors.New(errors.IndexUnavailable,
			fmt.Sprintf("no dependency index at %s", cfg.Index.Path), err)
	}

	db, err := storage.Open(dbPath, logger)
	if err != nil {
		return nil, errors.New(errors.IndexUnavailable,
			fmt.Sprintf("cannot open dependency index at %s", cfg.Index.Path), err)
	}
	defer func() { _ = db.Close() }()

	store := storage.NewIndexStore(db)

	run, err := store.Run()
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, errors.New(errors.IndexUnavailable, "the dependency index is empty", nil)
	}
	if run.StaticComponents != cfg.Resolver.StaticComponents || run.StaticHelpers != cfg.Resolver.StaticHelpers {
		return nil, errors.New(errors.IndexStale,
			"the index was built under different resolver policies", nil)
	}

	return store.TemplatesUsing(name)
}
