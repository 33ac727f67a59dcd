package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"tir/internal/baseline"
	"tir/internal/config"
	"tir/internal/errors"
	"tir/internal/locate"
	"tir/internal/logging"
	"tir/internal/output"
	"tir/internal/paths"
	"tir/internal/resolve"
	"tir/internal/rules"
	"tir/internal/version"
)

// getProjectRoot returns the project root directory.
func getProjectRoot() (string, error) {
	return os.Getwd()
}

// mustGetProjectRoot returns the project root or exits on error.
func mustGetProjectRoot() string {
	projectRoot, err := getProjectRoot()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return projectRoot
}

// mustLoadConfig loads and validates the project configuration or
// exits on error.
func mustLoadConfig(projectRoot string) *config.Config {
	cfg, err := config.LoadConfig(projectRoot)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// newLogger builds the CLI logger on the package's stderr default.
func newLogger(cfg *config.Config) *logging.Logger {
	return logging.NewLogger(logging.Config{
		Format: logging.Format(resolveLogFormat(cfg)),
		Level:  logging.LogLevel(resolveLogLevel(cfg)),
	})
}

// newLocator builds the module locator for the configured layout.
func newLocator(projectRoot string, cfg *config.Config) *locate.Locator {
	return locate.New(locate.NewFSFinder(projectRoot), locate.Options{
		SourceRoot:       cfg.AppRoot,
		PodPrefix:        cfg.Resolver.PodModulePrefix,
		ScriptExtensions: cfg.Resolver.ScriptExtensions,
	})
}

// loadRuleTable loads every configured rule pack plus the inline pack.
// Configured pack locations that do not exist are skipped, so the
// default paths work in projects that carry no packs.
func loadRuleTable(projectRoot string, cfg *config.Config) (*rules.Table, error) {
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

	packs, err := rules.LoadAll(files)
	if err != nil {
		return nil, err
	}

	if len(cfg.Rules.Inline) > 0 {
		pack, err := rules.FromRaw("config:rules.inline", cfg.Rules.Inline)
		if err != nil {
			return nil, errors.New(errors.RulePackInvalid, "invalid inline rule pack", err)
		}
		packs = append(packs, pack)
	}

	return rules.NewTable(packs...), nil
}

// newEngine wires the resolution engine for one project.
func newEngine(projectRoot string, cfg *config.Config, logger *logging.Logger) (*resolve.Engine, *locate.Locator, error) {
	table, err := loadRuleTable(projectRoot, cfg)
	if err != nil {
		return nil, nil, err
	}
	loc := newLocator(projectRoot, cfg)
	eng := resolve.New(table, loc, resolve.Options{
		StaticComponents: cfg.Resolver.StaticComponents,
		StaticHelpers:    cfg.Resolver.StaticHelpers,
	}, logger)
	return eng, loc, nil
}

// checkAppRoot verifies the configured app root exists under the
// project.
func checkAppRoot(projectRoot string, cfg *config.Config) error {
	abs := filepath.Join(projectRoot, filepath.FromSlash(cfg.AppRoot))
	if info, err := os.Stat(abs); err != nil || !info.IsDir() {
		return errors.New(errors.AppRootMissing,
			fmt.Sprintf("app root %q not found under %s", cfg.AppRoot, projectRoot), nil)
	}
	return nil
}

// canonicalizeArgs turns CLI template arguments into project-relative
// forward-slash paths.
func canonicalizeArgs(projectRoot string, args []string) ([]string, error) {
	out := make([]string, 0, len(args))
	for _, arg := range args {
		abs := arg
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(projectRoot, filepath.FromSlash(arg))
		}
		if !paths.IsWithinProject(abs, projectRoot) {
			return nil, fmt.Errorf("template %s is outside the project", arg)
		}
		rel, err := paths.CanonicalizePath(abs, projectRoot)
		if err != nil {
			return nil, err
		}
		out = append(out, rel)
	}
	return out, nil
}

// resolveTemplates reads and resolves the given project-relative
// template paths in order.
func resolveTemplates(eng *resolve.Engine, projectRoot string, templates []string) ([]*resolve.TemplateResult, error) {
	results := make([]*resolve.TemplateResult, 0, len(templates))
	for _, rel := range templates {
		data, err := os.ReadFile(paths.JoinProjectPath(projectRoot, rel))
		if err != nil {
			return nil, errors.New(errors.TemplateUnreadable,
				fmt.Sprintf("cannot read template %s", rel), err)
		}
		results = append(results, eng.ResolveSource(rel, string(data)))
	}
	return results, nil
}

// applyBaseline loads the configured baseline and removes the accepted
// warnings from results, returning the suppressed count. Stale entries
// are only reported on full-tree runs; a partial run cannot tell a
// stale entry from one whose template was not resolved.
func applyBaseline(projectRoot string, cfg *config.Config, results []*resolve.TemplateResult, fullTree bool, logger *logging.Logger) (int, error) {
	if cfg.Baseline.Path == "" {
		return 0, nil
	}

	b, err := baseline.Load(filepath.Join(projectRoot, filepath.FromSlash(cfg.Baseline.Path)))
	if err != nil {
		return 0, errors.New(errors.BaselineInvalid,
			fmt.Sprintf("cannot load baseline %s", cfg.Baseline.Path), err)
	}

	if fullTree {
		for _, e := range baseline.Stale(b, results) {
			logger.Warn("Baseline entry no longer matches any warning", map[string]interface{}{
				"path": e.Path,
				"code": e.Code,
			})
		}
	}

	return baseline.Apply(b, results), nil
}

// newRunInfo stamps one resolution run. Root records the project
// directory name, not its absolute path, so reports travel between
// machines.
func newRunInfo(projectRoot string, start time.Time) output.RunInfo {
	return output.RunInfo{
		ID:          uuid.NewString(),
		GeneratedAt: start.UTC().Format(time.RFC3339),
		DurationMs:  output.RoundFloat(float64(time.Since(start)) / float64(time.Millisecond)),
		Root:        filepath.Base(projectRoot),
		Version:     version.Version,
	}
}

// policiesFromConfig maps the resolver configuration onto report
// policies.
func policiesFromConfig(cfg *config.Config) output.Policies {
	return output.Policies{
		StaticComponents: cfg.Resolver.StaticComponents,
		StaticHelpers:    cfg.Resolver.StaticHelpers,
	}
}
