// Package scan discovers the template files a resolution run covers.
package scan

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	"tir/internal/config"
	"tir/internal/logging"
)

// Scanner walks the app tree for templates, honoring the configured
// ignore list and the project's .gitignore.
type Scanner struct {
	config *config.Config
	logger *logging.Logger
}

// NewScanner creates a new template scanner.
func NewScanner(cfg *config.Config, logger *logging.Logger) *Scanner {
	return &Scanner{config: cfg, logger: logger}
}

var alwaysSkip = map[string]struct{}{
	".git":         {},
	".hg":          {},
	".svn":         {},
	"node_modules": {},
}

// Templates walks the given project-relative roots and returns every
// template file as a project-relative forward-slash path, sorted and
// de-duplicated. Roots that do not exist are skipped; whether that is
// an error is the caller's call.
func (s *Scanner) Templates(projectRoot string, roots []string) ([]string, error) {
	gi := s.loadGitignore(projectRoot)

	skip := make(map[string]struct{}, len(alwaysSkip)+len(s.config.Scan.Ignore))
	for name := range alwaysSkip {
		skip[name] = struct{}{}
	}
	for _, name := range s.config.Scan.Ignore {
		skip[name] = struct{}{}
	}

	seen := make(map[string]struct{})
	var results []string

	for _, root := range roots {
		abs := filepath.Join(projectRoot, filepath.FromSlash(root))
		if info, err := os.Stat(abs); err != nil || !info.IsDir() {
			s.logger.Debug("Skipping missing scan root", map[string]interface{}{
				"root": root,
			})
			continue
		}

		err := filepath.WalkDir(abs, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return nil // unreadable entries are skipped
			}
			name := d.Name()

			if d.IsDir() {
				if path == abs {
					return nil
				}
				if _, ok := skip[name]; ok || strings.HasPrefix(name, ".") {
					return filepath.SkipDir
				}
				return nil
			}

			if strings.HasPrefix(name, ".") {
				return nil
			}
			if d.Type()&os.ModeSymlink != 0 {
				return nil
			}
			if !strings.HasSuffix(name, ".hbs") {
				return nil
			}

			rel, err := filepath.Rel(projectRoot, path)
			if err != nil {
				return nil
			}
			rel = filepath.ToSlash(rel)

			if gi != nil && gi.MatchesPath(rel) {
				return nil
			}

			if max := s.config.Scan.MaxFileSizeBytes; max > 0 {
				if fi, err := d.Info(); err == nil && fi.Size() > int64(max) {
					s.logger.Warn("Skipping oversized template", map[string]interface{}{
						"path":  rel,
						"bytes": fi.Size(),
					})
					return nil
				}
			}

			if _, dup := seen[rel]; dup {
				return nil
			}
			seen[rel] = struct{}{}
			results = append(results, rel)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Strings(results)

	s.logger.Debug("Template scan completed", map[string]interface{}{
		"roots": roots,
		"count": len(results),
	})
	return results, nil
}

func (s *Scanner) loadGitignore(projectRoot string) *ignore.GitIgnore {
	if !s.config.Scan.UseGitignore {
		return nil
	}
	gi, err := ignore.CompileIgnoreFile(filepath.Join(projectRoot, ".gitignore"))
	if err != nil {
		return nil
	}
	return gi
}
