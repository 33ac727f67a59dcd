// Package testutil provides shared test helpers: fixture project
// trees for the resolver to run against, and golden file comparison
// with stable report normalization.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteProject materializes files under a fresh temp directory and
// returns the project root. Keys are project-relative forward-slash
// paths, values are file contents. The directory is removed when the
// test finishes.
func WriteProject(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()
	WriteFiles(t, root, files)
	return root
}

// WriteFiles adds files to an existing project root, creating parent
// directories as needed.
func WriteFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()

	for rel, content := range files {
		abs := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
			t.Fatalf("Failed to create directory for %s: %v", rel, err)
		}
		if err := os.WriteFile(abs, []byte(content), 0o644); err != nil {
			t.Fatalf("Failed to write fixture file %s: %v", rel, err)
		}
	}
}

// BasicProject returns the fixture tree most command tests start from:
// one route template invoking a component and a helper, the component
// backed by a flat script with a co-located template, and the helper
// as a flat script.
func BasicProject() map[string]string {
	return map[string]string{
		"app/templates/index.hbs":    "<NavBar />\n{{format-date this.updatedAt}}\n",
		"app/components/nav-bar.js":  "export default class NavBar {}\n",
		"app/components/nav-bar.hbs": "<nav>{{yield}}</nav>\n",
		"app/helpers/format-date.js": "export default function formatDate(value) { return value; }\n",
	}
}
