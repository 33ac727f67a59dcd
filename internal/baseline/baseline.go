// Package baseline manages the accepted-warnings file. Adopting static
// resolution on a grown app surfaces warnings in templates nobody is
// touching; recording them once lets subsequent runs report only new
// ones while the recorded set is burned down over time.
package baseline

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/BurntSushi/toml"

	"tir/internal/resolve"
)

// Baseline is the accepted-warnings set stored in baseline.toml.
type Baseline struct {
	// GeneratedAt is when the baseline was last written.
	GeneratedAt time.Time `toml:"generated_at"`

	// Entries are the accepted warnings.
	Entries []Entry `toml:"entries"`
}

// Entry identifies one accepted warning. Line and column are left out
// on purpose: edits elsewhere in a template must not invalidate the
// acceptance, so entries match on the template, the code and the exact
// message spelling.
type Entry struct {
	Path    string `toml:"path"`
	Code    string `toml:"code"`
	Message string `toml:"message"`
}

type entryKey struct {
	path    string
	code    string
	message string
}

func (e Entry) key() entryKey {
	return entryKey{path: e.Path, code: e.Code, message: e.Message}
}

// New builds a baseline accepting every warning currently present in
// the results. Errors are never accepted; the policies exist to make
// them fail the build.
func New(results []*resolve.TemplateResult) *Baseline {
	seen := make(map[entryKey]bool)
	b := &Baseline{GeneratedAt: time.Now().UTC()}
	for _, tr := range results {
		for _, d := range tr.Diagnostics {
			if d.Severity != resolve.SeverityWarning {
				continue
			}
			e := Entry{Path: d.Path, Code: d.Code, Message: d.Message}
			if seen[e.key()] {
				continue
			}
			seen[e.key()] = true
			b.Entries = append(b.Entries, e)
		}
	}
	sort.Slice(b.Entries, func(i, j int) bool {
		a, c := b.Entries[i], b.Entries[j]
		if a.Path != c.Path {
			return a.Path < c.Path
		}
		if a.Code != c.Code {
			return a.Code < c.Code
		}
		return a.Message < c.Message
	})
	return b
}

// Load reads a baseline file. A missing file is an empty baseline so a
// configured default path works before the first write.
func Load(path string) (*Baseline, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &Baseline{}, nil
	}

	var b Baseline
	if _, err := toml.DecodeFile(path, &b); err != nil {
		return nil, fmt.Errorf("failed to parse baseline: %w", err)
	}
	return &b, nil
}

// Save writes the baseline to disk, creating the parent directory if
// needed.
func (b *Baseline) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create baseline directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create baseline file: %w", err)
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(b); err != nil {
		return fmt.Errorf("failed to encode baseline: %w", err)
	}

	return nil
}

// Apply removes accepted warnings from the results in place and
// reports how many diagnostics were suppressed. Errors always survive,
// matching entry or not. A nil baseline suppresses nothing.
func Apply(b *Baseline, results []*resolve.TemplateResult) int {
	if b == nil || len(b.Entries) == 0 {
		return 0
	}

	accepted := make(map[entryKey]bool, len(b.Entries))
	for _, e := range b.Entries {
		accepted[e.key()] = true
	}

	suppressed := 0
	for _, tr := range results {
		kept := tr.Diagnostics[:0]
		for _, d := range tr.Diagnostics {
			key := entryKey{path: d.Path, code: d.Code, message: d.Message}
			if d.Severity == resolve.SeverityWarning && accepted[key] {
				suppressed++
				continue
			}
			kept = append(kept, d)
		}
		tr.Diagnostics = kept
	}
	return suppressed
}

// Stale returns the entries that matched nothing in the results. The
// lint output uses these to point at acceptances that can be deleted.
// Call it before Apply; Apply removes the diagnostics it matches on.
func Stale(b *Baseline, results []*resolve.TemplateResult) []Entry {
	if b == nil {
		return nil
	}

	present := make(map[entryKey]bool)
	for _, tr := range results {
		for _, d := range tr.Diagnostics {
			present[entryKey{path: d.Path, code: d.Code, message: d.Message}] = true
		}
	}

	var stale []Entry
	for _, e := range b.Entries {
		if !present[e.key()] {
			stale = append(stale, e)
		}
	}
	return stale
}
