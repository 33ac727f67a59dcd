// Package rules holds the capability table consulted during template
// resolution.
//
// A rule pack grants narrowly scoped permissions for names the
// resolver cannot prove safe on its own: which invocations may be
// ignored when no module exists, which arguments carry component
// names, and what a component's block parameters may be trusted for.
// Packs load from TOML, YAML, or JSON files and from inline
// configuration; all spellings of a name collapse to the dashed form
// before lookup.
package rules

import (
	"sort"
	"strings"

	"tir/internal/names"
)

// Disambiguate values force one reading of a content-position
// invocation when both a component and a helper module exist.
const (
	DisambiguateComponent = "component"
	DisambiguateHelper    = "helper"
)

// YieldClaim is the per-slot trust grant of yieldsSafeComponents:
// either the whole block parameter is an invokable component (Self) or
// specific properties of it are.
type YieldClaim struct {
	Self  bool
	Props map[string]bool
}

// YieldAlias is one yieldsArguments entry: the block parameter
// re-exposes an invocation argument, either wholesale (Argument) or
// property by property (Props maps property name to argument name).
type YieldAlias struct {
	Argument string
	Props    map[string]string
}

// ArgumentRule declares one invocation argument whose string values
// name components. Interior is the property the component's own
// template reads the value back through; it defaults to the argument
// name but may point at a derived local property.
type ArgumentRule struct {
	Name     string
	Interior string
}

// Capabilities is everything the resolver may assume about one
// invokable name.
type Capabilities struct {
	// SafeToIgnore suppresses the missing-module diagnostic when the
	// name cannot be located.
	SafeToIgnore bool

	// Disambiguate forces the component or helper reading when both
	// modules exist.
	Disambiguate string

	// ComponentArguments lists invocation arguments whose string
	// values name components. Names are hash keys without the `@`
	// sigil, or decimal strings for positional arguments.
	ComponentArguments []ArgumentRule

	// YieldsSafeComponents claims component trust for block
	// parameters, one entry per `as |...|` slot.
	YieldsSafeComponents []YieldClaim

	// YieldsArguments aliases block parameters to invocation
	// arguments, one entry per slot.
	YieldsArguments []YieldAlias
}

// AcceptsArgument reports whether the named invocation argument (hash
// key, or decimal position) is declared to carry a component name.
func (c Capabilities) AcceptsArgument(name string) bool {
	name = strings.TrimPrefix(name, "@")
	for _, a := range c.ComponentArguments {
		if a.Name == name {
			return true
		}
	}
	return false
}

// TrustsInterior reports whether reads of the named property inside
// the ruled component's own template produce a safe component value.
func (c Capabilities) TrustsInterior(name string) bool {
	name = strings.TrimPrefix(name, "@")
	for _, a := range c.ComponentArguments {
		if a.Interior == name {
			return true
		}
	}
	return false
}

// Pack is one loaded rule file, applying to templates under its roots.
type Pack struct {
	// Package names the app or addon the rules describe.
	Package string

	// Roots restricts the templates the pack applies to; paths are
	// project-relative with forward slashes. Empty means everywhere.
	Roots []string

	// Components maps canonical invocation names to capabilities.
	Components map[string]Capabilities

	// Source is the file (or config key) the pack came from.
	Source string
}

// AppliesTo reports whether the pack covers the given project-relative
// template path. A root covers itself and everything beneath it.
func (p *Pack) AppliesTo(templatePath string) bool {
	if len(p.Roots) == 0 {
		return true
	}
	for _, r := range p.Roots {
		if r == "" || templatePath == r || strings.HasPrefix(templatePath, r+"/") {
			return true
		}
	}
	return false
}

// Table is the merged view over all loaded packs.
type Table struct {
	packs []*Pack
}

// NewTable builds a table. Pack order matters: when two applicable
// packs rule on the same name, the later pack wins.
func NewTable(packs ...*Pack) *Table {
	return &Table{packs: packs}
}

// CapabilitiesFor returns the capabilities granted to an invocation
// name as seen from templatePath. The name may be in any spelling.
func (t *Table) CapabilitiesFor(name, templatePath string) (Capabilities, bool) {
	key := names.Canonical(name)
	var (
		caps  Capabilities
		found bool
	)
	for _, p := range t.packs {
		if !p.AppliesTo(templatePath) {
			continue
		}
		if c, ok := p.Components[key]; ok {
			caps = c
			found = true
		}
	}
	return caps, found
}

// Entry is one named rule with its provenance, for listing.
type Entry struct {
	Name    string
	Package string
	Source  string
	Caps    Capabilities
}

// Entries returns every rule in the table sorted by name, then by
// source for names ruled on by several packs.
func (t *Table) Entries() []Entry {
	var out []Entry
	for _, p := range t.packs {
		for name, caps := range p.Components {
			out = append(out, Entry{Name: name, Package: p.Package, Source: p.Source, Caps: caps})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Source < out[j].Source
	})
	return out
}

// Len returns the number of loaded packs.
func (t *Table) Len() int {
	return len(t.packs)
}
