package output

import (
	"sort"

	"tir/internal/resolve"
)

// SortTemplates sorts template results by path ASC.
func SortTemplates(templates []*resolve.TemplateResult) {
	sort.SliceStable(templates, func(i, j int) bool {
		return templates[i].Path < templates[j].Path
	})
}

// SortDependencies sorts the project rollup by runtimeName ASC,
// module ASC.
func SortDependencies(deps []Dependency) {
	sort.SliceStable(deps, func(i, j int) bool {
		if deps[i].RuntimeName != deps[j].RuntimeName {
			return deps[i].RuntimeName < deps[j].RuntimeName
		}
		return deps[i].Module < deps[j].Module
	})
}

// SortDiagnostics sorts diagnostics by severity priority, then path
// ASC, line ASC, column ASC, code ASC. Errors surface before warnings
// no matter which template produced them.
func SortDiagnostics(diags []resolve.Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		a, b := diags[i], diags[j]
		aSev := GetSeverityPriority(string(a.Severity))
		bSev := GetSeverityPriority(string(b.Severity))
		if aSev != bSev {
			return aSev < bSev
		}
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		if a.Loc.Line != b.Loc.Line {
			return a.Loc.Line < b.Loc.Line
		}
		if a.Loc.Column != b.Loc.Column {
			return a.Loc.Column < b.Loc.Column
		}
		return a.Code < b.Code
	})
}
