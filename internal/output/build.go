package output

import (
	"sort"

	"tir/internal/resolve"
)

// BuildReport assembles the report for one run. Aside from the run
// block, the output is a pure function of the results: templates,
// dependencies and summary counts all come out in their contractual
// order regardless of input order.
func BuildReport(run RunInfo, pol Policies, results []*resolve.TemplateResult) *Report {
	templates := make([]*resolve.TemplateResult, len(results))
	copy(templates, results)
	SortTemplates(templates)

	rep := &Report{
		SchemaVersion: SchemaVersion,
		Run:           run,
		Policies:      pol,
		Templates:     templates,
		Dependencies:  rollupDependencies(templates),
	}

	rep.Summary.Templates = len(templates)
	for _, tr := range templates {
		if tr.Failed() {
			rep.Summary.Failed++
		}
		rep.Summary.Records += len(tr.Records)
		for _, d := range tr.Diagnostics {
			switch d.Severity {
			case resolve.SeverityError:
				rep.Summary.Errors++
			case resolve.SeverityWarning:
				rep.Summary.Warnings++
			}
		}
	}
	return rep
}

type depKey struct {
	runtime string
	module  string
}

func rollupDependencies(templates []*resolve.TemplateResult) []Dependency {
	byKey := make(map[depKey]*Dependency)
	for _, tr := range templates {
		for _, r := range tr.Records {
			key := depKey{runtime: r.RuntimeName, module: r.Module}
			dep, ok := byKey[key]
			if !ok {
				dep = &Dependency{
					Kind:        r.Kind,
					Name:        r.Name,
					RuntimeName: r.RuntimeName,
					Module:      r.Module,
				}
				byKey[key] = dep
			}
			dep.Templates = append(dep.Templates, tr.Path)
		}
	}

	deps := make([]Dependency, 0, len(byKey))
	for _, dep := range byKey {
		sort.Strings(dep.Templates)
		deps = append(deps, *dep)
	}
	SortDependencies(deps)
	return deps
}

// AllDiagnostics flattens every template's diagnostics into one sorted
// list for display and baseline matching.
func AllDiagnostics(templates []*resolve.TemplateResult) []resolve.Diagnostic {
	var out []resolve.Diagnostic
	for _, tr := range templates {
		out = append(out, tr.Diagnostics...)
	}
	SortDiagnostics(out)
	return out
}
