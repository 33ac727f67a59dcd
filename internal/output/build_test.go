package output

import (
	"testing"

	"tir/internal/ast"
	"tir/internal/resolve"
)

func testResults() []*resolve.TemplateResult {
	// Passed in reverse path order on purpose. The failed template
	// carries no records, matching what the engine hands out.
	return []*resolve.TemplateResult{
		{
			Path: "app/templates/index.hbs",
			Records: []resolve.Record{
				{Kind: "component", Name: "nav-bar", RuntimeName: "component:nav-bar", Module: "app/components/nav-bar.js", Convention: "flat"},
				{Kind: "helper", Name: "format-date", RuntimeName: "helper:format-date", Module: "app/helpers/format-date.js", Convention: "flat"},
			},
		},
		{
			Path: "app/templates/broken.hbs",
			Diagnostics: []resolve.Diagnostic{
				{Severity: resolve.SeverityError, Code: resolve.CodeMissingHelper, Path: "app/templates/broken.hbs", Loc: ast.Loc{Line: 3, Column: 1}},
			},
		},
		{
			Path: "app/templates/about.hbs",
			Records: []resolve.Record{
				{Kind: "component", Name: "nav-bar", RuntimeName: "component:nav-bar", Module: "app/components/nav-bar.js", Convention: "flat"},
				{Kind: "component", Name: "nav-bar", RuntimeName: "template:components/nav-bar", Module: "app/templates/components/nav-bar.hbs", Convention: "classic"},
			},
			Diagnostics: []resolve.Diagnostic{
				{Severity: resolve.SeverityWarning, Code: resolve.CodeDynamicValueIgnored, Path: "app/templates/about.hbs", Loc: ast.Loc{Line: 1, Column: 1}},
			},
		},
	}
}

func TestBuildReport(t *testing.T) {
	results := testResults()
	rep := BuildReport(RunInfo{ID: "run-1", Root: "app"}, Policies{StaticComponents: true, StaticHelpers: true}, results)

	if rep.SchemaVersion != SchemaVersion {
		t.Errorf("SchemaVersion = %d, want %d", rep.SchemaVersion, SchemaVersion)
	}

	// Templates come out path-sorted while the input slice keeps its order
	wantOrder := []string{"app/templates/about.hbs", "app/templates/broken.hbs", "app/templates/index.hbs"}
	for i, w := range wantOrder {
		if rep.Templates[i].Path != w {
			t.Errorf("Templates[%d].Path = %q, want %q", i, rep.Templates[i].Path, w)
		}
	}
	if results[0].Path != "app/templates/index.hbs" {
		t.Error("BuildReport should not reorder the caller's slice")
	}

	if rep.Summary.Templates != 3 {
		t.Errorf("Summary.Templates = %d, want 3", rep.Summary.Templates)
	}
	if rep.Summary.Failed != 1 {
		t.Errorf("Summary.Failed = %d, want 1", rep.Summary.Failed)
	}
	if rep.Summary.Records != 4 {
		t.Errorf("Summary.Records = %d, want 4", rep.Summary.Records)
	}
	if rep.Summary.Errors != 1 {
		t.Errorf("Summary.Errors = %d, want 1", rep.Summary.Errors)
	}
	if rep.Summary.Warnings != 1 {
		t.Errorf("Summary.Warnings = %d, want 1", rep.Summary.Warnings)
	}
	if rep.Summary.Suppressed != 0 {
		t.Errorf("Summary.Suppressed = %d, want 0", rep.Summary.Suppressed)
	}
}

func TestBuildReportDependencyRollup(t *testing.T) {
	rep := BuildReport(RunInfo{}, Policies{}, testResults())

	want := []Dependency{
		{
			Kind: "component", Name: "nav-bar",
			RuntimeName: "component:nav-bar", Module: "app/components/nav-bar.js",
			Templates: []string{"app/templates/about.hbs", "app/templates/index.hbs"},
		},
		{
			Kind: "helper", Name: "format-date",
			RuntimeName: "helper:format-date", Module: "app/helpers/format-date.js",
			Templates: []string{"app/templates/index.hbs"},
		},
		{
			Kind: "component", Name: "nav-bar",
			RuntimeName: "template:components/nav-bar", Module: "app/templates/components/nav-bar.hbs",
			Templates: []string{"app/templates/about.hbs"},
		},
	}

	if len(rep.Dependencies) != len(want) {
		t.Fatalf("got %d dependencies, want %d", len(rep.Dependencies), len(want))
	}
	for i, w := range want {
		got := rep.Dependencies[i]
		if got.Kind != w.Kind || got.Name != w.Name || got.RuntimeName != w.RuntimeName || got.Module != w.Module {
			t.Errorf("deps[%d] = %+v, want %+v", i, got, w)
		}
		if len(got.Templates) != len(w.Templates) {
			t.Errorf("deps[%d].Templates = %v, want %v", i, got.Templates, w.Templates)
			continue
		}
		for j := range w.Templates {
			if got.Templates[j] != w.Templates[j] {
				t.Errorf("deps[%d].Templates[%d] = %q, want %q", i, j, got.Templates[j], w.Templates[j])
			}
		}
	}
}

func TestAllDiagnostics(t *testing.T) {
	diags := AllDiagnostics(testResults())

	if len(diags) != 2 {
		t.Fatalf("got %d diagnostics, want 2", len(diags))
	}
	// The error from broken.hbs sorts before the warning from about.hbs
	if diags[0].Code != resolve.CodeMissingHelper {
		t.Errorf("diags[0].Code = %q, want %q", diags[0].Code, resolve.CodeMissingHelper)
	}
	if diags[1].Code != resolve.CodeDynamicValueIgnored {
		t.Errorf("diags[1].Code = %q, want %q", diags[1].Code, resolve.CodeDynamicValueIgnored)
	}
}

func TestBuildReportEmpty(t *testing.T) {
	rep := BuildReport(RunInfo{}, Policies{}, nil)

	if rep.Summary.Templates != 0 || rep.Summary.Records != 0 {
		t.Errorf("empty run summary = %+v", rep.Summary)
	}
	if len(rep.Dependencies) != 0 {
		t.Errorf("empty run produced %d dependencies", len(rep.Dependencies))
	}
}
