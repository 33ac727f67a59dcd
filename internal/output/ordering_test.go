package output

import (
	"fmt"
	"testing"

	"tir/internal/ast"
	"tir/internal/resolve"
)

func TestSortTemplates(t *testing.T) {
	templates := []*resolve.TemplateResult{
		{Path: "app/templates/index.hbs"},
		{Path: "app/components/a.hbs"},
		{Path: "app/templates/about.hbs"},
	}

	SortTemplates(templates)

	want := []string{
		"app/components/a.hbs",
		"app/templates/about.hbs",
		"app/templates/index.hbs",
	}
	for i, w := range want {
		if templates[i].Path != w {
			t.Errorf("templates[%d].Path = %q, want %q", i, templates[i].Path, w)
		}
	}
}

func TestSortDependencies(t *testing.T) {
	deps := []Dependency{
		{RuntimeName: "template:components/a", Module: "app/templates/components/a.hbs"},
		{RuntimeName: "component:b", Module: "app/components/b.js"},
		{RuntimeName: "component:a", Module: "app/components/a.ts"},
		{RuntimeName: "component:a", Module: "app/components/a.js"},
	}

	SortDependencies(deps)

	want := []string{
		"component:a app/components/a.js",
		"component:a app/components/a.ts",
		"component:b app/components/b.js",
		"template:components/a app/templates/components/a.hbs",
	}
	for i, w := range want {
		got := deps[i].RuntimeName + " " + deps[i].Module
		if got != w {
			t.Errorf("deps[%d] = %q, want %q", i, got, w)
		}
	}
}

func TestSortDiagnostics(t *testing.T) {
	diags := []resolve.Diagnostic{
		{Severity: resolve.SeverityWarning, Code: "DynamicValueIgnored", Path: "a.hbs", Loc: ast.Loc{Line: 1, Column: 1}},
		{Severity: resolve.SeverityError, Code: "MissingComponent", Path: "z.hbs", Loc: ast.Loc{Line: 9, Column: 1}},
		{Severity: resolve.SeverityError, Code: "MissingHelper", Path: "a.hbs", Loc: ast.Loc{Line: 2, Column: 5}},
		{Severity: resolve.SeverityError, Code: "MissingComponent", Path: "a.hbs", Loc: ast.Loc{Line: 2, Column: 3}},
	}

	SortDiagnostics(diags)

	// Errors first, then by path, position, code
	want := []string{
		"error a.hbs 2:3 MissingComponent",
		"error a.hbs 2:5 MissingHelper",
		"error z.hbs 9:1 MissingComponent",
		"warning a.hbs 1:1 DynamicValueIgnored",
	}
	for i, w := range want {
		d := diags[i]
		got := fmt.Sprintf("%s %s %d:%d %s", d.Severity, d.Path, d.Loc.Line, d.Loc.Column, d.Code)
		if got != w {
			t.Errorf("diags[%d] = %q, want %q", i, got, w)
		}
	}
}

func TestSortingStability(t *testing.T) {
	// Equal keys keep their input order
	deps := []Dependency{
		{RuntimeName: "component:a", Module: "app/components/a.js", Kind: "component", Name: "first"},
		{RuntimeName: "component:a", Module: "app/components/a.js", Kind: "component", Name: "second"},
	}

	SortDependencies(deps)

	if deps[0].Name != "first" || deps[1].Name != "second" {
		t.Error("equal-key entries should keep their input order")
	}
}
