// Package resolve is the symbol resolution engine. It walks parsed
// templates, classifies every reference they make, and turns each one
// into either a concrete module dependency or a diagnostic.
//
// Resolution is a pure build step: no template is executed. The engine
// trusts exactly three sources of knowledge about a name: the module
// layout on disk (internal/locate), the capability rules supplied by
// packs and config (internal/rules), and the scope chain built from the
// template itself (internal/scope). Everything it cannot pin down under
// the active policies becomes a diagnostic instead of a guess.
package resolve

import (
	stderrors "errors"
	"sort"

	"tir/internal/ast"
	"tir/internal/locate"
	"tir/internal/logging"
	"tir/internal/parser"
	"tir/internal/rules"
)

// Severity grades a diagnostic. Errors fail the run; warnings do not.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Diagnostic codes. These are stable identifiers that baselines and
// tooling key on, so they never change spelling.
const (
	CodeMissingComponent    = "MissingComponent"
	CodeMissingHelper       = "MissingHelper"
	CodeAmbiguousInvocation = "AmbiguousInvocation"
	CodeDynamicValueIgnored = "DynamicValueIgnored"
	CodeTemplateSyntax      = "TemplateSyntax"
)

// Diagnostic is one finding the engine could not (or chose not to)
// resolve into a dependency.
type Diagnostic struct {
	Severity Severity `json:"severity"`
	Code     string   `json:"code"`
	Message  string   `json:"message"`
	Path     string   `json:"path"`
	Loc      ast.Loc  `json:"loc"`
}

// Record is one resolved module dependency of a template. A component
// backed by both a script and a template module produces two records
// with distinct runtime names.
type Record struct {
	// Kind is "component" or "helper".
	Kind string `json:"kind"`
	// Name is the canonical dashed name the reference resolved to.
	Name string `json:"name"`
	// RuntimeName is the registration handle the module answers to.
	RuntimeName string `json:"runtimeName"`
	// Module is the project-relative path of the resolved file.
	Module string `json:"module"`
	// Convention names the layout convention that matched.
	Convention string `json:"convention"`
	// From lists the invocation sites, sorted by position.
	From []ast.Loc `json:"from"`
}

// Rewrite is the concrete binding one invocation site resolved to.
// Downstream tooling uses these to splice resolved names into build
// output without re-running resolution.
type Rewrite struct {
	Loc ast.Loc `json:"loc"`
	// From is the source spelling at the site.
	From string `json:"from"`
	// To is the runtime name the spelling was pinned to.
	To string `json:"to"`
	// Module is the file providing it.
	Module string `json:"module"`
}

// TemplateResult is everything resolution produced for one template.
// A failed template carries only its diagnostics; records and rewrites
// gathered before the failure are dropped.
type TemplateResult struct {
	Path        string       `json:"path"`
	Records     []Record     `json:"records"`
	Rewrites    []Rewrite    `json:"rewrites,omitempty"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
}

// Failed reports whether any diagnostic is error severity.
func (r *TemplateResult) Failed() bool {
	for _, d := range r.Diagnostics {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Options are the resolution policies. A name class that is not static
// is left to the runtime: the engine neither records nor complains
// about it.
type Options struct {
	// StaticComponents requires every component reference to resolve
	// to a module at build time.
	StaticComponents bool
	// StaticHelpers requires the same for helpers.
	StaticHelpers bool
}

// Engine resolves templates against one module layout and rule table.
// It is safe for concurrent use; all mutable state lives per call.
type Engine struct {
	table   *rules.Table
	modules *locate.Locator
	opts    Options
	logger  *logging.Logger
}

// New creates an engine. A nil table behaves as an empty one.
func New(table *rules.Table, modules *locate.Locator, opts Options, logger *logging.Logger) *Engine {
	if table == nil {
		table = rules.NewTable()
	}
	return &Engine{table: table, modules: modules, opts: opts, logger: logger}
}

// ResolveSource parses and resolves one template. Parse failures come
// back as a TemplateSyntax diagnostic rather than an error so callers
// can treat every template uniformly in reports.
func (e *Engine) ResolveSource(path, src string) *TemplateResult {
	tmpl, err := parser.Parse(path, src)
	if err != nil {
		res := &TemplateResult{Path: path}
		loc := ast.Loc{Line: 1, Column: 1}
		msg := err.Error()
		var perr *parser.Error
		if stderrors.As(err, &perr) {
			loc = perr.Loc
			msg = perr.Msg
		}
		res.Diagnostics = append(res.Diagnostics, Diagnostic{
			Severity: SeverityError,
			Code:     CodeTemplateSyntax,
			Message:  msg,
			Path:     path,
			Loc:      loc,
		})
		return res
	}
	return e.ResolveTemplate(tmpl)
}

// ResolveTemplate resolves an already parsed template.
func (e *Engine) ResolveTemplate(tmpl *ast.Template) *TemplateResult {
	res := &TemplateResult{Path: tmpl.Path}
	w := &walker{eng: e, res: res, seen: make(map[recordKey]int)}
	if owner, ok := e.modules.ComponentForTemplate(tmpl.Path); ok {
		// Inside a component's own template, arguments the component
		// declares as component-bearing are trusted invocation targets.
		w.owner = owner
		w.ownerCaps, w.ownerRuled = e.table.CapabilitiesFor(owner, tmpl.Path)
	}
	w.walk(tmpl.Body, nil)
	res.finish()
	e.logger.Debug("template resolved", map[string]interface{}{
		"path":        tmpl.Path,
		"records":     len(res.Records),
		"diagnostics": len(res.Diagnostics),
	})
	return res
}

// finish discards the partial output of a failed template, then puts
// every slice into its reported order so identical inputs always
// produce byte-identical output.
func (r *TemplateResult) finish() {
	if r.Failed() {
		// The walk runs to the end so one pass surfaces every problem,
		// but records found along the way are not usable output.
		r.Records = nil
		r.Rewrites = nil
	}
	for i := range r.Records {
		r.Records[i].From = sortLocs(r.Records[i].From)
	}
	sort.Slice(r.Records, func(i, j int) bool {
		if r.Records[i].RuntimeName != r.Records[j].RuntimeName {
			return r.Records[i].RuntimeName < r.Records[j].RuntimeName
		}
		return r.Records[i].Module < r.Records[j].Module
	})
	sort.Slice(r.Rewrites, func(i, j int) bool {
		a, b := r.Rewrites[i], r.Rewrites[j]
		if a.Loc != b.Loc {
			return lessLoc(a.Loc, b.Loc)
		}
		return a.From < b.From
	})
	sort.SliceStable(r.Diagnostics, func(i, j int) bool {
		a, b := r.Diagnostics[i], r.Diagnostics[j]
		if a.Loc != b.Loc {
			return lessLoc(a.Loc, b.Loc)
		}
		return a.Code < b.Code
	})
}

func lessLoc(a, b ast.Loc) bool {
	if a.Line != b.Line {
		return a.Line < b.Line
	}
	return a.Column < b.Column
}

func sortLocs(locs []ast.Loc) []ast.Loc {
	sort.Slice(locs, func(i, j int) bool { return lessLoc(locs[i], locs[j]) })
	out := locs[:0]
	for i, l := range locs {
		if i == 0 || l != locs[i-1] {
			out = append(out, l)
		}
	}
	return out
}
