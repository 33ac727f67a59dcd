package main

import (
	"fmt"
	"strings"

	"tir/internal/output"
	"tir/internal/resolve"
	"tir/internal/rules"
	"tir/internal/storage"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatJSON  OutputFormat = "json"
	FormatHuman OutputFormat = "human"
)

// encodeJSON renders a value as the deterministic indented JSON every
// machine-readable surface uses.
func encodeJSON(v interface{}) (string, error) {
	data, err := output.DeterministicEncodeIndented(v, "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(data) + "\n", nil
}

// formatReport renders a resolution report.
func formatReport(rep *output.Report, format OutputFormat) (string, error) {
	switch format {
	case FormatJSON:
		return encodeJSON(rep)
	case FormatHuman:
		return formatReportHuman(rep), nil
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

func formatReportHuman(rep *output.Report) string {
	var b strings.Builder

	b.WriteString("Resolution Report\n")
	b.WriteString(strings.Repeat("=", 50) + "\n\n")

	failedNote := ""
	if rep.Summary.Failed > 0 {
		failedNote = fmt.Sprintf(" (%d failed)", rep.Summary.Failed)
	}
	b.WriteString(fmt.Sprintf("Templates: %d%s\n", rep.Summary.Templates, failedNote))
	b.WriteString(fmt.Sprintf("Records: %d, Errors: %d, Warnings: %d\n",
		rep.Summary.Records, rep.Summary.Errors, rep.Summary.Warnings))
	if rep.Summary.Suppressed > 0 {
		b.WriteString(fmt.Sprintf("Suppressed by baseline: %d\n", rep.Summary.Suppressed))
	}

	diags := output.AllDiagnostics(rep.Templates)
	if len(diags) > 0 {
		b.WriteString("\nDiagnostics:\n")
		for _, d := range diags {
			b.WriteString("  " + formatDiagnostic(d) + "\n")
		}
	}

	if len(rep.Dependencies) > 0 {
		b.WriteString("\nDependencies:\n")
		for _, dep := range rep.Dependencies {
			b.WriteString(fmt.Sprintf("  %s  %s  (%d templates)\n",
				dep.RuntimeName, dep.Module, len(dep.Templates)))
		}
	}

	return b.String()
}

func formatDiagnostic(d resolve.Diagnostic) string {
	return fmt.Sprintf("%s:%d:%d %s %s: %s",
		d.Path, d.Loc.Line, d.Loc.Column, d.Severity, d.Code, d.Message)
}

// formatDeps renders the dependency records of one template.
func formatDeps(result *resolve.TemplateResult, format OutputFormat) (string, error) {
	switch format {
	case FormatJSON:
		return encodeJSON(result.Records)
	case FormatHuman:
		return formatDepsHuman(result), nil
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

func formatDepsHuman(result *resolve.TemplateResult) string {
	var b strings.Builder

	if len(result.Records) == 0 {
		b.WriteString(fmt.Sprintf("%s: no dependencies\n", result.Path))
		return b.String()
	}

	b.WriteString(fmt.Sprintf("%s: %d dependencies\n", result.Path, len(result.Records)))
	for _, r := range result.Records {
		b.WriteString(fmt.Sprintf("  %s  %s  (%s)\n", r.RuntimeName, r.Module, r.Convention))
	}

	return b.String()
}

// formatUses renders a reverse-dependency lookup.
func formatUses(name string, uses []storage.TemplateUse, format OutputFormat) (string, error) {
	switch format {
	case FormatJSON:
		// The deterministic encoder collapses empty slices to null;
		// an empty hit list still has to read as a JSON array.
		if len(uses) == 0 {
			return "[]\n", nil
		}
		return encodeJSON(uses)
	case FormatHuman:
		return formatUsesHuman(name, uses), nil
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

func formatUsesHuman(name string, uses []storage.TemplateUse) string {
	var b strings.Builder

	if len(uses) == 0 {
		b.WriteString(fmt.Sprintf("No templates use %s\n", name))
		return b.String()
	}

	b.WriteString(fmt.Sprintf("Templates using %s (%d):\n", name, len(uses)))
	for _, u := range uses {
		b.WriteString(fmt.Sprintf("  %s  %s  %s\n", u.TemplatePath, u.RuntimeName, u.Module))
	}

	return b.String()
}

// ruleEntryView is the listing shape of one rule table entry.
type ruleEntryView struct {
	Name                 string   `json:"name"`
	Package              string   `json:"package,omitempty"`
	Source               string   `json:"source"`
	SafeToIgnore         bool     `json:"safeToIgnore,omitempty"`
	Disambiguate         string   `json:"disambiguate,omitempty"`
	ComponentArguments   []string `json:"acceptsComponentArguments,omitempty"`
	YieldsSafeComponents int      `json:"yieldsSafeComponents,omitempty"`
	YieldsArguments      int      `json:"yieldsArguments,omitempty"`
}

func ruleEntryViews(entries []rules.Entry) []ruleEntryView {
	views := make([]ruleEntryView, len(entries))
	for i, e := range entries {
		views[i] = ruleEntryView{
			Name:                 e.Name,
			Package:              e.Package,
			Source:               e.Source,
			SafeToIgnore:         e.Caps.SafeToIgnore,
			Disambiguate:         e.Caps.Disambiguate,
			ComponentArguments:   argumentStrings(e.Caps.ComponentArguments),
			YieldsSafeComponents: len(e.Caps.YieldsSafeComponents),
			YieldsArguments:      len(e.Caps.YieldsArguments),
		}
	}
	return views
}

// formatRuleEntries renders the merged rule table.
func formatRuleEntries(entries []rules.Entry, format OutputFormat) (string, error) {
	switch format {
	case FormatJSON:
		return encodeJSON(ruleEntryViews(entries))
	case FormatHuman:
		return formatRuleEntriesHuman(entries), nil
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

func formatRuleEntriesHuman(entries []rules.Entry) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Rule Table (%d entries)\n", len(entries)))
	b.WriteString(strings.Repeat("=", 50) + "\n")

	for _, e := range entries {
		pkg := ""
		if e.Package != "" {
			pkg = fmt.Sprintf(" [%s]", e.Package)
		}
		b.WriteString(fmt.Sprintf("\n%s%s  %s\n", e.Name, pkg, e.Source))
		if e.Caps.SafeToIgnore {
			b.WriteString("  safeToIgnore: true\n")
		}
		if e.Caps.Disambiguate != "" {
			b.WriteString(fmt.Sprintf("  disambiguate: %s\n", e.Caps.Disambiguate))
		}
		if len(e.Caps.ComponentArguments) > 0 {
			b.WriteString(fmt.Sprintf("  acceptsComponentArguments: %s\n",
				strings.Join(argumentStrings(e.Caps.ComponentArguments), ", ")))
		}
		if n := len(e.Caps.YieldsSafeComponents); n > 0 {
			b.WriteString(fmt.Sprintf("  yieldsSafeComponents: %d %s\n", n, plural(n, "slot")))
		}
		if n := len(e.Caps.YieldsArguments); n > 0 {
			b.WriteString(fmt.Sprintf("  yieldsArguments: %d %s\n", n, plural(n, "slot")))
		}
	}

	return b.String()
}

// argumentStrings renders argument rules for listing, showing the
// interior property only when it differs from the argument name.
func argumentStrings(args []rules.ArgumentRule) []string {
	if len(args) == 0 {
		return nil
	}
	out := make([]string, len(args))
	for i, a := range args {
		if a.Interior != a.Name {
			out[i] = a.Name + " -> " + a.Interior
		} else {
			out[i] = a.Name
		}
	}
	return out
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
