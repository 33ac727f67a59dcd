// Package names converts between the two spellings of an invokable
// name: the dashed runtime form used in curly invocations and file
// paths ("ui/button-group") and the angle form used in tags
// ("Ui::ButtonGroup"). The dashed form is the canonical key everywhere
// in this codebase.
package names

import (
	"strings"
	"unicode"
)

// Canonical normalizes any accepted spelling of an invokable name to
// its dashed form. Rule files may write "{{pick-list}}", "<PickList>",
// "Ui::Button", or plain "pick-list"; all reduce to the same key.
func Canonical(raw string) string {
	name := strings.TrimSpace(raw)
	name = strings.TrimPrefix(name, "{{")
	name = strings.TrimSuffix(name, "}}")
	name = strings.TrimPrefix(name, "<")
	name = strings.TrimSuffix(name, ">")
	name = strings.TrimSpace(name)
	if looksAngle(name) {
		return Dashed(name)
	}
	return name
}

func looksAngle(name string) bool {
	if strings.Contains(name, "::") {
		return true
	}
	return name != "" && name[0] >= 'A' && name[0] <= 'Z'
}

// Dashed converts an angle spelling to the dashed form. Namespace
// segments separated by "::" become "/" path segments.
func Dashed(name string) string {
	parts := strings.Split(name, "::")
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = dasherize(p)
	}
	return strings.Join(out, "/")
}

// Angle converts a dashed name to its angle spelling.
func Angle(dashed string) string {
	parts := strings.Split(dashed, "/")
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = pascalize(p)
	}
	return strings.Join(out, "::")
}

func dasherize(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func pascalize(s string) string {
	var b strings.Builder
	upper := true
	for _, r := range s {
		if r == '-' {
			upper = true
			continue
		}
		if upper {
			b.WriteRune(unicode.ToUpper(r))
			upper = false
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
