// Package classify gives the syntactic reading of an invocation head:
// framework builtin, scope-bound local, pass-through data path, or a
// bare name that may resolve to modules. It decides nothing about
// policy; the resolver owns what each reading means.
package classify

import (
	"strings"

	"tir/internal/ast"
	"tir/internal/names"
	"tir/internal/scope"
)

// Kind is the syntactic reading of an invocation head.
type Kind int

const (
	// KindText is plain markup, such as a lowercase element tag that
	// is not bound in scope.
	KindText Kind = iota
	// KindLocal is a head bound by an enclosing `as |...|`.
	KindLocal
	// KindData is a pass-through value path: `@`-rooted, `this`-rooted,
	// or dotted with an unbound head. Data paths never name modules.
	KindData
	// KindBuiltin is a framework-provided name that never resolves to
	// app modules.
	KindBuiltin
	// KindName is a bare name that may be backed by component or
	// helper modules.
	KindName
)

func (k Kind) String() string {
	switch k {
	case KindLocal:
		return "local"
	case KindData:
		return "data"
	case KindBuiltin:
		return "builtin"
	case KindName:
		return "name"
	default:
		return "text"
	}
}

// builtins never resolve against the app tree. The set covers keywords,
// framework helpers, and framework-provided components.
var builtins = map[string]bool{
	"action":           true,
	"array":            true,
	"component":        true,
	"concat":           true,
	"debugger":         true,
	"each":             true,
	"each-in":          true,
	"else":             true,
	"fn":               true,
	"get":              true,
	"has-block":        true,
	"has-block-params": true,
	"hash":             true,
	"if":               true,
	"in-element":       true,
	"input":            true,
	"let":              true,
	"link-to":          true,
	"log":              true,
	"mount":            true,
	"mut":              true,
	"on":               true,
	"outlet":           true,
	"query-params":     true,
	"textarea":         true,
	"unbound":          true,
	"unless":           true,
	"with":             true,
	"yield":            true,
}

// IsBuiltin reports whether a dashed name is framework-provided.
func IsBuiltin(name string) bool {
	return builtins[name]
}

// PathKind classifies a curly or subexpression head against the scope
// chain.
func PathKind(p *ast.PathNode, sc *scope.Chain) Kind {
	if p.This || p.Data {
		return KindData
	}
	if sc.Has(p.Head) {
		return KindLocal
	}
	if len(p.Tail) > 0 {
		return KindData
	}
	if IsBuiltin(p.Head) {
		return KindBuiltin
	}
	return KindName
}

// Tag is the reading of an angle-bracket tag.
type Tag struct {
	Kind Kind
	// Name is the dashed component name when Kind is KindName.
	Name string
	// Path is the head/tail reading for KindLocal and KindData tags.
	Path *ast.PathNode
}

// TagInfo classifies an element tag. Dotted tags read as paths through
// a local root; uppercase and `::` tags as component names; lowercase
// simple tags as components only when the name is bound in scope.
func TagInfo(tag string, loc ast.Loc, sc *scope.Chain) Tag {
	if strings.HasPrefix(tag, "@") {
		return Tag{Kind: KindData, Path: tagPath(tag, loc)}
	}
	if strings.Contains(tag, ".") {
		p := tagPath(tag, loc)
		if sc.Has(p.Head) {
			return Tag{Kind: KindLocal, Path: p}
		}
		return Tag{Kind: KindData, Path: p}
	}
	if strings.Contains(tag, "::") || startsUpper(tag) {
		return Tag{Kind: KindName, Name: names.Dashed(tag)}
	}
	if sc.Has(tag) {
		return Tag{Kind: KindLocal, Path: tagPath(tag, loc)}
	}
	return Tag{Kind: KindText}
}

func tagPath(tag string, loc ast.Loc) *ast.PathNode {
	p := &ast.PathNode{Original: tag, Loc: loc}
	rest := tag
	if strings.HasPrefix(tag, "@") {
		p.Data = true
		rest = tag[1:]
	}
	segs := strings.Split(rest, ".")
	if !p.Data && segs[0] == "this" {
		p.This = true
		segs = segs[1:]
	}
	if len(segs) > 0 {
		p.Head = segs[0]
		p.Tail = segs[1:]
		if len(p.Tail) == 0 {
			p.Tail = nil
		}
	}
	return p
}

func startsUpper(s string) bool {
	return s != "" && s[0] >= 'A' && s[0] <= 'Z'
}
