// Package ast defines the template tree handed to the resolver.
//
// Trees are produced by internal/parser (or by any other front end that
// can build these nodes) and are immutable once built. Every node carries
// a source location so diagnostics can point at the offending construct
// without re-parsing.
package ast

import "strings"

// Loc is a 1-based source position within a template file.
type Loc struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Node is implemented by every element of the template tree.
type Node interface {
	Pos() Loc
}

// Expr is implemented by nodes that can appear in argument position:
// paths, literals, and subexpressions.
type Expr interface {
	Node
	exprNode()
}

// Template is the root of one parsed template file.
type Template struct {
	// Path is the app-root-relative path of the source file.
	Path string
	Body []Node
}

// TextNode is literal markup between invocations.
type TextNode struct {
	Value string
	Loc   Loc
}

// PathNode is a dotted identifier reference such as `x`, `x.y`,
// `this.title` or `@body.header`.
type PathNode struct {
	// Original is the exact source spelling, kept for diagnostics.
	Original string
	// Head is the first segment (without any `this.` or `@` prefix).
	Head string
	// Tail holds the remaining segments.
	Tail []string
	// This marks a `this.`-rooted path.
	This bool
	// Data marks an `@`-rooted (named argument) path.
	Data bool
	Loc  Loc
}

// StringNode is a quoted string literal.
type StringNode struct {
	Value string
	Loc   Loc
}

// NumberNode is a numeric literal. The source text is retained; the
// resolver never does arithmetic on template literals.
type NumberNode struct {
	Text string
	Loc  Loc
}

// BoolNode is a `true`/`false` literal.
type BoolNode struct {
	Value bool
	Loc   Loc
}

// HashPair is one named argument (`key=value`) on an invocation.
type HashPair struct {
	Key   string
	Value Expr
	Loc   Loc
}

// SubExprNode is a parenthesized nested call such as `(concat a b)`.
// Attribute-position mustaches (`@body={{component "x"}}`) are also
// represented as subexpressions since they share the same shape.
type SubExprNode struct {
	Path   *PathNode
	Params []Expr
	Hash   []HashPair
	Loc    Loc
}

// BlockInfo carries the body of a block-form mustache invocation.
type BlockInfo struct {
	// Params are the block parameter names declared with `as |a b|`.
	Params []string
	Body   []Node
	// Else is the inverse body introduced by `{{else}}`, if any.
	Else []Node
}

// MustacheNode is a curly invocation: `{{name a b k=v}}`, or the block
// form `{{#name}}...{{/name}}` when Block is non-nil. Path is nil for
// the degenerate literal form `{{"text"}}`; the literal is then the
// sole entry in Params.
type MustacheNode struct {
	Path   *PathNode
	Params []Expr
	Hash   []HashPair
	Block  *BlockInfo
	Loc    Loc
}

// AttrNode is one attribute on an element. Plain attributes hold a
// StringNode (or nil for bare attributes); `{{...}}`-valued attributes
// hold the inner expression.
type AttrNode struct {
	Name  string
	Value Expr
	Loc   Loc
}

// ElementNode is an angle-bracket tag, either plain markup or a
// component invocation depending on its spelling.
type ElementNode struct {
	Tag   string
	Attrs []AttrNode
	// Modifiers are `{{...}}` invocations in attribute position, such
	// as `{{on "click" this.save}}`. Their heads never name components
	// or helpers but their arguments are still walked.
	Modifiers   []*SubExprNode
	BlockParams []string
	Children    []Node
	SelfClosing bool
	Loc         Loc
}

func (n *TextNode) Pos() Loc     { return n.Loc }
func (n *PathNode) Pos() Loc     { return n.Loc }
func (n *StringNode) Pos() Loc   { return n.Loc }
func (n *NumberNode) Pos() Loc   { return n.Loc }
func (n *BoolNode) Pos() Loc     { return n.Loc }
func (n *SubExprNode) Pos() Loc  { return n.Loc }
func (n *MustacheNode) Pos() Loc { return n.Loc }
func (n *ElementNode) Pos() Loc  { return n.Loc }

func (*PathNode) exprNode()    {}
func (*StringNode) exprNode()  {}
func (*NumberNode) exprNode()  {}
func (*BoolNode) exprNode()    {}
func (*SubExprNode) exprNode() {}

// String reassembles the path's source spelling. It is used when a
// diagnostic needs to quote the expression a maintainer should add a
// rule for.
func (n *PathNode) String() string {
	if n.Original != "" {
		return n.Original
	}
	var b strings.Builder
	switch {
	case n.This:
		b.WriteString("this.")
	case n.Data:
		b.WriteString("@")
	}
	b.WriteString(n.Head)
	for _, seg := range n.Tail {
		b.WriteString(".")
		b.WriteString(seg)
	}
	return b.String()
}

// Segments returns head plus tail as one slice.
func (n *PathNode) Segments() []string {
	segs := make([]string, 0, len(n.Tail)+1)
	segs = append(segs, n.Head)
	segs = append(segs, n.Tail...)
	return segs
}

// IsBare reports whether the path is a single undotted identifier with
// no `this.` or `@` root, the only shape that can name a component or
// helper invocation.
func (n *PathNode) IsBare() bool {
	return !n.This && !n.Data && len(n.Tail) == 0
}

// HasArguments reports whether the mustache carries positional or named
// arguments. Bare argument-less mustaches get the tolerant treatment
// during resolution; anything with arguments does not.
func (n *MustacheNode) HasArguments() bool {
	return len(n.Params) > 0 || len(n.Hash) > 0
}

// IsBlock reports whether the mustache was invoked in block form.
func (n *MustacheNode) IsBlock() bool {
	return n.Block != nil
}
