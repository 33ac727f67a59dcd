// Package parser turns component template source into the tree defined
// by internal/ast.
//
// The grammar covered is the component-template dialect: curly
// invocations with positional and named arguments, block forms with
// `as |a b|` parameters and `{{else}}` chains, parenthesized
// subexpressions, angle-bracket invocations with attributes and element
// modifiers, and both comment forms. Parsing is strict: malformed input
// returns an *Error instead of a best-effort tree.
package parser

import (
	"fmt"
	"strings"

	"tir/internal/ast"
)

// Error is a syntax error with the template position that produced it.
type Error struct {
	Path string
	Loc  ast.Loc
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.Path, e.Loc.Line, e.Loc.Column, e.Msg)
}

type parser struct {
	s    scanner
	path string
}

// Parse builds the tree for one template file. path is recorded on the
// returned template and in any error; it does not need to exist on disk.
func Parse(path, src string) (*ast.Template, error) {
	p := &parser{s: newScanner(src), path: path}
	body, stop, err := p.parseNodes()
	if err != nil {
		return nil, err
	}
	switch stop {
	case stopEOF:
		return &ast.Template{Path: path, Body: body}, nil
	case stopElse:
		return nil, p.errf(p.s.loc(), "{{else}} outside of a block")
	case stopClose:
		return nil, p.errf(p.s.loc(), "closing mustache with no open block")
	default:
		return nil, p.errf(p.s.loc(), "closing tag with no open element")
	}
}

func (p *parser) errf(loc ast.Loc, format string, args ...any) error {
	return &Error{Path: p.path, Loc: loc, Msg: fmt.Sprintf(format, args...)}
}

// stopKind says why parseNodes stopped consuming content. Anything other
// than stopEOF leaves the terminator unconsumed for the caller.
type stopKind int

const (
	stopEOF stopKind = iota
	stopElse
	stopClose
	stopCloseTag
)

type mustacheKind int

const (
	mExpr mustacheKind = iota
	mRawBlock
	mBlock
	mClose
	mElse
	mComment
	mInverse
)

// mustacheKindAt classifies the `{{...}}` opening at the current
// position without consuming it. The scanner must be sitting on `{{`.
func (p *parser) mustacheKindAt() mustacheKind {
	rest := p.s.src[p.s.pos+2:]
	if strings.HasPrefix(rest, "{{") {
		return mRawBlock
	}
	if strings.HasPrefix(rest, "{") {
		return mExpr // triple mustache, handled by parseMustache
	}
	rest = strings.TrimPrefix(rest, "~")
	switch {
	case strings.HasPrefix(rest, "!"):
		return mComment
	case strings.HasPrefix(rest, "#"):
		return mBlock
	case strings.HasPrefix(rest, "/"):
		return mClose
	case strings.HasPrefix(rest, "^"):
		return mInverse
	}
	if tail := strings.TrimPrefix(rest, "else"); tail != rest {
		if tail == "" {
			return mElse
		}
		switch tail[0] {
		case ' ', '\t', '\r', '\n', '}', '~':
			return mElse
		}
	}
	return mExpr
}

func (p *parser) parseNodes() ([]ast.Node, stopKind, error) {
	var nodes []ast.Node
	for {
		if p.s.eof() {
			return nodes, stopEOF, nil
		}
		if p.s.startsWith("{{") {
			switch p.mustacheKindAt() {
			case mComment:
				if err := p.skipComment(); err != nil {
					return nil, 0, err
				}
			case mElse:
				return nodes, stopElse, nil
			case mClose:
				return nodes, stopClose, nil
			case mInverse:
				return nil, 0, p.errf(p.s.loc(), "inverse sections ({{^...}}) are not supported, use {{else}}")
			case mRawBlock:
				return nil, 0, p.errf(p.s.loc(), "raw blocks ({{{{...}}}}) are not supported")
			case mBlock:
				n, err := p.parseBlock()
				if err != nil {
					return nil, 0, err
				}
				nodes = append(nodes, n)
			default:
				n, err := p.parseMustache()
				if err != nil {
					return nil, 0, err
				}
				nodes = append(nodes, n)
			}
			continue
		}
		if p.s.startsWith("</") {
			return nodes, stopCloseTag, nil
		}
		if p.s.startsWith("<!--") {
			n, err := p.scanHTMLComment()
			if err != nil {
				return nil, 0, err
			}
			nodes = append(nodes, n)
			continue
		}
		if p.elementStart() {
			n, err := p.parseElement()
			if err != nil {
				return nil, 0, err
			}
			nodes = append(nodes, n)
			continue
		}
		nodes = append(nodes, p.scanText())
	}
}

// scanText consumes at least one rune of plain content, stopping before
// the next mustache or `<`.
func (p *parser) scanText() *ast.TextNode {
	loc := p.s.loc()
	start := p.s.pos
	for !p.s.eof() {
		if p.s.startsWith("{{") || p.s.peek() == '<' {
			if p.s.pos > start {
				break
			}
			p.s.next()
			continue
		}
		p.s.next()
	}
	return &ast.TextNode{Value: p.s.src[start:p.s.pos], Loc: loc}
}

// elementStart reports whether `<` at the current position opens a tag
// rather than being literal text.
func (p *parser) elementStart() bool {
	if p.s.peek() != '<' {
		return false
	}
	c := p.s.peekAt(1)
	return isAlpha(c) || c == '@'
}

func (p *parser) skipComment() error {
	loc := p.s.loc()
	p.s.skip(2)
	if p.s.peek() == '~' {
		p.s.skip(1)
	}
	p.s.skip(1) // !
	if p.s.startsWith("--") {
		for !p.s.eof() {
			if p.s.startsWith("--}}") {
				p.s.skip(4)
				return nil
			}
			p.s.next()
		}
	} else {
		for !p.s.eof() {
			if p.s.startsWith("}}") {
				p.s.skip(2)
				return nil
			}
			p.s.next()
		}
	}
	return p.errf(loc, "unterminated comment")
}

// scanHTMLComment keeps `<!-- -->` as text. Mustaches inside it are
// never invocations.
func (p *parser) scanHTMLComment() (*ast.TextNode, error) {
	loc := p.s.loc()
	start := p.s.pos
	p.s.skip(4)
	for !p.s.eof() {
		if p.s.startsWith("-->") {
			p.s.skip(3)
			return &ast.TextNode{Value: p.s.src[start:p.s.pos], Loc: loc}, nil
		}
		p.s.next()
	}
	return nil, p.errf(loc, "unterminated HTML comment")
}

// parseMustache parses `{{expr ...}}` or `{{{expr ...}}}` in content
// position.
func (p *parser) parseMustache() (*ast.MustacheNode, error) {
	loc := p.s.loc()
	triple := p.s.startsWith("{{{")
	if triple {
		p.s.skip(3)
	} else {
		p.s.skip(2)
	}
	if p.s.peek() == '~' {
		p.s.skip(1)
	}
	cp, err := p.parseCallParts(termMustache, false)
	if err != nil {
		return nil, err
	}
	if err := p.expectMustacheClose(triple); err != nil {
		return nil, err
	}
	if cp.head == nil {
		return &ast.MustacheNode{Params: []ast.Expr{cp.lit}, Loc: loc}, nil
	}
	return &ast.MustacheNode{Path: cp.head, Params: cp.params, Hash: cp.hash, Loc: loc}, nil
}

// parseBlock parses `{{#name ...}}body{{else}}...{{/name}}`.
func (p *parser) parseBlock() (*ast.MustacheNode, error) {
	loc := p.s.loc()
	p.s.skip(2)
	if p.s.peek() == '~' {
		p.s.skip(1)
	}
	p.s.skip(1) // #
	cp, err := p.parseCallParts(termMustache, true)
	if err != nil {
		return nil, err
	}
	if cp.head == nil {
		return nil, p.errf(loc, "block must invoke a path")
	}
	if err := p.expectMustacheClose(false); err != nil {
		return nil, err
	}
	body, elseBody, err := p.parseBlockTail(cp.head.Original, loc)
	if err != nil {
		return nil, err
	}
	return &ast.MustacheNode{
		Path:   cp.head,
		Params: cp.params,
		Hash:   cp.hash,
		Block:  &ast.BlockInfo{Params: cp.blockParams, Body: body, Else: elseBody},
		Loc:    loc,
	}, nil
}

// parseBlockTail consumes a block body up to and including the matching
// `{{/openName}}`, resolving `{{else}}` and `{{else if ...}}` chains.
// An `{{else if}}` becomes a nested block in the else body that shares
// the outer close tag.
func (p *parser) parseBlockTail(openName string, openLoc ast.Loc) (body, elseBody []ast.Node, err error) {
	body, stop, err := p.parseNodes()
	if err != nil {
		return nil, nil, err
	}
	switch stop {
	case stopEOF:
		return nil, nil, p.errf(openLoc, "unclosed block {{#%s}}", openName)
	case stopCloseTag:
		return nil, nil, p.errf(p.s.loc(), "closing tag inside block {{#%s}}", openName)
	case stopClose:
		if err := p.consumeBlockClose(openName); err != nil {
			return nil, nil, err
		}
		return body, nil, nil
	}

	// stopElse: scanner sits on `{{else`.
	elseLoc := p.s.loc()
	p.s.skip(2)
	if p.s.peek() == '~' {
		p.s.skip(1)
	}
	p.s.skip(len("else"))
	p.s.skipSpace()
	if p.atTerm(termMustache) {
		if err := p.expectMustacheClose(false); err != nil {
			return nil, nil, err
		}
		rest, stop, err := p.parseNodes()
		if err != nil {
			return nil, nil, err
		}
		switch stop {
		case stopClose:
			if err := p.consumeBlockClose(openName); err != nil {
				return nil, nil, err
			}
			return body, rest, nil
		case stopElse:
			return nil, nil, p.errf(p.s.loc(), "multiple {{else}} in block {{#%s}}", openName)
		case stopCloseTag:
			return nil, nil, p.errf(p.s.loc(), "closing tag inside block {{#%s}}", openName)
		default:
			return nil, nil, p.errf(openLoc, "unclosed block {{#%s}}", openName)
		}
	}

	// {{else if ...}} style chain.
	cp, err := p.parseCallParts(termMustache, true)
	if err != nil {
		return nil, nil, err
	}
	if cp.head == nil {
		return nil, nil, p.errf(elseLoc, "malformed {{else}}")
	}
	if err := p.expectMustacheClose(false); err != nil {
		return nil, nil, err
	}
	innerBody, innerElse, err := p.parseBlockTail(openName, elseLoc)
	if err != nil {
		return nil, nil, err
	}
	inner := &ast.MustacheNode{
		Path:   cp.head,
		Params: cp.params,
		Hash:   cp.hash,
		Block:  &ast.BlockInfo{Params: cp.blockParams, Body: innerBody, Else: innerElse},
		Loc:    elseLoc,
	}
	return body, []ast.Node{inner}, nil
}

func (p *parser) consumeBlockClose(openName string) error {
	loc := p.s.loc()
	p.s.skip(2)
	if p.s.peek() == '~' {
		p.s.skip(1)
	}
	p.s.skip(1) // /
	p.s.skipSpace()
	name, err := p.scanPath()
	if err != nil {
		return err
	}
	p.s.skipSpace()
	if err := p.expectMustacheClose(false); err != nil {
		return err
	}
	if name.Original != openName {
		return p.errf(loc, "{{/%s}} closes {{#%s}}", name.Original, openName)
	}
	return nil
}

type termKind int

const (
	termMustache termKind = iota
	termParen
)

// atTerm reports whether the scanner sits on the terminator for the
// given context, without consuming it.
func (p *parser) atTerm(term termKind) bool {
	if term == termParen {
		return p.s.peek() == ')'
	}
	if p.s.peek() == '~' {
		return strings.HasPrefix(p.s.src[p.s.pos+1:], "}}")
	}
	return p.s.startsWith("}}")
}

func (p *parser) expectMustacheClose(triple bool) error {
	if p.s.peek() == '~' {
		p.s.skip(1)
	}
	if !p.s.startsWith("}}") {
		return p.errf(p.s.loc(), "expected }}")
	}
	p.s.skip(2)
	if triple {
		if p.s.peek() != '}' {
			return p.errf(p.s.loc(), "expected }}}")
		}
		p.s.skip(1)
	}
	return nil
}

// callParts is one parsed invocation interior: head path (or a bare
// literal), positional params, named hash pairs, and block parameters.
type callParts struct {
	head        *ast.PathNode
	lit         ast.Expr
	params      []ast.Expr
	hash        []ast.HashPair
	blockParams []string
}

func (p *parser) parseCallParts(term termKind, allowBlockParams bool) (callParts, error) {
	var cp callParts
	p.s.skipSpace()
	if p.s.eof() {
		return cp, p.errf(p.s.loc(), "unterminated expression")
	}
	if p.atTerm(term) {
		return cp, p.errf(p.s.loc(), "empty expression")
	}
	first, key, err := p.parseArg()
	if err != nil {
		return cp, err
	}
	if key != "" {
		return cp, p.errf(p.s.loc(), "expression cannot start with a named argument")
	}
	if head, ok := first.(*ast.PathNode); ok {
		cp.head = head
	} else {
		cp.lit = first
	}
	for {
		p.s.skipSpace()
		if p.s.eof() {
			return cp, p.errf(p.s.loc(), "unterminated expression")
		}
		if p.atTerm(term) {
			return cp, nil
		}
		if allowBlockParams && p.atBlockParams() {
			if cp.blockParams != nil {
				return cp, p.errf(p.s.loc(), "duplicate block parameters")
			}
			bp, err := p.parseBlockParams()
			if err != nil {
				return cp, err
			}
			cp.blockParams = bp
			continue
		}
		argLoc := p.s.loc()
		arg, key, err := p.parseArg()
		if err != nil {
			return cp, err
		}
		if cp.lit != nil {
			return cp, p.errf(argLoc, "unexpected argument after literal")
		}
		if cp.blockParams != nil {
			return cp, p.errf(argLoc, "arguments after block parameters")
		}
		if key != "" {
			cp.hash = append(cp.hash, ast.HashPair{Key: key, Value: arg, Loc: argLoc})
		} else {
			if len(cp.hash) > 0 {
				return cp, p.errf(argLoc, "positional argument after named arguments")
			}
			cp.params = append(cp.params, arg)
		}
	}
}

// atBlockParams reports whether the next tokens are `as |`.
func (p *parser) atBlockParams() bool {
	rest := p.s.src[p.s.pos:]
	if !strings.HasPrefix(rest, "as") {
		return false
	}
	rest = rest[2:]
	i := 0
	for i < len(rest) && isSpaceByte(rest[i]) {
		i++
	}
	return i > 0 && i < len(rest) && rest[i] == '|'
}

func (p *parser) parseBlockParams() ([]string, error) {
	loc := p.s.loc()
	p.s.skip(2) // as
	p.s.skipSpace()
	p.s.skip(1) // |
	var names []string
	for {
		p.s.skipSpace()
		if p.s.eof() {
			return nil, p.errf(loc, "unterminated block parameters")
		}
		if p.s.peek() == '|' {
			p.s.skip(1)
			break
		}
		name := p.s.scanWhile(isIdentChar)
		if name == "" {
			return nil, p.errf(p.s.loc(), "malformed block parameter")
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		return nil, p.errf(loc, "empty block parameters")
	}
	return names, nil
}

// parseArg parses one argument token. A non-empty key means the token
// was a `key=value` hash pair.
func (p *parser) parseArg() (ast.Expr, string, error) {
	loc := p.s.loc()
	switch c := p.s.peek(); {
	case c == '(':
		sub, err := p.parseSubExpr()
		return sub, "", err
	case c == '"' || c == '\'':
		str, err := p.scanString()
		return str, "", err
	case isDigit(c) || c == '-':
		num, err := p.scanNumber()
		return num, "", err
	default:
		if isIdentStart(c) {
			m := p.s.mark()
			key := p.s.scanWhile(isIdentChar)
			if p.s.peek() == '=' && p.s.peekAt(1) != '=' {
				p.s.skip(1)
				val, innerKey, err := p.parseArg()
				if err != nil {
					return nil, "", err
				}
				if innerKey != "" {
					return nil, "", p.errf(loc, "named argument used as a value")
				}
				return val, key, nil
			}
			p.s.reset(m)
		}
		path, err := p.scanPath()
		if err != nil {
			return nil, "", err
		}
		if path.IsBare() {
			switch path.Head {
			case "true":
				return &ast.BoolNode{Value: true, Loc: loc}, "", nil
			case "false":
				return &ast.BoolNode{Value: false, Loc: loc}, "", nil
			}
		}
		return path, "", nil
	}
}

func (p *parser) parseSubExpr() (*ast.SubExprNode, error) {
	loc := p.s.loc()
	p.s.skip(1) // (
	cp, err := p.parseCallParts(termParen, false)
	if err != nil {
		return nil, err
	}
	if cp.head == nil {
		return nil, p.errf(loc, "subexpression must invoke a path")
	}
	p.s.skip(1) // )
	return &ast.SubExprNode{Path: cp.head, Params: cp.params, Hash: cp.hash, Loc: loc}, nil
}

func (p *parser) scanString() (*ast.StringNode, error) {
	loc := p.s.loc()
	quote := p.s.next()
	var b strings.Builder
	for {
		if p.s.eof() {
			return nil, p.errf(loc, "unterminated string")
		}
		r := p.s.next()
		if r == quote {
			break
		}
		if r == '\\' {
			if p.s.eof() {
				return nil, p.errf(loc, "unterminated string")
			}
			switch e := p.s.next(); e {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			default:
				b.WriteRune(e)
			}
			continue
		}
		b.WriteRune(r)
	}
	return &ast.StringNode{Value: b.String(), Loc: loc}, nil
}

func (p *parser) scanNumber() (*ast.NumberNode, error) {
	loc := p.s.loc()
	start := p.s.pos
	if p.s.peek() == '-' {
		p.s.skip(1)
	}
	if p.s.scanWhile(isDigit) == "" {
		return nil, p.errf(loc, "malformed number")
	}
	if p.s.peek() == '.' && isDigit(p.s.peekAt(1)) {
		p.s.skip(1)
		p.s.scanWhile(isDigit)
	}
	return &ast.NumberNode{Text: p.s.src[start:p.s.pos], Loc: loc}, nil
}

// scanPath reads a dotted path. `/` is kept inside segments so that
// namespaced names like `ui/button-group` stay one segment.
func (p *parser) scanPath() (*ast.PathNode, error) {
	loc := p.s.loc()
	start := p.s.pos
	n := &ast.PathNode{Loc: loc}
	if p.s.peek() == '@' {
		n.Data = true
		p.s.skip(1)
	}
	if p.s.startsWith("..") {
		return nil, p.errf(loc, "parent paths (../) are not supported")
	}
	var segs []string
	for {
		seg := p.s.scanWhile(isPathChar)
		if seg == "" {
			return nil, p.errf(p.s.loc(), "malformed path")
		}
		segs = append(segs, seg)
		if p.s.peek() == '.' && isPathChar(p.s.peekAt(1)) {
			p.s.skip(1)
			continue
		}
		break
	}
	if !n.Data && segs[0] == "this" {
		n.This = true
		segs = segs[1:]
	}
	if len(segs) > 0 {
		n.Head = segs[0]
		n.Tail = segs[1:]
	}
	n.Original = p.s.src[start:p.s.pos]
	return n, nil
}

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

func (p *parser) parseElement() (*ast.ElementNode, error) {
	loc := p.s.loc()
	p.s.skip(1) // <
	tag := p.scanTagName()
	if tag == "" {
		return nil, p.errf(loc, "malformed tag name")
	}
	el := &ast.ElementNode{Tag: tag, Loc: loc}
	for {
		p.s.skipSpace()
		if p.s.eof() {
			return nil, p.errf(loc, "unclosed tag <%s>", tag)
		}
		if p.s.startsWith("/>") {
			p.s.skip(2)
			el.SelfClosing = true
			return el, nil
		}
		if p.s.peek() == '>' {
			p.s.skip(1)
			break
		}
		if p.s.startsWith("{{") {
			if p.mustacheKindAt() == mComment {
				if err := p.skipComment(); err != nil {
					return nil, err
				}
				continue
			}
			mod, err := p.parseModifier()
			if err != nil {
				return nil, err
			}
			el.Modifiers = append(el.Modifiers, mod)
			continue
		}
		if p.atBlockParams() {
			bp, err := p.parseBlockParams()
			if err != nil {
				return nil, err
			}
			el.BlockParams = bp
			continue
		}
		attr, err := p.parseAttr()
		if err != nil {
			return nil, err
		}
		el.Attrs = append(el.Attrs, *attr)
	}
	if voidElements[strings.ToLower(tag)] {
		return el, nil
	}
	children, stop, err := p.parseNodes()
	if err != nil {
		return nil, err
	}
	switch stop {
	case stopCloseTag:
	case stopEOF:
		return nil, p.errf(loc, "unclosed element <%s>", tag)
	default:
		return nil, p.errf(p.s.loc(), "unbalanced block inside <%s>", tag)
	}
	closeLoc := p.s.loc()
	p.s.skip(2) // </
	closeTag := p.scanTagName()
	p.s.skipSpace()
	if p.s.peek() != '>' {
		return nil, p.errf(closeLoc, "malformed closing tag")
	}
	p.s.skip(1)
	if closeTag != tag {
		return nil, p.errf(closeLoc, "</%s> closes <%s>", closeTag, tag)
	}
	el.Children = children
	return el, nil
}

func (p *parser) scanTagName() string {
	start := p.s.pos
	if p.s.peek() == '@' {
		p.s.skip(1)
	}
	p.s.scanWhile(isTagChar)
	return p.s.src[start:p.s.pos]
}

func (p *parser) parseModifier() (*ast.SubExprNode, error) {
	loc := p.s.loc()
	p.s.skip(2)
	if p.s.peek() == '~' {
		p.s.skip(1)
	}
	cp, err := p.parseCallParts(termMustache, false)
	if err != nil {
		return nil, err
	}
	if err := p.expectMustacheClose(false); err != nil {
		return nil, err
	}
	if cp.head == nil {
		return nil, p.errf(loc, "modifier must invoke a path")
	}
	return &ast.SubExprNode{Path: cp.head, Params: cp.params, Hash: cp.hash, Loc: loc}, nil
}

func (p *parser) parseAttr() (*ast.AttrNode, error) {
	loc := p.s.loc()
	if p.s.startsWith("...") {
		name := p.s.scanWhile(func(c byte) bool { return c == '.' || isIdentChar(c) })
		return &ast.AttrNode{Name: name, Loc: loc}, nil
	}
	name := p.scanAttrName()
	if name == "" {
		return nil, p.errf(loc, "malformed attribute")
	}
	if p.s.peek() != '=' {
		return &ast.AttrNode{Name: name, Loc: loc}, nil
	}
	p.s.skip(1)
	val, err := p.parseAttrValue()
	if err != nil {
		return nil, err
	}
	return &ast.AttrNode{Name: name, Value: val, Loc: loc}, nil
}

func (p *parser) scanAttrName() string {
	start := p.s.pos
	if p.s.peek() == '@' {
		p.s.skip(1)
	}
	p.s.scanWhile(isTagChar)
	return p.s.src[start:p.s.pos]
}

func (p *parser) parseAttrValue() (ast.Expr, error) {
	switch c := p.s.peek(); {
	case c == '"' || c == '\'':
		return p.scanQuotedAttrValue(rune(c))
	case p.s.startsWith("{{"):
		return p.parseAttrMustache()
	default:
		loc := p.s.loc()
		start := p.s.pos
		for !p.s.eof() {
			b := p.s.peek()
			if isSpaceByte(b) || b == '>' || (b == '/' && p.s.peekAt(1) == '>') {
				break
			}
			p.s.next()
		}
		if p.s.pos == start {
			return nil, p.errf(loc, "missing attribute value")
		}
		return &ast.StringNode{Value: p.s.src[start:p.s.pos], Loc: loc}, nil
	}
}

// parseAttrMustache parses a `{{...}}` attribute or argument value. A
// bare path or literal stays itself; a call with arguments becomes a
// subexpression.
func (p *parser) parseAttrMustache() (ast.Expr, error) {
	loc := p.s.loc()
	p.s.skip(2)
	if p.s.peek() == '~' {
		p.s.skip(1)
	}
	cp, err := p.parseCallParts(termMustache, false)
	if err != nil {
		return nil, err
	}
	if err := p.expectMustacheClose(false); err != nil {
		return nil, err
	}
	if cp.head == nil {
		return cp.lit, nil
	}
	if len(cp.params) == 0 && len(cp.hash) == 0 {
		return cp.head, nil
	}
	return &ast.SubExprNode{Path: cp.head, Params: cp.params, Hash: cp.hash, Loc: loc}, nil
}

// scanQuotedAttrValue reads a quoted value that may interleave text and
// mustaches. Mixed content is normalized to a `concat` subexpression,
// matching how the runtime treats it.
func (p *parser) scanQuotedAttrValue(quote rune) (ast.Expr, error) {
	loc := p.s.loc()
	p.s.skip(1)
	var parts []ast.Expr
	var text strings.Builder
	textLoc := p.s.loc()
	flush := func() {
		if text.Len() > 0 {
			parts = append(parts, &ast.StringNode{Value: text.String(), Loc: textLoc})
			text.Reset()
		}
	}
	for {
		if p.s.eof() {
			return nil, p.errf(loc, "unterminated attribute value")
		}
		if rune(p.s.peek()) == quote {
			p.s.skip(1)
			break
		}
		if p.s.startsWith("{{") {
			if p.mustacheKindAt() == mComment {
				if err := p.skipComment(); err != nil {
					return nil, err
				}
				continue
			}
			flush()
			e, err := p.parseAttrMustache()
			if err != nil {
				return nil, err
			}
			parts = append(parts, e)
			textLoc = p.s.loc()
			continue
		}
		text.WriteRune(p.s.next())
	}
	flush()
	switch len(parts) {
	case 0:
		return &ast.StringNode{Loc: loc}, nil
	case 1:
		return parts[0], nil
	default:
		return &ast.SubExprNode{
			Path:   &ast.PathNode{Original: "concat", Head: "concat", Loc: loc},
			Params: parts,
			Loc:    loc,
		}, nil
	}
}
