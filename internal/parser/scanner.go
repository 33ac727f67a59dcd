package parser

import (
	"strings"
	"unicode/utf8"

	"tir/internal/ast"
)

// scanner walks template source one rune at a time while tracking the
// 1-based line and column reported in diagnostics.
type scanner struct {
	src  string
	pos  int
	line int
	col  int
}

func newScanner(src string) scanner {
	return scanner{src: src, line: 1, col: 1}
}

// mark is a scanner snapshot used to back out of speculative scans.
type mark struct {
	pos, line, col int
}

func (s *scanner) mark() mark {
	return mark{s.pos, s.line, s.col}
}

func (s *scanner) reset(m mark) {
	s.pos, s.line, s.col = m.pos, m.line, m.col
}

func (s *scanner) eof() bool {
	return s.pos >= len(s.src)
}

// peek returns the current byte without advancing, or 0 at end of input.
func (s *scanner) peek() byte {
	if s.eof() {
		return 0
	}
	return s.src[s.pos]
}

// peekAt returns the byte off positions ahead, or 0 past end of input.
func (s *scanner) peekAt(off int) byte {
	if s.pos+off >= len(s.src) {
		return 0
	}
	return s.src[s.pos+off]
}

func (s *scanner) startsWith(prefix string) bool {
	return strings.HasPrefix(s.src[s.pos:], prefix)
}

func (s *scanner) loc() ast.Loc {
	return ast.Loc{Line: s.line, Column: s.col}
}

// next consumes and returns one rune, updating line and column.
func (s *scanner) next() rune {
	r, size := utf8.DecodeRuneInString(s.src[s.pos:])
	s.pos += size
	if r == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
	return r
}

// skip consumes n bytes. Callers use it only over known ASCII markers.
func (s *scanner) skip(n int) {
	for i := 0; i < n && !s.eof(); i++ {
		s.next()
	}
}

func (s *scanner) skipSpace() {
	for !s.eof() {
		switch s.peek() {
		case ' ', '\t', '\r', '\n':
			s.next()
		default:
			return
		}
	}
}

// scanWhile consumes bytes matching pred and returns them.
func (s *scanner) scanWhile(pred func(byte) bool) string {
	start := s.pos
	for !s.eof() && pred(s.peek()) {
		s.next()
	}
	return s.src[start:s.pos]
}

func isAlpha(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentStart(c byte) bool {
	return isAlpha(c) || c == '_'
}

// isIdentChar covers hash keys and block parameter names.
func isIdentChar(c byte) bool {
	return isAlpha(c) || isDigit(c) || c == '_' || c == '-'
}

// isPathChar additionally admits `/`, which appears inside namespaced
// component names such as `ui/button-group`.
func isPathChar(c byte) bool {
	return isIdentChar(c) || c == '/'
}

// isTagChar covers angle-bracket tag and attribute names, including the
// `::` namespace separator and dotted local references like `f.input`.
func isTagChar(c byte) bool {
	return isAlpha(c) || isDigit(c) || c == '_' || c == '-' || c == '.' || c == ':'
}

func isSpaceByte(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}
