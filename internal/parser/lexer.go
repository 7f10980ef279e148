package parser

import (
	"fmt"
	"strings"
)

// lexer produces tokens from schema source text. Doc comments are collected
// as leading trivia and attached to the next significant token; a blank line
// or a plain comment breaks the run.
type lexer struct {
	src  string
	pos  int
	line int
	col  int

	docLines   []string
	docEndLine int
}

func newLexer(src string) *lexer {
	return &lexer{src: src, line: 1, col: 1}
}

func (lx *lexer) eof() bool { return lx.pos >= len(lx.src) }

func (lx *lexer) peek() byte { return lx.src[lx.pos] }

func (lx *lexer) peekAt(off int) (byte, bool) {
	if lx.pos+off >= len(lx.src) {
		return 0, false
	}
	return lx.src[lx.pos+off], true
}

func (lx *lexer) advance() byte {
	ch := lx.src[lx.pos]
	lx.pos++
	if ch == '\n' {
		lx.line++
		lx.col = 1
	} else {
		lx.col++
	}
	return ch
}

// next returns the next significant token with its attached doc run.
func (lx *lexer) next() (token, error) {
	lx.skipTrivia()

	if lx.eof() {
		return token{kind: tokEOF, line: lx.line, column: lx.col, doc: lx.takeDoc(lx.line)}, nil
	}

	line, col := lx.line, lx.col
	doc := lx.takeDoc(line)
	ch := lx.peek()

	switch {
	case isIdentStart(ch):
		text := lx.scanIdent()
		k := tokIdent
		switch text {
		case "struct":
			k = tokKwStruct
		case "enum":
			k = tokKwEnum
		case "service":
			k = tokKwService
		}
		return token{kind: k, text: text, line: line, column: col, doc: doc}, nil

	case ch == '-':
		// only valid as part of '->'; '-' inside identifiers is consumed
		// by scanIdent
		if b, ok := lx.peekAt(1); ok && b == '>' {
			lx.advance()
			lx.advance()
			return token{kind: tokArrow, text: "->", line: line, column: col, doc: doc}, nil
		}

	default:
		if k, ok := punctKind(ch); ok {
			lx.advance()
			return token{kind: k, text: string(ch), line: line, column: col, doc: doc}, nil
		}
	}

	return token{}, &ParseError{
		Line:     line,
		Column:   col,
		Expected: "token",
		Found:    fmt.Sprintf("%q", string(ch)),
	}
}

func punctKind(ch byte) (kind, bool) {
	switch ch {
	case '{':
		return tokLBrace, true
	case '}':
		return tokRBrace, true
	case '[':
		return tokLBracket, true
	case ']':
		return tokRBracket, true
	case '(':
		return tokLParen, true
	case ')':
		return tokRParen, true
	case ',':
		return tokComma, true
	case ':':
		return tokColon, true
	case '?':
		return tokQuestion, true
	case '/':
		return tokSlash, true
	}
	return 0, false
}

// skipTrivia consumes whitespace and comments, accumulating doc-comment
// lines. Plain comments reset the accumulated run.
func (lx *lexer) skipTrivia() {
	for !lx.eof() {
		ch := lx.peek()
		switch {
		case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n':
			lx.advance()
		case ch == '/' && lx.startsDocComment():
			lx.scanDocComment()
		case ch == '/' && lx.startsPlainComment():
			lx.docLines = nil
			lx.skipToLineEnd()
		default:
			return
		}
	}
}

func (lx *lexer) startsDocComment() bool {
	b1, ok1 := lx.peekAt(1)
	b2, ok2 := lx.peekAt(2)
	return ok1 && ok2 && b1 == '/' && b2 == '/'
}

func (lx *lexer) startsPlainComment() bool {
	b1, ok := lx.peekAt(1)
	return ok && b1 == '/'
}

func (lx *lexer) scanDocComment() {
	// a gap of more than one line since the previous doc line breaks the run
	if len(lx.docLines) > 0 && lx.line > lx.docEndLine+1 {
		lx.docLines = nil
	}
	lx.docEndLine = lx.line
	lx.advance() // /
	lx.advance() // /
	lx.advance() // /
	start := lx.pos
	lx.skipToLineEnd()
	text := strings.TrimPrefix(lx.src[start:lx.pos], " ")
	lx.docLines = append(lx.docLines, strings.TrimRight(text, "\r"))
}

func (lx *lexer) skipToLineEnd() {
	for !lx.eof() && lx.peek() != '\n' {
		lx.advance()
	}
}

// takeDoc returns the collected doc run if it directly precedes tokenLine,
// and clears the buffer either way.
func (lx *lexer) takeDoc(tokenLine int) string {
	lines := lx.docLines
	lx.docLines = nil
	if len(lines) == 0 || tokenLine > lx.docEndLine+1 {
		return ""
	}
	return strings.Join(lines, "\n")
}

func (lx *lexer) scanIdent() string {
	start := lx.pos
	lx.advance()
	for !lx.eof() {
		ch := lx.peek()
		if isIdentCont(ch) {
			lx.advance()
			continue
		}
		// '-' continues a kebab-case identifier only when followed by an
		// alphanumeric; "a->b" must lex as ident, arrow, ident
		if ch == '-' {
			if b, ok := lx.peekAt(1); ok && isIdentCont(b) && b != '_' {
				lx.advance()
				continue
			}
		}
		break
	}
	return lx.src[start:lx.pos]
}

func isIdentStart(ch byte) bool {
	return ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' || ch == '_'
}

func isIdentCont(ch byte) bool {
	return isIdentStart(ch) || ch >= '0' && ch <= '9'
}
