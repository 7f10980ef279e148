package parser

import "fmt"

// kind identifies a lexical token class.
type kind int

const (
	tokEOF kind = iota
	tokIdent
	tokKwStruct
	tokKwEnum
	tokKwService
	tokLBrace
	tokRBrace
	tokLBracket
	tokRBracket
	tokLParen
	tokRParen
	tokComma
	tokColon
	tokQuestion
	tokSlash
	tokArrow
)

func (k kind) String() string {
	switch k {
	case tokEOF:
		return "end of input"
	case tokIdent:
		return "identifier"
	case tokKwStruct:
		return "'struct'"
	case tokKwEnum:
		return "'enum'"
	case tokKwService:
		return "'service'"
	case tokLBrace:
		return "'{'"
	case tokRBrace:
		return "'}'"
	case tokLBracket:
		return "'['"
	case tokRBracket:
		return "']'"
	case tokLParen:
		return "'('"
	case tokRParen:
		return "')'"
	case tokComma:
		return "','"
	case tokColon:
		return "':'"
	case tokQuestion:
		return "'?'"
	case tokSlash:
		return "'/'"
	case tokArrow:
		return "'->'"
	default:
		return fmt.Sprintf("token(%d)", int(k))
	}
}

// token is one lexical token. Doc holds the doc-comment run attached to the
// token per the contiguity rule; it is empty for most tokens.
type token struct {
	kind   kind
	text   string
	line   int
	column int
	doc    string
}

// describe renders the token for ParseError.Found.
func (t token) describe() string {
	if t.kind == tokIdent {
		return fmt.Sprintf("%q", t.text)
	}
	return t.kind.String()
}
