// Package parser turns humble schema text into an AST.
//
// The grammar covers three top-level items (struct, enum, service) over the
// builtin atoms and the container syntax list[T], option[T], map[K][V],
// (T, T, …), and result[Ok][Err]. Documentation is attached from directly
// preceding doc-comment runs. The parser fails on the first syntactic
// deviation with a ParseError carrying line, column, expected, and found.
package parser

import (
	"fmt"

	"github.com/49nord/humble/internal/ast"
	"github.com/49nord/humble/internal/ir"
)

// Parse parses one schema file.
func Parse(src string) (*ast.Spec, error) {
	p := &parser{lx: newLexer(src)}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p.parseSpec()
}

type parser struct {
	lx  *lexer
	cur token
}

func (p *parser) advance() error {
	tok, err := p.lx.next()
	if err != nil {
		return err
	}
	p.cur = tok
	return nil
}

func (p *parser) errExpected(expected string) error {
	return &ParseError{
		Line:     p.cur.line,
		Column:   p.cur.column,
		Expected: expected,
		Found:    p.cur.describe(),
	}
}

// expect consumes the current token if it has kind k.
func (p *parser) expect(k kind) (token, error) {
	if p.cur.kind != k {
		return token{}, p.errExpected(k.String())
	}
	tok := p.cur
	if err := p.advance(); err != nil {
		return token{}, err
	}
	return tok, nil
}

func (p *parser) parseSpec() (*ast.Spec, error) {
	spec := &ast.Spec{}
	for p.cur.kind != tokEOF {
		item, err := p.parseItem()
		if err != nil {
			return nil, err
		}
		spec.Items = append(spec.Items, item)
	}
	return spec, nil
}

func (p *parser) parseItem() (ast.Item, error) {
	switch p.cur.kind {
	case tokKwStruct:
		return p.parseStruct()
	case tokKwEnum:
		return p.parseEnum()
	case tokKwService:
		return p.parseService()
	default:
		return nil, p.errExpected("'struct', 'enum' or 'service'")
	}
}

// parsePascalName consumes a PascalCase identifier.
func (p *parser) parsePascalName() (string, error) {
	if p.cur.kind != tokIdent || !isPascalCase(p.cur.text) {
		return "", p.errExpected("PascalCase identifier")
	}
	name := p.cur.text
	if err := p.advance(); err != nil {
		return "", err
	}
	return name, nil
}

func (p *parser) parseStruct() (*ast.Struct, error) {
	kw := p.cur
	if err := p.advance(); err != nil {
		return nil, err
	}
	name, err := p.parsePascalName()
	if err != nil {
		return nil, err
	}
	fields, err := p.parseFieldBlock()
	if err != nil {
		return nil, err
	}
	return &ast.Struct{
		Name:   name,
		Doc:    kw.doc,
		Fields: fields,
		Pos:    ast.Pos{Line: kw.line, Column: kw.column},
	}, nil
}

// parseFieldBlock parses '{' field, … '}' with an optional trailing comma.
func (p *parser) parseFieldBlock() ([]ast.Field, error) {
	if _, err := p.expect(tokLBrace); err != nil {
		return nil, err
	}
	var fields []ast.Field
	for p.cur.kind != tokRBrace {
		field, err := p.parseField()
		if err != nil {
			return nil, err
		}
		fields = append(fields, field)
		if p.cur.kind != tokComma {
			break
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(tokRBrace); err != nil {
		return nil, err
	}
	return fields, nil
}

func (p *parser) parseField() (ast.Field, error) {
	if p.cur.kind != tokIdent {
		return ast.Field{}, p.errExpected("field name")
	}
	nameTok := p.cur
	if err := p.advance(); err != nil {
		return ast.Field{}, err
	}
	if _, err := p.expect(tokColon); err != nil {
		return ast.Field{}, err
	}
	typ, err := p.parseType()
	if err != nil {
		return ast.Field{}, err
	}
	return ast.Field{
		Name: nameTok.text,
		Doc:  nameTok.doc,
		Type: typ,
		Pos:  ast.Pos{Line: nameTok.line, Column: nameTok.column},
	}, nil
}

func (p *parser) parseEnum() (*ast.Enum, error) {
	kw := p.cur
	if err := p.advance(); err != nil {
		return nil, err
	}
	name, err := p.parsePascalName()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokLBrace); err != nil {
		return nil, err
	}
	var variants []ast.Variant
	for p.cur.kind != tokRBrace {
		variant, err := p.parseVariant()
		if err != nil {
			return nil, err
		}
		variants = append(variants, variant)
		if p.cur.kind != tokComma {
			break
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(tokRBrace); err != nil {
		return nil, err
	}
	return &ast.Enum{
		Name:     name,
		Doc:      kw.doc,
		Variants: variants,
		Pos:      ast.Pos{Line: kw.line, Column: kw.column},
	}, nil
}

func (p *parser) parseVariant() (ast.Variant, error) {
	if p.cur.kind != tokIdent || !isPascalCase(p.cur.text) {
		return ast.Variant{}, p.errExpected("variant name")
	}
	nameTok := p.cur
	if err := p.advance(); err != nil {
		return ast.Variant{}, err
	}
	variant := ast.Variant{
		Name: nameTok.text,
		Doc:  nameTok.doc,
		Kind: ir.VariantUnit,
		Pos:  ast.Pos{Line: nameTok.line, Column: nameTok.column},
	}

	switch p.cur.kind {
	case tokLParen:
		// Variant(T) is a newtype, Variant(T, U, …) a tuple variant
		if err := p.advance(); err != nil {
			return ast.Variant{}, err
		}
		var elems []ir.Type
		for {
			typ, err := p.parseType()
			if err != nil {
				return ast.Variant{}, err
			}
			elems = append(elems, typ)
			if p.cur.kind != tokComma {
				break
			}
			if err := p.advance(); err != nil {
				return ast.Variant{}, err
			}
		}
		if _, err := p.expect(tokRParen); err != nil {
			return ast.Variant{}, err
		}
		if len(elems) == 1 {
			variant.Kind = ir.VariantNewtype
			variant.Newtype = elems[0]
		} else {
			variant.Kind = ir.VariantTuple
			variant.Tuple = elems
		}

	case tokLBrace:
		fields, err := p.parseFieldBlock()
		if err != nil {
			return ast.Variant{}, err
		}
		variant.Kind = ir.VariantStruct
		variant.Fields = fields
	}

	return variant, nil
}

func (p *parser) parseService() (*ast.Service, error) {
	kw := p.cur
	if err := p.advance(); err != nil {
		return nil, err
	}
	name, err := p.parsePascalName()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokLBrace); err != nil {
		return nil, err
	}
	var endpoints []ast.Endpoint
	for p.cur.kind != tokRBrace {
		ep, err := p.parseEndpoint()
		if err != nil {
			return nil, err
		}
		endpoints = append(endpoints, ep)
		if p.cur.kind != tokComma {
			break
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(tokRBrace); err != nil {
		return nil, err
	}
	return &ast.Service{
		Name:      name,
		Doc:       kw.doc,
		Endpoints: endpoints,
		Pos:       ast.Pos{Line: kw.line, Column: kw.column},
	}, nil
}

func (p *parser) parseEndpoint() (ast.Endpoint, error) {
	if p.cur.kind != tokIdent || !isHTTPMethod(p.cur.text) {
		return ast.Endpoint{}, p.errExpected("HTTP method (GET, POST, DELETE, PUT or PATCH)")
	}
	methodTok := p.cur
	if err := p.advance(); err != nil {
		return ast.Endpoint{}, err
	}

	route, err := p.parseRoute()
	if err != nil {
		return ast.Endpoint{}, err
	}

	ep := ast.Endpoint{
		Doc:    methodTok.doc,
		Method: methodTok.text,
		Route:  route,
		Pos:    ast.Pos{Line: methodTok.line, Column: methodTok.column},
	}

	if p.cur.kind == tokQuestion {
		query, err := p.parseQuery()
		if err != nil {
			return ast.Endpoint{}, err
		}
		ep.Query = query
	}

	if _, err := p.expect(tokArrow); err != nil {
		return ast.Endpoint{}, err
	}
	first, err := p.parseType()
	if err != nil {
		return ast.Endpoint{}, err
	}

	// GET and DELETE declare no body; POST, PUT and PATCH declare
	// body -> response
	if methodHasBody(methodTok.text) {
		if _, err := p.expect(tokArrow); err != nil {
			return ast.Endpoint{}, err
		}
		resp, err := p.parseType()
		if err != nil {
			return ast.Endpoint{}, err
		}
		ep.Body = first
		ep.Response = resp
	} else {
		ep.Response = first
	}

	return ep, nil
}

// parseRoute parses '/' (segment ('/' segment)*)?. The bare root route
// 'METHOD / -> …' has zero segments.
func (p *parser) parseRoute() ([]ir.Segment, error) {
	if _, err := p.expect(tokSlash); err != nil {
		return nil, err
	}
	var segments []ir.Segment
	paramNames := map[string]bool{}
	for {
		switch p.cur.kind {
		case tokIdent:
			if !isKebabCase(p.cur.text) {
				return nil, p.errExpected("kebab-case path segment")
			}
			segments = append(segments, ir.Segment{Literal: p.cur.text})
			if err := p.advance(); err != nil {
				return nil, err
			}
		case tokLBrace:
			paramTok := p.cur
			param, err := p.parseRouteParam()
			if err != nil {
				return nil, err
			}
			if paramNames[param.Name] {
				return nil, &ParseError{
					Line:     paramTok.line,
					Column:   paramTok.column,
					Expected: "parameter name unique within the route",
					Found:    fmt.Sprintf("%q", param.Name),
				}
			}
			paramNames[param.Name] = true
			segments = append(segments, ir.Segment{Param: param})
		default:
			if len(segments) == 0 {
				return segments, nil
			}
			return nil, p.errExpected("path segment")
		}
		if p.cur.kind != tokSlash {
			return segments, nil
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
}

// parseRouteParam parses '{' name ':' type '}'. The type is restricted to
// scalars parseable from a single non-slash path component.
func (p *parser) parseRouteParam() (*ir.RouteParam, error) {
	if err := p.advance(); err != nil { // {
		return nil, err
	}
	if p.cur.kind != tokIdent {
		return nil, p.errExpected("parameter name")
	}
	name := p.cur.text
	if err := p.advance(); err != nil {
		return nil, err
	}
	if _, err := p.expect(tokColon); err != nil {
		return nil, err
	}
	typeTok := p.cur
	typ, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if !isRouteParamType(typ) {
		return nil, &ParseError{
			Line:     typeTok.line,
			Column:   typeTok.column,
			Expected: "scalar route parameter type",
			Found:    fmt.Sprintf("%q", typ.String()),
		}
	}
	if _, err := p.expect(tokRBrace); err != nil {
		return nil, err
	}
	return &ir.RouteParam{Name: name, Type: typ}, nil
}

// parseQuery parses '?{' Type '}'.
func (p *parser) parseQuery() (ir.Type, error) {
	if err := p.advance(); err != nil { // ?
		return nil, err
	}
	if _, err := p.expect(tokLBrace); err != nil {
		return nil, err
	}
	name, err := p.parsePascalName()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokRBrace); err != nil {
		return nil, err
	}
	return ir.Named{Name: name}, nil
}

func (p *parser) parseType() (ir.Type, error) {
	switch p.cur.kind {
	case tokLParen:
		return p.parseParenType()
	case tokIdent:
		// container keywords first, then builtin atoms, then named types
		switch p.cur.text {
		case "list":
			if err := p.advance(); err != nil {
				return nil, err
			}
			elem, err := p.parseBracketedType()
			if err != nil {
				return nil, err
			}
			return ir.List{Elem: elem}, nil
		case "option":
			if err := p.advance(); err != nil {
				return nil, err
			}
			elem, err := p.parseBracketedType()
			if err != nil {
				return nil, err
			}
			return ir.Option{Elem: elem}, nil
		case "map":
			if err := p.advance(); err != nil {
				return nil, err
			}
			key, err := p.parseBracketedType()
			if err != nil {
				return nil, err
			}
			value, err := p.parseBracketedType()
			if err != nil {
				return nil, err
			}
			return ir.Map{Key: key, Value: value}, nil
		case "result":
			if err := p.advance(); err != nil {
				return nil, err
			}
			ok, err := p.parseBracketedType()
			if err != nil {
				return nil, err
			}
			errArm, err := p.parseBracketedType()
			if err != nil {
				return nil, err
			}
			return ir.Result{Ok: ok, Err: errArm}, nil
		}
		if b, ok := ir.BuiltinFromName(p.cur.text); ok {
			if err := p.advance(); err != nil {
				return nil, err
			}
			return b, nil
		}
		if isPascalCase(p.cur.text) {
			name := p.cur.text
			if err := p.advance(); err != nil {
				return nil, err
			}
			return ir.Named{Name: name}, nil
		}
	}
	return nil, p.errExpected("type")
}

// parseParenType parses the unit type '()' or a tuple '(T, T, …)'. The
// compiler rejects single-element tuples later with a TupleArityError so
// that the diagnostic names the malformed type rather than a token.
func (p *parser) parseParenType() (ir.Type, error) {
	if err := p.advance(); err != nil { // (
		return nil, err
	}
	if p.cur.kind == tokRParen {
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ir.Unit, nil
	}
	var elems []ir.Type
	for {
		typ, err := p.parseType()
		if err != nil {
			return nil, err
		}
		elems = append(elems, typ)
		if p.cur.kind != tokComma {
			break
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(tokRParen); err != nil {
		return nil, err
	}
	return ir.Tuple{Elems: elems}, nil
}

// parseBracketedType parses '[' Type ']'.
func (p *parser) parseBracketedType() (ir.Type, error) {
	if _, err := p.expect(tokLBracket); err != nil {
		return nil, err
	}
	typ, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokRBracket); err != nil {
		return nil, err
	}
	return typ, nil
}

func isHTTPMethod(s string) bool {
	switch s {
	case "GET", "POST", "DELETE", "PUT", "PATCH":
		return true
	}
	return false
}

func methodHasBody(method string) bool {
	switch method {
	case "POST", "PUT", "PATCH":
		return true
	}
	return false
}

// isRouteParamType reports whether t can be parsed from a single non-slash
// path component.
func isRouteParamType(t ir.Type) bool {
	b, ok := t.(ir.Builtin)
	if !ok {
		return false
	}
	switch b {
	case ir.Str, ir.I32, ir.U32, ir.U8, ir.F64, ir.Bool, ir.DateTime, ir.Date, ir.UUID:
		return true
	}
	return false
}

func isPascalCase(s string) bool {
	if s == "" || s[0] < 'A' || s[0] > 'Z' {
		return false
	}
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if !(ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' || ch >= '0' && ch <= '9') {
			return false
		}
	}
	return true
}

func isKebabCase(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if !(ch >= 'a' && ch <= 'z' || ch >= '0' && ch <= '9' || ch == '-') {
			return false
		}
	}
	return s[0] != '-' && s[len(s)-1] != '-'
}
