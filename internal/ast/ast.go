// Package ast defines the syntax tree produced by internal/parser.
//
// The AST exists only between parse and IR construction; it carries source
// positions and attached documentation and is discarded once
// internal/compiler has built the ir.Module.
package ast

import "github.com/49nord/humble/internal/ir"

// Pos is a 1-based source position.
type Pos struct {
	Line   int
	Column int
}

// Spec is the top-level node: all items of one schema file, in source order.
type Spec struct {
	Items []Item
}

// Item is a sealed interface over top-level items. Only Struct, Enum, and
// Service implement it.
type Item interface {
	itemNode()
	// ItemName is the declared name.
	ItemName() string
	// ItemPos is the position of the declaring keyword.
	ItemPos() Pos
}

// Struct is a `struct` item.
type Struct struct {
	Name   string
	Doc    string
	Fields []Field
	Pos    Pos
}

func (*Struct) itemNode() {}

// ItemName implements Item.
func (s *Struct) ItemName() string { return s.Name }

// ItemPos implements Item.
func (s *Struct) ItemPos() Pos { return s.Pos }

// Field is one struct or struct-variant field.
type Field struct {
	Name string
	Doc  string
	Type ir.Type
	Pos  Pos
}

// Enum is an `enum` item.
type Enum struct {
	Name     string
	Doc      string
	Variants []Variant
	Pos      Pos
}

func (*Enum) itemNode() {}

// ItemName implements Item.
func (e *Enum) ItemName() string { return e.Name }

// ItemPos implements Item.
func (e *Enum) ItemPos() Pos { return e.Pos }

// Variant is one enum variant in source form. Exactly the fields implied by
// Kind are set, mirroring ir.Variant.
type Variant struct {
	Name    string
	Doc     string
	Kind    ir.VariantKind
	Tuple   []ir.Type
	Newtype ir.Type
	Fields  []Field
	Pos     Pos
}

// Service is a `service` item.
type Service struct {
	Name      string
	Doc       string
	Endpoints []Endpoint
	Pos       Pos
}

func (*Service) itemNode() {}

// ItemName implements Item.
func (s *Service) ItemName() string { return s.Name }

// ItemPos implements Item.
func (s *Service) ItemPos() Pos { return s.Pos }

// Endpoint is one endpoint declaration.
type Endpoint struct {
	Doc      string
	Method   string
	Route    []ir.Segment
	Query    ir.Type // nil when no `?{T}` component is present
	Body     ir.Type // nil for GET and DELETE
	Response ir.Type
	Pos      Pos
}
