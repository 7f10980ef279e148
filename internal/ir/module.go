package ir

// Decl is a sealed interface over top-level declarations. Only StructDecl,
// EnumDecl, and ServiceDecl implement it.
type Decl interface {
	declNode()
	// DeclName is the declared PascalCase identifier.
	DeclName() string
}

// StructDecl is a resolved struct definition. Field order is semantically
// significant and preserved from the schema text.
type StructDecl struct {
	Name   string
	Doc    string
	Fields []Field
}

func (*StructDecl) declNode() {}

// DeclName implements Decl.
func (d *StructDecl) DeclName() string { return d.Name }

// Field is one named, typed struct field.
type Field struct {
	Name string
	Doc  string
	Type Type
}

// EnumDecl is a resolved enum definition. Variant order is preserved.
type EnumDecl struct {
	Name     string
	Doc      string
	Variants []Variant
}

func (*EnumDecl) declNode() {}

// DeclName implements Decl.
func (d *EnumDecl) DeclName() string { return d.Name }

// VariantKind discriminates the four variant shapes.
type VariantKind int

const (
	// VariantUnit is a bare C-style variant.
	VariantUnit VariantKind = iota
	// VariantTuple carries one or more positional types.
	VariantTuple
	// VariantNewtype wraps exactly one type; its wire shape is the bare
	// inner value, distinct from a 1-tuple.
	VariantNewtype
	// VariantStruct carries ordered named fields.
	VariantStruct
)

// Variant is one enum variant. Exactly the fields implied by Kind are set:
// Tuple for VariantTuple, Newtype for VariantNewtype, Fields for
// VariantStruct.
type Variant struct {
	Name    string
	Doc     string
	Kind    VariantKind
	Tuple   []Type
	Newtype Type
	Fields  []Field
}

// ServiceDecl is a resolved service definition. Endpoint order is preserved.
type ServiceDecl struct {
	Name      string
	Doc       string
	Endpoints []Endpoint
}

func (*ServiceDecl) declNode() {}

// DeclName implements Decl.
func (d *ServiceDecl) DeclName() string { return d.Name }

// Endpoint is one HTTP endpoint of a service. Body is nil for GET and
// DELETE endpoints and non-nil for POST, PUT, and PATCH.
type Endpoint struct {
	Doc      string
	Method   string
	Route    []Segment
	Query    Type // optional query struct type, nil when absent
	Body     Type // optional body type, nil when absent
	Response Type
}

// Segment is one route segment: either a kebab-case literal or a typed
// parameter. Param is nil for literal segments.
type Segment struct {
	Literal string
	Param   *RouteParam
}

// IsParam reports whether the segment is a parameter.
func (s Segment) IsParam() bool { return s.Param != nil }

// RouteParam is a typed route parameter. Its type is restricted to the
// scalar set parseable from a single non-slash path component.
type RouteParam struct {
	Name string
	Type Type
}

// Module is the immutable symbol table of one compiled schema. It maps every
// declared name to its resolved definition and preserves source declaration
// order for deterministic downstream emission.
type Module struct {
	decls []Decl
	index map[string]Decl
}

// NewModule builds a module from resolved declarations. Name uniqueness has
// already been established by the compiler.
func NewModule(decls []Decl) *Module {
	index := make(map[string]Decl, len(decls))
	for _, d := range decls {
		index[d.DeclName()] = d
	}
	return &Module{decls: decls, index: index}
}

// Decls returns declarations in source order. Callers must not mutate the
// returned slice.
func (m *Module) Decls() []Decl { return m.decls }

// Lookup resolves a declared name.
func (m *Module) Lookup(name string) (Decl, bool) {
	d, ok := m.index[name]
	return d, ok
}

// Structs returns all struct declarations in source order.
func (m *Module) Structs() []*StructDecl {
	var out []*StructDecl
	for _, d := range m.decls {
		if s, ok := d.(*StructDecl); ok {
			out = append(out, s)
		}
	}
	return out
}

// Enums returns all enum declarations in source order.
func (m *Module) Enums() []*EnumDecl {
	var out []*EnumDecl
	for _, d := range m.decls {
		if e, ok := d.(*EnumDecl); ok {
			out = append(out, e)
		}
	}
	return out
}

// Services returns all service declarations in source order.
func (m *Module) Services() []*ServiceDecl {
	var out []*ServiceDecl
	for _, d := range m.decls {
		if s, ok := d.(*ServiceDecl); ok {
			out = append(out, s)
		}
	}
	return out
}
