// Package emit renders a compiled module into the backend-neutral JSON
// artifact consumed by code generators. Output is deterministic: declaration
// order follows the schema source, and no map iteration reaches the
// document.
package emit

import (
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/49nord/humble/internal/ir"
	"github.com/49nord/humble/internal/router"
	"github.com/49nord/humble/internal/server"
	"github.com/49nord/humble/internal/typemap"
)

// Backend selects the rendering profile of the artifact.
type Backend string

const (
	BackendServer Backend = "server"
	BackendClient Backend = "client"
	BackendDocs   Backend = "docs"
)

// ParseBackend validates a backend name from the command line.
func ParseBackend(s string) (Backend, error) {
	switch Backend(s) {
	case BackendServer, BackendClient, BackendDocs:
		return Backend(s), nil
	default:
		return "", fmt.Errorf("unknown backend %q (want server, client or docs)", s)
	}
}

// Document is the top-level artifact.
type Document struct {
	FormatVersion int          `json:"format_version"`
	Backend       Backend      `json:"backend"`
	Types         []TypeDef    `json:"types"`
	Services      []ServiceDef `json:"services"`
}

// TypeDef describes one struct or enum declaration.
type TypeDef struct {
	Name     string       `json:"name"`
	Kind     string       `json:"kind"` // "struct" | "enum"
	Doc      string       `json:"doc,omitempty"`
	Fields   []FieldDef   `json:"fields,omitempty"`
	Variants []VariantDef `json:"variants,omitempty"`
}

// FieldDef describes one struct field.
type FieldDef struct {
	Name string  `json:"name"`
	Doc  string  `json:"doc,omitempty"`
	Type TypeRef `json:"type"`
}

// VariantDef describes one enum variant.
type VariantDef struct {
	Name   string     `json:"name"`
	Doc    string     `json:"doc,omitempty"`
	Kind   string     `json:"kind"` // "unit" | "newtype" | "tuple" | "struct"
	Tuple  []TypeRef  `json:"tuple,omitempty"`
	Inner  *TypeRef   `json:"inner,omitempty"`
	Fields []FieldDef `json:"fields,omitempty"`
}

// TypeRef renders a type expression for one backend: the schema-level
// spelling, a target-language spelling, and the wire shape.
type TypeRef struct {
	Schema string `json:"schema"`
	Render string `json:"render,omitempty"`
	Wire   string `json:"wire"`
}

// ServiceDef describes one service and its compiled routes.
type ServiceDef struct {
	Name      string        `json:"name"`
	Doc       string        `json:"doc,omitempty"`
	Endpoints []EndpointDef `json:"endpoints"`
}

// EndpointDef is one endpoint binding: enough for a generator to produce
// both a dispatch entry and a typed client call.
type EndpointDef struct {
	Method     string     `json:"method"`
	Pattern    string     `json:"pattern"`
	HandlerKey string     `json:"handler_key"`
	Doc        string     `json:"doc,omitempty"`
	Params     []ParamDef `json:"params,omitempty"`
	Query      *TypeRef   `json:"query,omitempty"`
	Body       *TypeRef   `json:"body,omitempty"`
	Response   TypeRef    `json:"response"`
}

// ParamDef is one route parameter.
type ParamDef struct {
	Name string  `json:"name"`
	Type TypeRef `json:"type"`
}

// Emitter renders documents for one module.
type Emitter struct {
	module *ir.Module
	table  *router.Table
}

// New creates an emitter. The module's routes must already have compiled;
// Compile re-runs here only to obtain the pattern table.
func New(module *ir.Module) (*Emitter, error) {
	table, err := router.Compile(module)
	if err != nil {
		return nil, err
	}
	return &Emitter{module: module, table: table}, nil
}

// Document builds the artifact for one backend.
func (e *Emitter) Document(backend Backend) *Document {
	doc := &Document{FormatVersion: 1, Backend: backend}
	for _, decl := range e.module.Decls() {
		switch d := decl.(type) {
		case *ir.StructDecl:
			doc.Types = append(doc.Types, e.structDef(backend, d))
		case *ir.EnumDecl:
			doc.Types = append(doc.Types, e.enumDef(backend, d))
		}
	}
	for _, svc := range e.table.Services {
		doc.Services = append(doc.Services, e.serviceDef(backend, svc))
	}
	return doc
}

// Marshal renders the artifact as indented JSON with a trailing newline.
func (e *Emitter) Marshal(backend Backend) ([]byte, error) {
	data, err := json.MarshalIndent(e.Document(backend), "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func (e *Emitter) structDef(backend Backend, d *ir.StructDecl) TypeDef {
	def := TypeDef{Name: d.Name, Kind: "struct", Doc: d.Doc}
	for _, f := range d.Fields {
		def.Fields = append(def.Fields, FieldDef{Name: f.Name, Doc: f.Doc, Type: e.typeRef(backend, f.Type)})
	}
	return def
}

func (e *Emitter) enumDef(backend Backend, d *ir.EnumDecl) TypeDef {
	def := TypeDef{Name: d.Name, Kind: "enum", Doc: d.Doc}
	for _, v := range d.Variants {
		vd := VariantDef{Name: v.Name, Doc: v.Doc}
		switch v.Kind {
		case ir.VariantUnit:
			vd.Kind = "unit"
		case ir.VariantNewtype:
			vd.Kind = "newtype"
			ref := e.typeRef(backend, v.Newtype)
			vd.Inner = &ref
		case ir.VariantTuple:
			vd.Kind = "tuple"
			for _, t := range v.Tuple {
				vd.Tuple = append(vd.Tuple, e.typeRef(backend, t))
			}
		case ir.VariantStruct:
			vd.Kind = "struct"
			for _, f := range v.Fields {
				vd.Fields = append(vd.Fields, FieldDef{Name: f.Name, Doc: f.Doc, Type: e.typeRef(backend, f.Type)})
			}
		}
		def.Variants = append(def.Variants, vd)
	}
	return def
}

func (e *Emitter) serviceDef(backend Backend, svc *router.Service) ServiceDef {
	def := ServiceDef{Name: svc.Name}
	if decl, ok := e.module.Lookup(svc.Name); ok {
		if sd, ok := decl.(*ir.ServiceDecl); ok {
			def.Doc = sd.Doc
		}
	}
	for _, route := range svc.Routes {
		ep := route.Endpoint
		ed := EndpointDef{
			Method:     route.Method,
			Pattern:    route.Pattern(),
			HandlerKey: server.HandlerKey(route),
			Doc:        ep.Doc,
			Response:   e.typeRef(backend, ep.Response),
		}
		for _, seg := range route.Segments {
			if seg.IsParam() {
				ed.Params = append(ed.Params, ParamDef{
					Name: seg.Param.Name,
					Type: e.typeRef(backend, seg.Param.Type),
				})
			}
		}
		if ep.Query != nil {
			ref := e.typeRef(backend, ep.Query)
			ed.Query = &ref
		}
		if ep.Body != nil {
			ref := e.typeRef(backend, ep.Body)
			ed.Body = &ref
		}
		def.Endpoints = append(def.Endpoints, ed)
	}
	return def
}

func (e *Emitter) typeRef(backend Backend, t ir.Type) TypeRef {
	ref := TypeRef{
		Schema: t.String(),
		Wire:   string(typemap.Wire(e.module, t)),
	}
	switch backend {
	case BackendServer:
		ref.Render = typemap.Render(typemap.Server, t)
	case BackendClient:
		ref.Render = typemap.Render(typemap.Client, t)
	}
	return ref
}
