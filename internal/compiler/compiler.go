// Package compiler builds a validated ir.Module from a parsed AST.
//
// Build resolves every named type reference against the set of declared
// struct and enum names and then runs the validation passes in a fixed
// order: declaration-name uniqueness, tuple arity, map-key membership,
// variant-name uniqueness, query types, and acyclicity of unconditional
// value containment. The first failing pass aborts the build; compilation
// is offline and one diagnostic per invocation is sufficient.
package compiler

import (
	"fmt"

	"github.com/49nord/humble/internal/ast"
	"github.com/49nord/humble/internal/ir"
)

// Options configures compilation.
type Options struct {
	// MapKeys is the allow-list of builtins usable as map keys. The
	// members must coerce to and from JSON object key strings.
	MapKeys map[ir.Builtin]bool
}

// DefaultMapKeys returns the default map-key allow-list.
func DefaultMapKeys() map[ir.Builtin]bool {
	return map[ir.Builtin]bool{
		ir.Str:  true,
		ir.I32:  true,
		ir.U32:  true,
		ir.U8:   true,
		ir.Bool: true,
		ir.UUID: true,
		ir.Date: true,
	}
}

// Build compiles an AST into a validated, immutable module.
func Build(spec *ast.Spec, opts Options) (*ir.Module, error) {
	if opts.MapKeys == nil {
		opts.MapKeys = DefaultMapKeys()
	}
	c := &checker{spec: spec, opts: opts, declared: map[string]bool{}}
	return c.build()
}

type checker struct {
	spec     *ast.Spec
	opts     Options
	declared map[string]bool
}

func (c *checker) build() (*ir.Module, error) {
	if err := c.checkNameUniqueness(); err != nil {
		return nil, err
	}
	for _, item := range c.spec.Items {
		if _, ok := item.(*ast.Service); !ok {
			c.declared[item.ItemName()] = true
		}
	}
	if err := c.checkTypes(); err != nil {
		return nil, err
	}
	if err := c.checkVariants(); err != nil {
		return nil, err
	}
	if err := c.checkQueryTypes(); err != nil {
		return nil, err
	}
	if err := c.checkAcyclic(); err != nil {
		return nil, err
	}

	decls := make([]ir.Decl, 0, len(c.spec.Items))
	for _, item := range c.spec.Items {
		decls = append(decls, lowerItem(item))
	}
	return ir.NewModule(decls), nil
}

func (c *checker) checkNameUniqueness() error {
	seen := map[string]bool{}
	for _, item := range c.spec.Items {
		name := item.ItemName()
		if seen[name] {
			return &DuplicateNameError{Name: name}
		}
		seen[name] = true
	}
	return nil
}

// checkTypes runs the resolution, tuple-arity, and map-key passes over every
// type reference in the spec.
func (c *checker) checkTypes() error {
	for pass := 0; pass < 3; pass++ {
		for _, item := range c.spec.Items {
			if err := c.eachItemType(item, pass); err != nil {
				return err
			}
		}
	}
	return nil
}

// eachItemType visits every type reference of one item with the given
// validation pass: 0 resolution, 1 tuple arity, 2 map keys.
func (c *checker) eachItemType(item ast.Item, pass int) error {
	check := func(t ir.Type, location string) error {
		var err error
		walkType(t, func(t ir.Type) {
			if err != nil {
				return
			}
			switch pass {
			case 0:
				if named, ok := t.(ir.Named); ok && !c.declared[named.Name] {
					err = &UnresolvedTypeError{Name: named.Name, ReferencedFrom: location}
				}
			case 1:
				if tuple, ok := t.(ir.Tuple); ok && len(tuple.Elems) < 2 {
					err = &TupleArityError{Arity: len(tuple.Elems), Location: location}
				}
			case 2:
				if m, ok := t.(ir.Map); ok {
					if b, isBuiltin := m.Key.(ir.Builtin); !isBuiltin || !c.opts.MapKeys[b] {
						err = &InvalidMapKeyError{KeyType: m.Key.String(), Location: location}
					}
				}
			}
		})
		return err
	}

	switch it := item.(type) {
	case *ast.Struct:
		for _, f := range it.Fields {
			loc := fmt.Sprintf("struct %s, field %s", it.Name, f.Name)
			if err := check(f.Type, loc); err != nil {
				return err
			}
		}
	case *ast.Enum:
		for _, v := range it.Variants {
			loc := fmt.Sprintf("enum %s, variant %s", it.Name, v.Name)
			for _, t := range v.Tuple {
				if err := check(t, loc); err != nil {
					return err
				}
			}
			if v.Newtype != nil {
				if err := check(v.Newtype, loc); err != nil {
					return err
				}
			}
			for _, f := range v.Fields {
				if err := check(f.Type, fmt.Sprintf("%s, field %s", loc, f.Name)); err != nil {
					return err
				}
			}
		}
	case *ast.Service:
		for _, ep := range it.Endpoints {
			loc := fmt.Sprintf("service %s, endpoint %s %s", it.Name, ep.Method, ir.PatternString(ep.Route))
			if ep.Query != nil {
				if err := check(ep.Query, loc); err != nil {
					return err
				}
			}
			if ep.Body != nil {
				if err := check(ep.Body, loc); err != nil {
					return err
				}
			}
			if err := check(ep.Response, loc); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *checker) checkVariants() error {
	for _, item := range c.spec.Items {
		enum, ok := item.(*ast.Enum)
		if !ok {
			continue
		}
		seen := map[string]bool{}
		for _, v := range enum.Variants {
			if seen[v.Name] {
				return &DuplicateVariantError{Enum: enum.Name, Variant: v.Name}
			}
			seen[v.Name] = true
		}
	}
	return nil
}

func (c *checker) checkQueryTypes() error {
	structs := map[string]bool{}
	for _, item := range c.spec.Items {
		if s, ok := item.(*ast.Struct); ok {
			structs[s.Name] = true
		}
	}
	for _, item := range c.spec.Items {
		svc, ok := item.(*ast.Service)
		if !ok {
			continue
		}
		for _, ep := range svc.Endpoints {
			named, ok := ep.Query.(ir.Named)
			if !ok {
				continue
			}
			if !structs[named.Name] {
				return &InvalidQueryTypeError{
					Name:           named.Name,
					ReferencedFrom: fmt.Sprintf("service %s, endpoint %s %s", svc.Name, ep.Method, ir.PatternString(ep.Route)),
				}
			}
		}
	}
	return nil
}

// walkType visits t and every type it contains, outermost first.
func walkType(t ir.Type, visit func(ir.Type)) {
	visit(t)
	switch tt := t.(type) {
	case ir.List:
		walkType(tt.Elem, visit)
	case ir.Option:
		walkType(tt.Elem, visit)
	case ir.Map:
		walkType(tt.Key, visit)
		walkType(tt.Value, visit)
	case ir.Tuple:
		for _, e := range tt.Elems {
			walkType(e, visit)
		}
	case ir.Result:
		walkType(tt.Ok, visit)
		walkType(tt.Err, visit)
	}
}

func lowerItem(item ast.Item) ir.Decl {
	switch it := item.(type) {
	case *ast.Struct:
		return &ir.StructDecl{Name: it.Name, Doc: it.Doc, Fields: lowerFields(it.Fields)}
	case *ast.Enum:
		variants := make([]ir.Variant, len(it.Variants))
		for i, v := range it.Variants {
			variants[i] = ir.Variant{
				Name:    v.Name,
				Doc:     v.Doc,
				Kind:    v.Kind,
				Tuple:   v.Tuple,
				Newtype: v.Newtype,
				Fields:  lowerFields(v.Fields),
			}
		}
		return &ir.EnumDecl{Name: it.Name, Doc: it.Doc, Variants: variants}
	case *ast.Service:
		endpoints := make([]ir.Endpoint, len(it.Endpoints))
		for i, ep := range it.Endpoints {
			endpoints[i] = ir.Endpoint{
				Doc:      ep.Doc,
				Method:   ep.Method,
				Route:    ep.Route,
				Query:    ep.Query,
				Body:     ep.Body,
				Response: ep.Response,
			}
		}
		return &ir.ServiceDecl{Name: it.Name, Doc: it.Doc, Endpoints: endpoints}
	}
	return nil
}

func lowerFields(fields []ast.Field) []ir.Field {
	out := make([]ir.Field, len(fields))
	for i, f := range fields {
		out[i] = ir.Field{Name: f.Name, Doc: f.Doc, Type: f.Type}
	}
	return out
}
