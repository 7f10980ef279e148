package server

import (
	"fmt"
	"net/url"

	"github.com/49nord/humble/internal/codec"
	"github.com/49nord/humble/internal/ir"
)

// decodeQuery decodes an application/x-www-form-urlencoded query string
// field-wise into the endpoint's query struct. Fields may be scalars,
// option[scalar], or list[scalar]; an option field may be absent.
func (m *Mux) decodeQuery(queryType ir.Type, values url.Values) (any, error) {
	named, ok := queryType.(ir.Named)
	if !ok {
		return nil, fmt.Errorf("query type %s is not a struct", queryType)
	}
	decl, _ := m.codec.Module().Lookup(named.Name)
	structDecl, ok := decl.(*ir.StructDecl)
	if !ok {
		return nil, fmt.Errorf("query type %s is not a struct", named.Name)
	}

	out := make(map[string]any, len(structDecl.Fields))
	for _, f := range structDecl.Fields {
		given := values[f.Name]
		switch ft := f.Type.(type) {
		case ir.Builtin:
			if len(given) != 1 {
				return nil, fmt.Errorf("field %q wants exactly one value, got %d", f.Name, len(given))
			}
			v, err := codec.ParseScalar(ft, given[0])
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", f.Name, err)
			}
			out[f.Name] = v
		case ir.Option:
			inner, ok := ft.Elem.(ir.Builtin)
			if !ok {
				return nil, fmt.Errorf("field %q has non-scalar query type %s", f.Name, f.Type)
			}
			switch len(given) {
			case 0:
				out[f.Name] = nil
			case 1:
				v, err := codec.ParseScalar(inner, given[0])
				if err != nil {
					return nil, fmt.Errorf("field %q: %w", f.Name, err)
				}
				out[f.Name] = v
			default:
				return nil, fmt.Errorf("field %q wants at most one value, got %d", f.Name, len(given))
			}
		case ir.List:
			inner, ok := ft.Elem.(ir.Builtin)
			if !ok {
				return nil, fmt.Errorf("field %q has non-scalar query type %s", f.Name, f.Type)
			}
			elems := make([]any, len(given))
			for i, s := range given {
				v, err := codec.ParseScalar(inner, s)
				if err != nil {
					return nil, fmt.Errorf("field %q: %w", f.Name, err)
				}
				elems[i] = v
			}
			out[f.Name] = elems
		default:
			return nil, fmt.Errorf("field %q has non-scalar query type %s", f.Name, f.Type)
		}
	}
	return out, nil
}
