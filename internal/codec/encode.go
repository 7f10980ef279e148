package codec

import (
	"encoding/base64"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/49nord/humble/internal/ir"
)

// Encode serializes a value of the given type to its JSON wire form.
func (c *Codec) Encode(t ir.Type, v any) ([]byte, error) {
	tree, err := c.encodeValue(t, v, "value")
	if err != nil {
		return nil, err
	}
	return json.Marshal(tree)
}

// encodeValue lowers a typed value into a JSON-ready tree of maps, slices,
// and primitives.
func (c *Codec) encodeValue(t ir.Type, v any, path string) (any, error) {
	switch tt := t.(type) {
	case ir.Builtin:
		return encodeScalar(tt, v, path)

	case ir.Named:
		decl, ok := c.module.Lookup(tt.Name)
		if !ok {
			return nil, encodeErrf(path, "unknown type %s", tt.Name)
		}
		switch d := decl.(type) {
		case *ir.StructDecl:
			return c.encodeStruct(d.Fields, v, path)
		case *ir.EnumDecl:
			return c.encodeEnum(d, v, path)
		default:
			return nil, encodeErrf(path, "%s is a service, not a type", tt.Name)
		}

	case ir.List:
		elems, ok := v.([]any)
		if !ok {
			return nil, encodeErrf(path, "expected list, got %T", v)
		}
		out := make([]any, len(elems))
		for i, e := range elems {
			enc, err := c.encodeValue(tt.Elem, e, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			out[i] = enc
		}
		return out, nil

	case ir.Option:
		if v == nil {
			return nil, nil
		}
		return c.encodeValue(tt.Elem, v, path)

	case ir.Map:
		entries, ok := v.(map[string]any)
		if !ok {
			return nil, encodeErrf(path, "expected map, got %T", v)
		}
		keyType := tt.Key.(ir.Builtin)
		out := make(map[string]any, len(entries))
		for key, value := range entries {
			if _, err := ParseScalar(keyType, key); err != nil {
				return nil, encodeErrf(path, "map key %q is not a valid %s", key, keyType)
			}
			enc, err := c.encodeValue(tt.Value, value, fmt.Sprintf("%s[%q]", path, key))
			if err != nil {
				return nil, err
			}
			out[key] = enc
		}
		return out, nil

	case ir.Tuple:
		elems, ok := v.([]any)
		if !ok || len(elems) != len(tt.Elems) {
			return nil, encodeErrf(path, "expected tuple of %d elements, got %T", len(tt.Elems), v)
		}
		out := make([]any, len(elems))
		for i, e := range elems {
			enc, err := c.encodeValue(tt.Elems[i], e, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			out[i] = enc
		}
		return out, nil

	case ir.Result:
		res, ok := v.(Result)
		if !ok {
			return nil, encodeErrf(path, "expected result, got %T", v)
		}
		if res.IsOk {
			inner, err := c.encodeValue(tt.Ok, res.Value, path+".Ok")
			if err != nil {
				return nil, err
			}
			return map[string]any{"Ok": inner}, nil
		}
		inner, err := c.encodeValue(tt.Err, res.Value, path+".Err")
		if err != nil {
			return nil, err
		}
		return map[string]any{"Err": inner}, nil
	}
	return nil, encodeErrf(path, "unsupported type %s", t)
}

func (c *Codec) encodeStruct(fields []ir.Field, v any, path string) (any, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, encodeErrf(path, "expected struct, got %T", v)
	}
	out := make(map[string]any, len(fields))
	for _, f := range fields {
		fieldValue, present := obj[f.Name]
		if !present {
			// absent option fields encode as null
			if _, isOpt := f.Type.(ir.Option); !isOpt {
				return nil, encodeErrf(path, "missing field %q", f.Name)
			}
		}
		enc, err := c.encodeValue(f.Type, fieldValue, path+"."+f.Name)
		if err != nil {
			return nil, err
		}
		out[f.Name] = enc
	}
	return out, nil
}

// encodeEnum renders a unit variant as its bare name and every other
// variant shape as the single-key object {"Name": payload}; the
// discriminant is the tag key, matched exactly by every target.
func (c *Codec) encodeEnum(decl *ir.EnumDecl, v any, path string) (any, error) {
	variant, ok := v.(Variant)
	if !ok {
		return nil, encodeErrf(path, "expected enum variant, got %T", v)
	}
	for _, def := range decl.Variants {
		if def.Name != variant.Name {
			continue
		}
		switch def.Kind {
		case ir.VariantUnit:
			return variant.Name, nil
		case ir.VariantNewtype:
			inner, err := c.encodeValue(def.Newtype, variant.Value, path+"."+def.Name)
			if err != nil {
				return nil, err
			}
			return map[string]any{def.Name: inner}, nil
		case ir.VariantTuple:
			tuple := ir.Tuple{Elems: def.Tuple}
			inner, err := c.encodeValue(tuple, variant.Value, path+"."+def.Name)
			if err != nil {
				return nil, err
			}
			return map[string]any{def.Name: inner}, nil
		case ir.VariantStruct:
			inner, err := c.encodeStruct(def.Fields, variant.Value, path+"."+def.Name)
			if err != nil {
				return nil, err
			}
			return map[string]any{def.Name: inner}, nil
		}
	}
	return nil, encodeErrf(path, "enum %s has no variant %q", decl.Name, variant.Name)
}

func encodeScalar(b ir.Builtin, v any, path string) (any, error) {
	switch b {
	case ir.Unit:
		if v == nil {
			return nil, nil
		}
	case ir.Str:
		if s, ok := v.(string); ok {
			return s, nil
		}
	case ir.I32:
		if n, ok := v.(int32); ok {
			return n, nil
		}
	case ir.U32:
		if n, ok := v.(uint32); ok {
			return n, nil
		}
	case ir.U8:
		if n, ok := v.(uint8); ok {
			return n, nil
		}
	case ir.F64:
		if f, ok := v.(float64); ok {
			return f, nil
		}
	case ir.Bool:
		if x, ok := v.(bool); ok {
			return x, nil
		}
	case ir.DateTime:
		if t, ok := v.(time.Time); ok {
			return t.UTC().Format(time.RFC3339Nano), nil
		}
	case ir.Date:
		if d, ok := v.(Date); ok {
			return d.String(), nil
		}
	case ir.UUID:
		if u, ok := v.(uuid.UUID); ok {
			return u.String(), nil
		}
	case ir.Bytes:
		if raw, ok := v.([]byte); ok {
			return base64.StdEncoding.EncodeToString(raw), nil
		}
	}
	return nil, encodeErrf(path, "value %T does not match type %s", v, b)
}
