package codec

import (
	"encoding/base64"
	"fmt"
	"math"

	json "github.com/goccy/go-json"

	"github.com/49nord/humble/internal/ir"
)

// Decode parses the JSON wire form of the given type into its in-memory
// value, or fails with a DecodeError locating the mismatch.
func (c *Codec) Decode(t ir.Type, data []byte) (any, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &DecodeError{Path: "value", Reason: err.Error()}
	}
	return c.decodeValue(t, raw, "value")
}

func (c *Codec) decodeValue(t ir.Type, raw any, path string) (any, error) {
	switch tt := t.(type) {
	case ir.Builtin:
		return decodeScalar(tt, raw, path)

	case ir.Named:
		decl, ok := c.module.Lookup(tt.Name)
		if !ok {
			return nil, decodeErrf(path, "unknown type %s", tt.Name)
		}
		switch d := decl.(type) {
		case *ir.StructDecl:
			return c.decodeStruct(d.Fields, raw, path)
		case *ir.EnumDecl:
			return c.decodeEnum(d, raw, path)
		default:
			return nil, decodeErrf(path, "%s is a service, not a type", tt.Name)
		}

	case ir.List:
		elems, ok := raw.([]any)
		if !ok {
			return nil, decodeErrf(path, "expected array, got %s", jsonKind(raw))
		}
		out := make([]any, len(elems))
		for i, e := range elems {
			dec, err := c.decodeValue(tt.Elem, e, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			out[i] = dec
		}
		return out, nil

	case ir.Option:
		if raw == nil {
			return nil, nil
		}
		return c.decodeValue(tt.Elem, raw, path)

	case ir.Map:
		obj, ok := raw.(map[string]any)
		if !ok {
			return nil, decodeErrf(path, "expected object, got %s", jsonKind(raw))
		}
		keyType := tt.Key.(ir.Builtin)
		out := make(map[string]any, len(obj))
		for key, value := range obj {
			if _, err := ParseScalar(keyType, key); err != nil {
				return nil, decodeErrf(path, "map key %q is not a valid %s", key, keyType)
			}
			dec, err := c.decodeValue(tt.Value, value, fmt.Sprintf("%s[%q]", path, key))
			if err != nil {
				return nil, err
			}
			out[key] = dec
		}
		return out, nil

	case ir.Tuple:
		elems, ok := raw.([]any)
		if !ok {
			return nil, decodeErrf(path, "expected array, got %s", jsonKind(raw))
		}
		if len(elems) != len(tt.Elems) {
			return nil, decodeErrf(path, "expected %d tuple elements, got %d", len(tt.Elems), len(elems))
		}
		out := make([]any, len(elems))
		for i, e := range elems {
			dec, err := c.decodeValue(tt.Elems[i], e, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			out[i] = dec
		}
		return out, nil

	case ir.Result:
		obj, ok := raw.(map[string]any)
		if !ok || len(obj) != 1 {
			return nil, decodeErrf(path, `expected {"Ok": …} or {"Err": …}`)
		}
		if inner, isOk := obj["Ok"]; isOk {
			dec, err := c.decodeValue(tt.Ok, inner, path+".Ok")
			if err != nil {
				return nil, err
			}
			return Ok(dec), nil
		}
		if inner, isErr := obj["Err"]; isErr {
			dec, err := c.decodeValue(tt.Err, inner, path+".Err")
			if err != nil {
				return nil, err
			}
			return Err(dec), nil
		}
		return nil, decodeErrf(path, `expected {"Ok": …} or {"Err": …}`)
	}
	return nil, decodeErrf(path, "unsupported type %s", t)
}

func (c *Codec) decodeStruct(fields []ir.Field, raw any, path string) (any, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, decodeErrf(path, "expected object, got %s", jsonKind(raw))
	}
	out := make(map[string]any, len(fields))
	for _, f := range fields {
		fieldRaw, present := obj[f.Name]
		if !present {
			if _, isOpt := f.Type.(ir.Option); isOpt {
				out[f.Name] = nil
				continue
			}
			return nil, decodeErrf(path, "missing field %q", f.Name)
		}
		dec, err := c.decodeValue(f.Type, fieldRaw, path+"."+f.Name)
		if err != nil {
			return nil, err
		}
		out[f.Name] = dec
	}
	return out, nil
}

func (c *Codec) decodeEnum(decl *ir.EnumDecl, raw any, path string) (any, error) {
	// a bare string is a unit variant
	if name, ok := raw.(string); ok {
		for _, def := range decl.Variants {
			if def.Name == name {
				if def.Kind != ir.VariantUnit {
					return nil, decodeErrf(path, "variant %q of %s carries data", name, decl.Name)
				}
				return Variant{Name: name}, nil
			}
		}
		return nil, decodeErrf(path, "enum %s has no variant %q", decl.Name, name)
	}

	obj, ok := raw.(map[string]any)
	if !ok || len(obj) != 1 {
		return nil, decodeErrf(path, "expected variant tag for enum %s", decl.Name)
	}
	for name, payload := range obj {
		for _, def := range decl.Variants {
			if def.Name != name {
				continue
			}
			switch def.Kind {
			case ir.VariantUnit:
				return nil, decodeErrf(path, "variant %q of %s carries no data", name, decl.Name)
			case ir.VariantNewtype:
				inner, err := c.decodeValue(def.Newtype, payload, path+"."+name)
				if err != nil {
					return nil, err
				}
				return Variant{Name: name, Value: inner}, nil
			case ir.VariantTuple:
				inner, err := c.decodeValue(ir.Tuple{Elems: def.Tuple}, payload, path+"."+name)
				if err != nil {
					return nil, err
				}
				return Variant{Name: name, Value: inner}, nil
			case ir.VariantStruct:
				inner, err := c.decodeStruct(def.Fields, payload, path+"."+name)
				if err != nil {
					return nil, err
				}
				return Variant{Name: name, Value: inner}, nil
			}
		}
		return nil, decodeErrf(path, "enum %s has no variant %q", decl.Name, name)
	}
	return nil, decodeErrf(path, "expected variant tag for enum %s", decl.Name)
}

func decodeScalar(b ir.Builtin, raw any, path string) (any, error) {
	switch b {
	case ir.Unit:
		if raw == nil {
			return nil, nil
		}
	case ir.Str:
		if s, ok := raw.(string); ok {
			return s, nil
		}
	case ir.I32:
		if n, ok := asInteger(raw); ok && n >= math.MinInt32 && n <= math.MaxInt32 {
			return int32(n), nil
		}
	case ir.U32:
		if n, ok := asInteger(raw); ok && n >= 0 && n <= math.MaxUint32 {
			return uint32(n), nil
		}
	case ir.U8:
		if n, ok := asInteger(raw); ok && n >= 0 && n <= math.MaxUint8 {
			return uint8(n), nil
		}
	case ir.F64:
		if f, ok := raw.(float64); ok {
			return f, nil
		}
	case ir.Bool:
		if x, ok := raw.(bool); ok {
			return x, nil
		}
	case ir.DateTime, ir.Date, ir.UUID:
		if s, ok := raw.(string); ok {
			v, err := ParseScalar(b, s)
			if err != nil {
				return nil, &DecodeError{Path: path, Reason: err.Error()}
			}
			return v, nil
		}
	case ir.Bytes:
		if s, ok := raw.(string); ok {
			data, err := base64.StdEncoding.DecodeString(s)
			if err != nil {
				return nil, decodeErrf(path, "invalid base64: %v", err)
			}
			return data, nil
		}
	}
	return nil, decodeErrf(path, "expected %s, got %s", b, jsonKind(raw))
}

// asInteger accepts a JSON number only when it is integral.
func asInteger(raw any) (int64, bool) {
	f, ok := raw.(float64)
	if !ok || f != math.Trunc(f) {
		return 0, false
	}
	return int64(f), true
}

func jsonKind(raw any) string {
	switch raw.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case float64:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", raw)
	}
}
