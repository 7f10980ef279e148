// Package typemap is the cross-target type model: a pure mapping from
// humble types to their representation in each generated target and on the
// JSON wire. Backends consume this table; it produces nothing itself.
package typemap

import (
	"fmt"
	"strings"

	"github.com/49nord/humble/internal/ir"
)

// Target identifies a code-generation target.
type Target int

const (
	// Server is the server-side systems-language target.
	Server Target = iota
	// Client is the browser-targeted functional-language target.
	Client
)

// serverAtoms maps builtins to the server target.
var serverAtoms = map[ir.Builtin]string{
	ir.Unit:     "()",
	ir.Str:      "String",
	ir.I32:      "i32",
	ir.U32:      "u32",
	ir.U8:       "u8",
	ir.F64:      "f64",
	ir.Bool:     "bool",
	ir.DateTime: "::chrono::DateTime<::chrono::Utc>",
	ir.Date:     "::chrono::NaiveDate",
	ir.UUID:     "::uuid::Uuid",
	ir.Bytes:    "Vec<u8>",
}

// clientAtoms maps builtins to the client target. The client has one
// integer type, so i32, u32, and u8 all widen to Int.
var clientAtoms = map[ir.Builtin]string{
	ir.Unit:     "()",
	ir.Str:      "String",
	ir.I32:      "Int",
	ir.U32:      "Int",
	ir.U8:       "Int",
	ir.F64:      "Float",
	ir.Bool:     "Bool",
	ir.DateTime: "Time.Posix",
	ir.Date:     "Date.Date",
	ir.UUID:     "Uuid.Uuid",
	ir.Bytes:    "Bytes.Bytes",
}

// Render maps a humble type to its representation in the given target.
func Render(target Target, t ir.Type) string {
	switch tt := t.(type) {
	case ir.Builtin:
		if target == Server {
			return serverAtoms[tt]
		}
		return clientAtoms[tt]
	case ir.Named:
		return tt.Name
	case ir.List:
		if target == Server {
			return "Vec<" + Render(target, tt.Elem) + ">"
		}
		return "List (" + Render(target, tt.Elem) + ")"
	case ir.Option:
		if target == Server {
			return "Option<" + Render(target, tt.Elem) + ">"
		}
		return "Maybe (" + Render(target, tt.Elem) + ")"
	case ir.Map:
		if target == Server {
			return fmt.Sprintf("::std::collections::HashMap<%s, %s>", Render(target, tt.Key), Render(target, tt.Value))
		}
		return fmt.Sprintf("Dict.Dict (%s) (%s)", Render(target, tt.Key), Render(target, tt.Value))
	case ir.Tuple:
		parts := make([]string, len(tt.Elems))
		for i, e := range tt.Elems {
			parts[i] = Render(target, e)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case ir.Result:
		if target == Server {
			return fmt.Sprintf("Result<%s, %s>", Render(target, tt.Ok), Render(target, tt.Err))
		}
		return fmt.Sprintf("Result (%s) (%s)", Render(target, tt.Err), Render(target, tt.Ok))
	}
	return ""
}

// WireShape describes the JSON shape a type occupies on the wire.
type WireShape string

// Wire shapes every target must agree on.
const (
	WireNull        WireShape = "null"
	WireString      WireShape = "string"
	WireNumber      WireShape = "number"
	WireBool        WireShape = "bool"
	WireBase64      WireShape = "base64 string"
	WireRFC3339     WireShape = "rfc3339 string"
	WireDateString  WireShape = "date string"
	WireUUIDString  WireShape = "uuid string"
	WireArray       WireShape = "array"
	WireFixedArray  WireShape = "fixed-length array"
	WireObject      WireShape = "object"
	WireNullable    WireShape = "value or null"
	WireTaggedUnion WireShape = "tag-discriminated object"
	WireResult      WireShape = "single-key Ok/Err object"
)

// Wire maps a humble type to its JSON shape. Named types resolve through
// the module: structs occupy objects, enums tag-discriminated objects.
func Wire(module *ir.Module, t ir.Type) WireShape {
	switch tt := t.(type) {
	case ir.Builtin:
		switch tt {
		case ir.Unit:
			return WireNull
		case ir.Str:
			return WireString
		case ir.Bool:
			return WireBool
		case ir.Bytes:
			return WireBase64
		case ir.DateTime:
			return WireRFC3339
		case ir.Date:
			return WireDateString
		case ir.UUID:
			return WireUUIDString
		default:
			return WireNumber
		}
	case ir.Named:
		if decl, ok := module.Lookup(tt.Name); ok {
			if _, isStruct := decl.(*ir.StructDecl); isStruct {
				return WireObject
			}
		}
		return WireTaggedUnion
	case ir.List:
		return WireArray
	case ir.Option:
		return WireNullable
	case ir.Map:
		return WireObject
	case ir.Tuple:
		return WireFixedArray
	case ir.Result:
		return WireResult
	}
	return ""
}
