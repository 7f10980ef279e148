package ir

import (
	"fmt"
	"strings"
)

// Type is a sealed interface over the humble type grammar. Only Builtin,
// Named, List, Option, Map, Tuple, and Result implement it.
type Type interface {
	typeNode()
	// String renders the type in schema syntax, e.g. "map[str][list[i32]]".
	String() string
}

// Builtin is an atomic builtin type.
type Builtin int

// Builtin atoms, in declaration order of the schema language surface.
const (
	Unit Builtin = iota // the empty type, written ()
	Str
	I32
	U32
	U8
	F64
	Bool
	DateTime
	Date
	UUID
	Bytes
)

func (Builtin) typeNode() {}

func (b Builtin) String() string {
	switch b {
	case Unit:
		return "()"
	case Str:
		return "str"
	case I32:
		return "i32"
	case U32:
		return "u32"
	case U8:
		return "u8"
	case F64:
		return "f64"
	case Bool:
		return "bool"
	case DateTime:
		return "datetime"
	case Date:
		return "date"
	case UUID:
		return "uuid"
	case Bytes:
		return "bytes"
	default:
		return fmt.Sprintf("builtin(%d)", int(b))
	}
}

// BuiltinFromName maps a schema token to its builtin atom.
func BuiltinFromName(name string) (Builtin, bool) {
	switch name {
	case "()":
		return Unit, true
	case "str":
		return Str, true
	case "i32":
		return I32, true
	case "u32":
		return U32, true
	case "u8":
		return U8, true
	case "f64":
		return F64, true
	case "bool":
		return Bool, true
	case "datetime":
		return DateTime, true
	case "date":
		return Date, true
	case "uuid":
		return UUID, true
	case "bytes":
		return Bytes, true
	}
	return 0, false
}

// Named references a struct or enum declared in the same schema.
type Named struct {
	Name string
}

func (Named) typeNode() {}

func (n Named) String() string { return n.Name }

// List is `list[T]`.
type List struct {
	Elem Type
}

func (List) typeNode() {}

func (l List) String() string { return "list[" + l.Elem.String() + "]" }

// Option is `option[T]`.
type Option struct {
	Elem Type
}

func (Option) typeNode() {}

func (o Option) String() string { return "option[" + o.Elem.String() + "]" }

// Map is `map[K][V]`.
type Map struct {
	Key   Type
	Value Type
}

func (Map) typeNode() {}

func (m Map) String() string {
	return "map[" + m.Key.String() + "][" + m.Value.String() + "]"
}

// Tuple is `(T, T, …)` with at least two elements. Arity is enforced by the
// compiler, not the constructor.
type Tuple struct {
	Elems []Type
}

func (Tuple) typeNode() {}

func (t Tuple) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Result is `result[Ok][Err]`. The Err arm carries domain errors that
// round-trip over HTTP status 200.
type Result struct {
	Ok  Type
	Err Type
}

func (Result) typeNode() {}

func (r Result) String() string {
	return "result[" + r.Ok.String() + "][" + r.Err.String() + "]"
}
