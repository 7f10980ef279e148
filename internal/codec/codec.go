// Package codec implements the JSON wire format for every humble type.
//
// For each IR type the codec provides an encode function (value to JSON)
// and a decode function (JSON to value or a typed decode failure with a
// human-readable reason). Backends emit target-language equivalents of
// exactly these functions; the codec is the executable definition both
// sides must agree with.
//
// Values are held in a small dynamic model:
//
//	()        nil
//	str       string
//	i32       int32        u32  uint32       u8  uint8
//	f64       float64      bool bool
//	datetime  time.Time (UTC)
//	date      Date
//	uuid      uuid.UUID
//	bytes     []byte (a base64 string on the wire)
//	list      []any
//	option    nil or the inner value
//	map       map[string]any, keyed by the wire form of the key scalar
//	tuple     []any of fixed length
//	result    Result
//	struct    map[string]any, keyed by field name
//	enum      Variant
package codec

import (
	"time"

	"github.com/49nord/humble/internal/ir"
)

// Codec encodes and decodes values of the types declared in one module. It
// is read-only over the module and safe for concurrent use.
type Codec struct {
	module *ir.Module
}

// New creates a codec over a compiled module.
func New(module *ir.Module) *Codec {
	return &Codec{module: module}
}

// Module returns the module the codec serves.
func (c *Codec) Module() *ir.Module { return c.module }

// Date is a calendar date without a time component. The wire form is
// "YYYY-MM-DD".
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// String renders the wire form.
func (d Date) String() string {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
}

// ParseDate parses the wire form.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, err
	}
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}, nil
}

// Result is the in-memory form of a result[Ok][Err] value. The wire form is
// the single-key object {"Ok": …} or {"Err": …}.
type Result struct {
	IsOk  bool
	Value any
}

// Ok wraps a success value.
func Ok(v any) Result { return Result{IsOk: true, Value: v} }

// Err wraps a domain error value.
func Err(v any) Result { return Result{IsOk: false, Value: v} }

// Variant is the in-memory form of an enum value. Value is nil for unit
// variants, the inner value for newtype variants, []any for tuple variants,
// and map[string]any for struct variants.
type Variant struct {
	Name  string
	Value any
}
