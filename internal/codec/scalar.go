package codec

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/49nord/humble/internal/ir"
)

// ParseScalar parses the string form of a scalar builtin. It is the single
// parser used for route parameters, query fields, and map keys, so all
// three agree on the accepted syntax.
func ParseScalar(b ir.Builtin, s string) (any, error) {
	switch b {
	case ir.Str:
		return s, nil
	case ir.I32:
		n, err := strconv.ParseInt(s, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid i32 %q", s)
		}
		return int32(n), nil
	case ir.U32:
		n, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid u32 %q", s)
		}
		return uint32(n), nil
	case ir.U8:
		n, err := strconv.ParseUint(s, 10, 8)
		if err != nil {
			return nil, fmt.Errorf("invalid u8 %q", s)
		}
		return uint8(n), nil
	case ir.F64:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid f64 %q", s)
		}
		return f, nil
	case ir.Bool:
		switch s {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
		return nil, fmt.Errorf("invalid bool %q", s)
	case ir.DateTime:
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return nil, fmt.Errorf("invalid datetime %q", s)
		}
		return t.UTC(), nil
	case ir.Date:
		d, err := ParseDate(s)
		if err != nil {
			return nil, fmt.Errorf("invalid date %q", s)
		}
		return d, nil
	case ir.UUID:
		u, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("invalid uuid %q", s)
		}
		return u, nil
	}
	return nil, fmt.Errorf("type %s is not parseable from a string", b)
}

// FormatScalar renders a scalar builtin value in its string form, the
// inverse of ParseScalar.
func FormatScalar(b ir.Builtin, v any) (string, error) {
	switch b {
	case ir.Str:
		if s, ok := v.(string); ok {
			return s, nil
		}
	case ir.I32:
		if n, ok := v.(int32); ok {
			return strconv.FormatInt(int64(n), 10), nil
		}
	case ir.U32:
		if n, ok := v.(uint32); ok {
			return strconv.FormatUint(uint64(n), 10), nil
		}
	case ir.U8:
		if n, ok := v.(uint8); ok {
			return strconv.FormatUint(uint64(n), 10), nil
		}
	case ir.F64:
		if f, ok := v.(float64); ok {
			return strconv.FormatFloat(f, 'g', -1, 64), nil
		}
	case ir.Bool:
		if b, ok := v.(bool); ok {
			return strconv.FormatBool(b), nil
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
	default:
		return "", fmt.Errorf("type %s has no string form", b)
	}
	return "", fmt.Errorf("value %T does not match type %s", v, b)
}
