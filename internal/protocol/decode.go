package protocol

import (
	"fmt"

	json "github.com/goccy/go-json"
)

// WireEnvelope is the decoded form of a received error envelope. Variant
// names the concrete kind; Detail carries its payload, if any.
type WireEnvelope struct {
	Code    int
	Family  string // "Service" or "Runtime"
	Variant string
	Detail  json.RawMessage
}

// DecodeEnvelope parses a received protocol error body.
func DecodeEnvelope(data []byte) (*WireEnvelope, error) {
	var raw struct {
		Code int                        `json:"code"`
		Kind map[string]json.RawMessage `json:"kind"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("malformed error envelope: %w", err)
	}
	if len(raw.Kind) != 1 {
		return nil, fmt.Errorf("malformed error envelope: %d kind families", len(raw.Kind))
	}
	env := &WireEnvelope{Code: raw.Code}
	for family, value := range raw.Kind {
		if family != "Service" && family != "Runtime" {
			return nil, fmt.Errorf("malformed error envelope: unknown family %q", family)
		}
		env.Family = family

		var unit string
		if err := json.Unmarshal(value, &unit); err == nil {
			env.Variant = unit
			continue
		}
		var tagged map[string]json.RawMessage
		if err := json.Unmarshal(value, &tagged); err != nil || len(tagged) != 1 {
			return nil, fmt.Errorf("malformed error envelope: bad %s kind", family)
		}
		for variant, detail := range tagged {
			env.Variant = variant
			env.Detail = detail
		}
	}
	return env, nil
}
