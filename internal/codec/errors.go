package codec

import "fmt"

// DecodeError reports a wire value that does not match its declared type.
// Path locates the offending element, e.g. "monster.stats[2]".
type DecodeError struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	if e.Path == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Reason)
}

// EncodeError reports an in-memory value that does not match its declared
// type and therefore cannot be serialized.
type EncodeError struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// Error implements the error interface.
func (e *EncodeError) Error() string {
	if e.Path == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Reason)
}

func decodeErrf(path, format string, args ...any) *DecodeError {
	return &DecodeError{Path: path, Reason: fmt.Sprintf(format, args...)}
}

func encodeErrf(path, format string, args ...any) *EncodeError {
	return &EncodeError{Path: path, Reason: fmt.Sprintf(format, args...)}
}
