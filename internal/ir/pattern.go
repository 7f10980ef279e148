package ir

import "strings"

// PatternString renders a route pattern in schema syntax, e.g.
// "/monsters/{id: uuid}". The zero-segment pattern renders as "/".
func PatternString(segments []Segment) string {
	if len(segments) == 0 {
		return "/"
	}
	var b strings.Builder
	for _, seg := range segments {
		b.WriteByte('/')
		if seg.IsParam() {
			b.WriteByte('{')
			b.WriteString(seg.Param.Name)
			b.WriteString(": ")
			b.WriteString(seg.Param.Type.String())
			b.WriteByte('}')
		} else {
			b.WriteString(seg.Literal)
		}
	}
	return b.String()
}
