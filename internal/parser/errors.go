package parser

import "fmt"

// ParseError reports the first syntactic deviation in a schema file. The
// parser does not attempt recovery: compilation is offline and one error per
// invocation is sufficient.
type ParseError struct {
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	Expected string `json:"expected"`
	Found    string `json:"found"`
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("%d:%d: expected %s, found %s", e.Line, e.Column, e.Expected, e.Found)
}
