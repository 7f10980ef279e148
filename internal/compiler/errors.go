package compiler

import (
	"fmt"
	"strings"
)

// UnresolvedTypeError reports a Named type reference that matches no
// declared struct or enum.
type UnresolvedTypeError struct {
	Name           string `json:"name"`
	ReferencedFrom string `json:"referenced_from"`
}

// Error implements the error interface.
func (e *UnresolvedTypeError) Error() string {
	return fmt.Sprintf("unresolved type %q referenced from %s", e.Name, e.ReferencedFrom)
}

// DuplicateNameError reports two top-level declarations sharing one name.
type DuplicateNameError struct {
	Name string `json:"name"`
}

// Error implements the error interface.
func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("duplicate declaration name %q", e.Name)
}

// TupleArityError reports a tuple type with fewer than two elements; a
// single-element tuple has no distinct wire shape and is ill-formed.
type TupleArityError struct {
	Arity    int    `json:"arity"`
	Location string `json:"location"`
}

// Error implements the error interface.
func (e *TupleArityError) Error() string {
	return fmt.Sprintf("tuple of arity %d in %s: tuples require at least two elements", e.Arity, e.Location)
}

// InvalidMapKeyError reports a map key type outside the configured
// string-coercible scalar allow-list.
type InvalidMapKeyError struct {
	KeyType  string `json:"key_type"`
	Location string `json:"location"`
}

// Error implements the error interface.
func (e *InvalidMapKeyError) Error() string {
	return fmt.Sprintf("invalid map key type %s in %s", e.KeyType, e.Location)
}

// DuplicateVariantError reports two variants of one enum sharing a name.
type DuplicateVariantError struct {
	Enum    string `json:"enum"`
	Variant string `json:"variant"`
}

// Error implements the error interface.
func (e *DuplicateVariantError) Error() string {
	return fmt.Sprintf("duplicate variant %q in enum %q", e.Variant, e.Enum)
}

// CyclicTypeError reports a struct/enum chain that contains itself by value:
// no finite representation of such a type exists. The cycle passes through
// no list, option, or map indirection.
type CyclicTypeError struct {
	Cycle []string `json:"cycle"`
}

// Error implements the error interface.
func (e *CyclicTypeError) Error() string {
	return fmt.Sprintf("type cycle without indirection: %s", strings.Join(e.Cycle, " -> "))
}

// InvalidQueryTypeError reports an endpoint query type that does not name a
// declared struct. Query strings decode field-wise, so only struct types can
// serve as query types.
type InvalidQueryTypeError struct {
	Name           string `json:"name"`
	ReferencedFrom string `json:"referenced_from"`
}

// Error implements the error interface.
func (e *InvalidQueryTypeError) Error() string {
	return fmt.Sprintf("query type %q referenced from %s is not a struct", e.Name, e.ReferencedFrom)
}
