package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/49nord/humble/internal/ir"
	"github.com/49nord/humble/internal/parser"
)

func build(t *testing.T, src string) (*ir.Module, error) {
	t.Helper()
	spec, err := parser.Parse(src)
	require.NoError(t, err)
	return Build(spec, Options{})
}

func TestBuildLowersDeclarations(t *testing.T) {
	module, err := build(t, `
/// A monster.
struct Monster {
    id: uuid,
    name: str,
}

enum Outcome {
    Won,
    Lost(str),
}

service MonsterApi {
    GET /monsters/{id: uuid} -> Monster,
}
`)
	require.NoError(t, err)

	decls := module.Decls()
	require.Len(t, decls, 3)

	s, ok := decls[0].(*ir.StructDecl)
	require.True(t, ok)
	assert.Equal(t, "Monster", s.Name)
	assert.Equal(t, "A monster.", s.Doc)
	assert.Len(t, s.Fields, 2)

	e, ok := decls[1].(*ir.EnumDecl)
	require.True(t, ok)
	assert.Equal(t, ir.VariantUnit, e.Variants[0].Kind)
	assert.Equal(t, ir.VariantNewtype, e.Variants[1].Kind)

	svc, ok := decls[2].(*ir.ServiceDecl)
	require.True(t, ok)
	require.Len(t, svc.Endpoints, 1)
	assert.Equal(t, "GET", svc.Endpoints[0].Method)

	got, ok := module.Lookup("Monster")
	require.True(t, ok)
	assert.Same(t, decls[0], got)
}

func TestBuildRejectsUnresolvedType(t *testing.T) {
	_, err := build(t, `
struct A {
    x: Missing,
}
`)
	var unresolved *UnresolvedTypeError
	require.ErrorAs(t, err, &unresolved)
	assert.Equal(t, "Missing", unresolved.Name)
	assert.Equal(t, "struct A, field x", unresolved.ReferencedFrom)
}

func TestBuildRejectsUnresolvedTypeInContainer(t *testing.T) {
	_, err := build(t, `
struct A {
    xs: list[option[Missing]],
}
`)
	var unresolved *UnresolvedTypeError
	require.ErrorAs(t, err, &unresolved)
	assert.Equal(t, "Missing", unresolved.Name)
}

func TestBuildRejectsServiceAsType(t *testing.T) {
	// service names are not part of the type namespace
	_, err := build(t, `
struct A {
    x: Api,
}

service Api {
    GET / -> (),
}
`)
	var unresolved *UnresolvedTypeError
	require.ErrorAs(t, err, &unresolved)
	assert.Equal(t, "Api", unresolved.Name)
}

func TestBuildRejectsDuplicateName(t *testing.T) {
	_, err := build(t, `
struct A {
    x: i32,
}

enum A {
    One,
}
`)
	var dup *DuplicateNameError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "A", dup.Name)
}

func TestBuildRejectsShortTuple(t *testing.T) {
	_, err := build(t, `
struct A {
    x: (i32),
}
`)
	var arity *TupleArityError
	require.ErrorAs(t, err, &arity)
	assert.Equal(t, 1, arity.Arity)
	assert.Equal(t, "struct A, field x", arity.Location)
}

func TestBuildDefaultMapKeys(t *testing.T) {
	_, err := build(t, `
struct A {
    a: map[str][i32],
    b: map[i32][str],
    c: map[u32][str],
    d: map[u8][str],
    e: map[bool][str],
    f: map[uuid][str],
    g: map[date][str],
}
`)
	require.NoError(t, err)
}

func TestBuildRejectsInvalidMapKey(t *testing.T) {
	_, err := build(t, `
struct A {
    m: map[f64][str],
}
`)
	var mapKey *InvalidMapKeyError
	require.ErrorAs(t, err, &mapKey)
	assert.Equal(t, "f64", mapKey.KeyType)
}

func TestBuildRejectsCompositeMapKey(t *testing.T) {
	_, err := build(t, `
struct A {
    m: map[list[str]][str],
}
`)
	var mapKey *InvalidMapKeyError
	require.ErrorAs(t, err, &mapKey)
	assert.Equal(t, "list[str]", mapKey.KeyType)
}

func TestBuildMapKeyOverride(t *testing.T) {
	spec, err := parser.Parse(`
struct A {
    m: map[f64][str],
}
`)
	require.NoError(t, err)

	_, err = Build(spec, Options{MapKeys: map[ir.Builtin]bool{ir.F64: true}})
	require.NoError(t, err)

	// an override replaces the default set entirely
	spec, err = parser.Parse(`
struct A {
    m: map[str][i32],
}
`)
	require.NoError(t, err)
	_, err = Build(spec, Options{MapKeys: map[ir.Builtin]bool{ir.F64: true}})
	var mapKey *InvalidMapKeyError
	require.ErrorAs(t, err, &mapKey)
}

func TestBuildRejectsDuplicateVariant(t *testing.T) {
	_, err := build(t, `
enum E {
    One,
    One(str),
}
`)
	var dup *DuplicateVariantError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "E", dup.Enum)
	assert.Equal(t, "One", dup.Variant)
}

func TestBuildRejectsNonStructQueryType(t *testing.T) {
	_, err := build(t, `
enum Filter {
    All,
}

service Api {
    GET /things ?{Filter} -> (),
}
`)
	var query *InvalidQueryTypeError
	require.ErrorAs(t, err, &query)
	assert.Equal(t, "Filter", query.Name)
}

func TestBuildResolutionRunsBeforeArity(t *testing.T) {
	// both faults present: resolution is reported first
	_, err := build(t, `
struct A {
    x: (Missing),
}
`)
	var unresolved *UnresolvedTypeError
	require.ErrorAs(t, err, &unresolved)
}
