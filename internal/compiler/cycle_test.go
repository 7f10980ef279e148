package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCycleDirectSelfContainment(t *testing.T) {
	_, err := build(t, `
struct A {
    next: A,
}
`)
	var cyclic *CyclicTypeError
	require.ErrorAs(t, err, &cyclic)
	assert.Equal(t, []string{"A", "A"}, cyclic.Cycle)
}

func TestCycleOptionBreaksContainment(t *testing.T) {
	_, err := build(t, `
struct A {
    next: option[A],
}
`)
	require.NoError(t, err)
}

func TestCycleListBreaksContainment(t *testing.T) {
	_, err := build(t, `
struct Tree {
    children: list[Tree],
}
`)
	require.NoError(t, err)
}

func TestCycleMapBreaksContainment(t *testing.T) {
	_, err := build(t, `
struct A {
    m: map[str][A],
}
`)
	require.NoError(t, err)
}

func TestCycleTupleDoesNotBreakContainment(t *testing.T) {
	_, err := build(t, `
struct A {
    pair: (i32, A),
}
`)
	var cyclic *CyclicTypeError
	require.ErrorAs(t, err, &cyclic)
}

func TestCycleResultDoesNotBreakContainment(t *testing.T) {
	_, err := build(t, `
struct A {
    r: result[A][str],
}
`)
	var cyclic *CyclicTypeError
	require.ErrorAs(t, err, &cyclic)
}

func TestCycleNewtypeVariantDoesNotBreakContainment(t *testing.T) {
	_, err := build(t, `
enum E {
    Wrap(E),
}
`)
	var cyclic *CyclicTypeError
	require.ErrorAs(t, err, &cyclic)
	assert.Equal(t, []string{"E", "E"}, cyclic.Cycle)
}

func TestCycleMutualContainment(t *testing.T) {
	_, err := build(t, `
struct A {
    b: B,
}

struct B {
    a: A,
}
`)
	var cyclic *CyclicTypeError
	require.ErrorAs(t, err, &cyclic)
	require.Len(t, cyclic.Cycle, 3)
	assert.Equal(t, cyclic.Cycle[0], cyclic.Cycle[2])
	assert.ElementsMatch(t, []string{"A", "B"}, cyclic.Cycle[:2])
}

func TestCycleThroughEnumPayload(t *testing.T) {
	_, err := build(t, `
struct Node {
    link: Link,
}

enum Link {
    None,
    Next { node: Node },
}
`)
	var cyclic *CyclicTypeError
	require.ErrorAs(t, err, &cyclic)
}

func TestCycleIndirectionAnywhereInChain(t *testing.T) {
	_, err := build(t, `
struct Node {
    link: Link,
}

enum Link {
    None,
    Next(list[Node]),
}
`)
	require.NoError(t, err)
}

func TestAcyclicChain(t *testing.T) {
	_, err := build(t, `
struct A {
    b: B,
}

struct B {
    c: C,
}

struct C {
    x: i32,
}
`)
	require.NoError(t, err)
}
