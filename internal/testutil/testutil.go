// Package testutil provides helpers shared by package tests: schema
// compilation shortcuts and the golden-file comparison convention.
package testutil

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"github.com/49nord/humble/internal/compiler"
	"github.com/49nord/humble/internal/ir"
	"github.com/49nord/humble/internal/parser"
	"github.com/49nord/humble/internal/router"
)

// MustCompile parses and compiles a schema source with default options,
// failing the test on any diagnostic.
func MustCompile(t *testing.T, src string) *ir.Module {
	t.Helper()
	spec, err := parser.Parse(src)
	require.NoError(t, err)
	module, err := compiler.Build(spec, compiler.Options{})
	require.NoError(t, err)
	return module
}

// MustCompileRoutes additionally compiles the route table.
func MustCompileRoutes(t *testing.T, src string) (*ir.Module, *router.Table) {
	t.Helper()
	module := MustCompile(t, src)
	table, err := router.Compile(module)
	require.NoError(t, err)
	return module, table
}

// Golden returns a goldie comparer with the conventional fixture layout.
// Regenerate fixtures with: go test <pkg> -update
func Golden(t *testing.T) *goldie.Goldie {
	t.Helper()
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

// MonsterSchema is a small schema exercising every declaration form. Tests
// across packages share it so fixtures stay mutually consistent.
const MonsterSchema = `/// A monster that roams the dungeon.
struct Monster {
    /// Unique identifier.
    id: uuid,
    name: str,
    hitpoints: u32,
    nickname: option[str],
    inventory: list[str],
    stats: map[str][i32],
    position: (i32, i32),
}

/// Filters for the monster listing.
struct MonsterQuery {
    name: option[str],
    min-hitpoints: option[u32],
}

struct MonsterPatch {
    name: option[str],
    hitpoints: option[u32],
}

/// Why a monster write can be refused.
enum MonsterError {
    TooWeak,
    NameTaken(str),
}

service MonsterApi {
    /// List all monsters.
    GET /monsters ?{MonsterQuery} -> list[Monster],
    GET /monsters/{id: uuid} -> Monster,
    POST /monsters -> Monster -> result[Monster][MonsterError],
    PUT /monsters/{id: uuid} -> Monster -> result[Monster][MonsterError],
    PATCH /monsters/{id: uuid} -> MonsterPatch -> result[Monster][MonsterError],
    DELETE /monsters/{id: uuid} -> (),
}
`
