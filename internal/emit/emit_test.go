package emit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/49nord/humble/internal/testutil"
)

const noteSchema = `
struct Note {
    id: u32,
    text: str,
}

service NoteApi {
    GET /notes/{id: u32} -> Note,
}
`

func TestParseBackend(t *testing.T) {
	for _, name := range []string{"server", "client", "docs"} {
		b, err := ParseBackend(name)
		require.NoError(t, err)
		assert.Equal(t, Backend(name), b)
	}

	_, err := ParseBackend("rust")
	assert.Error(t, err)
}

func TestServerArtifactGolden(t *testing.T) {
	module := testutil.MustCompile(t, noteSchema)
	emitter, err := New(module)
	require.NoError(t, err)

	data, err := emitter.Marshal(BackendServer)
	require.NoError(t, err)

	testutil.Golden(t).Assert(t, "note_server", data)
}

func TestArtifactIsDeterministic(t *testing.T) {
	module := testutil.MustCompile(t, testutil.MonsterSchema)
	emitter, err := New(module)
	require.NoError(t, err)

	first, err := emitter.Marshal(BackendClient)
	require.NoError(t, err)
	second, err := emitter.Marshal(BackendClient)
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestDocumentShape(t *testing.T) {
	module := testutil.MustCompile(t, testutil.MonsterSchema)
	emitter, err := New(module)
	require.NoError(t, err)

	doc := emitter.Document(BackendClient)
	assert.Equal(t, 1, doc.FormatVersion)
	assert.Equal(t, BackendClient, doc.Backend)

	// declaration order is preserved
	require.Len(t, doc.Types, 4)
	assert.Equal(t, "Monster", doc.Types[0].Name)
	assert.Equal(t, "struct", doc.Types[0].Kind)
	assert.Equal(t, "A monster that roams the dungeon.", doc.Types[0].Doc)
	assert.Equal(t, "MonsterError", doc.Types[3].Name)
	assert.Equal(t, "enum", doc.Types[3].Kind)

	require.Len(t, doc.Services, 1)
	svc := doc.Services[0]
	assert.Equal(t, "MonsterApi", svc.Name)
	require.Len(t, svc.Endpoints, 6)

	list := svc.Endpoints[0]
	assert.Equal(t, "GET", list.Method)
	assert.Equal(t, "/monsters", list.Pattern)
	assert.Equal(t, "GET /monsters", list.HandlerKey)
	require.NotNil(t, list.Query)
	assert.Equal(t, "MonsterQuery", list.Query.Schema)
	assert.Equal(t, "List (Monster)", list.Response.Render)

	get := svc.Endpoints[1]
	require.Len(t, get.Params, 1)
	assert.Equal(t, "id", get.Params[0].Name)
	assert.Equal(t, "uuid", get.Params[0].Type.Schema)

	post := svc.Endpoints[2]
	require.NotNil(t, post.Body)
	assert.Equal(t, "Monster", post.Body.Schema)
	assert.Equal(t, "single-key Ok/Err object", string(post.Response.Wire))
}

func TestDocsBackendOmitsRenders(t *testing.T) {
	module := testutil.MustCompile(t, noteSchema)
	emitter, err := New(module)
	require.NoError(t, err)

	doc := emitter.Document(BackendDocs)
	assert.Empty(t, doc.Types[0].Fields[0].Type.Render)
	assert.Equal(t, "number", doc.Types[0].Fields[0].Type.Wire)
}

func TestVariantDefs(t *testing.T) {
	module := testutil.MustCompile(t, `
enum Shape {
    Empty,
    Circle(f64),
    Rect(f64, f64),
    Label { text: str },
}
`)
	emitter, err := New(module)
	require.NoError(t, err)

	doc := emitter.Document(BackendServer)
	require.Len(t, doc.Types, 1)
	variants := doc.Types[0].Variants
	require.Len(t, variants, 4)

	assert.Equal(t, "unit", variants[0].Kind)
	assert.Nil(t, variants[0].Inner)

	assert.Equal(t, "newtype", variants[1].Kind)
	require.NotNil(t, variants[1].Inner)
	assert.Equal(t, "f64", variants[1].Inner.Schema)

	assert.Equal(t, "tuple", variants[2].Kind)
	assert.Len(t, variants[2].Tuple, 2)

	assert.Equal(t, "struct", variants[3].Kind)
	require.Len(t, variants[3].Fields, 1)
	assert.Equal(t, "text", variants[3].Fields[0].Name)
}
