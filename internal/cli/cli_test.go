package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validSchema = `
struct Monster {
    id: uuid,
    name: str,
}

service MonsterApi {
    GET /monsters -> list[Monster],
    GET /monsters/{id: uuid} -> Monster,
}
`

func writeSchema(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "schema.humble")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func run(args ...string) (stdout, stderr string, err error) {
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestCheckValidSchema(t *testing.T) {
	path := writeSchema(t, validSchema)
	stdout, _, err := run("check", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "1 struct(s), 0 enum(s), 1 service(s), 2 endpoint(s)")
}

func TestCheckJSONOutput(t *testing.T) {
	path := writeSchema(t, validSchema)
	stdout, _, err := run("--format", "json", "check", path)
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestCheckParseError(t *testing.T) {
	path := writeSchema(t, "struct lowercase {}")
	_, stderr, err := run("check", path)
	require.Error(t, err)
	assert.Equal(t, ExitSchemaError, GetExitCode(err))
	assert.Contains(t, stderr, "error[parse]")
	assert.Contains(t, stderr, path+":1:")
}

func TestCheckCompileErrorJSON(t *testing.T) {
	path := writeSchema(t, `
struct A {
    x: Missing,
}
`)
	stdout, _, err := run("--format", "json", "check", path)
	require.Error(t, err)
	assert.Equal(t, ExitSchemaError, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "error", resp.Status)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "unresolved-type", resp.Errors[0].Code)
}

func TestCheckAmbiguousRoutes(t *testing.T) {
	path := writeSchema(t, `
service Api {
    GET /things/{id: str} -> (),
    GET /things/all -> (),
}
`)
	_, stderr, err := run("check", path)
	require.Error(t, err)
	assert.Equal(t, ExitSchemaError, GetExitCode(err))
	assert.Contains(t, stderr, "error[ambiguous-routes]")
}

func TestCheckMissingFile(t *testing.T) {
	_, _, err := run("check", filepath.Join(t.TempDir(), "absent.humble"))
	require.Error(t, err)
	assert.Equal(t, ExitSchemaError, GetExitCode(err))
}

func TestCheckRejectsUnknownExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.proto")
	require.NoError(t, os.WriteFile(path, []byte(validSchema), 0644))
	_, stderr, err := run("check", path)
	require.Error(t, err)
	assert.Contains(t, stderr, "unrecognized schema extension")
}

func TestCheckHonorsConfig(t *testing.T) {
	dir := t.TempDir()
	schema := filepath.Join(dir, "schema.humble")
	require.NoError(t, os.WriteFile(schema, []byte(`
struct A {
    m: map[f64][str],
}
`), 0644))
	cfg := filepath.Join(dir, "opts.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("map_keys:\n  - f64\n"), 0644))

	// rejected under the default allow-list
	_, _, err := run("check", schema)
	require.Error(t, err)

	// accepted with the override
	_, _, err = run("--config", cfg, "check", schema)
	require.NoError(t, err)
}

func TestGenerateToFile(t *testing.T) {
	schema := writeSchema(t, validSchema)
	output := filepath.Join(t.TempDir(), "out.json")

	stdout, _, err := run("generate", "--backend", "client", "--output", output, schema)
	require.NoError(t, err)
	assert.Contains(t, stdout, "wrote client artifact")

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"format_version": 1`)
	assert.Contains(t, string(data), `"backend": "client"`)
}

func TestGenerateToStdout(t *testing.T) {
	schema := writeSchema(t, validSchema)
	stdout, _, err := run("generate", schema)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &doc))
	assert.Equal(t, "server", doc["backend"])
}

func TestGenerateUnknownBackend(t *testing.T) {
	schema := writeSchema(t, validSchema)
	_, _, err := run("generate", "--backend", "rust", schema)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestGenerateWritesNothingOnError(t *testing.T) {
	schema := writeSchema(t, `
struct A {
    x: Missing,
}
`)
	output := filepath.Join(t.TempDir(), "out.json")
	_, _, err := run("generate", "--output", output, schema)
	require.Error(t, err)

	_, statErr := os.Stat(output)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRootRejectsInvalidFormat(t *testing.T) {
	schema := writeSchema(t, validSchema)
	_, _, err := run("--format", "xml", "check", schema)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitSchemaError, GetExitCode(NewExitError(ExitSchemaError, "x")))
	assert.Equal(t, ExitCommandError, GetExitCode(assert.AnError))
}
