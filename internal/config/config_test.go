package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/49nord/humble/internal/ir"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "humble.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadOptions(t *testing.T) {
	path := writeFile(t, `
map_keys:
  - str
  - f64
strict_version_check: true
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"str", "f64"}, cfg.MapKeys)
	assert.True(t, cfg.StrictVersionCheck)

	opts := cfg.CompilerOptions()
	assert.Equal(t, map[ir.Builtin]bool{ir.Str: true, ir.F64: true}, opts.MapKeys)
}

func TestLoadRejectsUnknownMapKey(t *testing.T) {
	path := writeFile(t, `
map_keys:
  - uuid
  - banana
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "banana")
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := writeFile(t, "map_keys: [unterminated")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestDefaultOptions(t *testing.T) {
	cfg := Default()
	assert.Empty(t, cfg.MapKeys)
	assert.False(t, cfg.StrictVersionCheck)
	// nil map keys means the compiler's default allow-list
	assert.Nil(t, cfg.CompilerOptions().MapKeys)
}
