package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/49nord/humble/internal/compiler"
	"github.com/49nord/humble/internal/config"
	"github.com/49nord/humble/internal/ir"
	"github.com/49nord/humble/internal/parser"
	"github.com/49nord/humble/internal/router"
)

// LoadError is a schema-loading failure before parsing starts.
type LoadError struct {
	Path    string
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

func (e *LoadError) Unwrap() error { return e.Err }

// LoadResult is a fully compiled schema with its route table.
type LoadResult struct {
	Path   string
	Module *ir.Module
	Table  *router.Table
}

// LoadSchema reads, parses and compiles one schema file, including route
// compilation. Compile options come from the optional config file.
func LoadSchema(path string, cfg *config.Config) (*LoadResult, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &LoadError{Path: path, Message: "cannot read schema", Err: err}
	}
	if info.IsDir() {
		return nil, &LoadError{Path: path, Message: "schema path is a directory, want a file"}
	}
	if ext := filepath.Ext(path); ext != ".humble" && ext != ".hgen" {
		return nil, &LoadError{Path: path, Message: fmt.Sprintf("unrecognized schema extension %q", ext)}
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Message: "cannot read schema", Err: err}
	}

	spec, err := parser.Parse(string(src))
	if err != nil {
		return nil, err
	}
	module, err := compiler.Build(spec, cfg.CompilerOptions())
	if err != nil {
		return nil, err
	}
	table, err := router.Compile(module)
	if err != nil {
		return nil, err
	}
	return &LoadResult{Path: path, Module: module, Table: table}, nil
}

// loadConfig resolves the optional config file: an explicit path must
// exist, the default path may be absent.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		if _, err := os.Stat(config.DefaultPath); err != nil {
			return config.Default(), nil
		}
		path = config.DefaultPath
	}
	return config.Load(path)
}
