// Package config loads optional generation options from a YAML file.
//
// The options file makes two deliberately configurable choices explicit:
// the map-key allow-list and whether a version mismatch on an otherwise
// successful response is surfaced to the caller.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/49nord/humble/internal/compiler"
	"github.com/49nord/humble/internal/ir"
)

// DefaultPath is the options file looked up when none is given.
const DefaultPath = "humble.yaml"

// Config holds generation options.
type Config struct {
	// MapKeys overrides the builtin allow-list for map key types. Empty
	// means the default set.
	MapKeys []string `yaml:"map_keys"`

	// StrictVersionCheck surfaces a version mismatch even when a 200
	// response body decodes successfully.
	StrictVersionCheck bool `yaml:"strict_version_check"`
}

// Default returns the zero configuration.
func Default() *Config {
	return &Config{}
}

// Load reads and validates an options file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read options file: %w", err)
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse options file %s: %w", path, err)
	}
	if _, err := cfg.mapKeySet(); err != nil {
		return nil, fmt.Errorf("options file %s: %w", path, err)
	}
	return cfg, nil
}

// CompilerOptions converts the configuration into compiler options.
func (c *Config) CompilerOptions() compiler.Options {
	keys, err := c.mapKeySet()
	if err != nil {
		// Load validated the names already
		panic(err)
	}
	return compiler.Options{MapKeys: keys}
}

func (c *Config) mapKeySet() (map[ir.Builtin]bool, error) {
	if len(c.MapKeys) == 0 {
		return nil, nil
	}
	keys := make(map[ir.Builtin]bool, len(c.MapKeys))
	for _, name := range c.MapKeys {
		b, ok := ir.BuiltinFromName(name)
		if !ok {
			return nil, fmt.Errorf("unknown map key type %q", name)
		}
		keys[b] = true
	}
	return keys, nil
}
