// Package ir provides the resolved intermediate representation of a humble
// schema.
//
// This package contains type and definition nodes only. All other internal
// packages import ir; ir imports nothing internal. This ensures IR remains
// the foundational layer with no circular dependencies.
//
// A Module is built once per compilation by internal/compiler, validated,
// and never mutated afterwards. Downstream consumers (route compiler, codec,
// backends) hold read access only.
package ir
