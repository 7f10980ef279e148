// Package version exposes the compiler's version identifier.
//
// The identifier participates in the client/server handshake: servers send
// it in the backend-version response header and generated clients embed it
// at generation time. Builds from a dirty worktree append the protocol
// dirty marker; comparison ignores it on either side.
package version

// version is overridden at build time via
// -ldflags "-X github.com/49nord/humble/internal/version.version=…".
var version = "0.6.0"

// String returns the version identifier.
func String() string { return version }
