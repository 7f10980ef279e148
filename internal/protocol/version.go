package protocol

import "strings"

// DirtyMarker is the suffix a dirty-worktree build appends to its version
// identifier. Version equality ignores it on either side.
const DirtyMarker = "-modified"

// VersionEqual compares a client and a server version identifier. A
// trailing dirty marker on either side is stripped before comparison, so
// "1.2.0" and "1.2.0-modified" compare equal.
func VersionEqual(client, server string) bool {
	return strings.TrimSuffix(client, DirtyMarker) == strings.TrimSuffix(server, DirtyMarker)
}
