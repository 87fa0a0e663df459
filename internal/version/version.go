// Package version exposes the build identity stamped into the escalator
// binary.
package version

import "fmt"

// Commit and BuildTime are injected at build time through -ldflags; a binary
// built without them reports "unknown" for both.
var (
	Commit    = "unknown"
	BuildTime = "unknown"
)

// String formats the version line shown by `escalator --version`. Releases
// are identified by commit hash; there is no semver.
func String() string {
	return fmt.Sprintf("escalator dev (commit: %s, built: %s)", shortCommit(), BuildTime)
}

func shortCommit() string {
	if len(Commit) > 7 {
		return Commit[:7]
	}
	return Commit
}
