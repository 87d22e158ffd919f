// Package version provides build-time version information.
package version

import (
	"fmt"
	"runtime"
)

// These variables are set at build time using -ldflags
var (
	// Version is the semantic version
	Version = "0.1.0"

	// BuildTime is the UTC time when the binary was built
	BuildTime = "unknown"

	// GitCommit is the git commit hash
	GitCommit = "unknown"
)

// String returns the version line printed by --version.
func String() string {
	if GitCommit != "unknown" {
		commit := GitCommit
		if len(commit) > 8 {
			commit = commit[:8]
		}
		return fmt.Sprintf("maglev-tracker %s (commit %s, built %s, %s)", Version, commit, BuildTime, runtime.Version())
	}
	return fmt.Sprintf("maglev-tracker %s (%s)", Version, runtime.Version())
}

// Short returns the bare version number.
func Short() string {
	return Version
}
