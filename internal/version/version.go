// Package version carries build-time version metadata.
package version

import "fmt"

// Set at build time via -ldflags.
//
//nolint:gochecknoglobals // build-time injection targets
var (
	// Version is the semantic version of this build.
	Version = "dev"

	// Commit is the git commit hash this build was produced from.
	Commit = "unknown"

	// Date is the build timestamp.
	Date = "unknown"
)

// String returns a single-line human-readable version string.
func String() string {
	return fmt.Sprintf("durapool %s (commit %s, built %s)", Version, Commit, Date)
}
