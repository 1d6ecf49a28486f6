// Package version provides version information for the binary.
// Values are set at build time using -ldflags "-X ...version.Version=...".
package version

import "fmt"

var (
	// Version is the release version of the application.
	Version = "dev"
	// Commit is the VCS revision the binary was built from.
	Commit = "none"
	// BuildTime is when the binary was built.
	BuildTime = "unknown"
)

// String returns the formatted version information.
func String() string {
	return fmt.Sprintf("docsense version %s (commit %s, built %s)", Version, Commit, BuildTime)
}
