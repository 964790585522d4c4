// Package version holds esgrid build metadata injected via ldflags:
//
//	-X github.com/kailas-cloud/esgrid/internal/version.Version=v1.2.0
package version

import "fmt"

//nolint:revive // Set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// String renders the build as "esgrid <version> (<commit>, <date>)".
func String() string {
	return fmt.Sprintf("esgrid %s (%s, %s)", Version, Commit, Date)
}
