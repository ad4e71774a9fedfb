// Package buildinfo carries version stamps injected with
// -ldflags "-X nebula/internal/buildinfo.Version=...".
package buildinfo

import "fmt"

var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Short returns the most specific identifier available: a release version,
// else a commit, else "dev".
func Short() string {
	if Version != "" && Version != "dev" {
		return Version
	}
	if Commit != "" && Commit != "unknown" {
		return Commit
	}
	return "dev"
}

// String is the full build line printed by -version.
func String() string {
	return fmt.Sprintf("nebula %s (commit %s, built %s)", Short(), Commit, Date)
}
