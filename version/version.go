// Package version holds build information injected at link time via
// -ldflags "-X github.com/jadabouassaly/PDF-Splitting/version.GitRelease=...".
package version

import "runtime"

var (
	// GitRelease is the release tag or branch this binary was built from.
	GitRelease = "dev"
	// GitCommit is the short commit hash.
	GitCommit = "unknown"
	// GitCommitDate is the commit date.
	GitCommitDate = "unknown"
	// GoInfo is the Go toolchain used for the build.
	GoInfo = runtime.Version()
)
