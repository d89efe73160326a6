// Package version carries build-time version information.
package version

import "fmt"

// Info holds version details injected at build time via ldflags.
type Info struct {
	Version   string // semantic version from git tags, e.g. "v1.2.0"
	GitCommit string // short commit hash
	BuildTime string // RFC3339 build timestamp
}

// String formats the info for the -version flag output.
func (i Info) String() string {
	version := i.Version
	if version == "" {
		version = "dev"
	}
	commit := i.GitCommit
	if commit == "" {
		commit = "unknown"
	}
	built := i.BuildTime
	if built == "" {
		built = "unknown"
	}
	return fmt.Sprintf("yescourses %s (commit: %s, built: %s)", version, commit, built)
}
