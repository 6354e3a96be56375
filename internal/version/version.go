// Package version holds the autobump build version information. It is a
// separate package with no dependencies so any package can import it
// without cycles.
package version

var (
	// Version information - set via ldflags during build
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)
