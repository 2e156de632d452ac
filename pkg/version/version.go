// Package version provides build-time version information.
package version

import (
	"fmt"
	"runtime"
)

// Set at build time with -ldflags "-X github.com/sharkusmanch/ntfy-publisher/pkg/version.Version=...".
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Info contains version information.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"go_version"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// Get returns the current version information.
func Get() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		Date:      Date,
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// String returns a human-readable version string.
func (i Info) String() string {
	return fmt.Sprintf("ntfy-publisher %s (commit: %s, built: %s, %s, %s/%s)",
		i.Version, i.Commit, i.Date, i.GoVersion, i.OS, i.Arch)
}

// Short returns a short version string.
func (i Info) Short() string {
	return i.Version
}

// UserAgent is the User-Agent sent to ntfy servers and the Pushgateway.
func (i Info) UserAgent() string {
	return fmt.Sprintf("ntfy-publisher/%s (%s/%s)", i.Version, i.OS, i.Arch)
}
