// Package version reports the build version of gcm.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

var (
	Version   string // Set via ldflags.
	BuildDate string // Set via ldflags.

	Revision  = revision(debug.ReadBuildInfo)
	GoVersion = runtime.Version()
	Platform  = runtime.GOOS + "/" + runtime.GOARCH
)

// GetVersion returns the release version, or the VCS revision for
// development builds.
func GetVersion() string {
	if Version != "" {
		return Version
	}

	return Revision
}

// Info returns a one-line description of the build.
func Info() string {
	s := fmt.Sprintf("gcm %s (%s, %s)", GetVersion(), GoVersion, Platform)
	if BuildDate != "" {
		s += " built " + BuildDate
	}

	return s
}

func revision(read func() (*debug.BuildInfo, bool)) string {
	rev := "unknown"

	buildInfo, ok := read()
	if !ok {
		return rev
	}

	if buildInfo.Main.Version != "" && buildInfo.Main.Version != "(devel)" {
		rev = buildInfo.Main.Version
	}

	modified := false

	for _, v := range buildInfo.Settings {
		switch v.Key {
		case "vcs.revision":
			rev = v.Value[:min(len(v.Value), 7)]

		case "vcs.modified":
			modified = v.Value == "true"
		}
	}

	if modified {
		return rev + "-dirty"
	}

	return rev
}
