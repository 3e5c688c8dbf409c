// Package version reports which pulse build is running.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Overridden at link time:
//
//	-ldflags "-X github.com/Aman-CERP/pulse/pkg/version.Version=v0.3.0
//	          -X github.com/Aman-CERP/pulse/pkg/version.Commit=$(git rev-parse --short HEAD)
//	          -X github.com/Aman-CERP/pulse/pkg/version.Date=$(date -u +%FT%TZ)"
var (
	Version = "dev"
	Commit  = ""
	Date    = ""
)

// BuildInfo is the machine-readable form printed by `pulse version --json`.
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	Modified  bool   `json:"modified,omitempty"`
	GoVersion string `json:"go_version"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// GetInfo merges the link-time values with the VCS stamp the go tool embeds,
// so `go install` builds still report a commit.
func GetInfo() BuildInfo {
	info := BuildInfo{
		Version:   Version,
		Commit:    Commit,
		Date:      Date,
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}

	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				if info.Commit == "" {
					info.Commit = shortRevision(s.Value)
				}
			case "vcs.time":
				if info.Date == "" {
					info.Date = s.Value
				}
			case "vcs.modified":
				info.Modified = s.Value == "true"
			}
		}
	}

	if info.Commit == "" {
		info.Commit = "unknown"
	}
	if info.Date == "" {
		info.Date = "unknown"
	}
	return info
}

// Short returns the bare version.
func Short() string {
	return Version
}

// String is the one-line banner for `pulse version` and `pulse --version`.
func String() string {
	info := GetInfo()
	commit := info.Commit
	if info.Modified {
		commit += "+dirty"
	}
	return fmt.Sprintf("pulse %s (%s, %s) %s %s/%s",
		info.Version, commit, info.Date, info.GoVersion, info.OS, info.Arch)
}

func shortRevision(rev string) string {
	if len(rev) > 12 {
		return rev[:12]
	}
	return rev
}
