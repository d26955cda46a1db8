/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package gridstore

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Build metadata, overridden with -ldflags "-X github.com/suparena/gridstore.GitCommit=..."
var (
	Version   = "0.1.0"
	GitCommit = ""
	BuildDate = ""
)

// VersionInfo describes the running build.
type VersionInfo struct {
	Version   string `yaml:"version"`
	GitCommit string `yaml:"git_commit"`
	BuildDate string `yaml:"build_date"`
	GoVersion string `yaml:"go_version"`
	Modified  bool   `yaml:"modified,omitempty"`
}

// GetVersionInfo returns the linked build metadata. Commit and date fall
// back to the VCS stamp of the binary when they were not set at link time.
func GetVersionInfo() VersionInfo {
	info := VersionInfo{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				if info.GitCommit == "" {
					info.GitCommit = s.Value
				}
			case "vcs.time":
				if info.BuildDate == "" {
					info.BuildDate = s.Value
				}
			case "vcs.modified":
				info.Modified = s.Value == "true"
			}
		}
	}
	if info.GitCommit == "" {
		info.GitCommit = "unknown"
	}
	if info.BuildDate == "" {
		info.BuildDate = "unknown"
	}
	return info
}

func (v VersionInfo) String() string {
	commit := v.GitCommit
	if v.Modified {
		commit += "-dirty"
	}
	return fmt.Sprintf("gridstore %s (commit %s, built %s, %s)", v.Version, commit, v.BuildDate, v.GoVersion)
}
