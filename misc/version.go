// Package misc keeps build time information about the program.
package misc

import (
	"runtime/debug"
)

// Set by the linker: -X u2s/misc.version=... -X u2s/misc.gitHash=...
var (
	version = "dev"
	gitHash = ""
)

const appName = "u2s"

func GetAppName() string {
	return appName
}

func GetVersion() string {
	return version
}

// GetGitHash returns commit hash program was built from. When it was not
// provided at link time VCS information embedded by the toolchain is used.
func GetGitHash() string {
	if len(gitHash) > 0 {
		return gitHash
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" {
				return s.Value
			}
		}
	}
	return "unknown"
}
