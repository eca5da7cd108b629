package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Set with -ldflags "-X github.com/MrSnakeDoc/favlauncher/internal/version.Version=v0.1.0".
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
	GoVersion = runtime.Version()
)

func init() {
	if Commit != "none" {
		return
	}
	// go install builds carry vcs settings instead of ldflags
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if len(s.Value) > 7 {
				Commit = s.Value[:7]
			} else {
				Commit = s.Value
			}
		case "vcs.time":
			BuildDate = s.Value
		}
	}
}

// String is the one-line build description.
func String() string {
	return fmt.Sprintf("%s (commit=%s, built=%s, go=%s)", Version, Commit, BuildDate, GoVersion)
}
