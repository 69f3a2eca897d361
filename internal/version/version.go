// Package version carries build metadata, set with -ldflags -X.
package version

import (
	"fmt"
	"runtime/debug"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Short is the bare version, falling back to the module version recorded by
// `go install`.
func Short() string {
	if Version != "dev" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return Version
}

func Full() string {
	return fmt.Sprintf("voicewithin %s, commit %s, built at %s", Short(), Commit, Date)
}
