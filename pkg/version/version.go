// Package version exposes build-time version information for the gitseek binary.
package version

import "runtime/debug"

// Set via -ldflags at release build time.
var (
	// Version is the semantic version of the binary.
	Version = "dev"

	// Commit is the git hash the binary was built from.
	Commit = "unknown"

	// Date is the build timestamp.
	Date = "unknown"
)

// Init fills in missing fields from the embedded module build info.
// Release builds that set the ldflags variables are left untouched.
func Init() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}

	if Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}

	for _, setting := range info.Settings {
		if setting.Key == "vcs.revision" && Commit == "unknown" {
			Commit = setting.Value
		}

		if setting.Key == "vcs.time" && Date == "unknown" {
			Date = setting.Value
		}
	}
}
