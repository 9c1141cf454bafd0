// Package version exposes the build version of the binary.
package version

import "runtime/debug"

// value is injected at build time via
// -ldflags "-X github.com/aireview/ai-pr-reviewer/internal/version.value=vX.Y.Z".
var value string

// Value returns the build version, falling back to module build info for
// go-installed binaries.
func Value() string {
	if value != "" {
		return value
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "v0.0.0-dev"
}
