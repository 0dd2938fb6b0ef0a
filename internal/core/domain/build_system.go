package domain

import "strings"

// BuildSystem selects which adapter drives a project's own build.
type BuildSystem int

const (
	// BuildSystemMeson is the declarative flow: cross file, meson setup, ninja.
	BuildSystemMeson BuildSystem = iota + 1
	// BuildSystemAutotools is the configure/Makefile flow.
	BuildSystemAutotools
)

// String returns the manifest spelling of the build system.
func (b BuildSystem) String() string {
	switch b {
	case BuildSystemMeson:
		return "meson"
	case BuildSystemAutotools:
		return "autotools"
	default:
		return "unknown"
	}
}

// ParseBuildSystem converts a manifest value to a BuildSystem.
func ParseBuildSystem(s string) (BuildSystem, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "meson":
		return BuildSystemMeson, true
	case "autotools", "configure", "make":
		return BuildSystemAutotools, true
	default:
		return 0, false
	}
}
