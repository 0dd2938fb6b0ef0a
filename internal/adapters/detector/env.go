// Package detector provides environment detection for log format selection.
package detector

import (
	"os"

	"golang.org/x/term"
)

// OutputMode represents how log output is rendered.
type OutputMode int

const (
	// ModeAuto automatically detects the appropriate mode.
	ModeAuto OutputMode = iota
	// ModePretty renders colored lines using the terminal's color profile.
	ModePretty
	// ModeLinear renders plain ANSI lines suitable for CI logs.
	ModeLinear
	// ModeJSON renders one JSON object per log record.
	ModeJSON
)

// DetectEnvironment returns the recommended output mode based on the environment.
// It checks if stderr is a TTY and if CI environment variables are set.
func DetectEnvironment() OutputMode {
	isTTY := term.IsTerminal(int(os.Stderr.Fd()))

	ci := os.Getenv("CI")
	isCI := ci == "true" || ci == "1"

	if !isTTY || isCI {
		return ModeLinear
	}
	return ModePretty
}

// ResolveMode applies the --log-format flag to auto-detection.
// userFlag should be one of: "auto", "pretty", "linear", "ci", "json", or empty.
func ResolveMode(autoDetected OutputMode, userFlag string) OutputMode {
	switch userFlag {
	case "pretty":
		return ModePretty
	case "linear", "ci":
		return ModeLinear
	case "json":
		return ModeJSON
	default:
		return autoDetected
	}
}
