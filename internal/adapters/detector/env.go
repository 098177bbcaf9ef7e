// Package detector picks the log format for the current environment.
package detector

import (
	"os"

	"golang.org/x/term"
)

// OutputMode represents how log lines are rendered.
type OutputMode int

const (
	// ModeAuto automatically detects the appropriate mode.
	ModeAuto OutputMode = iota
	// ModePretty forces colored human-readable lines.
	ModePretty
	// ModeJSON forces one JSON object per line.
	ModeJSON
)

// DetectEnvironment returns ModeJSON when stderr is not a terminal or CI is
// set, and ModePretty otherwise.
func DetectEnvironment() OutputMode {
	isTTY := term.IsTerminal(int(os.Stderr.Fd())) //nolint:gosec // fd fits in int

	ci := os.Getenv("CI")
	isCI := ci == "true" || ci == "1"

	if !isTTY || isCI {
		return ModeJSON
	}
	return ModePretty
}

// ResolveMode applies the --log-format flag to the detected mode.
// userFlag should be one of: "auto", "pretty", "text", "json", or empty.
func ResolveMode(autoDetected OutputMode, userFlag string) OutputMode {
	switch userFlag {
	case "pretty", "text":
		return ModePretty
	case "json":
		return ModeJSON
	default:
		return autoDetected
	}
}
