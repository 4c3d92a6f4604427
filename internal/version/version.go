// Package version carries build metadata for the ember CLI.
package version

import "github.com/fatih/color"

// These variables can be overridden at build time via -ldflags.
var (
	// Version is the semantic version of the CLI. Kept free of escape
	// codes so --version and JSON consumers get a plain string.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var toolAccent = color.New(color.FgHiMagenta, color.Bold)

// Pretty renders "ember <version>" with the tool name highlighted for
// terminal output.
func Pretty() string {
	v := Version
	if v == "" {
		v = "dev"
	}
	return toolAccent.Sprint("ember") + " " + v
}
