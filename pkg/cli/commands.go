// Package cli implements the skillscan commands.
package cli

import (
	"github.com/github/skillscan/pkg/logger"
)

var commandsLog = logger.New("cli:commands")

// Package-level version information
var version = "dev"

// SetVersionInfo sets the version information for the CLI.
func SetVersionInfo(v string) {
	version = v
}

// GetVersion returns the current version.
func GetVersion() string {
	return version
}

// Package-level verbose flag, set from the root command's persistent flag.
var verbose bool

// SetVerbose enables per-file progress output.
func SetVerbose(v bool) {
	verbose = v
	commandsLog.Printf("Verbose output: %t", v)
}

// Verbose reports whether per-file progress output is enabled.
func Verbose() bool {
	return verbose
}
