// Package main provides the CLI entry point for the fixture engine.
package main

import (
	"os"

	"github.com/example/pulse/tools/fixturegen/cmd/fixturegen/commands"
)

// Version information (set via ldflags at build time)
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

func main() {
	commands.SetVersionInfo(version, gitCommit, buildDate)

	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
