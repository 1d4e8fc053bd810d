// Package main provides the guilddb CLI application.
// guilddb manages the lifecycle of the plant guild database: schema,
// dataset imports, derived profiles and artifacts, and the commands
// that score, recommend and serve guilds from them.
package main

import (
	"os"
)

var (
	// Version is set by build flags.
	Version = "dev"
	// Build is set by build flags.
	Build = "unknown"
)

func main() {
	if err := getRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
