// Package main is the entry point for the specif-jira CLI.
package main

import (
	"fmt"
	"os"

	"github.com/danielolaszy/specif-jira/cmd"
	"github.com/danielolaszy/specif-jira/internal/logging"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// main executes the root command and exits non-zero on failure.
func main() {
	logging.Debug("starting specif-jira", "version", version)

	if err := cmd.Execute(); err != nil {
		logging.Error("command execution failed", "error", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
