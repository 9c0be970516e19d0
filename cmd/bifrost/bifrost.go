package main

import (
	"log/slog"
	"os"

	"github.com/cruciblehq/bifrost/internal"
	"github.com/cruciblehq/bifrost/internal/cli"
)

// The entry point for the bifrost CLI.
//
// Initializes logging and executes the root command. Errors are logged and
// mapped to the documented exit codes.
func main() {
	slog.SetDefault(cli.NewLogger(os.Stderr))

	slog.Debug("build", "version", internal.VersionString())

	slog.Debug("bifrost is running",
		"pid", os.Getpid(),
		"cwd", cwd(),
		"args", os.Args,
	)

	if err := cli.Execute(); err != nil {
		code := cli.ExitCode(err)
		slog.Error(err.Error(), "exit", code)
		os.Exit(code)
	}
}

// Returns the current working directory or "(unknown)".
func cwd() string {
	cwd, err := os.Getwd()
	if err != nil {
		return "(unknown)"
	}
	return cwd
}
