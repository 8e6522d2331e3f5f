// Package main is the entry point for the shotframe CLI
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"shotframe/cmd"
	"shotframe/internal/output"
)

// version and build info are set at build time via ldflags
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

func main() {
	cmd.SetVersion(version)
	cmd.SetBuildInfo(commit, buildTime)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cmd.Execute(ctx)
	stop()
	if err == nil {
		return
	}

	var cliErr *output.CLIError
	if errors.As(err, &cliErr) {
		output.NewPrinter(os.Stdout, os.Stderr, output.ResolveColors(true), false).FormatError(cliErr)
	} else {
		os.Stderr.WriteString("Error: " + err.Error() + "\n")
	}
	os.Exit(output.ExitCode(err))
}
