// Package main is the entry point for the qhub CLI.
//
// qhub validates qhub-config.yaml deployment documents and renders new
// ones. Validation checks every field, the rules spanning several fields,
// and the Kubernetes version against what the chosen cloud offers.
//
// Commands: validate, render-config (init), version.
//
// For detailed usage information, run:
//
//	qhub --help
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/imamik/qhub/cmd/qhub/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
