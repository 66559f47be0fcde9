// Package main is the entry point for the demolab CLI.
//
// demolab launches SingleStore demo environments: a workspace group with
// its workspaces, plus an AWS CloudFormation or Azure Deployment Stack that
// receives the workspaces' connection details as a single parameter.
//
// Commands: launch, database, details, regions, templates, credentials.
//
// For detailed usage information, run:
//
//	demolab --help
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/imamik/demolab/cmd/demolab/commands"
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
