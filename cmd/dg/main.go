// Package main is the entry point for the dg CLI.
//
// dg manages OpenShift clusters on the FYRE cluster farm and on IBM Cloud
// and installs IBM Cloud Pak for Data with Db2 Data Gate onto them.
//
// For detailed usage information, run:
//
//	dg --help
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ibm/data-gate-cli/cmd/dg/commands"
	"github.com/ibm/data-gate-cli/cmd/dg/handlers"
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
	root := commands.Root()
	if handlers.NuclearCommandsHidden() {
		commands.HideNuclearCommands(root)
	}

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error: "+singleLine(err.Error()))
		stop()
		os.Exit(1)
	}
}

// singleLine joins a multi-line error message into one line.
func singleLine(msg string) string {
	return strings.Join(strings.Fields(msg), " ")
}
