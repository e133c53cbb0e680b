// Package main is the entry point for the chromedriver-installer CLI.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/donaldgifford/chromedriver-installer/cmd"
)

// Build-time variables set via ldflags.
var (
	version = "dev"
	commit  = "none"
)

func main() {
	cmd.SetVersionInfo(version, commit)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	err := cmd.Execute(ctx)

	stop()

	if err != nil {
		cmd.ErrorWriter().Error(err.Error())
		os.Exit(1)
	}
}
