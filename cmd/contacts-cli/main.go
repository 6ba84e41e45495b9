package main

import (
	"context"
	"os"

	"github.com/yndnr/contacts-cli/internal/cli/command"
	"github.com/yndnr/contacts-cli/internal/infra/shutdown"
)

func main() {
	ctx, stop := shutdown.WithSignals(context.Background())
	defer stop()

	app := command.App()
	if err := app.RunContext(ctx, os.Args); err != nil {
		command.PrintError(os.Stderr, err)
		stop()
		os.Exit(command.ExitCode(err))
	}
}
