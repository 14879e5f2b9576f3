package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/hltools-dev/hltools/internal/commands"
	"github.com/hltools-dev/hltools/internal/hledger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := commands.NewRootCommand().ExecuteContext(ctx)
	stop()
	if err == nil {
		return
	}

	// Mirror hledger's exit status when it was the one that failed.
	var toolErr *hledger.ExternalToolError
	if errors.As(err, &toolErr) && toolErr.ExitCode > 0 {
		os.Exit(toolErr.ExitCode)
	}
	os.Exit(1)
}
