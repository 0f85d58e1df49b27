package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/quickspin-saas/qspin-shim/internal/cli"
)

// version, commit, and date are set via ldflags at build time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.Execute(ctx, version, commit, date)
	stop()
	os.Exit(cli.ExitCode(err))
}
