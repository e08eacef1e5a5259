// Package main is the entry point for the movierecctl CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/kailas-cloud/movierec/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.Execute(ctx)
	stop()
	if err != nil {
		os.Stderr.WriteString("Error: " + err.Error() + "\n")
		os.Exit(1)
	}
}
