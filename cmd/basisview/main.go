// Command basisview decodes texture containers and shows them through a
// software GPU.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/woozymasta/basisview/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.New().Execute(ctx, os.Args[1:])
	stop()

	os.Exit(code)
}
