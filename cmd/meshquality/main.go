package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/notargets/MeshQuality/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cmd.Execute(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
