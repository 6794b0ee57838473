package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {

	// Catch both SIGINT (ctrl+c) and SIGTERM (kill/systemd), to allow the host
	// loop and the websocket clients to shut down cleanly.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := newRootCmd().ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		stop()
		os.Exit(1)
	}
}
