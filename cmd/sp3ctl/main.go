package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"sp3clock/cmd/sp3ctl/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := commands.Execute(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
