package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Lumos-Labs-HQ/podgen/cmd"
	"github.com/Lumos-Labs-HQ/podgen/internal/failure"
	"github.com/fatih/color"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.Execute(ctx); err != nil {
		stop()
		color.Red("❌ %s: %v", failure.Kind(err), err)
		if hint := failure.Hint(err); hint != "" {
			color.Yellow("💡 %s", hint)
		}
		os.Exit(1)
	}
}
