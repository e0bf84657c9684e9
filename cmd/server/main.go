// Command server runs the shortlinks HTTP API.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/sundayezeilo/shortlinks/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		slog.Error("server exited", "error", err.Error())
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	application, err := app.New(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = application.Shutdown()
	}()

	// Blocks until a signal cancels ctx.
	return application.Start(ctx)
}
