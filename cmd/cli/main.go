// Command cli manages short links from the command line using the same
// configuration and store as the server.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/sundayezeilo/shortlinks/internal/app"
	"github.com/sundayezeilo/shortlinks/internal/config"
)

// deps is what every subcommand runs against.
type deps struct {
	cfg     *config.Config
	logger  *slog.Logger
	backend *app.Backend
	logSink io.Closer
}

func (d *deps) Close() error {
	err := d.backend.Close()
	if d.logSink != nil {
		_ = d.logSink.Close()
	}
	return err
}

type opener func(ctx context.Context) (*deps, error)

func openDeps(ctx context.Context) (*deps, error) {
	cfg, logger, logSink, err := app.Bootstrap()
	if err != nil {
		return nil, err
	}

	backend, err := app.OpenStore(ctx, cfg, logger)
	if err != nil {
		if logSink != nil {
			_ = logSink.Close()
		}
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	return &deps{cfg: cfg, logger: logger, backend: backend, logSink: logSink}, nil
}

func main() {
	if err := newRootCmd(openDeps).ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
