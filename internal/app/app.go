package app

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/joho/godotenv"

	"github.com/sundayezeilo/shortlinks/internal/config"
	"github.com/sundayezeilo/shortlinks/internal/server"
	"github.com/sundayezeilo/shortlinks/internal/shortener"
)

// App holds the application dependencies and configuration.
type App struct {
	Config  *config.Config
	Logger  *slog.Logger
	Backend *Backend
	Server  *server.Server
	Handler *shortener.Handler

	logSink io.Closer
}

// New initializes and returns a new App instance with all dependencies wired up.
func New(ctx context.Context) (*App, error) {
	cfg, logger, logSink, err := Bootstrap()
	if err != nil {
		return nil, err
	}

	logger.Info("starting application",
		"env", cfg.App.Environment,
		"version", cfg.Reporting.ServiceVersion,
		"store_driver", cfg.Store.Driver,
	)

	if err := setupReporting(cfg, logger); err != nil {
		closeQuietly(logSink)
		return nil, fmt.Errorf("failed to initialize error reporting: %w", err)
	}

	backend, err := OpenStore(ctx, cfg, logger)
	if err != nil {
		closeQuietly(logSink)
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	allocator, resolver := NewServices(backend.Store, cfg)
	handler := shortener.NewHandler(shortener.HandlerConfig{
		Allocator: allocator,
		Resolver:  resolver,
		Logger:    logger,
		BaseURL:   cfg.Server.BaseURL,
	})

	srv := server.New(cfg, logger, handler)

	logger.Info("application initialized",
		"port", cfg.Server.Port,
		"base_url", cfg.Server.BaseURL,
	)

	return &App{
		Config:  cfg,
		Logger:  logger,
		Backend: backend,
		Server:  srv,
		Handler: handler,
		logSink: logSink,
	}, nil
}

// Bootstrap loads the environment and configuration and builds the logger.
// The returned closer releases the log file, if one was configured.
func Bootstrap() (*config.Config, *slog.Logger, io.Closer, error) {
	if err := loadEnv(); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load environment: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, sink := setupLogger(cfg.App, os.Stdout)
	return cfg, logger, sink, nil
}

// NewServices builds the allocator and resolver over store.
func NewServices(store shortener.Store, cfg *config.Config) (*shortener.Allocator, *shortener.Resolver) {
	allocator := shortener.NewAllocator(store, &shortener.AllocatorConfig{
		CodeLength:  cfg.Shortener.CodeLength,
		MaxAttempts: cfg.Shortener.MaxAttempts,
	})
	resolver := shortener.NewResolver(store, &shortener.ResolverConfig{
		IncrementTimeout: cfg.Shortener.IncrementTimeout,
	})
	return allocator, resolver
}

// Start starts the application server.
func (a *App) Start(ctx context.Context) error {
	a.Logger.Info("server starting",
		"port", a.Config.Server.Port,
		"base_url", a.Config.Server.BaseURL,
	)

	if err := a.Server.Start(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the application.
func (a *App) Shutdown() error {
	a.Logger.Info("shutting down application")

	if a.Backend != nil {
		if err := a.Backend.Close(); err != nil {
			a.Logger.Error("failed to close store", "error", err.Error())
		} else {
			a.Logger.Info("store connection closed")
		}
	}

	if a.Config.Reporting.Enabled() {
		sentry.Flush(2 * time.Second)
	}

	closeQuietly(a.logSink)
	return nil
}

// loadEnv loads .env file only in non-production environments.
func loadEnv() error {
	env := os.Getenv("APP_ENV")
	if env == "development" || env == "test" {
		if err := godotenv.Load(); err != nil {
			if err := godotenv.Load("../.env"); err != nil {
				log.Println("no .env file found.")
			}
		}
	}
	return nil
}

// setupReporting initializes the Sentry client when a DSN is configured.
func setupReporting(cfg *config.Config, logger *slog.Logger) error {
	if !cfg.Reporting.Enabled() {
		logger.Info("error reporting disabled")
		return nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.Reporting.SentryDSN,
		Environment:      cfg.App.Environment,
		Release:          cfg.Reporting.ServiceName + "@" + cfg.Reporting.ServiceVersion,
		ServerName:       cfg.Reporting.ServiceName,
		EnableTracing:    cfg.Reporting.TracesSampleRate > 0,
		TracesSampleRate: cfg.Reporting.TracesSampleRate,
	})
	if err != nil {
		return err
	}

	logger.Info("error reporting enabled", "traces_sample_rate", cfg.Reporting.TracesSampleRate)
	return nil
}

func closeQuietly(c io.Closer) {
	if c != nil {
		_ = c.Close()
	}
}
