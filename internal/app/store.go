package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sundayezeilo/shortlinks/internal/config"
	db "github.com/sundayezeilo/shortlinks/internal/db/sqlc"
	"github.com/sundayezeilo/shortlinks/internal/db/migrate"
	"github.com/sundayezeilo/shortlinks/internal/shortener"
	"github.com/sundayezeilo/shortlinks/internal/store/memory"
	"github.com/sundayezeilo/shortlinks/internal/store/postgres"
	"github.com/sundayezeilo/shortlinks/internal/store/redis"
	"github.com/sundayezeilo/shortlinks/internal/store/sqlite"
)

// Backend is the opened mapping store together with its lifecycle hooks.
type Backend struct {
	Driver string
	Store  shortener.Store

	migrate func(ctx context.Context) error
	close   func() error
}

// Migrate applies the schema. Backends without a schema do nothing.
func (b *Backend) Migrate(ctx context.Context) error {
	if b.migrate == nil {
		return nil
	}
	return b.migrate(ctx)
}

// Close releases the backend's connections.
func (b *Backend) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}

// OpenStore connects to the store selected by cfg.Store.Driver.
func OpenStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Backend, error) {
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		pool, err := connectDatabase(ctx, cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		return &Backend{
			Driver: cfg.Store.Driver,
			Store:  postgres.New(db.New(pool)),
			migrate: func(ctx context.Context) error {
				return migrate.Postgres(ctx, pool)
			},
			close: func() error {
				pool.Close()
				return nil
			},
		}, nil

	case config.DriverSQLite:
		logger.Info("opening sqlite database", "driver", sqlite.DriverName(cfg.SQLite.DSN))
		s, err := sqlite.Open(ctx, cfg.SQLite.DSN)
		if err != nil {
			return nil, err
		}
		// Open applies the schema itself.
		return &Backend{Driver: cfg.Store.Driver, Store: s, close: s.Close}, nil

	case config.DriverRedis:
		logger.Info("connecting to redis", "addr", cfg.Redis.Addr, "db", cfg.Redis.DB)
		s, err := redis.Open(ctx, redis.Options{
			Addr:      cfg.Redis.Addr,
			Password:  cfg.Redis.Password,
			DB:        cfg.Redis.DB,
			KeyPrefix: cfg.Redis.KeyPrefix,
		})
		if err != nil {
			return nil, err
		}
		return &Backend{Driver: cfg.Store.Driver, Store: s, close: s.Close}, nil

	case config.DriverMemory:
		logger.Warn("using in-memory store; links are lost on restart")
		return &Backend{Driver: cfg.Store.Driver, Store: memory.New()}, nil

	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
	}
}

// connectDatabase establishes a connection to the PostgreSQL database.
func connectDatabase(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.Database.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	poolConfig.MaxConns = cfg.Database.MaxConns
	poolConfig.MinConns = cfg.Database.MinConns

	user, _, tier := cfg.Database.Credentials()
	logger.Info("connecting to database",
		"host", cfg.Database.Host,
		"port", cfg.Database.Port,
		"database", cfg.Database.Name,
		"user", user,
		"credential_tier", tier,
	)

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("database connection established")

	return pool, nil
}
