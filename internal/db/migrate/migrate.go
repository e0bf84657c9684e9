// Package migrate applies the embedded schema to a store. Every migration is
// written to be re-runnable, so applying twice is a no-op.
package migrate

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/sundayezeilo/shortlinks/internal/db/migrations"
)

// PgExecer is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type PgExecer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// Postgres applies the postgres schema through db.
func Postgres(ctx context.Context, db PgExecer) error {
	return apply(ctx, migrations.Postgres, func(ctx context.Context, stmt string) error {
		_, err := db.Exec(ctx, stmt)
		return err
	})
}

// SQLite applies the sqlite schema through db.
func SQLite(ctx context.Context, db *sql.DB) error {
	return apply(ctx, migrations.SQLite, func(ctx context.Context, stmt string) error {
		_, err := db.ExecContext(ctx, stmt)
		return err
	})
}

// Files lists the migration files for dialect in the order they are applied.
func Files(dialect string) ([]string, error) {
	entries, err := fs.ReadDir(migrations.FS, dialect)
	if err != nil {
		return nil, fmt.Errorf("read %s migrations: %w", dialect, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		names = append(names, path.Join(dialect, e.Name()))
	}
	return names, nil
}

func apply(ctx context.Context, dialect string, exec func(context.Context, string) error) error {
	files, err := Files(dialect)
	if err != nil {
		return err
	}

	for _, name := range files {
		data, err := fs.ReadFile(migrations.FS, name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if err := exec(ctx, string(data)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
	}
	return nil
}
