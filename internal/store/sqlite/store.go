// Package sqlite implements the mapping store on SQLite. Local files and
// in-memory databases go through modernc.org/sqlite; libsql:// and wss://
// URLs reach a remote libSQL (Turso) database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/sundayezeilo/shortlinks/internal/db/migrate"
	"github.com/sundayezeilo/shortlinks/internal/errx"
	"github.com/sundayezeilo/shortlinks/internal/shortener"
)

const codeUniqueMessage = "UNIQUE constraint failed: links.code"

const (
	insertLink = `INSERT INTO links (id, code, target_url, click_count, created_at)
VALUES (?, ?, ?, 0, ?)`

	selectLink = `SELECT id, code, target_url, click_count, created_at
FROM links
WHERE code = ?`

	linkExists = `SELECT EXISTS (SELECT 1 FROM links WHERE code = ?)`

	incrementClicks = `UPDATE links
SET click_count = click_count + 1
WHERE code = ?
RETURNING id, code, target_url, click_count, created_at`
)

// Store is a shortener.Store backed by a SQLite or libSQL database.
type Store struct {
	db *sql.DB
}

// DriverName returns the database/sql driver that serves dsn.
func DriverName(dsn string) string {
	if strings.HasPrefix(dsn, "libsql://") || strings.HasPrefix(dsn, "wss://") {
		return "libsql"
	}
	return "sqlite"
}

// Open connects to dsn, applies the schema and returns a ready Store.
func Open(ctx context.Context, dsn string) (*Store, error) {
	driver := DriverName(dsn)

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driver, err)
	}

	if driver == "sqlite" {
		// One writer at a time; concurrent connections would surface
		// SQLITE_BUSY instead of queueing.
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s database: %w", driver, err)
	}

	if err := migrate.SQLite(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return New(db), nil
}

// New wraps an already migrated database.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Exists(ctx context.Context, code string) (bool, error) {
	const op = "store.sqlite.Exists"

	var exists bool
	if err := s.db.QueryRowContext(ctx, linkExists, code).Scan(&exists); err != nil {
		return false, mapError(op, err)
	}
	return exists, nil
}

func (s *Store) Insert(ctx context.Context, link shortener.ShortLink) (shortener.ShortLink, error) {
	const op = "store.sqlite.Insert"

	if link.CreatedAt.IsZero() {
		link.CreatedAt = time.Now().UTC()
	}
	link.ClickCount = 0

	_, err := s.db.ExecContext(ctx, insertLink,
		link.ID.String(),
		link.Code,
		link.TargetURL,
		link.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return shortener.ShortLink{}, mapError(op, err)
	}
	return link, nil
}

func (s *Store) Get(ctx context.Context, code string) (shortener.ShortLink, error) {
	const op = "store.sqlite.Get"
	return s.scanLink(op, s.db.QueryRowContext(ctx, selectLink, code))
}

// IncrementClicks updates and reads the row in one statement, so the returned
// count is the one this call produced.
func (s *Store) IncrementClicks(ctx context.Context, code string) (shortener.ShortLink, error) {
	const op = "store.sqlite.IncrementClicks"
	return s.scanLink(op, s.db.QueryRowContext(ctx, incrementClicks, code))
}

func (s *Store) scanLink(op string, row *sql.Row) (shortener.ShortLink, error) {
	var (
		id        string
		createdAt string
		link      shortener.ShortLink
	)
	if err := row.Scan(&id, &link.Code, &link.TargetURL, &link.ClickCount, &createdAt); err != nil {
		return shortener.ShortLink{}, mapError(op, err)
	}

	parsedID, err := uuid.Parse(id)
	if err != nil {
		return shortener.ShortLink{}, errx.Errorf(op, errx.Internal, "stored id %q: %w", id, err)
	}
	ts, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return shortener.ShortLink{}, errx.Errorf(op, errx.Internal, "stored created_at %q: %w", createdAt, err)
	}

	link.ID = parsedID
	link.CreatedAt = ts
	return link, nil
}

func mapError(op string, err error) error {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return errx.E(op, errx.NotFound, shortener.ErrNotFound)

	case isCodeUniqueViolation(err):
		return errx.E(op, errx.Conflict, err)

	default:
		return errx.E(op, errx.Unavailable, err)
	}
}

// isCodeUniqueViolation recognizes a duplicate code from either driver. The
// libsql driver only reports the message text.
func isCodeUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code()&0xff != sqlite3.SQLITE_CONSTRAINT {
		return false
	}
	return strings.Contains(err.Error(), codeUniqueMessage)
}
