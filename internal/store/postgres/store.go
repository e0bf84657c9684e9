// Package postgres implements the mapping store on PostgreSQL through the
// sqlc-generated queries in internal/db/sqlc.
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	db "github.com/sundayezeilo/shortlinks/internal/db/sqlc"
	"github.com/sundayezeilo/shortlinks/internal/errx"
	"github.com/sundayezeilo/shortlinks/internal/shortener"
)

const (
	uniqueViolation      = "23505"
	codeUniqueConstraint = "links_code_unique"
)

// querier is an internal interface that abstracts *db.Queries
type querier interface {
	CreateLink(ctx context.Context, arg db.CreateLinkParams) (db.Link, error)
	GetLinkByCode(ctx context.Context, code string) (db.Link, error)
	LinkCodeExists(ctx context.Context, code string) (bool, error)
	IncrementClickCount(ctx context.Context, code string) (db.Link, error)
}

// Store is a shortener.Store backed by PostgreSQL.
type Store struct {
	q querier
}

// New creates a Store running queries through q, usually db.New(pool).
func New(q querier) *Store {
	return &Store{q: q}
}

func (s *Store) Exists(ctx context.Context, code string) (bool, error) {
	const op = "store.postgres.Exists"

	exists, err := s.q.LinkCodeExists(ctx, code)
	if err != nil {
		return false, mapError(op, err)
	}
	return exists, nil
}

func (s *Store) Insert(ctx context.Context, link shortener.ShortLink) (shortener.ShortLink, error) {
	const op = "store.postgres.Insert"

	createdAt := pgtype.Timestamptz{Time: link.CreatedAt, Valid: !link.CreatedAt.IsZero()}
	if !createdAt.Valid {
		createdAt = pgtype.Timestamptz{Time: time.Now().UTC(), Valid: true}
	}

	row, err := s.q.CreateLink(ctx, db.CreateLinkParams{
		ID:        link.ID,
		Code:      link.Code,
		TargetUrl: link.TargetURL,
		CreatedAt: createdAt,
	})
	if err != nil {
		return shortener.ShortLink{}, mapError(op, err)
	}
	return toDomain(op, row)
}

func (s *Store) Get(ctx context.Context, code string) (shortener.ShortLink, error) {
	const op = "store.postgres.Get"

	row, err := s.q.GetLinkByCode(ctx, code)
	if err != nil {
		return shortener.ShortLink{}, mapError(op, err)
	}
	return toDomain(op, row)
}

// IncrementClicks relies on the row lock taken by UPDATE, so concurrent
// increments on one code serialize and none is lost.
func (s *Store) IncrementClicks(ctx context.Context, code string) (shortener.ShortLink, error) {
	const op = "store.postgres.IncrementClicks"

	row, err := s.q.IncrementClickCount(ctx, code)
	if err != nil {
		return shortener.ShortLink{}, mapError(op, err)
	}
	return toDomain(op, row)
}

func toDomain(op string, x db.Link) (shortener.ShortLink, error) {
	if !x.CreatedAt.Valid {
		return shortener.ShortLink{}, errx.Errorf(op, errx.Internal, "created_at unexpectedly NULL for %q", x.Code)
	}

	return shortener.ShortLink{
		ID:         x.ID,
		Code:       x.Code,
		TargetURL:  x.TargetUrl,
		ClickCount: x.ClickCount,
		CreatedAt:  x.CreatedAt.Time,
	}, nil
}

func mapError(op string, err error) error {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return errx.E(op, errx.NotFound, shortener.ErrNotFound)

	case isCodeUniqueViolation(err):
		return errx.E(op, errx.Conflict, err)

	default:
		return errx.E(op, errx.Unavailable, err)
	}
}

func isCodeUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == uniqueViolation && pgErr.ConstraintName == codeUniqueConstraint
}
