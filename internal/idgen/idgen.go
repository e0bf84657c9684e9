// Package idgen mints the surrogate keys stored alongside short links.
package idgen

import (
	"fmt"

	"github.com/google/uuid"
)

// Generator mints link IDs. Implementations are safe for concurrent use.
type Generator interface {
	Generate() (uuid.UUID, error)
}

// Func adapts a plain function to Generator.
type Func func() (uuid.UUID, error)

func (f Func) Generate() (uuid.UUID, error) { return f() }

// LinkIDs mints time-ordered UUID v7 values, which keep inserts into the
// links primary key index append-mostly.
type LinkIDs struct {
	source   func() (uuid.UUID, error)
	attempts int
}

type Option func(*LinkIDs)

// WithAttempts sets how many times the source is tried before Generate gives
// up. Values below 1 are ignored.
func WithAttempts(n int) Option {
	return func(g *LinkIDs) {
		if n >= 1 {
			g.attempts = n
		}
	}
}

// WithSource replaces uuid.NewV7 as the underlying source.
func WithSource(fn func() (uuid.UUID, error)) Option {
	return func(g *LinkIDs) {
		if fn != nil {
			g.source = fn
		}
	}
}

// New returns a LinkIDs that tries uuid.NewV7 twice before failing.
func New(opts ...Option) *LinkIDs {
	g := &LinkIDs{source: uuid.NewV7, attempts: 2}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate returns the first ID the source yields without error. The source
// only fails when the system's random reader does.
func (g *LinkIDs) Generate() (uuid.UUID, error) {
	var last error
	for range g.attempts {
		id, err := g.source()
		if err == nil {
			return id, nil
		}
		last = err
	}
	return uuid.Nil, fmt.Errorf("link id: %d attempts failed: %w", g.attempts, last)
}
