// Package memory implements the mapping store in process memory. It backs
// local development and the service tests; nothing survives a restart.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/sundayezeilo/shortlinks/internal/errx"
	"github.com/sundayezeilo/shortlinks/internal/shortener"
)

// Store is a shortener.Store guarded by a single mutex.
type Store struct {
	mu    sync.RWMutex
	links map[string]shortener.ShortLink
}

// New returns an empty Store.
func New() *Store {
	return &Store{links: make(map[string]shortener.ShortLink)}
}

func (s *Store) Exists(ctx context.Context, code string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, errx.E("store.memory.Exists", errx.Unavailable, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.links[code]
	return ok, nil
}

func (s *Store) Insert(ctx context.Context, link shortener.ShortLink) (shortener.ShortLink, error) {
	const op = "store.memory.Insert"

	if err := ctx.Err(); err != nil {
		return shortener.ShortLink{}, errx.E(op, errx.Unavailable, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.links[link.Code]; ok {
		return shortener.ShortLink{}, errx.Errorf(op, errx.Conflict, "code %q already stored", link.Code)
	}

	link.ClickCount = 0
	if link.CreatedAt.IsZero() {
		link.CreatedAt = time.Now().UTC()
	}
	s.links[link.Code] = link
	return link, nil
}

func (s *Store) Get(ctx context.Context, code string) (shortener.ShortLink, error) {
	const op = "store.memory.Get"

	if err := ctx.Err(); err != nil {
		return shortener.ShortLink{}, errx.E(op, errx.Unavailable, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	link, ok := s.links[code]
	if !ok {
		return shortener.ShortLink{}, errx.E(op, errx.NotFound, shortener.ErrNotFound)
	}
	return link, nil
}

func (s *Store) IncrementClicks(ctx context.Context, code string) (shortener.ShortLink, error) {
	const op = "store.memory.IncrementClicks"

	if err := ctx.Err(); err != nil {
		return shortener.ShortLink{}, errx.E(op, errx.Unavailable, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	link, ok := s.links[code]
	if !ok {
		return shortener.ShortLink{}, errx.E(op, errx.NotFound, shortener.ErrNotFound)
	}
	link.ClickCount++
	s.links[code] = link
	return link, nil
}

// Len reports how many links are stored.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.links)
}
