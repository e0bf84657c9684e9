package shortener

import (
	"context"
	"net/http"
	"time"

	"github.com/sundayezeilo/shortlinks/internal/errx"
)

const DefaultIncrementTimeout = 5 * time.Second

// RedirectStatus is the status every resolution answers with. Clients and
// intermediaries may cache a 301 indefinitely, so this must not change.
const RedirectStatus = http.StatusMovedPermanently

// ResolverConfig holds configuration for the resolver.
type ResolverConfig struct {
	// IncrementTimeout bounds the click-count write once it has been issued.
	IncrementTimeout time.Duration
}

// Resolver turns short codes into redirect targets and counts visits.
type Resolver struct {
	store            Store
	incrementTimeout time.Duration
}

// NewResolver creates a Resolver backed by store.
func NewResolver(store Store, config *ResolverConfig) *Resolver {
	if config == nil {
		config = &ResolverConfig{}
	}

	timeout := config.IncrementTimeout
	if timeout <= 0 {
		timeout = DefaultIncrementTimeout
	}

	return &Resolver{
		store:            store,
		incrementTimeout: timeout,
	}
}

// Resolve counts one visit to code and returns where to redirect.
//
// The increment is detached from ctx cancellation: a client that disconnects
// after the request was issued does not abort the write.
func (r *Resolver) Resolve(ctx context.Context, code string) (RedirectTarget, error) {
	const op = "shortener.Resolver.Resolve"

	if !validCode(code) {
		return RedirectTarget{}, errx.Errorf(op, errx.NotFound, "%w: %q", ErrNotFound, code)
	}

	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.incrementTimeout)
	defer cancel()

	link, err := r.store.IncrementClicks(writeCtx, code)
	if err != nil {
		return RedirectTarget{}, storeError(op, err)
	}

	return RedirectTarget{
		URL:    link.TargetURL,
		Status: RedirectStatus,
	}, nil
}

// Lookup returns the stored link for code without counting a visit.
func (r *Resolver) Lookup(ctx context.Context, code string) (ShortLink, error) {
	const op = "shortener.Resolver.Lookup"

	if !validCode(code) {
		return ShortLink{}, errx.Errorf(op, errx.NotFound, "%w: %q", ErrNotFound, code)
	}

	link, err := r.store.Get(ctx, code)
	if err != nil {
		return ShortLink{}, storeError(op, err)
	}
	return link, nil
}
