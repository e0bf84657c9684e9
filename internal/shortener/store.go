package shortener

import "context"

// Store is the mapping store the allocator and resolver persist through.
//
// Adapters classify every error with errx: a missing code is errx.NotFound,
// a duplicate code on Insert is errx.Conflict and any other failure is
// errx.Unavailable. The uniqueness constraint behind Insert is the
// authoritative check; Exists is only a cheap pre-check.
type Store interface {
	Exists(ctx context.Context, code string) (bool, error)
	Insert(ctx context.Context, link ShortLink) (ShortLink, error)
	Get(ctx context.Context, code string) (ShortLink, error)
	// IncrementClicks atomically adds one to the click count of code and
	// returns the updated record.
	IncrementClicks(ctx context.Context, code string) (ShortLink, error)
}
