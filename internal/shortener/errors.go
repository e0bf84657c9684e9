package shortener

import (
	"errors"

	"github.com/sundayezeilo/shortlinks/internal/errx"
)

var (
	ErrAliasTaken          = errors.New("alias already taken")
	ErrGenerationExhausted = errors.New("could not generate a unique code")
	ErrNotFound            = errors.New("short link not found")
)

// storeError re-wraps an error returned by a Store under op. Errors the
// adapter did not classify are treated as the store being unavailable.
func storeError(op string, err error) error {
	kind := errx.KindOf(err)
	if kind == errx.Unknown {
		kind = errx.Unavailable
	}
	return errx.E(op, kind, err)
}
