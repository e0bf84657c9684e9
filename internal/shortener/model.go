package shortener

import (
	"time"

	"github.com/google/uuid"
)

// ShortLink maps a short code to the URL it redirects to.
// TargetURL and CreatedAt never change after insertion; ClickCount only grows.
type ShortLink struct {
	ID         uuid.UUID
	Code       string
	TargetURL  string
	ClickCount int64
	CreatedAt  time.Time
}

// RedirectTarget is the outcome of a successful resolution.
type RedirectTarget struct {
	URL    string
	Status int
}
