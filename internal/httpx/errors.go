package httpx

import (
	"net/http"

	"github.com/sundayezeilo/shortlinks/internal/errx"
)

// ErrorKindToStatus maps errx.Kind to HTTP status codes.
// Store failures and exhausted retries are server errors, not 503s: the
// caller is expected to resubmit rather than back off.
func ErrorKindToStatus(kind errx.Kind) int {
	switch kind {
	case errx.NotFound:
		return http.StatusNotFound
	case errx.Conflict:
		return http.StatusConflict
	case errx.Invalid:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// ErrorKindToCode maps errx.Kind to error codes for JSON responses.
func ErrorKindToCode(kind errx.Kind) string {
	switch kind {
	case errx.NotFound:
		return "not_found"
	case errx.Conflict:
		return "conflict"
	case errx.Invalid:
		return "invalid_input"
	case errx.Exhausted:
		return "generation_exhausted"
	case errx.Unavailable:
		return "store_unavailable"
	default:
		return "internal_error"
	}
}

// IsServerKind reports whether errors of kind are the server's fault and
// worth reporting.
func IsServerKind(kind errx.Kind) bool {
	return ErrorKindToStatus(kind) >= http.StatusInternalServerError
}
