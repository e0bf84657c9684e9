package httpx

import (
	"net/http"
	"testing"

	"github.com/sundayezeilo/shortlinks/internal/errx"
)

func TestErrorKindMapping(t *testing.T) {
	tests := []struct {
		kind       errx.Kind
		wantStatus int
		wantCode   string
		wantServer bool
	}{
		{errx.NotFound, http.StatusNotFound, "not_found", false},
		{errx.Conflict, http.StatusConflict, "conflict", false},
		{errx.Invalid, http.StatusBadRequest, "invalid_input", false},
		{errx.Exhausted, http.StatusInternalServerError, "generation_exhausted", true},
		{errx.Unavailable, http.StatusInternalServerError, "store_unavailable", true},
		{errx.Internal, http.StatusInternalServerError, "internal_error", true},
		{errx.Unknown, http.StatusInternalServerError, "internal_error", true},
		{errx.Kind(99), http.StatusInternalServerError, "internal_error", true},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			if got := ErrorKindToStatus(tt.kind); got != tt.wantStatus {
				t.Errorf("ErrorKindToStatus(%v) = %d, want %d", tt.kind, got, tt.wantStatus)
			}
			if got := ErrorKindToCode(tt.kind); got != tt.wantCode {
				t.Errorf("ErrorKindToCode(%v) = %q, want %q", tt.kind, got, tt.wantCode)
			}
			if got := IsServerKind(tt.kind); got != tt.wantServer {
				t.Errorf("IsServerKind(%v) = %v, want %v", tt.kind, got, tt.wantServer)
			}
		})
	}
}
