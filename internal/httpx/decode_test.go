package httpx

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type shortenBody struct {
	OriginalURL string `json:"original_url"`
	CustomAlias string `json:"custom_alias,omitempty"`
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		contentType string
		wantStatus  int
		errContains string
		want        shortenBody
	}{
		{
			name: "url only",
			body: `{"original_url":"https://example.com/a"}`,
			want: shortenBody{OriginalURL: "https://example.com/a"},
		},
		{
			name: "url and alias",
			body: `{"original_url":"https://example.com/a","custom_alias":"docs"}`,
			want: shortenBody{OriginalURL: "https://example.com/a", CustomAlias: "docs"},
		},
		{
			name:        "json with charset",
			body:        `{"original_url":"https://example.com/a"}`,
			contentType: "application/json; charset=utf-8",
			want:        shortenBody{OriginalURL: "https://example.com/a"},
		},
		{
			name:        "form content type",
			body:        `original_url=https://example.com`,
			contentType: "application/x-www-form-urlencoded",
			wantStatus:  http.StatusUnsupportedMediaType,
			errContains: "application/json",
		},
		{
			name:        "empty body",
			body:        "",
			wantStatus:  http.StatusBadRequest,
			errContains: "request body is empty",
		},
		{
			name:        "malformed JSON",
			body:        `{"original_url":"https://example.com,}`,
			wantStatus:  http.StatusBadRequest,
			errContains: "malformed JSON",
		},
		{
			name:        "trailing comma",
			body:        `{"original_url":"https://example.com",}`,
			wantStatus:  http.StatusBadRequest,
			errContains: "malformed JSON",
		},
		{
			name:        "unknown field",
			body:        `{"original_url":"https://example.com","title":"x"}`,
			wantStatus:  http.StatusBadRequest,
			errContains: "unknown field",
		},
		{
			name:        "wrong type",
			body:        `{"original_url":42}`,
			wantStatus:  http.StatusBadRequest,
			errContains: `invalid value for field "original_url"`,
		},
		{
			name:        "multiple objects",
			body:        `{"original_url":"https://a.example"}{"original_url":"https://b.example"}`,
			wantStatus:  http.StatusBadRequest,
			errContains: "multiple JSON objects",
		},
		{
			name:        "body too large",
			body:        `{"original_url":"https://example.com/` + strings.Repeat("x", MaxRequestBodySize) + `"}`,
			wantStatus:  http.StatusRequestEntityTooLarge,
			errContains: "request body too large",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/shorten", strings.NewReader(tt.body))
			ct := tt.contentType
			if ct == "" {
				ct = "application/json"
			}
			req.Header.Set("Content-Type", ct)

			got, err := DecodeJSON[shortenBody](req)

			if tt.wantStatus != 0 {
				var de *DecodeError
				if !errors.As(err, &de) {
					t.Fatalf("error = %v, want *DecodeError", err)
				}
				if de.Status != tt.wantStatus || DecodeStatus(err) != tt.wantStatus {
					t.Errorf("status = %d, want %d", de.Status, tt.wantStatus)
				}
				if !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("error = %q, want it to contain %q", err.Error(), tt.errContains)
				}
				if got != (shortenBody{}) {
					t.Errorf("expected zero value on error, got %+v", got)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("DecodeJSON() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDecodeJSON_MissingContentTypeIsAccepted(t *testing.T) {
	req := httptest.NewRequest("POST", "/shorten", strings.NewReader(`{"original_url":"https://example.com"}`))

	got, err := DecodeJSON[shortenBody](req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.OriginalURL != "https://example.com" {
		t.Errorf("OriginalURL = %q", got.OriginalURL)
	}
}

func TestDecodeStatus_PlainError(t *testing.T) {
	if got := DecodeStatus(errors.New("boom")); got != http.StatusBadRequest {
		t.Errorf("DecodeStatus() = %d, want %d", got, http.StatusBadRequest)
	}
}

func TestDecodeJSON_ClosesBody(t *testing.T) {
	body := &trackingBody{Reader: strings.NewReader(`{"original_url":"https://example.com"}`)}
	req := httptest.NewRequest("POST", "/shorten", body)

	if _, err := DecodeJSON[shortenBody](req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !body.closed {
		t.Error("expected body to be closed")
	}
}

type trackingBody struct {
	io.Reader
	closed bool
}

func (b *trackingBody) Close() error {
	b.closed = true
	return nil
}
