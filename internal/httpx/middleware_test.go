package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
)

func TestRequestIDContext(t *testing.T) {
	ctx := context.Background()
	if got := GetRequestID(ctx); got != "" {
		t.Errorf("GetRequestID(empty) = %q, want empty", got)
	}

	withID := WithRequestID(ctx, "req-1")
	if got := GetRequestID(withID); got != "req-1" {
		t.Errorf("GetRequestID() = %q, want req-1", got)
	}
	if got := GetRequestID(context.WithValue(ctx, requestIDContextKey, 42)); got != "" {
		t.Errorf("GetRequestID(wrong type) = %q, want empty", got)
	}
}

func TestChain(t *testing.T) {
	var calls []string
	mark := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls = append(calls, name+"-before")
				next.ServeHTTP(w, r)
				calls = append(calls, name+"-after")
			})
		}
	}

	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, "handler")
	})

	Chain(mark("m1"), mark("m2"))(final).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	want := []string{"m1-before", "m2-before", "handler", "m2-after", "m1-after"}
	if strings.Join(calls, ",") != strings.Join(want, ",") {
		t.Errorf("calls = %v, want %v", calls, want)
	}
}

func TestRequestID(t *testing.T) {
	t.Run("generates a UUID v7", func(t *testing.T) {
		var seen string
		handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = GetRequestID(r.Context())
		}))

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest("GET", "/r/docs", nil))

		id, err := uuid.Parse(seen)
		if err != nil {
			t.Fatalf("request ID %q is not a UUID: %v", seen, err)
		}
		if id.Version() != 7 {
			t.Errorf("request ID version = %d, want 7", id.Version())
		}
		if got := rr.Header().Get(RequestIDHeader); got != seen {
			t.Errorf("header = %q, want %q", got, seen)
		}
	})

	t.Run("keeps the client's ID", func(t *testing.T) {
		var seen string
		handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = GetRequestID(r.Context())
		}))

		req := httptest.NewRequest("GET", "/r/docs", nil)
		req.Header.Set(RequestIDHeader, "client-id")
		handler.ServeHTTP(httptest.NewRecorder(), req)

		if seen != "client-id" {
			t.Errorf("request ID = %q, want client-id", seen)
		}
	})

	for _, bad := range []string{"has space", "line\nbreak", strings.Repeat("x", maxRequestIDLength+1)} {
		t.Run("replaces unsafe ID "+strconv.Quote(bad[:min(len(bad), 10)]), func(t *testing.T) {
			var seen string
			handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = GetRequestID(r.Context())
			}))

			req := httptest.NewRequest("GET", "/r/docs", nil)
			req.Header.Set(RequestIDHeader, bad)
			handler.ServeHTTP(httptest.NewRecorder(), req)

			if seen == bad {
				t.Errorf("unsafe request ID %q was kept", bad)
			}
			if _, err := uuid.Parse(seen); err != nil {
				t.Errorf("replacement %q is not a UUID: %v", seen, err)
			}
		})
	}
}

func TestLogger_RecordsStatus(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	handler := Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "https://example.com", http.StatusMovedPermanently)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/r/docs", nil))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse log line %q: %v", buf.String(), err)
	}
	if entry["status"] != float64(http.StatusMovedPermanently) {
		t.Errorf("logged status = %v, want 301", entry["status"])
	}
	if entry["path"] != "/r/docs" {
		t.Errorf("logged path = %v, want /r/docs", entry["path"])
	}
	if entry["location"] != "https://example.com" {
		t.Errorf("logged location = %v, want https://example.com", entry["location"])
	}
	if entry["level"] != "INFO" {
		t.Errorf("logged level = %v, want INFO", entry["level"])
	}
}

func TestLogger_LevelFollowsStatus(t *testing.T) {
	tests := []struct {
		status int
		want   string
	}{
		{http.StatusCreated, "INFO"},
		{http.StatusNotFound, "WARN"},
		{http.StatusConflict, "WARN"},
		{http.StatusInternalServerError, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewJSONHandler(&buf, nil))

			handler := Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				WriteError(w, tt.status, "x", "y", nil)
			}))
			handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/r/docs", nil))

			var entry map[string]any
			if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
				t.Fatalf("failed to parse log line %q: %v", buf.String(), err)
			}
			if entry["level"] != tt.want {
				t.Errorf("level = %v, want %s", entry["level"], tt.want)
			}
			if n, _ := entry["bytes"].(float64); n <= 0 {
				t.Errorf("bytes = %v, want > 0", entry["bytes"])
			}
		})
	}
}

func TestRecovery(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil))
	handler := Recovery(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("POST", "/shorten", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rr.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Error != "internal_error" {
		t.Errorf("error = %q, want internal_error", resp.Error)
	}
}

func TestSentry_BindsHub(t *testing.T) {
	var hub *sentry.Hub
	handler := Sentry()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub = sentry.GetHubFromContext(r.Context())
		Report(r.Context(), errors.New("store down"))
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/r/docs", nil))

	if hub == nil {
		t.Fatal("expected a Sentry hub on the request context")
	}
}

func TestReport_NoHub(t *testing.T) {
	// Must not panic without the middleware.
	Report(context.Background(), errors.New("store down"))
	Report(context.Background(), nil)
}

func TestCORS(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name    string
		allowed []string
		origin  string
		want    string
	}{
		{"allow all", nil, "https://example.com", "*"},
		{"listed origin", []string{"https://app.example.com"}, "https://app.example.com", "https://app.example.com"},
		{"unlisted origin", []string{"https://app.example.com"}, "https://evil.example", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.Header.Set("Origin", tt.origin)
			rr := httptest.NewRecorder()

			CORS(tt.allowed)(ok).ServeHTTP(rr, req)

			if got := rr.Header().Get("Access-Control-Allow-Origin"); got != tt.want {
				t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, tt.want)
			}
		})
	}

	t.Run("preflight short-circuits", func(t *testing.T) {
		called := false
		handler := CORS(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		}))

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest("OPTIONS", "/shorten", nil))

		if called {
			t.Error("handler called for preflight")
		}
		if rr.Code != http.StatusNoContent {
			t.Errorf("status = %d, want 204", rr.Code)
		}
	})
}
