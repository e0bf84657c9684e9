package redis

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/sundayezeilo/shortlinks/internal/errx"
	"github.com/sundayezeilo/shortlinks/internal/shortener"
	"github.com/sundayezeilo/shortlinks/internal/store/storetest"
)

func TestParseLink(t *testing.T) {
	id := uuid.New()
	now := time.Date(2026, 3, 1, 12, 0, 0, 123456789, time.UTC)

	t.Run("decodes reply", func(t *testing.T) {
		got, err := parseLink("op", []any{id.String(), "docs", "https://example.com", "7", now.Format(time.RFC3339Nano)})
		if err != nil {
			t.Fatalf("parseLink() unexpected error: %v", err)
		}
		want := shortener.ShortLink{ID: id, Code: "docs", TargetURL: "https://example.com", ClickCount: 7, CreatedAt: now}
		if got != want {
			t.Errorf("parseLink() = %+v, want %+v", got, want)
		}
	})

	tests := []struct {
		name   string
		fields []any
	}{
		{"short reply", []any{id.String(), "docs"}},
		{"nil field", []any{id.String(), "docs", nil, "0", now.Format(time.RFC3339Nano)}},
		{"bad id", []any{"nope", "docs", "https://example.com", "0", now.Format(time.RFC3339Nano)}},
		{"bad count", []any{id.String(), "docs", "https://example.com", "many", now.Format(time.RFC3339Nano)}},
		{"bad time", []any{id.String(), "docs", "https://example.com", "0", "yesterday"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseLink("op", tt.fields)
			if errx.KindOf(err) != errx.Internal {
				t.Errorf("kind = %v, want Internal", errx.KindOf(err))
			}
		})
	}
}

func TestNew_DefaultPrefix(t *testing.T) {
	client := goredis.NewClient(&goredis.Options{Addr: "localhost:0"})
	defer client.Close()

	s := New(client, "")
	if got, want := s.key("docs"), "shortlinks:link:docs"; got != want {
		t.Errorf("key() = %q, want %q", got, want)
	}
}

func TestStore_Redis(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping redis container test in short mode")
	}

	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("failed to start redis container: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Errorf("failed to terminate container: %v", err)
		}
	})

	addr, err := container.Endpoint(ctx, "")
	if err != nil {
		t.Fatalf("failed to get endpoint: %v", err)
	}

	s, err := Open(ctx, Options{Addr: addr, KeyPrefix: "test:"})
	if err != nil {
		t.Fatalf("Open() unexpected error: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	storetest.Run(t, func(t *testing.T) shortener.Store {
		return s
	})
}
