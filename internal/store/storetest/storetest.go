// Package storetest holds the behavior every shortener.Store adapter must
// share. Adapter tests call Run with a constructor for an empty store.
package storetest

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/sundayezeilo/shortlinks/internal/errx"
	"github.com/sundayezeilo/shortlinks/internal/idgen"
	"github.com/sundayezeilo/shortlinks/internal/shortener"
)

// Run exercises store semantics against stores produced by newStore. Each
// subtest gets its own store and uses distinct codes, so a constructor may
// return a shared backend.
func Run(t *testing.T, newStore func(t *testing.T) shortener.Store) {
	t.Helper()

	t.Run("insert then get", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		in := newLink(t, "get-me", "https://example.com/a/b")

		created, err := s.Insert(ctx, in)
		if err != nil {
			t.Fatalf("Insert() unexpected error: %v", err)
		}
		if created.Code != in.Code || created.TargetURL != in.TargetURL {
			t.Errorf("Insert() = %+v, want code/url of %+v", created, in)
		}
		if created.ClickCount != 0 {
			t.Errorf("ClickCount = %d, want 0", created.ClickCount)
		}
		if created.ID != in.ID {
			t.Errorf("ID = %v, want %v", created.ID, in.ID)
		}

		got, err := s.Get(ctx, in.Code)
		if err != nil {
			t.Fatalf("Get() unexpected error: %v", err)
		}
		if got.TargetURL != in.TargetURL {
			t.Errorf("Get().TargetURL = %q, want %q", got.TargetURL, in.TargetURL)
		}
		if !got.CreatedAt.Equal(in.CreatedAt) {
			t.Errorf("Get().CreatedAt = %v, want %v", got.CreatedAt, in.CreatedAt)
		}
	})

	t.Run("exists", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		exists, err := s.Exists(ctx, "exists-code")
		if err != nil {
			t.Fatalf("Exists() unexpected error: %v", err)
		}
		if exists {
			t.Fatal("Exists() = true before insert")
		}

		if _, err := s.Insert(ctx, newLink(t, "exists-code", "https://example.com")); err != nil {
			t.Fatalf("Insert() unexpected error: %v", err)
		}

		exists, err = s.Exists(ctx, "exists-code")
		if err != nil {
			t.Fatalf("Exists() unexpected error: %v", err)
		}
		if !exists {
			t.Fatal("Exists() = false after insert")
		}
	})

	t.Run("duplicate insert is a conflict", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		if _, err := s.Insert(ctx, newLink(t, "dup-code", "https://example.com/1")); err != nil {
			t.Fatalf("first Insert() unexpected error: %v", err)
		}

		_, err := s.Insert(ctx, newLink(t, "dup-code", "https://example.com/2"))
		if got := errx.KindOf(err); got != errx.Conflict {
			t.Fatalf("second Insert() kind = %v, want Conflict (err = %v)", got, err)
		}

		got, err := s.Get(ctx, "dup-code")
		if err != nil {
			t.Fatalf("Get() unexpected error: %v", err)
		}
		if got.TargetURL != "https://example.com/1" {
			t.Errorf("TargetURL = %q, the losing insert overwrote it", got.TargetURL)
		}
	})

	t.Run("missing code is not found", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		if _, err := s.Get(ctx, "missing-get"); errx.KindOf(err) != errx.NotFound {
			t.Errorf("Get() kind = %v, want NotFound (err = %v)", errx.KindOf(err), err)
		}
		if _, err := s.IncrementClicks(ctx, "missing-inc"); errx.KindOf(err) != errx.NotFound {
			t.Errorf("IncrementClicks() kind = %v, want NotFound (err = %v)", errx.KindOf(err), err)
		}
	})

	t.Run("increments are sequential", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		if _, err := s.Insert(ctx, newLink(t, "seq-code", "https://example.com/seq")); err != nil {
			t.Fatalf("Insert() unexpected error: %v", err)
		}

		for i := int64(1); i <= 5; i++ {
			link, err := s.IncrementClicks(ctx, "seq-code")
			if err != nil {
				t.Fatalf("IncrementClicks() unexpected error: %v", err)
			}
			if link.ClickCount != i {
				t.Fatalf("ClickCount = %d, want %d", link.ClickCount, i)
			}
			if link.TargetURL != "https://example.com/seq" {
				t.Fatalf("TargetURL = %q", link.TargetURL)
			}
		}
	})

	t.Run("concurrent increments are not lost", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		const workers = 40

		if _, err := s.Insert(ctx, newLink(t, "race-code", "https://example.com/race")); err != nil {
			t.Fatalf("Insert() unexpected error: %v", err)
		}

		var wg sync.WaitGroup
		errs := make(chan error, workers)
		for range workers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := s.IncrementClicks(ctx, "race-code"); err != nil {
					errs <- err
				}
			}()
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			t.Fatalf("IncrementClicks() unexpected error: %v", err)
		}

		got, err := s.Get(ctx, "race-code")
		if err != nil {
			t.Fatalf("Get() unexpected error: %v", err)
		}
		if got.ClickCount != workers {
			t.Errorf("ClickCount = %d, want %d", got.ClickCount, workers)
		}
	})

	t.Run("concurrent inserts of one code admit one winner", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		const workers = 10

		var wg sync.WaitGroup
		results := make(chan error, workers)
		for i := range workers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := s.Insert(ctx, newLink(t, "contested", fmt.Sprintf("https://example.com/%d", i)))
				results <- err
			}()
		}
		wg.Wait()
		close(results)

		wins := 0
		for err := range results {
			switch {
			case err == nil:
				wins++
			case errx.KindOf(err) != errx.Conflict:
				t.Errorf("Insert() kind = %v, want Conflict (err = %v)", errx.KindOf(err), err)
			}
		}
		if wins != 1 {
			t.Errorf("%d inserts succeeded, want exactly 1", wins)
		}
	})
}

func newLink(t *testing.T, code, target string) shortener.ShortLink {
	t.Helper()

	id, err := idgen.New().Generate()
	if err != nil {
		t.Fatalf("generate id: %v", err)
	}
	return shortener.ShortLink{
		ID:        id,
		Code:      code,
		TargetURL: target,
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
}
