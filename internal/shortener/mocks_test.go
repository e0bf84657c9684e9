package shortener

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sundayezeilo/shortlinks/internal/errx"
	"github.com/sundayezeilo/shortlinks/internal/idgen"
)

// mockStore implements Store for testing. Unset funcs fall back to an empty
// store. Calls are counted so tests can assert the store was never touched.
type mockStore struct {
	existsFunc    func(ctx context.Context, code string) (bool, error)
	insertFunc    func(ctx context.Context, link ShortLink) (ShortLink, error)
	getFunc       func(ctx context.Context, code string) (ShortLink, error)
	incrementFunc func(ctx context.Context, code string) (ShortLink, error)

	mu       sync.Mutex
	calls    int
	inserted []ShortLink
}

func (m *mockStore) record() {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
}

func (m *mockStore) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *mockStore) Exists(ctx context.Context, code string) (bool, error) {
	m.record()
	if m.existsFunc != nil {
		return m.existsFunc(ctx, code)
	}
	return false, nil
}

func (m *mockStore) Insert(ctx context.Context, link ShortLink) (ShortLink, error) {
	m.record()
	if m.insertFunc != nil {
		return m.insertFunc(ctx, link)
	}
	m.mu.Lock()
	m.inserted = append(m.inserted, link)
	m.mu.Unlock()
	return link, nil
}

func (m *mockStore) Get(ctx context.Context, code string) (ShortLink, error) {
	m.record()
	if m.getFunc != nil {
		return m.getFunc(ctx, code)
	}
	return ShortLink{}, errx.E("mock.Get", errx.NotFound, ErrNotFound)
}

func (m *mockStore) IncrementClicks(ctx context.Context, code string) (ShortLink, error) {
	m.record()
	if m.incrementFunc != nil {
		return m.incrementFunc(ctx, code)
	}
	return ShortLink{}, errx.E("mock.IncrementClicks", errx.NotFound, ErrNotFound)
}

// mockCodeGenerator returns codes in order, then repeats the last one.
type mockCodeGenerator struct {
	codes     []string
	err       error
	callCount int
	lengths   []int
}

func (m *mockCodeGenerator) Generate(length int) (string, error) {
	m.callCount++
	m.lengths = append(m.lengths, length)
	if m.err != nil {
		return "", m.err
	}
	if len(m.codes) == 0 {
		return "abc1234", nil
	}
	idx := min(m.callCount-1, len(m.codes)-1)
	return m.codes[idx], nil
}

func fixedID(id uuid.UUID, err error) idgen.Func {
	return func() (uuid.UUID, error) { return id, err }
}

func fixedNow() time.Time {
	return time.Date(2026, 1, 2, 3, 4, 5, 0, time.FixedZone("EST", -5*60*60))
}
