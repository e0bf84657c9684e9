package shortener

import (
	"context"
	"fmt"
	"time"

	"github.com/sundayezeilo/shortlinks/codegen"
	"github.com/sundayezeilo/shortlinks/internal/errx"
	"github.com/sundayezeilo/shortlinks/internal/idgen"
)

const (
	DefaultCodeLength  = codegen.DefaultLength
	MinCodeLength      = 4
	MaxGeneratedLength = MaxAliasLength
	DefaultMaxAttempts = 3
)

// AllocateRequest holds the input for creating a short link.
type AllocateRequest struct {
	TargetURL string
	Alias     string // Optional: if empty, a code is generated
}

// AllocatorConfig holds configuration for the allocator.
type AllocatorConfig struct {
	CodeGenerator codegen.Generator
	IDGenerator   idgen.Generator
	CodeLength    int
	MaxAttempts   int // generated-code attempts before giving up (default: 3)
	Now           func() time.Time
}

// Allocator creates short links with a code that is unique in the store.
type Allocator struct {
	store       Store
	codes       codegen.Generator
	ids         idgen.Generator
	codeLength  int
	maxAttempts int
	now         func() time.Time
}

// NewAllocator creates an Allocator backed by store.
func NewAllocator(store Store, config *AllocatorConfig) *Allocator {
	if config == nil {
		config = &AllocatorConfig{}
	}

	codes := config.CodeGenerator
	if codes == nil {
		codes = codegen.NewBase62()
	}

	ids := config.IDGenerator
	if ids == nil {
		ids = idgen.New()
	}

	codeLength := config.CodeLength
	if codeLength < MinCodeLength || codeLength > MaxGeneratedLength {
		codeLength = DefaultCodeLength
	}

	attempts := config.MaxAttempts
	if attempts <= 0 {
		attempts = DefaultMaxAttempts
	}

	now := config.Now
	if now == nil {
		now = time.Now
	}

	return &Allocator{
		store:       store,
		codes:       codes,
		ids:         ids,
		codeLength:  codeLength,
		maxAttempts: attempts,
		now:         now,
	}
}

// Allocate validates req and persists a new ShortLink with a zero click count.
// Input is validated before the store is touched.
func (a *Allocator) Allocate(ctx context.Context, req AllocateRequest) (ShortLink, error) {
	const op = "shortener.Allocator.Allocate"

	if err := validateURL(req.TargetURL); err != nil {
		return ShortLink{}, errx.E(op, errx.Invalid, err)
	}

	if req.Alias != "" {
		if err := validateAlias(req.Alias); err != nil {
			return ShortLink{}, errx.E(op, errx.Invalid, err)
		}
		return a.allocateAlias(ctx, req)
	}
	return a.allocateGenerated(ctx, req.TargetURL)
}

// allocateAlias inserts the alias verbatim. It never retries.
func (a *Allocator) allocateAlias(ctx context.Context, req AllocateRequest) (ShortLink, error) {
	const op = "shortener.Allocator.allocateAlias"

	exists, err := a.store.Exists(ctx, req.Alias)
	if err != nil {
		return ShortLink{}, storeError(op, err)
	}
	if exists {
		return ShortLink{}, errx.Errorf(op, errx.Conflict, "%w: %q", ErrAliasTaken, req.Alias)
	}

	link, err := a.insert(ctx, req.Alias, req.TargetURL)
	if err == nil {
		return link, nil
	}
	if errx.KindOf(err) == errx.Conflict {
		// Lost a race with another request for the same alias.
		return ShortLink{}, errx.Errorf(op, errx.Conflict, "%w: %q: %w", ErrAliasTaken, req.Alias, err)
	}
	return ShortLink{}, storeError(op, err)
}

func (a *Allocator) allocateGenerated(ctx context.Context, targetURL string) (ShortLink, error) {
	const op = "shortener.Allocator.allocateGenerated"

	for range a.maxAttempts {
		code, err := a.codes.Generate(a.codeLength)
		if err != nil {
			return ShortLink{}, errx.E(op, errx.Internal, err)
		}

		exists, err := a.store.Exists(ctx, code)
		if err != nil {
			return ShortLink{}, storeError(op, err)
		}
		if exists {
			continue
		}

		link, err := a.insert(ctx, code, targetURL)
		if err == nil {
			return link, nil
		}
		if errx.KindOf(err) != errx.Conflict {
			return ShortLink{}, storeError(op, err)
		}
	}

	return ShortLink{}, errx.E(op, errx.Exhausted,
		fmt.Errorf("%w after %d attempts", ErrGenerationExhausted, a.maxAttempts))
}

func (a *Allocator) insert(ctx context.Context, code, targetURL string) (ShortLink, error) {
	id, err := a.ids.Generate()
	if err != nil {
		return ShortLink{}, errx.E("shortener.Allocator.insert", errx.Internal, err)
	}

	return a.store.Insert(ctx, ShortLink{
		ID:        id,
		Code:      code,
		TargetURL: targetURL,
		CreatedAt: a.now().UTC(),
	})
}
