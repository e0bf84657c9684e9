// Package redis implements the mapping store on Redis. Each link is a hash
// under <prefix>link:<code>; inserts and increments run as Lua scripts so the
// existence check and the write happen atomically on the server.
package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/sundayezeilo/shortlinks/internal/errx"
	"github.com/sundayezeilo/shortlinks/internal/shortener"
)

const DefaultKeyPrefix = "shortlinks:"

// KEYS[1] link hash; ARGV id, code, target_url, created_at.
var insertScript = goredis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 1 then
	return 0
end
redis.call("HSET", KEYS[1],
	"id", ARGV[1],
	"code", ARGV[2],
	"target_url", ARGV[3],
	"click_count", 0,
	"created_at", ARGV[4])
return 1
`)

// KEYS[1] link hash. Replies nil when the link does not exist.
var incrementScript = goredis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 0 then
	return false
end
redis.call("HINCRBY", KEYS[1], "click_count", 1)
return redis.call("HMGET", KEYS[1], "id", "code", "target_url", "click_count", "created_at")
`)

// Options configures the Redis connection.
type Options struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// Store is a shortener.Store backed by Redis hashes.
type Store struct {
	client goredis.UniversalClient
	prefix string
}

// Open connects to Redis and verifies the connection.
func Open(ctx context.Context, opts Options) (*Store, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", opts.Addr, err)
	}

	return New(client, opts.KeyPrefix), nil
}

// New wraps an existing client. An empty prefix uses DefaultKeyPrefix.
func New(client goredis.UniversalClient, prefix string) *Store {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &Store{client: client, prefix: prefix}
}

// Close closes the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) key(code string) string {
	return s.prefix + "link:" + code
}

func (s *Store) Exists(ctx context.Context, code string) (bool, error) {
	n, err := s.client.Exists(ctx, s.key(code)).Result()
	if err != nil {
		return false, errx.E("store.redis.Exists", errx.Unavailable, err)
	}
	return n == 1, nil
}

func (s *Store) Insert(ctx context.Context, link shortener.ShortLink) (shortener.ShortLink, error) {
	const op = "store.redis.Insert"

	if link.CreatedAt.IsZero() {
		link.CreatedAt = time.Now().UTC()
	}
	link.ClickCount = 0

	inserted, err := insertScript.Run(ctx, s.client, []string{s.key(link.Code)},
		link.ID.String(),
		link.Code,
		link.TargetURL,
		link.CreatedAt.UTC().Format(time.RFC3339Nano),
	).Int()
	if err != nil {
		return shortener.ShortLink{}, errx.E(op, errx.Unavailable, err)
	}
	if inserted == 0 {
		return shortener.ShortLink{}, errx.Errorf(op, errx.Conflict, "code %q already stored", link.Code)
	}
	return link, nil
}

func (s *Store) Get(ctx context.Context, code string) (shortener.ShortLink, error) {
	const op = "store.redis.Get"

	fields, err := s.client.HMGet(ctx, s.key(code), "id", "code", "target_url", "click_count", "created_at").Result()
	if err != nil {
		return shortener.ShortLink{}, errx.E(op, errx.Unavailable, err)
	}
	if fields[1] == nil {
		return shortener.ShortLink{}, errx.E(op, errx.NotFound, shortener.ErrNotFound)
	}
	return parseLink(op, fields)
}

func (s *Store) IncrementClicks(ctx context.Context, code string) (shortener.ShortLink, error) {
	const op = "store.redis.IncrementClicks"

	fields, err := incrementScript.Run(ctx, s.client, []string{s.key(code)}).Slice()
	if errors.Is(err, goredis.Nil) {
		return shortener.ShortLink{}, errx.E(op, errx.NotFound, shortener.ErrNotFound)
	}
	if err != nil {
		return shortener.ShortLink{}, errx.E(op, errx.Unavailable, err)
	}
	return parseLink(op, fields)
}

// parseLink decodes the reply of HMGET id code target_url click_count created_at.
func parseLink(op string, fields []any) (shortener.ShortLink, error) {
	if len(fields) != 5 {
		return shortener.ShortLink{}, errx.Errorf(op, errx.Internal, "unexpected reply with %d fields", len(fields))
	}

	str := make([]string, len(fields))
	for i, f := range fields {
		v, ok := f.(string)
		if !ok {
			return shortener.ShortLink{}, errx.Errorf(op, errx.Internal, "field %d is %T, want string", i, f)
		}
		str[i] = v
	}

	id, err := uuid.Parse(str[0])
	if err != nil {
		return shortener.ShortLink{}, errx.Errorf(op, errx.Internal, "stored id %q: %w", str[0], err)
	}
	clicks, err := strconv.ParseInt(str[3], 10, 64)
	if err != nil {
		return shortener.ShortLink{}, errx.Errorf(op, errx.Internal, "stored click_count %q: %w", str[3], err)
	}
	createdAt, err := time.Parse(time.RFC3339Nano, str[4])
	if err != nil {
		return shortener.ShortLink{}, errx.Errorf(op, errx.Internal, "stored created_at %q: %w", str[4], err)
	}

	return shortener.ShortLink{
		ID:         id,
		Code:       str[1],
		TargetURL:  str[2],
		ClickCount: clicks,
		CreatedAt:  createdAt,
	}, nil
}
