// Package redis stores users and refresh tokens in Redis hashes. Inserts and
// revocation run as Lua scripts so uniqueness and revoke-once hold under
// concurrent callers. Scripts touch keys derived from their arguments, so the
// driver targets standalone Redis rather than cluster.
package redis

import (
	"context"
	"errors"
	"strconv"

	"github.com/aussiebroadwan/logind/internal/auth/store"
	"github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces every key the driver writes.
const DefaultPrefix = "auth:"

type Store struct {
	rdb    redis.UniversalClient
	prefix string
}

// NewStore wraps an existing client. The store owns the client from here on
// and closes it in Close.
func NewStore(rdb redis.UniversalClient, prefix string) *Store {
	return &Store{rdb: rdb, prefix: prefix}
}

// Open parses a redis:// or rediss:// URL and connects.
func Open(ctx context.Context, url, prefix string) (*Store, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return NewStore(rdb, prefix), nil
}

func (s *Store) Users() store.Users                 { return &usersRepo{s: s} }
func (s *Store) RefreshTokens() store.RefreshTokens { return &refreshTokensRepo{s: s} }

func (s *Store) ApplyMigrations() error { return nil }
func (s *Store) Close() error           { return s.rdb.Close() }

func (s *Store) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

func (s *Store) userSeqKey() string             { return s.prefix + "users:seq" }
func (s *Store) userKeyPrefix() string          { return s.prefix + "user:" }
func (s *Store) userKey(id int64) string        { return s.userKeyPrefix() + strconv.FormatInt(id, 10) }
func (s *Store) userNameKey(name string) string { return s.prefix + "user_name:" + name }
func (s *Store) tokenSeqKey() string            { return s.prefix + "refresh_tokens:seq" }
func (s *Store) tokenKeyPrefix() string         { return s.prefix + "refresh_token:" }
func (s *Store) tokenKey(token string) string   { return s.tokenKeyPrefix() + token }
func (s *Store) tokenExpiryKey() string         { return s.prefix + "refresh_tokens:expiry" }

func mapNotFound(err error) error {
	if errors.Is(err, redis.Nil) {
		return store.ErrNotFound
	}
	return err
}
