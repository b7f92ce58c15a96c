package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/aussiebroadwan/logind/internal/auth/domain"
	"github.com/aussiebroadwan/logind/internal/auth/store"
	"github.com/redis/go-redis/v9"
)

// KEYS: token key, refresh_tokens:seq, expiry zset.
// ARGV: token, user_id, expires_at (unix micros), revoked (0/1).
// Returns the new id, or 0 when the token already exists.
const createRefreshTokenScript = `
if redis.call("EXISTS", KEYS[1]) == 1 then
  return 0
end
local id = redis.call("INCR", KEYS[2])
redis.call("HSET", KEYS[1], "id", id, "user_id", ARGV[2], "token", ARGV[1], "expires_at", ARGV[3], "revoked", ARGV[4])
redis.call("ZADD", KEYS[3], ARGV[3], ARGV[1])
return id
`

// KEYS: token key. Returns 1 if this call revoked the token.
const revokeRefreshTokenScript = `
if redis.call("HGET", KEYS[1], "revoked") == "0" then
  redis.call("HSET", KEYS[1], "revoked", "1")
  return 1
end
return 0
`

// KEYS: expiry zset. ARGV: cutoff (unix micros, exclusive), token key prefix.
const deleteExpiredScript = `
local members = redis.call("ZRANGEBYSCORE", KEYS[1], "-inf", "(" .. ARGV[1])
for _, m in ipairs(members) do
  redis.call("DEL", ARGV[2] .. m)
  redis.call("ZREM", KEYS[1], m)
end
return #members
`

var (
	createRefreshTokenLua = redis.NewScript(createRefreshTokenScript)
	revokeRefreshTokenLua = redis.NewScript(revokeRefreshTokenScript)
	deleteExpiredLua      = redis.NewScript(deleteExpiredScript)
)

type refreshTokensRepo struct {
	s *Store
}

func (r *refreshTokensRepo) CreateRefreshToken(ctx context.Context, t domain.RefreshToken) (int64, error) {
	id, err := createRefreshTokenLua.Run(ctx, r.s.rdb,
		[]string{r.s.tokenKey(t.Token), r.s.tokenSeqKey(), r.s.tokenExpiryKey()},
		t.Token, t.UserID, t.ExpiresAt.UnixMicro(), boolFlag(t.Revoked),
	).Int64()
	if err != nil {
		return 0, err
	}
	if id == 0 {
		return 0, store.ErrAlreadyExists
	}
	return id, nil
}

func (r *refreshTokensRepo) GetRefreshTokenByToken(ctx context.Context, token string) (domain.RefreshToken, error) {
	fields, err := r.s.rdb.HGetAll(ctx, r.s.tokenKey(token)).Result()
	if err != nil {
		return domain.RefreshToken{}, err
	}
	return decodeRefreshToken(fields)
}

func (r *refreshTokensRepo) RevokeRefreshToken(ctx context.Context, token string) (bool, error) {
	n, err := revokeRefreshTokenLua.Run(ctx, r.s.rdb, []string{r.s.tokenKey(token)}).Int64()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *refreshTokensRepo) DeleteExpiredRefreshTokens(ctx context.Context, before time.Time) (int64, error) {
	return deleteExpiredLua.Run(ctx, r.s.rdb,
		[]string{r.s.tokenExpiryKey()},
		before.UnixMicro(), r.s.tokenKeyPrefix(),
	).Int64()
}

func boolFlag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func decodeRefreshToken(fields map[string]string) (domain.RefreshToken, error) {
	if len(fields) == 0 {
		return domain.RefreshToken{}, store.ErrNotFound
	}
	id, err := strconv.ParseInt(fields["id"], 10, 64)
	if err != nil {
		return domain.RefreshToken{}, fmt.Errorf("redis: corrupt refresh token id: %w", err)
	}
	userID, err := strconv.ParseInt(fields["user_id"], 10, 64)
	if err != nil {
		return domain.RefreshToken{}, fmt.Errorf("redis: corrupt refresh token user_id: %w", err)
	}
	expires, err := strconv.ParseInt(fields["expires_at"], 10, 64)
	if err != nil {
		return domain.RefreshToken{}, fmt.Errorf("redis: corrupt refresh token expires_at: %w", err)
	}
	return domain.RefreshToken{
		ID:        id,
		UserID:    userID,
		Token:     fields["token"],
		ExpiresAt: time.UnixMicro(expires).UTC(),
		Revoked:   fields["revoked"] == "1",
	}, nil
}
