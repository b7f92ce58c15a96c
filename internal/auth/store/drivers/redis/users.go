package redis

import (
	"context"
	"fmt"
	"strconv"

	"github.com/aussiebroadwan/logind/internal/auth/domain"
	"github.com/aussiebroadwan/logind/internal/auth/store"
	"github.com/redis/go-redis/v9"
)

// KEYS: user_name key, users:seq. ARGV: user_name, password_hash, user key prefix.
// Returns the new id, or 0 when the name is taken.
const createUserScript = `
if redis.call("EXISTS", KEYS[1]) == 1 then
  return 0
end
local id = redis.call("INCR", KEYS[2])
redis.call("HSET", ARGV[3] .. id, "id", id, "user_name", ARGV[1], "password_hash", ARGV[2])
redis.call("SET", KEYS[1], id)
return id
`

var createUserLua = redis.NewScript(createUserScript)

type usersRepo struct {
	s *Store
}

func (r *usersRepo) GetUserByID(ctx context.Context, id int64) (domain.User, error) {
	fields, err := r.s.rdb.HGetAll(ctx, r.s.userKey(id)).Result()
	if err != nil {
		return domain.User{}, err
	}
	return decodeUser(fields)
}

func (r *usersRepo) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	id, err := r.s.rdb.Get(ctx, r.s.userNameKey(username)).Int64()
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return r.GetUserByID(ctx, id)
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) (int64, error) {
	id, err := createUserLua.Run(ctx, r.s.rdb,
		[]string{r.s.userNameKey(u.Username), r.s.userSeqKey()},
		u.Username, u.PasswordHash, r.s.userKeyPrefix(),
	).Int64()
	if err != nil {
		return 0, err
	}
	if id == 0 {
		return 0, store.ErrAlreadyExists
	}
	return id, nil
}

func decodeUser(fields map[string]string) (domain.User, error) {
	if len(fields) == 0 {
		return domain.User{}, store.ErrNotFound
	}
	id, err := strconv.ParseInt(fields["id"], 10, 64)
	if err != nil {
		return domain.User{}, fmt.Errorf("redis: corrupt user record: %w", err)
	}
	return domain.User{
		ID:           id,
		Username:     fields["user_name"],
		PasswordHash: fields["password_hash"],
	}, nil
}
