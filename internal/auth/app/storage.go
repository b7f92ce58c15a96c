package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aussiebroadwan/logind/internal/auth/store"
	"github.com/aussiebroadwan/logind/internal/auth/store/drivers/memory"
	"github.com/aussiebroadwan/logind/internal/auth/store/drivers/postgres"
	"github.com/aussiebroadwan/logind/internal/auth/store/drivers/redis"
	"github.com/aussiebroadwan/logind/internal/auth/store/drivers/sqlite"
)

// Driver names understood by parseDBURL.
const (
	driverSQLite   = "sqlite"
	driverPostgres = "postgres"
	driverRedis    = "redis"
	driverMemory   = "memory"
)

// parseDBURL splits DB_URL into a driver name and the DSN that driver
// expects. sqlite URLs follow the sqlite:///relative/path and
// sqlite:////absolute/path convention; other schemes pass through whole.
func parseDBURL(raw string) (driver, dsn string, err error) {
	scheme, rest, ok := strings.Cut(raw, "://")
	if !ok {
		return "", "", fmt.Errorf("DB_URL %q has no scheme", raw)
	}

	switch strings.ToLower(scheme) {
	case "sqlite", "sqlite3":
		path := strings.TrimPrefix(rest, "/")
		if path == "" || path == ":memory:" {
			return driverSQLite, ":memory:", nil
		}
		return driverSQLite, path, nil
	case "postgres", "postgresql":
		return driverPostgres, raw, nil
	case "redis", "rediss":
		return driverRedis, raw, nil
	case "memory":
		return driverMemory, "", nil
	default:
		return "", "", fmt.Errorf("DB_URL scheme %q is not supported", scheme)
	}
}

// openStore connects to the store named by cfg.DBURL and applies migrations.
func openStore(ctx context.Context, cfg Config) (store.Store, string, error) {
	driver, dsn, err := parseDBURL(cfg.DBURL)
	if err != nil {
		return nil, "", err
	}

	var st store.Store
	switch driver {
	case driverSQLite:
		if dsn != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
				return nil, "", fmt.Errorf("create data dir: %w", err)
			}
		}
		st, err = sqlite.NewStore(dsn)
	case driverPostgres:
		st, err = postgres.NewStore(ctx, dsn)
	case driverRedis:
		st, err = redis.Open(ctx, dsn, cfg.RedisKeyPrefix)
	case driverMemory:
		st = memory.NewStore()
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to initialize %s store: %w", driver, err)
	}

	if err := st.ApplyMigrations(); err != nil {
		_ = st.Close()
		return nil, "", fmt.Errorf("failed to apply %s migrations: %w", driver, err)
	}

	return st, driver, nil
}
