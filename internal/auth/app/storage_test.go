package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
)

func TestParseDBURL(t *testing.T) {
	tests := []struct {
		raw    string
		driver string
		dsn    string
	}{
		{"sqlite:///auth.db", driverSQLite, "auth.db"},
		{"sqlite:///./data/auth.db", driverSQLite, "./data/auth.db"},
		{"sqlite:////var/lib/logind/auth.db", driverSQLite, "/var/lib/logind/auth.db"},
		{"sqlite://", driverSQLite, ":memory:"},
		{"sqlite:///:memory:", driverSQLite, ":memory:"},
		{"postgres://u:p@db/auth", driverPostgres, "postgres://u:p@db/auth"},
		{"postgresql://u:p@db/auth", driverPostgres, "postgresql://u:p@db/auth"},
		{"redis://localhost:6379/0", driverRedis, "redis://localhost:6379/0"},
		{"memory://", driverMemory, ""},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			driver, dsn, err := parseDBURL(tt.raw)
			require.NoError(t, err)
			require.Equal(t, tt.driver, driver)
			require.Equal(t, tt.dsn, dsn)
		})
	}
}

func TestParseDBURL_Rejects(t *testing.T) {
	for _, raw := range []string{"auth.db", "mysql://u@db/auth"} {
		_, _, err := parseDBURL(raw)
		require.Error(t, err, raw)
	}
}

func TestOpenStore_SQLiteCreatesDataDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	cfg := Config{DBURL: defaultDBURL(dir)}

	st, driver, err := openStore(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.Equal(t, driverSQLite, driver)
	require.FileExists(t, filepath.Join(dir, "auth.db"))
	require.NoError(t, st.Ping(context.Background()))
}

func TestOpenStore_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := Config{DBURL: "redis://" + mr.Addr(), RedisKeyPrefix: "test:"}

	st, driver, err := openStore(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.Equal(t, driverRedis, driver)
	require.NoError(t, st.Ping(context.Background()))
}
