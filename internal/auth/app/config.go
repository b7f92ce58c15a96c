package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/aussiebroadwan/logind/internal/auth/store/drivers/redis"
	"github.com/aussiebroadwan/logind/pkg/cryptox"
	"github.com/aussiebroadwan/logind/pkg/httpx"
	"github.com/aussiebroadwan/logind/pkg/jwtx"
	"github.com/joho/godotenv"
)

type Config struct {
	JWTSecret    string        // JWT_SECRET: HMAC key for access tokens (default: CHANGE_ME, logged as insecure)
	AccessTTL    time.Duration // ACCESS_TTL_MIN: access token lifetime in minutes (default: 15)
	RefreshTTL   time.Duration // REFRESH_TTL_DAYS: refresh token lifetime in days (default: 7)
	DataDir      string        // DATA_DIR: directory for the default sqlite database (default: .)
	DBURL        string        // DB_URL: store location (default: sqlite:///<DATA_DIR>/auth.db)
	CORSOrigins  []string      // CORS_ORIGINS: comma separated allowed origins (default: none)
	SeedDemoUser bool          // SEED_DEMO_USER: create the demo user at startup (default: true)

	PasswordAlgorithm    string        // PASSWORD_ALGORITHM: bcrypt or argon2id for new hashes (default: bcrypt)
	RefreshRetention     time.Duration // REFRESH_RETENTION: purge tokens expired longer ago than this, 0 keeps them (default: 0)
	HousekeepingInterval time.Duration // HOUSEKEEPING_INTERVAL: how often the purge runs (default: 1h)
	RedisKeyPrefix       string        // REDIS_KEY_PREFIX: key namespace for redis:// stores (default: auth:)

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8000)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

// LoadConfig reads configuration from the environment. A .env file in the
// working directory is loaded first if present; real environment variables
// win over it.
func LoadConfig() Config {
	_ = godotenv.Load()

	dataDir := getEnvOrDefault("DATA_DIR", ".")

	return Config{
		JWTSecret:    getEnvOrDefault("JWT_SECRET", jwtx.InsecureDefaultSecret),
		AccessTTL:    time.Duration(getEnvIntOrDefault("ACCESS_TTL_MIN", 15)) * time.Minute,
		RefreshTTL:   time.Duration(getEnvIntOrDefault("REFRESH_TTL_DAYS", 7)) * 24 * time.Hour,
		DataDir:      dataDir,
		DBURL:        getEnvOrDefault("DB_URL", defaultDBURL(dataDir)),
		CORSOrigins:  httpx.ParseOrigins(os.Getenv("CORS_ORIGINS")),
		SeedDemoUser: getEnvBoolOrDefault("SEED_DEMO_USER", true),

		PasswordAlgorithm:    getEnvOrDefault("PASSWORD_ALGORITHM", string(cryptox.AlgBcrypt)),
		RefreshRetention:     getEnvDurationOrDefault("REFRESH_RETENTION", 0),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
		RedisKeyPrefix:       getEnvOrDefault("REDIS_KEY_PREFIX", redis.DefaultPrefix),

		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8000),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}
}

// Validate rejects settings the service cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.AccessTTL <= 0 {
		errs = append(errs, errors.New("ACCESS_TTL_MIN must be positive"))
	}
	if c.RefreshTTL <= 0 {
		errs = append(errs, errors.New("REFRESH_TTL_DAYS must be positive"))
	}
	if c.RefreshRetention < 0 {
		errs = append(errs, errors.New("REFRESH_RETENTION must not be negative"))
	}
	if _, err := cryptox.ParseAlgorithm(c.PasswordAlgorithm); err != nil {
		errs = append(errs, fmt.Errorf("PASSWORD_ALGORITHM: %w", err))
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT %d out of range", c.Port))
	}
	return errors.Join(errs...)
}

func defaultDBURL(dataDir string) string {
	return "sqlite:///" + filepath.ToSlash(filepath.Join(dataDir, "auth.db"))
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}

	switch strings.ToLower(value) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes (for backwards compatibility)
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
