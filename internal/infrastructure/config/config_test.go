package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// managedEnv lists every variable the tests touch. Setting them to "" makes
// viper treat them as unset; t.Setenv restores the originals afterwards.
var managedEnv = []string{
	"INVOICING_APP_NAME",
	"INVOICING_APP_ENV",
	"INVOICING_APP_PORT",
	"INVOICING_DATABASE_DRIVER",
	"INVOICING_DATABASE_HOST",
	"INVOICING_DATABASE_PORT",
	"INVOICING_DATABASE_PASSWORD",
	"INVOICING_DATABASE_MAX_OPEN_CONNS",
	"INVOICING_DATABASE_MAX_IDLE_CONNS",
	"INVOICING_JWT_SECRET",
	"INVOICING_JWT_SESSION_EXPIRATION",
	"INVOICING_COOKIE_SECURE",
	"INVOICING_COOKIE_SAME_SITE",
	"INVOICING_REDIS_ENABLED",
	"INVOICING_CACHE_LISTING_TTL",
	"INVOICING_TELEMETRY_SAMPLING_RATIO",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range managedEnv {
		t.Setenv(k, "")
	}
}

func TestLoad(t *testing.T) {
	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv(t)

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "invoicing", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "postgres", cfg.Database.Driver)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.False(t, cfg.Redis.Enabled)
		assert.Equal(t, 24*time.Hour, cfg.JWT.SessionExpiration)
		assert.Equal(t, "session", cfg.Cookie.Name)
		assert.Equal(t, "lax", cfg.Cookie.SameSite)
		assert.Equal(t, 30*time.Second, cfg.Cache.ListingTTL)
		assert.Equal(t, "invoicing:cache:invalidate", cfg.Cache.InvalidationChannel)
		assert.Empty(t, cfg.HTTP.CORSAllowOrigins)
	})

	t.Run("loads values from environment variables with INVOICING prefix", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("INVOICING_APP_NAME", "test-app")
		t.Setenv("INVOICING_APP_PORT", "9000")
		t.Setenv("INVOICING_DATABASE_DRIVER", "sqlite")
		t.Setenv("INVOICING_DATABASE_MAX_OPEN_CONNS", "50")
		t.Setenv("INVOICING_DATABASE_MAX_IDLE_CONNS", "10")
		t.Setenv("INVOICING_REDIS_ENABLED", "true")
		t.Setenv("INVOICING_JWT_SESSION_EXPIRATION", "2h")
		t.Setenv("INVOICING_CACHE_LISTING_TTL", "5s")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "sqlite", cfg.Database.Driver)
		assert.Equal(t, 50, cfg.Database.MaxOpenConns)
		assert.Equal(t, 10, cfg.Database.MaxIdleConns)
		assert.True(t, cfg.Redis.Enabled)
		assert.Equal(t, 2*time.Hour, cfg.JWT.SessionExpiration)
		assert.Equal(t, 5*time.Second, cfg.Cache.ListingTTL)
	})

	t.Run("rejects unknown database driver", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("INVOICING_DATABASE_DRIVER", "mysql")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.driver")
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("INVOICING_DATABASE_MAX_OPEN_CONNS", "10")
		t.Setenv("INVOICING_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("rejects negative listing ttl", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("INVOICING_CACHE_LISTING_TTL", "-5s")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cache.listing_ttl")
	})

	t.Run("same_site none requires secure cookies", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("INVOICING_COOKIE_SAME_SITE", "none")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cookie.same_site=none requires cookie.secure=true")
	})

	t.Run("rejects sampling ratio out of range", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("INVOICING_TELEMETRY_SAMPLING_RATIO", "1.5")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sampling_ratio")
	})
}

func TestLoad_ProductionValidation(t *testing.T) {
	setValidProductionBase := func(t *testing.T) {
		clearEnv(t)
		t.Setenv("INVOICING_APP_ENV", "production")
		t.Setenv("INVOICING_JWT_SECRET", "this-is-a-very-secure-jwt-secret-key-32chars")
		t.Setenv("INVOICING_DATABASE_PASSWORD", "secure-password")
		t.Setenv("INVOICING_COOKIE_SECURE", "true")
	}

	t.Run("passes validation with valid production config", func(t *testing.T) {
		setValidProductionBase(t)

		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.IsProduction())
	})

	t.Run("requires jwt.secret in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("INVOICING_JWT_SECRET", "")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret is required in production")
	})

	t.Run("requires jwt.secret at least 32 characters in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("INVOICING_JWT_SECRET", "short-secret")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "at least 32 characters")
	})

	t.Run("requires database.password in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("INVOICING_DATABASE_PASSWORD", "")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.password is required in production")
	})

	t.Run("requires secure cookies in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("INVOICING_COOKIE_SECURE", "false")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cookie.secure must be true")
	})

	t.Run("rejects sqlite in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("INVOICING_DATABASE_DRIVER", "sqlite")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must be postgres in production")
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Run("escapes special characters in password", func(t *testing.T) {
		cfg := DatabaseConfig{
			Driver:   "postgres",
			Host:     "localhost",
			Port:     5432,
			User:     "user",
			Password: "pass@word#123",
			DBName:   "db",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "pass%40word%23123")
		assert.Contains(t, dsn, "localhost:5432/db")
		assert.Contains(t, dsn, "sslmode=disable")
	})

	t.Run("sqlite uses the file path", func(t *testing.T) {
		cfg := DatabaseConfig{Driver: "sqlite", Path: "/tmp/app.db"}
		assert.Equal(t, "/tmp/app.db", cfg.DSN())
	})
}

func TestDatabaseConfig_SQLiteDSN(t *testing.T) {
	testCases := []struct {
		path string
		want string
	}{
		{"/tmp/app.db", "/tmp/app.db?_foreign_keys=on"},
		{"file::memory:?cache=shared", "file::memory:?cache=shared&_foreign_keys=on"},
		{"file:app.db?mode=rwc&cache=shared", "file:app.db?mode=rwc&cache=shared&_foreign_keys=on"},
	}
	for _, tc := range testCases {
		cfg := DatabaseConfig{Driver: "sqlite", Path: tc.path}
		assert.Equal(t, tc.want, cfg.SQLiteDSN(), "path %q", tc.path)
	}
}

func TestRedisConfig_Addr(t *testing.T) {
	assert.Equal(t, "cache:6380", RedisConfig{Host: "cache", Port: 6380}.Addr())
}
