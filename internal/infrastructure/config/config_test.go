package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("loads default values when env vars not set", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "storefront", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "storefront", cfg.Database.DBName)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)
		assert.Zero(t, cfg.Database.LockTimeout)
		assert.Equal(t, time.Hour, cfg.JWT.Expiration)
		assert.False(t, cfg.Redis.Enabled())
		assert.False(t, cfg.IsProduction())
		assert.True(t, cfg.HTTP.AuthRateLimitEnabled)
		assert.Equal(t, 5, cfg.HTTP.AuthRateLimitRequests)
		assert.False(t, cfg.HTTP.RateLimitEnabled)
		assert.Equal(t, []string{"GET", "POST", "OPTIONS"}, cfg.HTTP.CORSAllowMethods)
		assert.False(t, cfg.Telemetry.ProfilingEnabled)
		assert.Equal(t, "http://localhost:4040", cfg.Telemetry.ProfilingServerAddress)
		assert.Contains(t, cfg.Telemetry.ProfilingTypes, "cpu")
		assert.Equal(t, 5, cfg.Telemetry.ProfilingMutexFraction)
	})

	t.Run("loads values from environment variables with STOREFRONT prefix", func(t *testing.T) {
		t.Setenv("STOREFRONT_APP_PORT", "9000")
		t.Setenv("STOREFRONT_DATABASE_HOST", "testdb.local")
		t.Setenv("STOREFRONT_DATABASE_PORT", "5433")
		t.Setenv("STOREFRONT_DATABASE_PASSWORD", "testpass")
		t.Setenv("STOREFRONT_DATABASE_MAX_OPEN_CONNS", "50")
		t.Setenv("STOREFRONT_DATABASE_MAX_IDLE_CONNS", "10")
		t.Setenv("STOREFRONT_DATABASE_LOCK_TIMEOUT", "3s")
		t.Setenv("STOREFRONT_REDIS_HOST", "cache.local")
		t.Setenv("STOREFRONT_JWT_EXPIRATION", "30m")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, "testpass", cfg.Database.Password)
		assert.Equal(t, 50, cfg.Database.MaxOpenConns)
		assert.Equal(t, 10, cfg.Database.MaxIdleConns)
		assert.Equal(t, 3*time.Second, cfg.Database.LockTimeout)
		assert.True(t, cfg.Redis.Enabled())
		assert.Equal(t, 30*time.Minute, cfg.JWT.Expiration)
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		t.Setenv("STOREFRONT_DATABASE_MAX_OPEN_CONNS", "10")
		t.Setenv("STOREFRONT_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("rejects negative lock timeout", func(t *testing.T) {
		t.Setenv("STOREFRONT_DATABASE_LOCK_TIMEOUT", "-1s")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "lock_timeout")
	})

	t.Run("rejects sampling ratio above one", func(t *testing.T) {
		t.Setenv("STOREFRONT_TELEMETRY_SAMPLING_RATIO", "1.5")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sampling_ratio")
	})

	t.Run("profiling needs a server address", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		content := "[telemetry]\nprofiling_enabled = true\nprofiling_server_address = \"\"\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		_, err := LoadFile(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "profiling_server_address")
	})
}

func TestLoad_ProductionValidation(t *testing.T) {
	setValidProductionBase := func(t *testing.T) {
		t.Setenv("STOREFRONT_APP_ENV", "production")
		t.Setenv("STOREFRONT_JWT_SECRET", "this-is-a-very-secure-jwt-secret-key-32chars")
		t.Setenv("STOREFRONT_DATABASE_PASSWORD", "secure-password")
		t.Setenv("STOREFRONT_DATABASE_SSLMODE", "require")
	}

	t.Run("passes validation with valid production config", func(t *testing.T) {
		setValidProductionBase(t)

		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.IsProduction())
	})

	t.Run("requires jwt.secret in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("STOREFRONT_JWT_SECRET", "")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret is required in production")
	})

	t.Run("requires jwt.secret at least 32 characters in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("STOREFRONT_JWT_SECRET", "short-secret")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "at least 32 characters")
	})

	t.Run("requires database.password in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("STOREFRONT_DATABASE_PASSWORD", "")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.password is required in production")
	})

	t.Run("requires SSL enabled in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("STOREFRONT_DATABASE_SSLMODE", "disable")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sslmode")
	})

	t.Run("rejects wildcard CORS in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("STOREFRONT_HTTP_CORS_ALLOW_ORIGINS", "*")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cors_allow_origins")
	})
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[app]
port = "7070"

[database]
dbname = "shop"
lock_timeout = "2s"

[jwt]
expiration = "2h"

[telemetry]
profiling_enabled = true
profiling_server_address = "http://pyroscope:4040"
profiling_types = ["cpu", "block_count"]
profiling_block_rate = 10
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.App.Port)
	assert.Equal(t, "shop", cfg.Database.DBName)
	assert.Equal(t, 2*time.Second, cfg.Database.LockTimeout)
	assert.Equal(t, 2*time.Hour, cfg.JWT.Expiration)
	assert.True(t, cfg.Telemetry.ProfilingEnabled)
	assert.Equal(t, "http://pyroscope:4040", cfg.Telemetry.ProfilingServerAddress)
	assert.Equal(t, []string{"cpu", "block_count"}, cfg.Telemetry.ProfilingTypes)
	assert.Equal(t, 10, cfg.Telemetry.ProfilingBlockRate)

	t.Run("environment overrides file", func(t *testing.T) {
		t.Setenv("STOREFRONT_DATABASE_DBNAME", "override")
		cfg, err := LoadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "override", cfg.Database.DBName)
	})

	t.Run("missing file is an error", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(dir, "nope.toml"))
		assert.Error(t, err)
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Run("generates valid DSN", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "testuser",
			Password: "testpass",
			DBName:   "testdb",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "localhost:5432")
		assert.Contains(t, dsn, "testuser")
		assert.Contains(t, dsn, "/testdb")
		assert.Contains(t, dsn, "sslmode=disable")
	})

	t.Run("escapes special characters in password", func(t *testing.T) {
		cfg := DatabaseConfig{Host: "localhost", Port: 5432, User: "user", Password: "pass@word#123", DBName: "db", SSLMode: "disable"}
		assert.Contains(t, cfg.DSN(), "pass%40word%23123")
	})
}

func TestDatabaseConfig_LockTimeoutStatement(t *testing.T) {
	assert.Empty(t, (&DatabaseConfig{}).LockTimeoutStatement())
	assert.Equal(t, "SET LOCAL lock_timeout = '1500ms'",
		(&DatabaseConfig{LockTimeout: 1500 * time.Millisecond}).LockTimeoutStatement())
}
