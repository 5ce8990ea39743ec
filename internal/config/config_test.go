package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsAndOverrides(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "postgres://localhost/scheduling")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("HTTP_PORT", "")
	t.Setenv("LOCALE", "")
	t.Setenv("LOCK_TTL", "")
	t.Setenv("REDIS_TIMEOUT", "250ms")
	t.Setenv("REDIS_POOL_SIZE", "4")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "8080", cfg.HTTPPort)
	require.Equal(t, "en", cfg.Locale)
	require.Equal(t, 5*time.Second, cfg.LockTTL)
	require.Equal(t, 250*time.Millisecond, cfg.RedisTimeout)
	require.Equal(t, 4, cfg.RedisPoolSize)
}

func TestLoadRequiresPostgresDSN(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "")
	t.Setenv("JWT_SECRET", "test-secret")

	_, err := Load()
	require.Error(t, err)
}

func TestParseRedisURL(t *testing.T) {
	addr, username, password, err := parseRedisURL("redis://user:pw@redis.internal:6380")
	require.NoError(t, err)
	require.Equal(t, "redis.internal:6380", addr)
	require.Equal(t, "user", username)
	require.Equal(t, "pw", password)
}
