package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "LISTEN_ADDR", "DATABASE_DRIVER", "DATABASE_PATH", "DATABASE_DSN", "RATE_LIMIT_PER_MINUTE", "SECURE_COOKIES"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "sqlite", cfg.DatabaseDriver)
	assert.Equal(t, "blogicum.db", cfg.DSN(), "dsn falls back to the database path")
	assert.Equal(t, 30, cfg.RateLimitPerMinute)
	assert.False(t, cfg.SecureCookies)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("LISTEN_ADDR", "")
	t.Setenv("DATABASE_DRIVER", "Postgres")
	t.Setenv("DATABASE_DSN", "host=localhost user=blog")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "not-a-number")
	t.Setenv("RATE_LIMIT_BURST", "3")
	t.Setenv("SECURE_COOKIES", "true")

	cfg := Load()
	assert.Equal(t, ":9000", cfg.ListenAddr, "listen addr is derived from the port")
	assert.Equal(t, "postgres", cfg.DatabaseDriver)
	assert.Equal(t, "host=localhost user=blog", cfg.DSN())
	assert.Equal(t, 30, cfg.RateLimitPerMinute, "invalid rate limit falls back")
	assert.Equal(t, 3, cfg.RateLimitBurst)
	assert.True(t, cfg.SecureCookies)
}

func TestLocationFallsBackToUTC(t *testing.T) {
	assert.Equal(t, time.UTC, (AppConfig{TimeZone: "Not/AZone"}).Location())
	assert.Equal(t, "UTC", (AppConfig{TimeZone: "UTC"}).Location().String())
}
