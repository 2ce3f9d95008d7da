package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("TIMEZONE", "UTC")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "memory", cfg.StoreDriver)
	assert.Equal(t, "cookie", cfg.Session.Driver)
	assert.Equal(t, "none", cfg.Events.Driver)
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, time.UTC, cfg.Location)
	assert.True(t, cfg.IsDev())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("TIMEZONE", "UTC")
	t.Setenv("STORE_DRIVER", "Postgres")
	t.Setenv("SESSION_DRIVER", "redis")
	t.Setenv("EVENTS_DRIVER", "nats")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("SERVER_READ_TIMEOUT", "2s")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("DB_NAME", "booking")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.StoreDriver)
	assert.Equal(t, "redis", cfg.Session.Driver)
	assert.Equal(t, "nats", cfg.Events.Driver)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.True(t, cfg.Session.CookieSecure)
	assert.Equal(t, 2*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Contains(t, cfg.Postgres.DSN(), "dbname=booking")
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"store driver", "STORE_DRIVER", "sqlite"},
		{"session driver", "SESSION_DRIVER", "memcached"},
		{"events driver", "EVENTS_DRIVER", "kafka"},
		{"short csrf key", "CSRF_KEY", "too-short"},
		{"timezone", "TIMEZONE", "Mars/Olympus"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)

			_, err := Load()

			require.Error(t, err)
		})
	}
}

func TestLoad_BadNumbersFallBack(t *testing.T) {
	t.Setenv("TIMEZONE", "UTC")
	t.Setenv("REDIS_DB", "x")
	t.Setenv("SESSION_TTL", "forever")
	t.Setenv("COOKIE_SECURE", "maybe")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Redis.DB)
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL)
	assert.False(t, cfg.Session.CookieSecure)
}
