package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Equal(t, StatusPolicyLenient, cfg.StatusPolicy)
	assert.False(t, cfg.SeedOnStart)
	assert.False(t, cfg.EventsEnabled)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, 15, cfg.AccessTTLMin)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
	assert.True(t, cfg.Cache.Methods["GET"])
	assert.Equal(t, 60, cfg.RateLimit.Capacity)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DB_DRIVER", "SQLITE3")
	t.Setenv("RENTAL_STATUS_POLICY", "Strict")
	t.Setenv("SEED_ON_START", "true")
	t.Setenv("CORS_ORIGINS", "http://localhost:3000, https://drivehub.example")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")
	t.Setenv("RATE_LIMIT_TTL", "1s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite3", cfg.DBDriver)
	assert.Equal(t, StatusPolicyStrict, cfg.StatusPolicy)
	assert.True(t, cfg.SeedOnStart)
	assert.Equal(t, []string{"http://localhost:3000", "https://drivehub.example"}, cfg.CORSOrigins)
	assert.Equal(t, "cache:6380", cfg.Redis.Addr)
	// TTL is raised to five refill intervals
	assert.Equal(t, 10*time.Second, cfg.RateLimit.TTL)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Run("missing secret", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")
		_, err := Load()
		assert.ErrorIs(t, err, ErrMissingSecret)
	})
	t.Run("unknown driver", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "x")
		t.Setenv("DB_DRIVER", "postgres")
		_, err := Load()
		assert.Error(t, err)
	})
	t.Run("unknown policy", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "x")
		t.Setenv("RENTAL_STATUS_POLICY", "anything")
		_, err := Load()
		assert.Error(t, err)
	})
}
