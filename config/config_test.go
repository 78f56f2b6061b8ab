package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, StorageMongo, cfg.StorageDriver)
	assert.Equal(t, "devmatch", cfg.MongoDBName)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.True(t, cfg.CookieSecure)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, 60, cfg.RateLimit)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.ClientURLs)
	assert.Equal(t, time.Minute, cfg.RateLimitWindow)
	assert.Empty(t, cfg.RedisURL)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("PORT", "9000")
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("TOKEN_TTL", "2h")
	t.Setenv("COOKIE_SECURE", "false")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("CLIENT_URL", "https://devmatch.app,https://www.devmatch.app")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, StorageMemory, cfg.StorageDriver)
	assert.Equal(t, []string{"https://devmatch.app", "https://www.devmatch.app"}, cfg.ClientURLs)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.False(t, cfg.CookieSecure)
	assert.Equal(t, 3, cfg.RedisDB)
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			JWTSecret:       "k",
			StorageDriver:   StorageMemory,
			ClientURLs:      []string{"http://localhost:5173"},
			TokenTTL:        time.Hour,
			RequestTimeout:  time.Second,
			RateLimit:       1,
			RateLimitWindow: time.Second,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"ok", func(*Config) {}, false},
		{"unknown driver", func(c *Config) { c.StorageDriver = "postgres" }, true},
		{"no origins", func(c *Config) { c.ClientURLs = nil }, true},
		{"zero ttl", func(c *Config) { c.TokenTTL = 0 }, true},
		{"zero timeout", func(c *Config) { c.RequestTimeout = 0 }, true},
		{"zero rate limit", func(c *Config) { c.RateLimit = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
