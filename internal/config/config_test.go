package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaultsToLocalHosts(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("BACKEND_URL", "")
	t.Setenv("STORAGE_URL", "")
	t.Setenv("LIST_CACHE_TTL", "")
	t.Setenv("CORS_ORIGINS", "")

	cfg := Load()

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "http://localhost:8000/api", cfg.BackendURL)
	assert.Equal(t, "http://localhost:8000/storage/", cfg.StorageURL)
	assert.False(t, cfg.CookieSecure)
	assert.Equal(t, 5*time.Minute, cfg.ListCacheTTL)
	assert.Empty(t, cfg.CORSOrigins)
}

func TestLoadProductionSwitchesStorageHost(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("STORAGE_URL", "")

	cfg := Load()

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "https://pfemanager.lon1.digitaloceanspaces.com/storage/", cfg.StorageURL)
	assert.True(t, cfg.CookieSecure)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("BACKEND_URL", "https://api.example.org/api/")
	t.Setenv("STORAGE_URL", "https://files.example.org")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("LOG_MAX_BACKUPS", "nope")
	t.Setenv("CORS_ORIGINS", "https://a.example.org, ,https://b.example.org")

	cfg := Load()

	assert.Equal(t, "https://api.example.org/api", cfg.BackendURL)
	assert.Equal(t, "https://files.example.org/", cfg.StorageURL)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 3, cfg.LogMaxBackups)
	assert.Equal(t, []string{"https://a.example.org", "https://b.example.org"}, cfg.CORSOrigins)
}
