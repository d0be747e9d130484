package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	localBackendURL  = "http://localhost:8000/api"
	localStorageURL  = "http://localhost:8000/storage/"
	remoteStorageURL = "https://pfemanager.lon1.digitaloceanspaces.com/storage/"
)

type Config struct {
	Env           string
	Port          string
	BackendURL    string
	StorageURL    string
	RedisURL      string
	SessionTTL    time.Duration
	CookieSecure  bool
	SearchViewTTL time.Duration
	UploadTTL     time.Duration
	ListCacheTTL  time.Duration
	// ListRefresh is how often the tag and sector lists are reloaded in
	// the background. Zero disables the refresher.
	ListRefresh    time.Duration
	BackendTimeout time.Duration
	CORSOrigins    []string
	LogLevel       string
	LogFile        string
	LogMaxSizeMB   int
	LogMaxBackups  int
	LogMaxAgeDays  int
}

func Load() *Config {
	env := strings.ToLower(getEnv("APP_ENV", "development"))

	storage := localStorageURL
	if env == "production" {
		storage = remoteStorageURL
	}

	return &Config{
		Env:            env,
		Port:           getEnv("PORT", "3000"),
		BackendURL:     strings.TrimRight(getEnv("BACKEND_URL", localBackendURL), "/"),
		StorageURL:     ensureSlash(getEnv("STORAGE_URL", storage)),
		RedisURL:       getEnv("REDIS_URL", "redis://localhost:6379"),
		SessionTTL:     getDuration("SESSION_TTL", 7*24*time.Hour),
		CookieSecure:   env == "production",
		SearchViewTTL:  getDuration("SEARCH_VIEW_TTL", 15*time.Minute),
		UploadTTL:      getDuration("UPLOAD_TTL", 10*time.Minute),
		ListCacheTTL:   getDuration("LIST_CACHE_TTL", 5*time.Minute),
		ListRefresh:    getDuration("LIST_REFRESH_INTERVAL", 4*time.Minute),
		BackendTimeout: getDuration("BACKEND_TIMEOUT", 60*time.Second),
		CORSOrigins:    getList("CORS_ORIGINS"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFile:        getEnv("LOG_FILE", ""),
		LogMaxSizeMB:   getInt("LOG_MAX_SIZE_MB", 100),
		LogMaxBackups:  getInt("LOG_MAX_BACKUPS", 3),
		LogMaxAgeDays:  getInt("LOG_MAX_AGE_DAYS", 30),
	}
}

// IsProduction reports whether the deployed hosts are in use.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// getList splits a comma separated variable, dropping blank entries.
func getList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func ensureSlash(s string) string {
	if strings.HasSuffix(s, "/") {
		return s
	}
	return s + "/"
}
