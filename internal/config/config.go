package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Common
	Env      string
	LogLevel string
	// API
	Port        string
	DatabaseURL string
	JWTSecret   string
	CORSOrigins []string
	MetricsAddr string
	// Feed
	Feed          string
	FeedBaseURL   string
	FeedAPIKey    string
	FeedTimeout   time.Duration
	TrackedAssets string
	// Worker
	SyncInterval time.Duration
	// Redis (idempotency, rate limit)
	RedisAddr          string
	RedisPassword      string
	RedisDB            int
	IdempotencyBackend string
	RedisTTL           time.Duration
	SyncRateLimit      int
	SyncRateWindow     time.Duration
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoiDef(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func msDef(key string, def int) time.Duration {
	return time.Duration(atoiDef(getEnv(key, ""), def)) * time.Millisecond
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Load reads environment variables and applies defaults.
func Load() Config {
	return Config{
		Env:                getEnv("ENV", "local"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		Port:               getEnv("PORT", "8080"),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		CORSOrigins:        splitList(getEnv("CORS_ORIGINS", "*")),
		MetricsAddr:        getEnv("METRICS_ADDR", ":9091"),
		Feed:               getEnv("FEED", "coingecko"),
		FeedBaseURL:        getEnv("FEED_BASE_URL", "https://api.coingecko.com/api/v3"),
		FeedAPIKey:         getEnv("FEED_API_KEY", ""),
		FeedTimeout:        msDef("FEED_TIMEOUT_MS", 10000),
		TrackedAssets:      getEnv("TRACKED_ASSETS", ""),
		SyncInterval:       msDef("SYNC_INTERVAL_MS", 300000),
		RedisAddr:          os.Getenv("REDIS_ADDR"),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		RedisDB:            atoiDef(getEnv("REDIS_DB", "0"), 0),
		IdempotencyBackend: getEnv("IDEMPOTENCY_BACKEND", "redis"),
		RedisTTL:           msDef("IDEMPOTENCY_TTL_MS", 86400000),
		SyncRateLimit:      atoiDef(getEnv("SYNC_RATE_LIMIT", "6"), 6),
		SyncRateWindow:     msDef("SYNC_RATE_WINDOW_MS", 60000),
	}
}

// RedisEnabled reports whether a Redis address is configured.
func (c Config) RedisEnabled() bool { return c.RedisAddr != "" }
