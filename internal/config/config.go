package config

import (
	"os"
	"strconv"
	"time"
)

type AppConfig struct {
	// Server
	HTTPAddr  string
	RedisAddr string
	RedisPass string

	// Upstream platform API. Empty base URL switches the gateway into demo
	// mode with the in-process provider.
	UpstreamBaseURL    string
	UpstreamTimeout    time.Duration
	UpstreamCookieName string

	// Gateway session
	SessionCookieName string
	SessionTTL        time.Duration

	// How long a navigation request waits for profile resolution before the
	// loading placeholder is served instead.
	BootstrapWait time.Duration
}

// Load loads environment variables into AppConfig.
func Load() AppConfig {
	return AppConfig{
		HTTPAddr:  getEnv("HTTP_ADDR", ":8000"),
		RedisAddr: getEnv("REDIS_ADDR", "redis-codearena:6379"),
		RedisPass: getEnv("REDIS_PASS", ""),

		UpstreamBaseURL:    getEnv("UPSTREAM_BASE_URL", ""),
		UpstreamTimeout:    getEnvDuration("UPSTREAM_TIMEOUT", 30*time.Second),
		UpstreamCookieName: getEnv("UPSTREAM_COOKIE_NAME", "token"),

		SessionCookieName: getEnv("SESSION_COOKIE_NAME", "ca_sid"),
		SessionTTL:        getEnvDuration("SESSION_TTL", 720*time.Hour),

		BootstrapWait: getEnvDuration("BOOTSTRAP_WAIT", 5*time.Second),
	}
}

// --- Helper functions ---

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
