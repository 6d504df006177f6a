package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Main API
	APIBaseURL string
	APITimeout time.Duration

	// Live backend (separate trust domain: own host and bearer token)
	LiveBaseURL     string
	LiveBearerToken string
	LiveMediaHost   string

	LogLevel  string
	StatePath string
}

// Load reads configuration from the environment (.env if present).
func Load() Config {
	_ = godotenv.Load()

	return Config{
		APIBaseURL:      getenv("API_BASE_URL", "http://1.92.146.109:5000"),
		APITimeout:      getdur("API_TIMEOUT", 30*time.Second),
		LiveBaseURL:     getenv("LIVE_BASE_URL", "http://47.79.86.58:2022"),
		LiveBearerToken: getenv("LIVE_BEARER_TOKEN", ""),
		LiveMediaHost:   getenv("LIVE_MEDIA_HOST", "47.79.86.58"),
		LogLevel:        getenv("LOG_LEVEL", "info"),
		StatePath:       getenv("STATE_PATH", "meetctl-state.json"),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		if secs, err := strconv.Atoi(v); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return def
}
