// Package config loads client configuration from the environment, with
// an optional .env file for local development.
package config

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/DMX-Projects/time4kids-sub001/internal/client/session"
)

type Config struct {
	APIBaseURL   string
	MediaBaseURL string
	SessionFile  string
	LogLevel     string
}

func Load() Config {
	// .env is optional.
	_ = godotenv.Load()

	return Config{
		APIBaseURL:   getEnv("TIME4KIDS_API_BASE_URL", "http://localhost:8080"),
		MediaBaseURL: getEnv("TIME4KIDS_MEDIA_BASE_URL", ""),
		SessionFile:  getEnv("TIME4KIDS_SESSION_FILE", session.DefaultPath()),
		LogLevel:     getEnv("TIME4KIDS_LOG_LEVEL", "warn"),
	}
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}
