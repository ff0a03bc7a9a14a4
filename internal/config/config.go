// Package config loads host configuration for the onboarding engine from
// environment variables.
//
// Required variables (only when the PostgreSQL store is used):
//   - DATABASE_URL: PostgreSQL connection string.
//
// Optional variables:
//   - LOG_LEVEL: minimum log level (default "info").
//   - KEY_PREFIX: namespace prepended to every store key, for applications
//     sharing one backing table (default "", no prefix).
//   - STORE_TIMEOUT: per-operation deadline for store reads and writes
//     (default "5s", must be > 0 if set).
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

const defaultStoreTimeout = 5 * time.Second

// Config holds the runtime configuration for a host wiring the onboarding
// engine to a durable store.
type Config struct {
	DatabaseURL  string
	LogLevel     string
	KeyPrefix    string
	StoreTimeout time.Duration
}

// Load reads configuration from environment variables, applying defaults
// where appropriate. It returns an error if required variables are missing or
// if optional values fail validation.
func Load() (Config, error) {
	databaseURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if databaseURL == "" {
		return Config{}, errors.New("DATABASE_URL is required")
	}

	storeTimeout := defaultStoreTimeout
	if value := strings.TrimSpace(os.Getenv("STORE_TIMEOUT")); value != "" {
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return Config{}, fmt.Errorf("parse STORE_TIMEOUT: %w", err)
		}
		if parsed <= 0 {
			return Config{}, errors.New("STORE_TIMEOUT must be > 0")
		}
		storeTimeout = parsed
	}

	return Config{
		DatabaseURL:  databaseURL,
		LogLevel:     envOrDefault("LOG_LEVEL", "info"),
		KeyPrefix:    strings.TrimSpace(os.Getenv("KEY_PREFIX")),
		StoreTimeout: storeTimeout,
	}, nil
}

func envOrDefault(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}
