package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port string

	// Logging
	LogLevel string

	// Local device store
	DBPath     string
	ReceiptDir string

	// Auth
	AuthSecret string
	TokenTTL   time.Duration

	// Device capabilities
	LocationTimeout time.Duration
	LocationMaxAge  time.Duration
	LocationStatic  string // "lat,lon" fixed position, empty when absent
}

func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8087"),
		LogLevel: getEnv("LIFE_LOG_LEVEL", "info"),
		DBPath:     getEnv("LIFE_DB_PATH", "./data/life.db"),
		ReceiptDir: getEnv("LIFE_RECEIPT_DIR", "./data/receipts"),

		AuthSecret: getEnv("LIFE_AUTH_SECRET", ""),
		TokenTTL:   getEnvDuration("LIFE_TOKEN_TTL", 30*24*time.Hour),

		LocationTimeout: getEnvDuration("LIFE_LOCATION_TIMEOUT", 15*time.Second),
		LocationMaxAge:  getEnvDuration("LIFE_LOCATION_MAX_AGE", 10*time.Second),
		LocationStatic:  getEnv("LIFE_LOCATION_STATIC", ""),
	}
}

// Validate checks the configuration and returns every problem at once.
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.DBPath == "" {
		errors = append(errors, "database path cannot be empty")
	} else {
		dir := filepath.Dir(c.DBPath)
		if dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					errors = append(errors, fmt.Sprintf("cannot create database directory '%s': %v", dir, err))
				}
			}
		}
	}

	if c.AuthSecret == "" {
		errors = append(errors, "LIFE_AUTH_SECRET must be set")
	} else if len(c.AuthSecret) < 16 {
		errors = append(errors, "LIFE_AUTH_SECRET must be at least 16 characters")
	}

	if c.TokenTTL < time.Minute {
		errors = append(errors, fmt.Sprintf("invalid token TTL %v: must be at least 1 minute", c.TokenTTL))
	}

	if c.LocationTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid location timeout %v: must be at least 1 second", c.LocationTimeout))
	}
	if c.LocationMaxAge < 0 {
		errors = append(errors, fmt.Sprintf("invalid location max age %v: must not be negative", c.LocationMaxAge))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// SlogLevel maps the configured level name onto slog. Unknown names
// fall back to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
