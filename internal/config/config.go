// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// HTTP server
	Port string

	// Database
	SQLiteDBPath string

	// Auth
	JWTSecret     string
	TokenDuration time.Duration

	// Group policy
	MaxGroupMembers int
}

// Load reads configuration from the environment, after loading a .env file
// if one exists. Missing keys fall back to development defaults; Validate
// catches the ones that must not.
func Load() *Config {
	// Best effort: absence of a .env file is fine in production.
	_ = godotenv.Load()

	return &Config{
		Port:            getEnv("PORT", "8080"),
		SQLiteDBPath:    getEnv("SQLITE_DB_PATH", "./data/ledger.db"),
		JWTSecret:       getEnv("JWT_SECRET", ""),
		TokenDuration:   getEnvDuration("TOKEN_DURATION", 24*time.Hour),
		MaxGroupMembers: getEnvInt("MAX_GROUP_MEMBERS", 50),
	}
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.JWTSecret == "" {
		errs = append(errs, "JWT_SECRET is required")
	} else if len(c.JWTSecret) < 32 {
		errs = append(errs, "JWT_SECRET must be at least 32 characters")
	}

	if c.TokenDuration <= 0 {
		errs = append(errs, "TOKEN_DURATION must be positive")
	}

	if c.MaxGroupMembers < 2 {
		errs = append(errs, fmt.Sprintf("MAX_GROUP_MEMBERS %d: a group needs at least 2 members", c.MaxGroupMembers))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
