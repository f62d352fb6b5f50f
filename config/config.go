package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"

	DefaultPort           = "5555"
	DefaultDatabaseURL    = "file:recipes.db?_foreign_keys=on&_busy_timeout=5000"
	DefaultCookieName     = "session"
	DefaultBcryptCost     = 12
	DefaultRecipeCacheTTL = 5 * time.Minute

	// DevSessionSecret is only used when SESSION_SECRET is unset.
	DevSessionSecret = "dev-session-secret-change-me"
)

// Config holds runtime settings for the recipe service.
type Config struct {
	Port string

	DatabaseDriver string
	DatabaseURL    string

	SessionSecret       string
	SessionCookieName   string
	SessionCookieSecure bool

	BcryptCost int

	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	RecipeCacheTTL time.Duration

	CORSOrigins []string
}

// UsingDevSecret reports whether sessions are signed with the built-in key.
func (c *Config) UsingDevSecret() bool {
	return c.SessionSecret == DevSessionSecret
}

// Load reads .env (if present) and then the process environment.
//
// Environment variables:
//   - PORT (default 5555)
//   - DATABASE_DRIVER: "sqlite3" or "postgres" (default sqlite3)
//   - DATABASE_URL: driver DSN
//   - SESSION_SECRET, SESSION_COOKIE_NAME, SESSION_COOKIE_SECURE
//   - BCRYPT_COST (default 12)
//   - REDIS_ADDR, REDIS_PASSWORD, REDIS_DB, RECIPE_CACHE_TTL
//   - CORS_ORIGINS: comma separated
func Load() (*Config, error) {
	_ = godotenv.Load(".env")
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from getenv. Load uses os.Getenv.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		Port:              stringOr(getenv("PORT"), DefaultPort),
		DatabaseDriver:    strings.ToLower(stringOr(getenv("DATABASE_DRIVER"), DriverSQLite)),
		DatabaseURL:       stringOr(getenv("DATABASE_URL"), DefaultDatabaseURL),
		SessionSecret:     stringOr(getenv("SESSION_SECRET"), DevSessionSecret),
		SessionCookieName: stringOr(getenv("SESSION_COOKIE_NAME"), DefaultCookieName),
		BcryptCost:        DefaultBcryptCost,
		RedisAddr:         strings.TrimSpace(getenv("REDIS_ADDR")),
		RedisPassword:     getenv("REDIS_PASSWORD"),
		RecipeCacheTTL:    DefaultRecipeCacheTTL,
	}

	var err error
	if v := strings.TrimSpace(getenv("SESSION_COOKIE_SECURE")); v != "" {
		if cfg.SessionCookieSecure, err = strconv.ParseBool(v); err != nil {
			return nil, fmt.Errorf("SESSION_COOKIE_SECURE: %w", err)
		}
	}
	if v := strings.TrimSpace(getenv("BCRYPT_COST")); v != "" {
		if cfg.BcryptCost, err = strconv.Atoi(v); err != nil {
			return nil, fmt.Errorf("BCRYPT_COST: %w", err)
		}
	}
	if v := strings.TrimSpace(getenv("REDIS_DB")); v != "" {
		if cfg.RedisDB, err = strconv.Atoi(v); err != nil {
			return nil, fmt.Errorf("REDIS_DB: %w", err)
		}
	}
	if v := strings.TrimSpace(getenv("RECIPE_CACHE_TTL")); v != "" {
		if cfg.RecipeCacheTTL, err = time.ParseDuration(v); err != nil {
			return nil, fmt.Errorf("RECIPE_CACHE_TTL: %w", err)
		}
	}
	for _, origin := range strings.Split(getenv("CORS_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, origin)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the service cannot run with.
func (c *Config) Validate() error {
	if _, err := strconv.ParseUint(c.Port, 10, 16); err != nil {
		return fmt.Errorf("invalid port %q", c.Port)
	}
	switch c.DatabaseDriver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unsupported database driver %q", c.DatabaseDriver)
	}
	if c.DatabaseURL == "" {
		return errors.New("database url is empty")
	}
	if c.SessionSecret == "" {
		return errors.New("session secret is empty")
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("bcrypt cost %d out of range [%d, %d]", c.BcryptCost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	if c.RecipeCacheTTL < 0 {
		return errors.New("recipe cache ttl is negative")
	}
	return nil
}

func stringOr(v, fallback string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return fallback
}
