// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultPort        = 3318
	DefaultCookieName  = "pollwise_session"
	DefaultSessionTTL  = 7 * 24 * time.Hour
	DefaultBaseURL     = "http://localhost:3318"
	DefaultDatabaseURL = "pollwise.db"
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string
	RedisURL     string
	SessionSalt  string
	SessionTTL   time.Duration
	CookieName   string
	CookieSecure bool
	BaseURL      string
}

// LoadEnvFile loads variables from the given .env files into the process
// environment. Missing files are not an error; existing variables win.
func LoadEnvFile(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// ParseFlags validates flags and falls back to environment variables
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var sessionTTL string
	var cookieSecure string

	fs := flag.NewFlagSet("pollwise", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.StringVar(&cfg.RedisURL, "redis", "", "Redis URL for the results cache (optional)")
	fs.StringVar(&cfg.BaseURL, "base-url", "", "Public base URL")

	// Sessions
	fs.StringVar(&cfg.SessionSalt, "session-salt", "", "Session/IP hashing salt (prefer env)")
	fs.StringVar(&sessionTTL, "session-ttl", "", "Session lifetime, e.g. 168h")
	fs.StringVar(&cfg.CookieName, "cookie", "", "Session cookie name")
	fs.StringVar(&cookieSecure, "cookie-secure", "", "Mark the session cookie Secure (true/false)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = DefaultPort
		}
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		if cfg.DatabaseType == "postgres" {
			return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
		}
		cfg.DatabaseURL = DefaultDatabaseURL
	}

	if cfg.RedisURL == "" {
		cfg.RedisURL = os.Getenv("REDIS_URL")
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = os.Getenv("BASE_URL")
		if cfg.BaseURL == "" {
			cfg.BaseURL = DefaultBaseURL
		}
	}

	// Secret - MUST be provided
	if cfg.SessionSalt == "" {
		cfg.SessionSalt = os.Getenv("SESSION_SALT")
	}
	if cfg.SessionSalt == "" {
		return Config{}, errors.New("SESSION_SALT required")
	}

	if sessionTTL == "" {
		sessionTTL = os.Getenv("SESSION_TTL")
	}
	cfg.SessionTTL = DefaultSessionTTL
	if sessionTTL != "" {
		ttl, err := time.ParseDuration(sessionTTL)
		if err != nil || ttl <= 0 {
			return Config{}, errors.New("invalid SESSION_TTL")
		}
		cfg.SessionTTL = ttl
	}

	if cfg.CookieName == "" {
		cfg.CookieName = os.Getenv("COOKIE_NAME")
		if cfg.CookieName == "" {
			cfg.CookieName = DefaultCookieName
		}
	}

	if cookieSecure == "" {
		cookieSecure = os.Getenv("COOKIE_SECURE")
	}
	if cookieSecure != "" {
		secure, err := strconv.ParseBool(cookieSecure)
		if err != nil {
			return Config{}, errors.New("invalid COOKIE_SECURE")
		}
		cfg.CookieSecure = secure
	}

	return cfg, nil
}
