package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,       default=8080"`
	Env      string `env:"ENV,        default=development"`
	LogLevel string `env:"LOG_LEVEL,  default=info"`

	// SecretKey signs both session tokens and the workflow tokens used by
	// the confirmation, reset, and email-change flows.
	SecretKey string `env:"SECRET_KEY, default=hard to guess string"`

	// AdminEmail is the address that receives the administrator role at
	// registration. Read once at startup; later changes don't reassign
	// roles already resolved.
	AdminEmail string `env:"ADMIN_EMAIL"`

	TokenTTL   time.Duration `env:"TOKEN_TTL,   default=1h"`
	SessionTTL time.Duration `env:"SESSION_TTL, default=24h"`

	DB    DBConfig
	Redis RedisConfig
}

type DBConfig struct {
	// DSN is the SQLite path, or ":memory:" for an in-memory database.
	DSN string `env:"DB_DSN, default=data.sqlite"`
}

type RedisConfig struct {
	// Addr may be left empty to run without the login-attempt throttle.
	Addr string `env:"REDIS_ADDR"`
	DB   int    `env:"REDIS_DB, default=0"`

	LoginMaxAttempts int           `env:"LOGIN_MAX_ATTEMPTS, default=10"`
	LoginWindow      time.Duration `env:"LOGIN_WINDOW,       default=15m"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
