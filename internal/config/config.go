// Package config loads server configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config carries everything the server needs at startup.
type Config struct {
	Addr        string `env:"FLOWGRID_ADDR" envDefault:":8080"`
	DatabaseDSN string `env:"FLOWGRID_DATABASE_DSN,required"`

	JWTKey      string        `env:"FLOWGRID_JWT_KEY,required"`
	JWTIssuer   string        `env:"FLOWGRID_JWT_ISSUER" envDefault:"flowgrid"`
	JWTAudience string        `env:"FLOWGRID_JWT_AUDIENCE" envDefault:"flowgrid"`
	TokenTTL    time.Duration `env:"FLOWGRID_TOKEN_TTL" envDefault:"168h"` // 7 days

	// Login rate limiting per (username, ip).
	LoginWindow   time.Duration `env:"FLOWGRID_LOGIN_WINDOW" envDefault:"15m"`
	LoginMaxFails int           `env:"FLOWGRID_LOGIN_MAX_FAILS" envDefault:"5"`
	LoginBlockFor time.Duration `env:"FLOWGRID_LOGIN_BLOCK_FOR" envDefault:"15m"`
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.TokenTTL <= 0 {
		return Config{}, fmt.Errorf("token TTL must be positive")
	}
	return cfg, nil
}
