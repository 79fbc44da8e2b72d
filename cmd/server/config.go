package main

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the server configuration, read from the environment.
type Config struct {
	Port        string `env:"PORT" envDefault:"8080"`
	Environment string `env:"NAT_ENV" envDefault:"development"`

	DatabaseURL string `env:"DATABASE_URL"`
	SQLitePath  string `env:"SQLITE_PATH" envDefault:"recall.db"`

	JWTSecret          string        `env:"AUTH_JWT_SECRET,required"`
	AuthURL            string        `env:"AUTH_URL" envDefault:"https://recall.natwelch.com"`
	TokenDuration      time.Duration `env:"AUTH_TOKEN_DURATION" envDefault:"24h"`
	GoogleClientID     string        `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string        `env:"GOOGLE_CLIENT_SECRET"`

	GitRevision string `env:"GIT_REVISION"`
	GitTag      string `env:"GIT_TAG"`
	GitBranch   string `env:"GIT_BRANCH"`
}

// IsDev reports whether the server runs outside production.
func (c Config) IsDev() bool {
	return c.Environment != "production"
}

// loadConfig reads a local .env file when one exists, then parses the
// environment.
func loadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debugw("no .env file found, reading environment directly", "error", err.Error())
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
