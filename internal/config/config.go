// Package config handles loading runtime configuration for the Volleyball Club API.
// Values are read from environment variables so the same binary can run in dev,
// staging, and production without code changes.
package config

import (
	"time"

	// godotenv reads a .env file into the process environment (handy in development).
	"github.com/joho/godotenv"
	// envconfig maps environment variables onto struct fields using struct tags.
	"github.com/kelseyhightower/envconfig"
)

// Config holds all runtime configuration values for the application.
type Config struct {
	Port          string        `envconfig:"PORT" default:"8080"`                        // TCP port the HTTP server listens on
	DatabaseURL   string        `envconfig:"DATABASE_URL" required:"true"`               // PostgreSQL connection string
	JWTSecret     string        `envconfig:"JWT_SECRET" required:"true"`                 // HMAC key used to sign and verify bearer tokens
	JWTTTL        time.Duration `envconfig:"JWT_TTL" default:"24h"`                      // How long an issued token stays valid
	Env           string        `envconfig:"ENV" default:"development"`                  // "development", "staging", or "production"
	LogLevel      string        `envconfig:"LOG_LEVEL" default:"info"`                   // zerolog level name
	MigrationsDir string        `envconfig:"MIGRATIONS_DIR" default:"file://migrations"` // golang-migrate source URL
}

// Load reads configuration from environment variables and returns a populated Config.
// A missing .env file is fine: in production the platform sets real variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// IsDevelopment reports whether the server runs with developer-friendly defaults
// (pretty console logs instead of JSON lines).
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}
