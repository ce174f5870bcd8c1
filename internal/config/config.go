package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const defaultSessionSecret = "secret for signing session id"

// Config holds the application configuration.
type Config struct {
	ServerPort int    `env:"PORT" envDefault:"8080"`
	AppEnv     string `env:"APP_ENV" envDefault:"development"`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`

	// StoreDriver selects the document store backend: "sqlite" or "mongo".
	StoreDriver  string `env:"STORE_DRIVER" envDefault:"sqlite"`
	DatabasePath string `env:"DATABASE_PATH" envDefault:"./gymdiary.db"`

	MongoURL            string        `env:"MONGODB_URL"`
	MongoDatabase       string        `env:"MONGODB_DATABASE" envDefault:"gymdiary"`
	MongoConnectTimeout time.Duration `env:"MONGODB_CONNECT_TIMEOUT" envDefault:"10s"`
	MongoRetryAttempts  int           `env:"MONGODB_RETRY_ATTEMPTS" envDefault:"3"`
	MongoRetryInterval  time.Duration `env:"MONGODB_RETRY_INTERVAL" envDefault:"2s"`

	SessionSecret     string        `env:"SESSION_SECRET" envDefault:"secret for signing session id"`
	SessionTTL        time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	SessionCookieName string        `env:"SESSION_COOKIE_NAME" envDefault:"gymdiary_session"`

	// TrainerEmails get the trainer role when they sign up.
	TrainerEmails []string `env:"TRAINER_EMAILS" envSeparator:","`

	AllowedOrigins      []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
	SeedCatalog         bool     `env:"SEED_CATALOG" envDefault:"true"`
	MaintenanceSchedule string   `env:"MAINTENANCE_SCHEDULE" envDefault:"@every 10m"`
}

// Load loads configuration from the environment, reading a .env file first
// when one is present.
func Load() (*Config, error) {
	// The .env file is optional.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// IsProduction reports whether the app runs in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Validate checks values that env tags cannot express.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case "sqlite":
		if c.DatabasePath == "" {
			return errors.New("DATABASE_PATH is required for the sqlite driver")
		}
	case "mongo":
		if c.MongoURL == "" {
			return errors.New("MONGODB_URL is required for the mongo driver")
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.SessionTTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}
	if c.IsProduction() && (c.SessionSecret == "" || c.SessionSecret == defaultSessionSecret) {
		return errors.New("SESSION_SECRET must be set in production")
	}
	return nil
}
