package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Storage backends for the user directory
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config holds application configuration
type Config struct {
	Port           string        `env:"PORT" envDefault:"8080"`
	Storage        string        `env:"STORAGE" envDefault:"postgres"`
	DBConn         string        `env:"DB_CONN" envDefault:"host=localhost port=5432 user=postgres password=postgres dbname=abas sslmode=disable"`
	LogLevel       string        `env:"LOG_LEVEL" envDefault:"info"`
	JWTSecret      string        `env:"JWT_SECRET" envDefault:"secret"`
	JWTExpires     time.Duration `env:"JWT_EXPIRES" envDefault:"15m"`
	BcryptCost     int           `env:"BCRYPT_COST" envDefault:"10"`
	HealthSchedule string        `env:"HEALTH_SCHEDULE" envDefault:"@every 30s"`

	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     string `env:"SMTP_PORT" envDefault:"587"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	SenderEmail  string `env:"SENDER_EMAIL"`
}

// NewConfig loads configuration from environment variables.
// A .env file in the working directory is loaded first when present.
func NewConfig() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("failed to load .env: %w", err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MailEnabled reports whether welcome emails should be sent
func (c *Config) MailEnabled() bool {
	return c.SMTPHost != ""
}

func (c *Config) validate() error {
	switch c.Storage {
	case StoragePostgres:
		if c.DBConn == "" {
			return fmt.Errorf("DB_CONN is required")
		}
	case StorageMemory:
	default:
		return fmt.Errorf("unsupported STORAGE: %s", c.Storage)
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.JWTExpires <= 0 {
		return fmt.Errorf("JWT_EXPIRES must be positive, got %s", c.JWTExpires)
	}
	if c.MailEnabled() && c.SenderEmail == "" {
		return fmt.Errorf("SENDER_EMAIL is required when SMTP_HOST is set")
	}
	return nil
}
