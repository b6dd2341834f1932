package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	BaseURL     string `env:"BASE_URL" envDefault:"http://localhost:3000"`
	SeedCatalog bool   `env:"SEED_CATALOG" envDefault:"false"`

	Database  Database  `envPrefix:"DATABASE_"`
	Redis     Redis     `envPrefix:"REDIS_"`
	Stripe    Stripe    `envPrefix:"STRIPE_"`
	Auth      Auth      `envPrefix:"AUTH_"`
	RateLimit RateLimit `envPrefix:"RATE_LIMIT_"`
}

type Database struct {
	Driver          string        `env:"DRIVER" envDefault:"sqlite"` // sqlite, mysql, postgres
	URL             string        `env:"URL" envDefault:"fitcoach.db"`
	MaxIdleConns    int           `env:"MAX_IDLE_CONNS" envDefault:"10"`
	MaxOpenConns    int           `env:"MAX_OPEN_CONNS" envDefault:"50"`
	ConnMaxLifetime time.Duration `env:"CONN_MAX_LIFETIME" envDefault:"1h"`
	ConnectAttempts uint          `env:"CONNECT_ATTEMPTS" envDefault:"5"`
	ConnectDelay    time.Duration `env:"CONNECT_DELAY" envDefault:"500ms"`
}

// Redis is optional; an empty URL disables the catalog cache.
type Redis struct {
	URL        string        `env:"URL"`
	CatalogTTL time.Duration `env:"CATALOG_TTL" envDefault:"5m"`
}

type Stripe struct {
	SecretKey     string `env:"SECRET_KEY,required,notEmpty"`
	WebhookSecret string `env:"WEBHOOK_SECRET,required,notEmpty"`
	SuccessPath   string `env:"SUCCESS_PATH" envDefault:"/checkout/success"`
	CancelPath    string `env:"CANCEL_PATH" envDefault:"/checkout/cancel"`
}

const (
	defaultSuccessPath = "/checkout/success"
	defaultCancelPath  = "/checkout/cancel"
)

func pathOr(path, fallback string) string {
	if path == "" {
		return fallback
	}
	return path
}

type Auth struct {
	JWTSecret string `env:"JWT_SECRET,required,notEmpty"`
}

type RateLimit struct {
	PerMinute int           `env:"PER_MINUTE" envDefault:"5"`
	Burst     int           `env:"BURST" envDefault:"5"`
	ExpiresIn time.Duration `env:"EXPIRES_IN" envDefault:"3m"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host            string        `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port            string        `env:"HTTP_PORT" envDefault:"8080"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

// Load parses the process environment into a Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return cfg, nil
}

func (c *Config) Address() string {
	return c.HTTP.Host + ":" + c.HTTP.Port
}

func (c *Config) SuccessURL() string {
	// Stripe substitutes the template variable on redirect.
	return c.BaseURL + pathOr(c.Stripe.SuccessPath, defaultSuccessPath) + "?session_id={CHECKOUT_SESSION_ID}"
}

func (c *Config) CancelURL() string {
	return c.BaseURL + pathOr(c.Stripe.CancelPath, defaultCancelPath)
}

func (c *Config) IsProduction() bool {
	return c.Environment.Name == "production"
}
