package config

import (
	"fmt"
	"strings"
	"time"

	"cotizaciones/internal/domain/entities"
	"cotizaciones/internal/domain/numbering"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	StoreDynamoDB = "dynamodb"
	StoreSQL      = "sql"
	StoreMemory   = "memory"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	// Server
	Port           int    `mapstructure:"PORT"`
	Env            string `mapstructure:"APP_ENV"` // development | production
	WorkerPoolSize int    `mapstructure:"WORKER_POOL_SIZE"`

	// Storage
	StoreDriver       string        `mapstructure:"STORE_DRIVER"`
	AWSRegion         string        `mapstructure:"AWS_REGION"`
	AWSAccessKeyID    string        `mapstructure:"AWS_ACCESS_KEY_ID"`
	AWSSecretKey      string        `mapstructure:"AWS_SECRET_ACCESS_KEY"`
	DynamoDBEndpoint  string        `mapstructure:"DYNAMODB_ENDPOINT"`
	QuotationsTable   string        `mapstructure:"QUOTATIONS_TABLE"`
	CountersTable     string        `mapstructure:"COUNTERS_TABLE"`
	StoreReadyTimeout time.Duration `mapstructure:"STORE_READY_TIMEOUT"`
	DatabaseDriver    string        `mapstructure:"DATABASE_DRIVER"` // postgres | sqlite
	DatabaseURL       string        `mapstructure:"DATABASE_URL"`

	// Numbering
	NumberingScheme   string `mapstructure:"NUMBERING_SCHEME"`
	NumberingTimezone string `mapstructure:"NUMBERING_TIMEZONE"`
	AllocatorMaxTries uint   `mapstructure:"ALLOCATOR_MAX_TRIES"`
	PriceField        string `mapstructure:"PRICE_FIELD"`

	// Notifications
	SupervisorEmail string `mapstructure:"SUPERVISOR_EMAIL"`
	PurchasingEmail string `mapstructure:"PURCHASING_EMAIL"`
	Notifier        string `mapstructure:"NOTIFIER"` // log | smtp | slack | smtp+slack
	NotifyAsync     bool   `mapstructure:"NOTIFY_ASYNC"`
	RedisURL        string `mapstructure:"REDIS_URL"`

	// SMTP
	SMTPHost     string `mapstructure:"SMTP_HOST"`
	SMTPPort     int    `mapstructure:"SMTP_PORT"`
	SMTPUser     string `mapstructure:"SMTP_USER"`
	SMTPPassword string `mapstructure:"SMTP_PASSWORD"`
	MailFrom     string `mapstructure:"MAIL_FROM"`

	// Slack
	SlackBotToken string `mapstructure:"SLACK_BOT_TOKEN"`
	SlackAPIURL   string `mapstructure:"SLACK_API_URL"`

	// Auth
	JWTSecret string `mapstructure:"JWT_SECRET"`
}

var keys = []string{
	"PORT", "APP_ENV", "WORKER_POOL_SIZE",
	"STORE_DRIVER", "AWS_REGION", "AWS_ACCESS_KEY_ID", "AWS_SECRET_ACCESS_KEY", "DYNAMODB_ENDPOINT",
	"QUOTATIONS_TABLE", "COUNTERS_TABLE", "STORE_READY_TIMEOUT", "DATABASE_DRIVER", "DATABASE_URL",
	"NUMBERING_SCHEME", "NUMBERING_TIMEZONE", "ALLOCATOR_MAX_TRIES", "PRICE_FIELD",
	"SUPERVISOR_EMAIL", "PURCHASING_EMAIL", "NOTIFIER", "NOTIFY_ASYNC", "REDIS_URL",
	"SMTP_HOST", "SMTP_PORT", "SMTP_USER", "SMTP_PASSWORD", "MAIL_FROM",
	"SLACK_BOT_TOKEN", "SLACK_API_URL", "JWT_SECRET",
}

// Load reads configuration from environment variables (and optional .env file).
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AutomaticEnv()
	// Unmarshal only sees keys viper knows about.
	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	v.SetDefault("PORT", 8080)
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("WORKER_POOL_SIZE", 2)
	v.SetDefault("STORE_DRIVER", StoreDynamoDB)
	v.SetDefault("AWS_REGION", "us-east-1")
	v.SetDefault("AWS_ACCESS_KEY_ID", "local")
	v.SetDefault("AWS_SECRET_ACCESS_KEY", "local")
	v.SetDefault("QUOTATIONS_TABLE", "cotizaciones")
	v.SetDefault("COUNTERS_TABLE", "counters")
	v.SetDefault("STORE_READY_TIMEOUT", "30s")
	v.SetDefault("DATABASE_DRIVER", "postgres")
	v.SetDefault("NUMBERING_SCHEME", string(numbering.SchemeMonthly))
	v.SetDefault("NUMBERING_TIMEZONE", "Europe/Madrid")
	v.SetDefault("ALLOCATOR_MAX_TRIES", 8)
	v.SetDefault("PRICE_FIELD", string(entities.PriceFieldSolicitado))
	v.SetDefault("SUPERVISOR_EMAIL", "vanessa@comercialav.com")
	v.SetDefault("PURCHASING_EMAIL", "compras@comercialav.com")
	v.SetDefault("NOTIFIER", "log")
	v.SetDefault("NOTIFY_ASYNC", false)
	v.SetDefault("REDIS_URL", "redis://localhost:6379/0")
	v.SetDefault("SMTP_PORT", 465)
	v.SetDefault("SLACK_API_URL", "https://slack.com/api")

	// Optional .env file for local development; does not fail if missing.
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values that would otherwise fail late at runtime.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case StoreDynamoDB, StoreSQL, StoreMemory:
	default:
		return fmt.Errorf("config: unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.StoreDriver == StoreSQL && c.DatabaseURL == "" {
		return fmt.Errorf("config: DATABASE_URL is required for STORE_DRIVER=sql")
	}
	if _, err := numbering.ParseScheme(c.NumberingScheme); err != nil {
		return fmt.Errorf("config: NUMBERING_SCHEME: %w", err)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("config: NUMBERING_TIMEZONE: %w", err)
	}
	if _, err := c.Price(); err != nil {
		return err
	}
	// Both addresses route every notification kind; a bad one fails each send.
	check := validator.New()
	for key, addr := range map[string]string{
		"SUPERVISOR_EMAIL": c.SupervisorEmail,
		"PURCHASING_EMAIL": c.PurchasingEmail,
	} {
		if err := check.Var(addr, "required,email"); err != nil {
			return fmt.Errorf("config: %s must be an email address, got %q", key, addr)
		}
	}
	for _, n := range c.Notifiers() {
		switch n {
		case "log", "smtp", "slack":
		default:
			return fmt.Errorf("config: unknown NOTIFIER %q", n)
		}
	}
	if c.IsProduction() && c.JWTSecret == "" {
		return fmt.Errorf("config: JWT_SECRET is required in production")
	}
	if c.NotifyAsync && c.RedisURL == "" {
		return fmt.Errorf("config: REDIS_URL is required when NOTIFY_ASYNC is set")
	}
	return nil
}

func (c *Config) IsProduction() bool { return c.Env == "production" }

func (c *Config) Scheme() numbering.Scheme {
	s, _ := numbering.ParseScheme(c.NumberingScheme)
	return s
}

func (c *Config) Location() (*time.Location, error) {
	if c.NumberingTimezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(c.NumberingTimezone)
}

func (c *Config) Price() (entities.PriceField, error) {
	switch f := entities.PriceField(strings.ToLower(strings.TrimSpace(c.PriceField))); f {
	case entities.PriceFieldSolicitado, entities.PriceFieldCotizado:
		return f, nil
	case "":
		return entities.PriceFieldSolicitado, nil
	default:
		return "", fmt.Errorf("config: unknown PRICE_FIELD %q", c.PriceField)
	}
}

// Notifiers splits NOTIFIER ("smtp+slack") into transport names.
func (c *Config) Notifiers() []string {
	var out []string
	for _, p := range strings.Split(c.Notifier, "+") {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			out = append(out, p)
		}
	}
	return out
}
