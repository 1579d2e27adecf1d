package configs

import (
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

type Config struct {
	AppEnv      string `env:"APP_ENV" envDefault:"development"`
	Port        string `env:"PORT" envDefault:"3000"`
	StoreDriver string `env:"STORE_DRIVER" envDefault:"postgres"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	JWTSecret   string `env:"JWT_SECRET"`

	DB struct {
		Host     string `env:"HOST" envDefault:"localhost"`
		Port     string `env:"PORT" envDefault:"5432"`
		User     string `env:"USER" envDefault:"postgres"`
		Password string `env:"PASSWORD"`
		Name     string `env:"NAME" envDefault:"credit_rating"`
		SSLMode  string `env:"SSLMODE" envDefault:"disable"`
	} `envPrefix:"DB_"`

	AuditQueueSize           int      `env:"AUDIT_QUEUE_SIZE" envDefault:"256"`
	ActivityLogRetentionDays int      `env:"ACTIVITY_LOG_RETENTION_DAYS" envDefault:"180"`
	ActivityLogCleanupCron   string   `env:"ACTIVITY_LOG_CLEANUP_CRON" envDefault:"30 3 * * *"`
	CORSAllowOrigins         []string `env:"CORS_ALLOW_ORIGINS" envSeparator:"," envDefault:"*"`
	RateLimitMax             int      `env:"RATE_LIMIT_MAX" envDefault:"100"`
	MetricsEnabled           bool     `env:"METRICS_ENABLED" envDefault:"true"`
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

// DSN builds the postgres connection string.
func (c Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=credit_rating&options=-c statement_timeout=3000",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name, c.DB.SSLMode,
	)
}

// LoadEnv reads .env when present (RAILWAY_ENVIRONMENT skips it) and parses
// the environment into Config.
func LoadEnv() (Config, error) {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			logrus.Info("no .env file found, using system environment")
		} else {
			logrus.Info(".env loaded")
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.StoreDriver = strings.ToLower(strings.TrimSpace(cfg.StoreDriver))
	switch cfg.StoreDriver {
	case StorePostgres, StoreMemory:
	default:
		return Config{}, fmt.Errorf("STORE_DRIVER must be %s or %s, got %q", StorePostgres, StoreMemory, cfg.StoreDriver)
	}
	if cfg.JWTSecret == "" {
		logrus.Warn("JWT_SECRET not set, actor tokens are ignored")
	}
	return cfg, nil
}
