package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	defaultJWTSecret = "change-me-jwt-secret"
	defaultDSN       = "drycleaning.db"
)

type Config struct {
	AppEnv      string        `env:"APP_ENV" envDefault:"dev"`
	HTTPAddr    string        `env:"HTTP_ADDR" envDefault:":8080"`
	DatabaseURL string        `env:"DATABASE_URL" envDefault:"drycleaning.db"`
	JWTSecret   string        `env:"JWT_SECRET" envDefault:"change-me-jwt-secret"`
	JWTTTL      time.Duration `env:"JWT_TTL" envDefault:"12h"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://localhost:5173"`

	Branch  BranchConfig
	Receipt ReceiptConfig
	S3      S3Config

	WizardSessionTTL time.Duration `env:"WIZARD_SESSION_TTL" envDefault:"1h"`
	ShutdownTimeout  time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// BranchConfig describes the shop the process serves. It is printed on receipts.
type BranchConfig struct {
	Code    string `env:"BRANCH_CODE" envDefault:"MAIN"`
	Name    string `env:"BRANCH_NAME" envDefault:"Хімчистка"`
	Address string `env:"BRANCH_ADDRESS" envDefault:""`
	Phone   string `env:"BRANCH_PHONE" envDefault:"+380501234567"`
}

type ReceiptConfig struct {
	Prefix   string `env:"RECEIPT_PREFIX" envDefault:"DC"`
	FontPath string `env:"RECEIPT_FONT_PATH"`
	Locale   string `env:"RECEIPT_LOCALE" envDefault:"uk"`
}

// S3Config is optional: without a bucket photos are kept in memory.
type S3Config struct {
	Bucket          string `env:"S3_BUCKET"`
	Region          string `env:"S3_REGION" envDefault:"eu-central-1"`
	Endpoint        string `env:"S3_ENDPOINT"`
	AccessKeyID     string `env:"S3_ACCESS_KEY_ID"`
	SecretAccessKey string `env:"S3_SECRET_ACCESS_KEY"`
}

func (c S3Config) Enabled() bool {
	return strings.TrimSpace(c.Bucket) != ""
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("config: .env not loaded: %v", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFrom parses the given variables only. Used by tests and tools.
func LoadFrom(vars map[string]string) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Environment: vars}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) IsProdLike() bool {
	return isProdLike(c.AppEnv)
}

func validateConfig(cfg *Config) error {
	cfg.AppEnv = strings.ToLower(strings.TrimSpace(cfg.AppEnv))
	cfg.Branch.Code = strings.ToUpper(strings.TrimSpace(cfg.Branch.Code))
	cfg.Receipt.Prefix = strings.ToUpper(strings.TrimSpace(cfg.Receipt.Prefix))

	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	if cfg.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be > 0")
	}
	if cfg.WizardSessionTTL <= 0 {
		return fmt.Errorf("WIZARD_SESSION_TTL must be > 0")
	}
	if cfg.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be > 0")
	}
	if cfg.Branch.Code == "" || len(cfg.Branch.Code) > 10 {
		return fmt.Errorf("BRANCH_CODE must be 1-10 characters")
	}
	if cfg.Receipt.Prefix == "" {
		return fmt.Errorf("RECEIPT_PREFIX must not be empty")
	}
	switch cfg.Receipt.Locale {
	case "uk", "en":
	default:
		return fmt.Errorf("RECEIPT_LOCALE must be one of: uk, en")
	}
	if cfg.S3.Enabled() && strings.TrimSpace(cfg.S3.Region) == "" {
		return fmt.Errorf("S3_REGION must be set when S3_BUCKET is set")
	}

	if isProdLike(cfg.AppEnv) {
		if isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
		if len(cfg.JWTSecret) < 32 {
			return fmt.Errorf("in prod/release JWT_SECRET must be at least 32 characters")
		}
		if isEmptyOrDefault(cfg.DatabaseURL, defaultDSN) {
			return fmt.Errorf("in prod/release DATABASE_URL must point to PostgreSQL")
		}
	}

	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}
