package config

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	devJWTSecret = "parking-dev-secret"
)

type Config struct {
	Env           string `envconfig:"APP_ENV" default:"development"`
	HTTPPort      string `envconfig:"HTTP_PORT" default:"5000"`
	GRPCPort      string `envconfig:"GRPC_HEALTH_PORT" default:"9090"`
	PublicBaseURL string `envconfig:"PUBLIC_BASE_URL"`

	DBHost     string `envconfig:"DB_HOST"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"POSTGRES_USER"`
	DBPassword string `envconfig:"POSTGRES_PASSWORD"`
	DBName     string `envconfig:"POSTGRES_DB"`

	StoreTimeout time.Duration `envconfig:"STORE_TIMEOUT" default:"5s"`

	StripeSecretKey string        `envconfig:"STRIPE_SECRET_KEY"`
	StripeCurrency  string        `envconfig:"STRIPE_CURRENCY" default:"gbp"`
	PaymentTimeout  time.Duration `envconfig:"PAYMENT_TIMEOUT" default:"10s"`

	JWTSecret         string        `envconfig:"JWT_SECRET"`
	JWTTTL            time.Duration `envconfig:"JWT_TTL" default:"12h"`
	AdminUsername     string        `envconfig:"ADMIN_USERNAME"`
	AdminPasswordHash string        `envconfig:"ADMIN_PASSWORD_HASH"`

	RedisURL       string        `envconfig:"REDIS_URL"`
	IdempotencyTTL time.Duration `envconfig:"IDEMPOTENCY_TTL" default:"24h"`

	KafkaBrokers       []string      `envconfig:"KAFKA_BROKERS"`
	PaymentsTopic      string        `envconfig:"KAFKA_PAYMENTS_TOPIC" default:"parking.registration.paid"`
	AuditTopic         string        `envconfig:"KAFKA_AUDIT_TOPIC" default:"parking.admin.audit"`
	ConsumerGroup      string        `envconfig:"KAFKA_CONSUMER_GROUP" default:"parking-receipts"`
	OutboxPollInterval time.Duration `envconfig:"OUTBOX_POLL_INTERVAL" default:"2s"`
	OutboxBatchSize    int           `envconfig:"OUTBOX_BATCH_SIZE" default:"20"`
	OutboxMaxAttempts  int           `envconfig:"OUTBOX_MAX_ATTEMPTS" default:"5"`
	OutboxLease        time.Duration `envconfig:"OUTBOX_LEASE" default:"2m"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	loadEnvFile()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = devJWTSecret
	}
	return &cfg, nil
}

func loadEnvFile() {
	wd, err := os.Getwd()
	if err != nil {
		log.Printf("config: cannot resolve working directory: %v", err)
		return
	}

	possiblePaths := []string{
		filepath.Join(wd, ".env"),
		filepath.Join(wd, "..", ".env"),
		filepath.Join(wd, "..", "..", ".env"),
	}

	for _, envPath := range possiblePaths {
		if err := godotenv.Load(envPath); err == nil {
			log.Printf("Loaded environment variables from %s", envPath)
			return
		}
	}

	for _, envPath := range possiblePaths {
		examplePath := filepath.Join(filepath.Dir(envPath), ".example.env")
		if err := godotenv.Load(examplePath); err == nil {
			log.Printf("Loaded environment variables from %s", examplePath)
			return
		}
	}
}

// Validate rejects configurations that would silently fall back to mock
// collaborators in production.
func (c *Config) Validate() error {
	switch c.Env {
	case EnvDevelopment, EnvProduction:
	default:
		return fmt.Errorf("unknown APP_ENV %q", c.Env)
	}
	if c.StoreTimeout <= 0 {
		return errors.New("STORE_TIMEOUT must be positive")
	}
	if c.PublicBaseURL != "" {
		if _, err := url.ParseRequestURI(c.PublicBaseURL); err != nil {
			return fmt.Errorf("invalid PUBLIC_BASE_URL: %w", err)
		}
	}
	if !c.IsProduction() {
		return nil
	}

	var missing []string
	if !c.HasDatabase() {
		missing = append(missing, "DB_HOST/POSTGRES_USER/POSTGRES_DB")
	}
	if !c.HasStripe() {
		missing = append(missing, "STRIPE_SECRET_KEY")
	}
	if c.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("production config is missing %s", strings.Join(missing, ", "))
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

func (c *Config) HasDatabase() bool {
	return c.DBHost != "" && c.DBUser != "" && c.DBName != ""
}

func (c *Config) HasStripe() bool {
	return c.StripeSecretKey != ""
}

func (c *Config) HasKafka() bool {
	return len(c.KafkaBrokers) > 0
}

func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName)
}

// MigrationURL is the URL form of DSN expected by golang-migrate.
func (c *Config) MigrationURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     fmt.Sprintf("%s:%d", c.DBHost, c.DBPort),
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}
