package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the process configuration, read once at startup.
type Config struct {
	Port           string        `env:"PORT"            envDefault:"8080"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
	JWTSecret      string        `env:"JWT_SECRET"`

	AWSRegion        string `env:"AWS_REGION"            envDefault:"us-east-1"`
	AWSAccessKeyID   string `env:"AWS_ACCESS_KEY_ID"     envDefault:"local"`
	AWSSecretKey     string `env:"AWS_SECRET_ACCESS_KEY" envDefault:"local"`
	DynamoDBEndpoint string `env:"DYNAMODB_ENDPOINT"`

	QuotesTable   string `env:"QUOTES_TABLE"   envDefault:"quotes"`
	ProjectsTable string `env:"PROJECTS_TABLE" envDefault:"projects"`
	InvoicesTable string `env:"INVOICES_TABLE" envDefault:"invoices"`
	CountersTable string `env:"COUNTERS_TABLE" envDefault:"counters"`

	// PersistenceBackend selects where quotes, projects and invoices live:
	// "dynamodb" or "memory".
	PersistenceBackend string `env:"PERSISTENCE_BACKEND" envDefault:"dynamodb"`
	// ProjectsSeedFile is a JSON array of projects loaded into the memory backend.
	ProjectsSeedFile string `env:"PROJECTS_SEED_FILE"`
	// SequenceBackend selects the number allocator: "dynamodb", "redis" or "memory".
	SequenceBackend string `env:"SEQUENCE_BACKEND" envDefault:"dynamodb"`
	// StorageBackend selects the document store: "gcs" or "memory".
	StorageBackend string `env:"STORAGE_BACKEND" envDefault:"gcs"`
	// NotificationBackend selects the sender: "redis" (outbox) or "log".
	NotificationBackend string `env:"NOTIFICATION_BACKEND" envDefault:"redis"`

	GCSBucket        string `env:"GCS_BUCKET"`
	GCSPublicBaseURL string `env:"GCS_PUBLIC_BASE_URL"`

	RedisAddr     string `env:"REDIS_ADDR"     envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB"       envDefault:"0"`
	OutboxKey     string `env:"NOTIFICATION_OUTBOX_KEY" envDefault:"notifications:outbox"`

	MercadoPagoAccessToken string        `env:"MERCADOPAGO_ACCESS_TOKEN"`
	PaymentGatewayMock     bool          `env:"PAYMENT_GATEWAY_MOCK"`
	MercadoPagoSandbox     bool          `env:"MERCADOPAGO_SANDBOX"`
	CheckoutSuccessURL     string        `env:"CHECKOUT_SUCCESS_URL"`
	CheckoutFailureURL     string        `env:"CHECKOUT_FAILURE_URL"`
	PaymentNotificationURL string        `env:"PAYMENT_NOTIFICATION_URL"`
	Currency               string        `env:"CURRENCY"            envDefault:"BRL"`
	SideEffectTimeout      time.Duration `env:"SIDE_EFFECT_TIMEOUT" envDefault:"15s"`
	OperatorEmails         []string      `env:"OPERATOR_EMAILS"     envSeparator:","`

	BrandName    string `env:"BRAND_NAME"     envDefault:"Studio"`
	BrandTagline string `env:"BRAND_TAGLINE"`
	BrandEmail   string `env:"BRAND_EMAIL"`
	BrandWebsite string `env:"BRAND_WEBSITE"`
	BrandTerms   string `env:"BRAND_TERMS"`
	LogoPath     string `env:"BRAND_LOGO_PATH"`
	LogoURL      string `env:"BRAND_LOGO_URL"`
}

// Load parses the environment and validates the backend selections.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.Currency = strings.ToUpper(strings.TrimSpace(cfg.Currency))
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	checks := []struct {
		name    string
		value   string
		allowed []string
	}{
		{"PERSISTENCE_BACKEND", c.PersistenceBackend, []string{"dynamodb", "memory"}},
		{"SEQUENCE_BACKEND", c.SequenceBackend, []string{"dynamodb", "redis", "memory"}},
		{"STORAGE_BACKEND", c.StorageBackend, []string{"gcs", "memory"}},
		{"NOTIFICATION_BACKEND", c.NotificationBackend, []string{"redis", "log"}},
	}
	for _, ch := range checks {
		if !contains(ch.allowed, ch.value) {
			return fmt.Errorf("%s must be one of %s, got %q", ch.name, strings.Join(ch.allowed, ", "), ch.value)
		}
	}
	// A process-local counter restarts at 1 and would reuse numbers already
	// held by durable quotes.
	if c.SequenceBackend == "memory" && c.PersistenceBackend != "memory" {
		return fmt.Errorf("SEQUENCE_BACKEND=memory requires PERSISTENCE_BACKEND=memory, got %q", c.PersistenceBackend)
	}
	if c.ProjectsSeedFile != "" && c.PersistenceBackend != "memory" {
		return fmt.Errorf("PROJECTS_SEED_FILE only applies to PERSISTENCE_BACKEND=memory")
	}
	if c.StorageBackend == "gcs" && c.GCSBucket == "" {
		return fmt.Errorf("GCS_BUCKET is required when STORAGE_BACKEND=gcs")
	}
	if len(c.Currency) != 3 {
		return fmt.Errorf("CURRENCY must be a 3 letter code, got %q", c.Currency)
	}
	return nil
}

// UsesRedis reports whether any component needs a Redis connection.
func (c Config) UsesRedis() bool {
	return c.SequenceBackend == "redis" || c.NotificationBackend == "redis"
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
