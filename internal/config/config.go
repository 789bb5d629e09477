package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/cobsari123-dotcom/marcket-app2/internal/service"
	pkgconfig "github.com/cobsari123-dotcom/marcket-app2/pkg/config"
	"github.com/cobsari123-dotcom/marcket-app2/pkg/database"
	"github.com/cobsari123-dotcom/marcket-app2/pkg/tracing"
)

// Payment providers and push senders selectable by configuration.
const (
	ProviderMercadoPago = "mercadopago"
	ProviderMock        = "mock"
	SenderFCM           = "fcm"
	SenderMock          = "mock"
)

// Config holds all configuration for the trigger server.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort        int           `env:"HTTP_PORT" envDefault:"8080"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`

	// PostgreSQL
	PostgresHost  string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort  int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser  string `env:"POSTGRES_USER" envDefault:"marketplace"`
	PostgresPass  string `env:"POSTGRES_PASSWORD" envDefault:"marketplace"`
	PostgresDB    string `env:"POSTGRES_DB" envDefault:"marketplace"`
	PostgresSSL   string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`
	RunMigrations bool   `env:"RUN_MIGRATIONS" envDefault:"true"`

	// Database pool
	DBMaxConns           int32 `env:"DB_MAX_CONNS" envDefault:"10"`
	DBMinConns           int32 `env:"DB_MIN_CONNS" envDefault:"2"`
	SlowQueryThresholdMs int   `env:"LOG_SLOW_QUERY_MS" envDefault:"500"`

	// Redis backs the event idempotency guard.
	RedisEnabled  bool   `env:"REDIS_ENABLED" envDefault:"false"`
	RedisHost     string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort     int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
	RedisPoolSize int    `env:"REDIS_POOL_SIZE" envDefault:"10"`

	// Kafka
	KafkaBrokers       []string      `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`
	KafkaConsumerGroup string        `env:"KAFKA_CONSUMER_GROUP" envDefault:"marketplace-triggers"`
	IdempotencyTTL     time.Duration `env:"IDEMPOTENCY_TTL" envDefault:"24h"`

	// Payments
	PaymentProvider            string `env:"PAYMENT_PROVIDER" envDefault:"mercadopago"`
	MercadoPagoAccessToken     string `env:"MERCADOPAGO_ACCESS_TOKEN"`
	MercadoPagoBaseURL         string `env:"MERCADOPAGO_BASE_URL" envDefault:"https://api.mercadopago.com"`
	MercadoPagoNotificationURL string `env:"MERCADOPAGO_NOTIFICATION_URL" envDefault:"https://receivemercadopagowebhook-vf47anzufq-uc.a.run.app"`
	PaymentSuccessURL          string `env:"PAYMENT_SUCCESS_URL" envDefault:"https://marcketapp-25ac2.web.app/payment/success"`
	PaymentPendingURL          string `env:"PAYMENT_PENDING_URL" envDefault:"https://marcketapp-25ac2.web.app/payment/pending"`
	PaymentFailureURL          string `env:"PAYMENT_FAILURE_URL" envDefault:"https://marcketapp-25ac2.web.app/payment/failure"`
	PaymentCurrency            string `env:"PAYMENT_CURRENCY" envDefault:"MXN"`
	PaymentPlaceholderEmail    string `env:"PAYMENT_PLACEHOLDER_EMAIL" envDefault:"anonymous@example.com"`

	// Push notifications
	PushSender     string `env:"PUSH_SENDER" envDefault:"fcm"`
	FCMProjectID   string `env:"FCM_PROJECT_ID" envDefault:"marcketapp-25ac2"`
	FCMBaseURL     string `env:"FCM_BASE_URL" envDefault:"https://fcm.googleapis.com"`
	FCMAccessToken string `env:"FCM_ACCESS_TOKEN"`

	// HTTP surface
	WebhookRateLimitRPS   float64  `env:"WEBHOOK_RATE_LIMIT_RPS" envDefault:"20"`
	WebhookRateLimitBurst int      `env:"WEBHOOK_RATE_LIMIT_BURST" envDefault:"40"`
	CORSAllowedOrigins    []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"https://marcketapp-25ac2.web.app,https://marcketapp-25ac2.firebaseapp.com" envSeparator:","`

	// OpenTelemetry
	TracingEnabled    bool    `env:"TRACING_ENABLED" envDefault:"false"`
	OTLPEndpoint      string  `env:"OTLP_ENDPOINT" envDefault:"localhost:4318"`
	TracingSampleRate float64 `env:"TRACING_SAMPLE_RATE" envDefault:"1.0"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load trigger config: %w", err)
	}
	return cfg, nil
}

// Validate checks configuration invariants. A missing Mercado Pago token is
// not an error: payment operations then answer "not configured".
func (c *Config) Validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.PostgresHost == "" {
		return fmt.Errorf("POSTGRES_HOST is required")
	}
	if c.PostgresUser == "" {
		return fmt.Errorf("POSTGRES_USER is required")
	}
	if len(c.KafkaBrokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is required")
	}
	if c.IdempotencyTTL <= 0 {
		return fmt.Errorf("IDEMPOTENCY_TTL must be positive, got %s", c.IdempotencyTTL)
	}
	switch c.PaymentProvider {
	case ProviderMercadoPago, ProviderMock:
	default:
		return fmt.Errorf("PAYMENT_PROVIDER must be %q or %q, got %q", ProviderMercadoPago, ProviderMock, c.PaymentProvider)
	}
	switch c.PushSender {
	case SenderFCM:
		if c.FCMProjectID == "" {
			return fmt.Errorf("FCM_PROJECT_ID is required when PUSH_SENDER=fcm")
		}
	case SenderMock:
	default:
		return fmt.Errorf("PUSH_SENDER must be %q or %q, got %q", SenderFCM, SenderMock, c.PushSender)
	}
	if c.PaymentCurrency == "" {
		return fmt.Errorf("PAYMENT_CURRENCY is required")
	}
	for name, rawURL := range map[string]string{
		"MERCADOPAGO_BASE_URL":         c.MercadoPagoBaseURL,
		"MERCADOPAGO_NOTIFICATION_URL": c.MercadoPagoNotificationURL,
		"PAYMENT_SUCCESS_URL":          c.PaymentSuccessURL,
		"PAYMENT_PENDING_URL":          c.PaymentPendingURL,
		"PAYMENT_FAILURE_URL":          c.PaymentFailureURL,
		"FCM_BASE_URL":                 c.FCMBaseURL,
	} {
		if _, err := url.ParseRequestURI(rawURL); err != nil {
			return fmt.Errorf("invalid %s %q: %w", name, rawURL, err)
		}
	}
	if c.WebhookRateLimitRPS > 0 && c.WebhookRateLimitBurst < 1 {
		return fmt.Errorf("WEBHOOK_RATE_LIMIT_BURST must be at least 1 when rate limiting is on")
	}
	if c.TracingSampleRate < 0 || c.TracingSampleRate > 1.0 {
		return fmt.Errorf("TRACING_SAMPLE_RATE must be between 0.0 and 1.0, got %f", c.TracingSampleRate)
	}
	return nil
}

// Postgres returns the pool settings.
func (c *Config) Postgres() database.PostgresConfig {
	pg := database.DefaultPostgresConfig()
	pg.Host = c.PostgresHost
	pg.Port = c.PostgresPort
	pg.User = c.PostgresUser
	pg.Password = c.PostgresPass
	pg.DBName = c.PostgresDB
	pg.SSLMode = c.PostgresSSL
	pg.MaxConns = c.DBMaxConns
	pg.MinConns = c.DBMinConns
	return pg
}

// Redis returns the Redis client settings.
func (c *Config) Redis() database.RedisConfig {
	return database.RedisConfig{
		Host:     c.RedisHost,
		Port:     c.RedisPort,
		Password: c.RedisPassword,
		DB:       c.RedisDB,
		PoolSize: c.RedisPoolSize,
	}
}

// Payment returns the fixed purchase-intent settings.
func (c *Config) Payment() service.PaymentConfig {
	cfg := service.DefaultPaymentConfig()
	cfg.Currency = c.PaymentCurrency
	cfg.NotificationURL = c.MercadoPagoNotificationURL
	cfg.BackURLs.Success = c.PaymentSuccessURL
	cfg.BackURLs.Pending = c.PaymentPendingURL
	cfg.BackURLs.Failure = c.PaymentFailureURL
	cfg.PlaceholderEmail = c.PaymentPlaceholderEmail
	return cfg
}

// Tracing returns the tracer settings for serviceName.
func (c *Config) Tracing(serviceName, version string) tracing.Config {
	return tracing.Config{
		ServiceName:    serviceName,
		ServiceVersion: version,
		Environment:    c.Environment,
		OTLPEndpoint:   c.OTLPEndpoint,
		SampleRate:     c.TracingSampleRate,
		Enabled:        c.TracingEnabled,
	}
}
