package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	AppEnv             string
	Port               string
	DatabaseURL        string
	RedisURL           string
	JWTSecret          string
	CORSAllowedOrigins []string

	Currency      string
	PricingTaxBps int
	DeliveryFee   int64

	CartTTL           time.Duration
	CatalogCacheTTL   time.Duration
	ReportingCacheTTL time.Duration
	IdempotencyTTL    time.Duration
	PaymentIntentTTL  time.Duration

	CatalogDefaultLimit int
	CatalogMaxLimit     int

	RazorpayKeyID         string
	RazorpayKeySecret     string
	RazorpayWebhookSecret string

	WebhookTimeout         time.Duration
	WebhookDeliveryEnabled bool
	WebhookMaxAttempts     int
	WebhookReplayTTL       time.Duration

	APIRateLimit         string
	PromoApplyRateMax    int
	PromoApplyRateWindow time.Duration
	CheckoutRateMax      int
	CheckoutRateWindow   time.Duration

	BodyLimitBytes    int64
	LockTTL           time.Duration
	WorkerConcurrency int
}

// Load reads configuration from environment variables and optional .env files.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := &Config{
		AppEnv:             valueOrDefault(k.String("APP_ENV"), "development"),
		Port:               valueOrDefault(k.String("PORT"), "8080"),
		DatabaseURL:        k.String("DATABASE_URL"),
		RedisURL:           k.String("REDIS_URL"),
		JWTSecret:          k.String("JWT_SECRET"),
		CORSAllowedOrigins: splitAndTrim(k.String("CORS_ALLOWED_ORIGINS")),

		Currency:      valueOrDefault(k.String("PRICING_CURRENCY"), "INR"),
		PricingTaxBps: parseInt(k.String("PRICING_TAX_BPS"), 0),
		DeliveryFee:   parseInt64(k.String("PRICING_DELIVERY_FEE"), 0),

		CartTTL:           parseDuration(k.String("CART_TTL"), "168h"),
		CatalogCacheTTL:   parseDuration(k.String("CATALOG_CACHE_TTL"), "5m"),
		ReportingCacheTTL: parseDuration(k.String("REPORTING_CACHE_TTL"), "10m"),
		IdempotencyTTL:    parseDuration(k.String("IDEMPOTENCY_TTL"), "24h"),
		PaymentIntentTTL:  parseDuration(k.String("PAYMENT_INTENT_TTL"), "30m"),

		CatalogDefaultLimit: parseInt(k.String("CATALOG_DEFAULT_LIMIT"), 20),
		CatalogMaxLimit:     parseInt(k.String("CATALOG_MAX_LIMIT"), 100),

		RazorpayKeyID:         k.String("RAZORPAY_KEY_ID"),
		RazorpayKeySecret:     k.String("RAZORPAY_KEY_SECRET"),
		RazorpayWebhookSecret: k.String("RAZORPAY_WEBHOOK_SECRET"),

		WebhookTimeout:         parseDuration(k.String("WEBHOOK_TIMEOUT"), "10s"),
		WebhookDeliveryEnabled: parseBool(k.String("WEBHOOK_DELIVERY_ENABLED"), true),
		WebhookMaxAttempts:     parseInt(k.String("WEBHOOK_MAX_ATTEMPTS"), 6),
		WebhookReplayTTL:       parseDuration(k.String("WEBHOOK_REPLAY_TTL"), "24h"),

		APIRateLimit:         valueOrDefault(k.String("API_RATE_LIMIT"), "300-M"),
		PromoApplyRateMax:    parseInt(k.String("RATE_PROMO_APPLY_MAX"), 20),
		PromoApplyRateWindow: parseDuration(k.String("RATE_PROMO_APPLY_WINDOW"), "1m"),
		CheckoutRateMax:      parseInt(k.String("RATE_CHECKOUT_MAX"), 10),
		CheckoutRateWindow:   parseDuration(k.String("RATE_CHECKOUT_WINDOW"), "1m"),

		BodyLimitBytes:    parseInt64(k.String("BODY_LIMIT_BYTES"), 1<<20),
		LockTTL:           parseDuration(k.String("WORKER_LOCK_TTL"), "1m"),
		WorkerConcurrency: parseInt(k.String("WORKER_CONCURRENCY"), 10),
	}

	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	if cfg.RedisURL == "" {
		return nil, errors.New("REDIS_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	if cfg.PricingTaxBps < 0 || cfg.PricingTaxBps > 10000 {
		return nil, errors.New("PRICING_TAX_BPS must be between 0 and 10000")
	}

	return cfg, nil
}

// HTTPAddr returns the address the HTTP server should bind to.
func (c *Config) HTTPAddr() string {
	port := strings.TrimSpace(c.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

func splitAndTrim(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func valueOrDefault(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}

func parseDuration(value, fallback string) time.Duration {
	base := strings.TrimSpace(value)
	if base == "" {
		base = fallback
	}
	d, err := time.ParseDuration(base)
	if err != nil {
		d, _ = time.ParseDuration(fallback)
	}
	return d
}

func parseInt(value string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}

func parseBool(value string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "t", "true", "yes", "on":
		return true
	case "0", "f", "false", "no", "off":
		return false
	}
	return fallback
}

func parseInt64(value string, fallback int64) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

// MustLoad behaves like Load but panics on error. Useful for tests and command entrypoints.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// LoadForTests allows tests to override environment variables without touching the real environment.
func LoadForTests(env map[string]string) (*Config, error) {
	original := make(map[string]string, len(env))
	for key := range env {
		original[key] = os.Getenv(key)
		if err := setEnvVar(key, env[key]); err != nil {
			return nil, err
		}
	}
	cfg, err := Load()
	restoreErr := restoreEnv(original)
	if err != nil {
		return nil, err
	}
	return cfg, restoreErr
}

func setEnvVar(key, value string) error {
	if value == "" {
		return os.Unsetenv(key)
	}
	return os.Setenv(key, value)
}

func restoreEnv(values map[string]string) error {
	var errs []string
	for key, value := range values {
		if err := setEnvVar(key, value); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", key, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("restore env: %s", strings.Join(errs, "; "))
	}
	return nil
}
