package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	defaultAppName        = "NairaPay"
	defaultAppEnv         = "development"
	defaultPort           = "8080"
	defaultLogLevel       = "info"
	defaultShutdownDelay  = 10 * time.Second
	defaultIdempotencyTTL = 24 * time.Hour
	defaultCardFee        = "3"
	defaultVAFee          = "5"
)

// Fees holds the per-method fee percentages charged on transactions.
type Fees struct {
	CardPercent           decimal.Decimal
	VirtualAccountPercent decimal.Decimal
}

// Credentials are the gateway API credentials merchants present in the
// x-app-id / x-app-key headers.
type Credentials struct {
	AppID  string
	AppKey string
}

// Config captures application runtime configuration loaded from environment
// variables.
type Config struct {
	AppName        string
	AppEnv         string
	Port           string
	LogLevel       string
	DatabaseURL    string
	RedisURL       string
	ShutdownPeriod time.Duration
	IdempotencyTTL time.Duration
	Fees           Fees
	Credentials    Credentials
}

// Load reads configuration values from the environment and populates a
// Config instance. DATABASE_URL and REDIS_URL are optional in development;
// without them the service runs on in-memory stores.
func Load() (Config, error) {
	cfg := Config{
		AppName:        getEnv("APP_NAME", defaultAppName),
		AppEnv:         getEnv("APP_ENV", defaultAppEnv),
		Port:           getEnv("PORT", defaultPort),
		LogLevel:       strings.ToLower(getEnv("LOG_LEVEL", defaultLogLevel)),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RedisURL:       os.Getenv("REDIS_URL"),
		ShutdownPeriod: defaultShutdownDelay,
		IdempotencyTTL: defaultIdempotencyTTL,
		Credentials: Credentials{
			AppID:  os.Getenv("APP_ID"),
			AppKey: os.Getenv("APP_KEY"),
		},
	}

	if v := os.Getenv("SHUTDOWN_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid SHUTDOWN_TIMEOUT: %w", err)
		}
		cfg.ShutdownPeriod = d
	}

	if v := os.Getenv("IDEMPOTENCY_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid IDEMPOTENCY_TTL: %w", err)
		}
		cfg.IdempotencyTTL = d
	}

	var err error
	if cfg.Fees.CardPercent, err = feePercent("CARD_FEE_PERCENT", defaultCardFee); err != nil {
		return Config{}, err
	}
	if cfg.Fees.VirtualAccountPercent, err = feePercent("VIRTUAL_ACCOUNT_FEE_PERCENT", defaultVAFee); err != nil {
		return Config{}, err
	}

	if !cfg.IsDev() {
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("DATABASE_URL must be set when APP_ENV=%s", cfg.AppEnv)
		}
		if cfg.RedisURL == "" {
			return Config{}, fmt.Errorf("REDIS_URL must be set when APP_ENV=%s", cfg.AppEnv)
		}
		if cfg.Credentials.AppID == "" || cfg.Credentials.AppKey == "" {
			return Config{}, fmt.Errorf("APP_ID and APP_KEY must be set when APP_ENV=%s", cfg.AppEnv)
		}
	}

	return cfg, nil
}

// IsDev reports whether the service runs in a development environment.
func (c Config) IsDev() bool {
	switch strings.ToLower(c.AppEnv) {
	case "dev", "development", "local", "test":
		return true
	default:
		return false
	}
}

// Address returns the listen address in the format Fiber expects.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return fmt.Sprintf(":%s", c.Port)
}

func feePercent(key, fallback string) (decimal.Decimal, error) {
	raw := getEnv(key, fallback)
	pct, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s: %w", key, err)
	}
	if pct.IsNegative() {
		return decimal.Zero, fmt.Errorf("invalid %s: must not be negative", key)
	}
	return pct, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
