package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultTebexAPIBase is the Tebex Headless API root.
const DefaultTebexAPIBase = "https://headless.tebex.io/api"

// Config holds all configuration for the shop API.
type Config struct {
	Port   string
	AppEnv string

	TebexAPIBase     string
	TebexWebstoreID  string
	TebexProjectID   string
	TebexPublicToken string
	TebexSecretToken string
	TebexTimeout     time.Duration

	AllowedOrigins     []string
	ShopCompleteURL    string
	ShopCancelURL      string
	RequestTimeout     time.Duration
	RateLimitPerMinute int
	RateLimitBurst     int

	UseAWSSecrets       bool
	TebexSecretName     string
	BasketSNSTopicARN   string
	CloudWatchEnabled   bool
	CloudWatchNamespace string

	RedisURL string
}

// SecretSource resolves one key of a stored secret.
type SecretSource interface {
	GetSecretField(ctx context.Context, name, field string) (string, error)
}

// Load reads the configuration from the environment, loading .env first
// when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	publicToken := os.Getenv("TEBEX_PUBLIC_TOKEN")
	if publicToken == "" {
		publicToken = os.Getenv("TEBEX_WEBSTORE_ID")
	}

	cfg := &Config{
		Port:   getEnv("PORT", "3000"),
		AppEnv: getEnv("APP_ENV", "development"),

		TebexAPIBase:     strings.TrimSuffix(getEnv("TEBEX_API_BASE", DefaultTebexAPIBase), "/"),
		TebexWebstoreID:  os.Getenv("TEBEX_WEBSTORE_ID"),
		TebexProjectID:   os.Getenv("TEBEX_PROJECT_ID"),
		TebexPublicToken: publicToken,
		TebexSecretToken: os.Getenv("TEBEX_SECRET_TOKEN"),

		AllowedOrigins:  splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:8080")),
		ShopCompleteURL: getEnv("SHOP_COMPLETE_URL", "https://holysmp.net/shop?success=true"),
		ShopCancelURL:   getEnv("SHOP_CANCEL_URL", "https://holysmp.net/shop"),

		UseAWSSecrets:       os.Getenv("AWS_USE_SECRETS") == "true",
		TebexSecretName:     getEnv("TEBEX_SECRET_NAME", "holysmp/TEBEX"),
		BasketSNSTopicARN:   os.Getenv("BASKET_SNS_TOPIC_ARN"),
		CloudWatchEnabled:   os.Getenv("CLOUDWATCH_ENABLED") == "true",
		CloudWatchNamespace: os.Getenv("CLOUDWATCH_NAMESPACE"),

		RedisURL: os.Getenv("REDIS_URL"),
	}

	var err error
	if cfg.TebexTimeout, err = getDuration("TEBEX_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.RequestTimeout, err = getDuration("REQUEST_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.RateLimitPerMinute, err = getInt("RATE_LIMIT_PER_MINUTE", 100); err != nil {
		return nil, err
	}
	if cfg.RateLimitBurst, err = getInt("RATE_LIMIT_BURST", 50); err != nil {
		return nil, err
	}

	if cfg.TebexPublicToken == "" {
		return nil, errors.New("TEBEX_PUBLIC_TOKEN (or TEBEX_WEBSTORE_ID) is required")
	}
	if cfg.TebexSecretToken == "" && !cfg.UseAWSSecrets {
		return nil, errors.New("TEBEX_SECRET_TOKEN is required")
	}
	return cfg, nil
}

// ResolveSecrets overrides the Tebex secret token from the secret store. A
// token already set in the environment is kept when the store has none.
func (c *Config) ResolveSecrets(ctx context.Context, secrets SecretSource) error {
	if secrets == nil {
		return c.checkSecret()
	}
	v, err := secrets.GetSecretField(ctx, c.TebexSecretName, "TEBEX_SECRET_TOKEN")
	if err == nil && v != "" {
		c.TebexSecretToken = v
		return nil
	}
	if c.TebexSecretToken != "" {
		return nil
	}
	return fmt.Errorf("resolve tebex secret %s: %w", c.TebexSecretName, err)
}

func (c *Config) checkSecret() error {
	if c.TebexSecretToken == "" {
		return errors.New("TEBEX_SECRET_TOKEN is required")
	}
	return nil
}

// IsDevelopment reports whether error details may be exposed to clients.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getInt(key string, fallback int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, val)
	}
	return n, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
