package config_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/AveGamers/HolySMP-Website/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	for _, key := range []string{"PORT", "APP_ENV", "TEBEX_API_BASE", "TEBEX_TIMEOUT", "REQUEST_TIMEOUT",
		"RATE_LIMIT_PER_MINUTE", "RATE_LIMIT_BURST", "SHOP_COMPLETE_URL", "SHOP_CANCEL_URL", "AWS_USE_SECRETS"} {
		t.Setenv(key, "")
	}
	t.Setenv("TEBEX_PUBLIC_TOKEN", "pub-token")
	t.Setenv("TEBEX_SECRET_TOKEN", "sec-token")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, config.DefaultTebexAPIBase, cfg.TebexAPIBase)
	assert.Equal(t, 10*time.Second, cfg.TebexTimeout)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 100, cfg.RateLimitPerMinute)
	assert.Equal(t, 50, cfg.RateLimitBurst)
	assert.Equal(t, "https://holysmp.net/shop?success=true", cfg.ShopCompleteURL)
	assert.Equal(t, "https://holysmp.net/shop", cfg.ShopCancelURL)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "8080")
	t.Setenv("APP_ENV", "production")
	t.Setenv("TEBEX_API_BASE", "http://localhost:9999/api/")
	t.Setenv("ALLOWED_ORIGINS", "https://holysmp.net, https://www.holysmp.net ,")
	t.Setenv("TEBEX_TIMEOUT", "3s")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, "http://localhost:9999/api", cfg.TebexAPIBase)
	assert.Equal(t, []string{"https://holysmp.net", "https://www.holysmp.net"}, cfg.AllowedOrigins)
	assert.Equal(t, 3*time.Second, cfg.TebexTimeout)
}

func TestLoad_MissingTokens(t *testing.T) {
	t.Setenv("TEBEX_PUBLIC_TOKEN", "")
	t.Setenv("TEBEX_WEBSTORE_ID", "")
	t.Setenv("TEBEX_SECRET_TOKEN", "x")
	_, err := config.Load()
	assert.Error(t, err)

	t.Setenv("TEBEX_PUBLIC_TOKEN", "pub")
	t.Setenv("TEBEX_SECRET_TOKEN", "")
	t.Setenv("AWS_USE_SECRETS", "")
	_, err = config.Load()
	assert.Error(t, err)

	t.Setenv("AWS_USE_SECRETS", "true")
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.True(t, cfg.UseAWSSecrets)
}

func TestLoad_WebstoreIDFallback(t *testing.T) {
	t.Setenv("TEBEX_PUBLIC_TOKEN", "")
	t.Setenv("TEBEX_WEBSTORE_ID", "store-1")
	t.Setenv("TEBEX_SECRET_TOKEN", "x")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "store-1", cfg.TebexPublicToken)
}

func TestLoad_InvalidNumbers(t *testing.T) {
	setRequired(t)
	t.Setenv("RATE_LIMIT_PER_MINUTE", "lots")
	_, err := config.Load()
	assert.Error(t, err)

	t.Setenv("RATE_LIMIT_PER_MINUTE", "")
	t.Setenv("REQUEST_TIMEOUT", "soon")
	_, err = config.Load()
	assert.Error(t, err)
}

type fakeSecrets struct {
	value string
	err   error
}

func (f fakeSecrets) GetSecretField(ctx context.Context, name, field string) (string, error) {
	return f.value, f.err
}

func TestResolveSecrets(t *testing.T) {
	cfg := &config.Config{TebexSecretName: "holysmp/TEBEX"}
	require.NoError(t, cfg.ResolveSecrets(context.Background(), fakeSecrets{value: "from-sm"}))
	assert.Equal(t, "from-sm", cfg.TebexSecretToken)

	cfg = &config.Config{TebexSecretToken: "from-env"}
	require.NoError(t, cfg.ResolveSecrets(context.Background(), fakeSecrets{err: errors.New("denied")}))
	assert.Equal(t, "from-env", cfg.TebexSecretToken)

	cfg = &config.Config{}
	assert.Error(t, cfg.ResolveSecrets(context.Background(), fakeSecrets{err: errors.New("denied")}))
	assert.Error(t, cfg.ResolveSecrets(context.Background(), nil))
}
