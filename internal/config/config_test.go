package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/TransactionWorldAI/transactpay-prestashop/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.LoadForTests(map[string]string{
		"JWT_SECRET":        "secret",
		"STORE_BACKEND":     "",
		"RATE_LIMIT_DRIVER": "",
		"PORT":              "",
	})
	require.NoError(t, err)
	require.Equal(t, config.BackendMemory, cfg.StoreBackend)
	require.Equal(t, ":8080", cfg.HTTPAddr())
	require.Equal(t, "X-Shop-ID", cfg.ShopHeader)
	require.Equal(t, time.Minute, cfg.RateLimitWindow)
	require.EqualValues(t, 1<<20, cfg.BodyLimitBytes)
	require.False(t, cfg.NeedsRedis())
}

func TestLoadRequiresSecret(t *testing.T) {
	_, err := config.LoadForTests(map[string]string{"JWT_SECRET": ""})
	require.ErrorContains(t, err, "JWT_SECRET")
}

func TestLoadBackendRequirements(t *testing.T) {
	_, err := config.LoadForTests(map[string]string{
		"JWT_SECRET":    "secret",
		"STORE_BACKEND": "postgres",
		"DATABASE_URL":  "",
	})
	require.ErrorContains(t, err, "DATABASE_URL")

	_, err = config.LoadForTests(map[string]string{
		"JWT_SECRET":    "secret",
		"STORE_BACKEND": "redis",
		"REDIS_URL":     "",
	})
	require.ErrorContains(t, err, "REDIS_URL")

	_, err = config.LoadForTests(map[string]string{
		"JWT_SECRET":    "secret",
		"STORE_BACKEND": "sqlite",
	})
	require.ErrorContains(t, err, "STORE_BACKEND")
}

func TestLoadRedisBackend(t *testing.T) {
	cfg, err := config.LoadForTests(map[string]string{
		"JWT_SECRET":        "secret",
		"STORE_BACKEND":     "redis",
		"REDIS_URL":         "redis://localhost:6379/0",
		"RATE_LIMIT_DRIVER": "redis",
		"PORT":              ":9090",
	})
	require.NoError(t, err)
	require.True(t, cfg.NeedsRedis())
	require.Equal(t, ":9090", cfg.HTTPAddr())
}
