package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Store backends.
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	AppEnv             string
	Port               string
	StoreBackend       string
	DatabaseURL        string
	RedisURL           string
	RunMigrations      bool
	JWTSecret          string
	JWTIssuer          string
	JWTAudience        string
	AdminTokenTTL      time.Duration
	CORSAllowedOrigins []string

	ShopHeader     string
	DefaultShop    string
	ShopName       string
	PublicBaseURL  string
	ContactURL     string
	AdminURL       string
	DefaultLangID  int64
	HostLanguages  string
	HostCurrencies string
	// ModuleCurrencies lists the currency ids assigned to the module in the memory backend.
	ModuleCurrencies string

	RateLimitDriver string
	RateLimitMax    int
	RateLimitWindow time.Duration
	BodyLimitBytes  int64

	SecurityHSTS bool
	SecurityCSP  string
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
		StoreBackend:       strings.ToLower(valueOrDefault(k.String("STORE_BACKEND"), BackendMemory)),
		DatabaseURL:        k.String("DATABASE_URL"),
		RedisURL:           k.String("REDIS_URL"),
		RunMigrations:      parseBool(valueOrDefault(k.String("RUN_MIGRATIONS"), "true")),
		JWTSecret:          k.String("JWT_SECRET"),
		JWTIssuer:          valueOrDefault(k.String("JWT_ISSUER"), "transactpay"),
		JWTAudience:        valueOrDefault(k.String("JWT_AUDIENCE"), "transactpay-admin"),
		AdminTokenTTL:      parseDuration(k.String("ADMIN_TOKEN_TTL"), "1h"),
		CORSAllowedOrigins: splitAndTrim(k.String("CORS_ALLOWED_ORIGINS")),

		ShopHeader:       valueOrDefault(k.String("SHOP_HEADER"), "X-Shop-ID"),
		DefaultShop:      valueOrDefault(k.String("DEFAULT_SHOP_ID"), "1"),
		ShopName:         valueOrDefault(k.String("SHOP_NAME"), "My shop"),
		PublicBaseURL:    valueOrDefault(k.String("PUBLIC_BASE_URL"), "http://localhost:8080"),
		ContactURL:       valueOrDefault(k.String("CONTACT_URL"), "http://localhost:8080/contact-us"),
		AdminURL:         valueOrDefault(k.String("ADMIN_FORM_ACTION"), "/api/v1/admin/modules/ps_transactpay/configure"),
		DefaultLangID:    k.Int64("DEFAULT_LANG_ID"),
		HostLanguages:    valueOrDefault(k.String("HOST_LANGUAGES"), "1:en:English"),
		HostCurrencies:   valueOrDefault(k.String("HOST_CURRENCIES"), "1:EUR:Euro,2:USD:US Dollar"),
		ModuleCurrencies: valueOrDefault(k.String("MODULE_CURRENCIES"), "1,2"),

		RateLimitDriver: strings.ToLower(valueOrDefault(k.String("RATE_LIMIT_DRIVER"), "memory")),
		RateLimitMax:    intOrDefault(k.Int("RATE_LIMIT_MAX"), 120),
		RateLimitWindow: parseDuration(k.String("RATE_LIMIT_WINDOW"), "1m"),
		BodyLimitBytes:  k.Int64("BODY_LIMIT_BYTES"),

		SecurityHSTS: parseBool(k.String("SECURITY_HSTS")),
		SecurityCSP:  strings.TrimSpace(k.String("SECURITY_CSP")),
	}
	if cfg.BodyLimitBytes <= 0 {
		cfg.BodyLimitBytes = 1 << 20
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	switch cfg.StoreBackend {
	case BackendMemory:
	case BackendRedis:
		if cfg.RedisURL == "" {
			return nil, errors.New("REDIS_URL is required for the redis store backend")
		}
	case BackendPostgres:
		if cfg.DatabaseURL == "" {
			return nil, errors.New("DATABASE_URL is required for the postgres store backend")
		}
	default:
		return nil, fmt.Errorf("unsupported STORE_BACKEND %q", cfg.StoreBackend)
	}
	switch cfg.RateLimitDriver {
	case "memory":
	case "redis":
		if cfg.RedisURL == "" {
			return nil, errors.New("REDIS_URL is required for the redis rate limiter")
		}
	default:
		return nil, fmt.Errorf("unsupported RATE_LIMIT_DRIVER %q", cfg.RateLimitDriver)
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

// NeedsRedis reports whether any component talks to Redis.
func (c *Config) NeedsRedis() bool {
	return c.StoreBackend == BackendRedis || c.RateLimitDriver == "redis"
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
		return strings.TrimSpace(value)
	}
	return fallback
}

func intOrDefault(value, fallback int) int {
	if value > 0 {
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

func parseBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
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
