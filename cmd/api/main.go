package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/extra/redisotel/v9"
	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/TransactionWorldAI/transactpay-prestashop/internal/auth"
	"github.com/TransactionWorldAI/transactpay-prestashop/internal/config"
	"github.com/TransactionWorldAI/transactpay-prestashop/internal/confstore"
	"github.com/TransactionWorldAI/transactpay-prestashop/internal/db"
	"github.com/TransactionWorldAI/transactpay-prestashop/internal/health"
	"github.com/TransactionWorldAI/transactpay-prestashop/internal/host"
	"github.com/TransactionWorldAI/transactpay-prestashop/internal/obs"
	"github.com/TransactionWorldAI/transactpay-prestashop/internal/ratelimit"
	"github.com/TransactionWorldAI/transactpay-prestashop/internal/render"
	"github.com/TransactionWorldAI/transactpay-prestashop/internal/transactpay"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg := config.MustLoad()

	logFormat := envOrDefault("OBS_LOG_FORMAT", "json")
	logLevel := envOrDefault("OBS_LOG_LEVEL", "info")
	logger := obs.NewLogger(logFormat, logLevel).With().Str("env", cfg.AppEnv).Logger()

	metricsNamespace := envOrDefault("OBS_METRICS_NAMESPACE", "transactpay")
	metricsEnabled := envBool("OBS_ENABLE_PROMETHEUS", true)
	obs.MustRegisterDomainMetrics(metricsNamespace, nil)

	tracingEnabled := envBool("OBS_ENABLE_TRACING", true)
	if tracingEnabled {
		shutdown, err := obs.InitTracer(context.Background(), obs.TracingConfig{
			ServiceName:    "transactpay-module",
			ServiceVersion: version,
			Endpoint:       envOrDefault("OBS_OTLP_ENDPOINT", ""),
			Exporter:       envOrDefault("OBS_TRACING_EXPORTER", "otlp"),
			SamplingRatio:  envFloat("OBS_TRACING_SAMPLING_RATIO", 1.0),
			Environment:    cfg.AppEnv,
		})
		if err != nil {
			logger.Error().Err(err).Msg("initialise tracing")
			tracingEnabled = false
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					logger.Error().Err(err).Msg("shutdown tracer")
				}
			}()
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	probes := map[string]health.Probe{}

	var pool *pgxpool.Pool
	if cfg.StoreBackend == config.BackendPostgres {
		if cfg.RunMigrations {
			if err := db.Migrate(cfg.DatabaseURL); err != nil {
				logger.Fatal().Err(err).Msg("run migrations")
			}
		}
		pool = connectPostgres(ctx, cfg, logger)
		defer pool.Close()
		probes["db"] = func(ctx context.Context) error { return pool.Ping(ctx) }
	}

	var redisClient *redis.Client
	if cfg.NeedsRedis() {
		redisClient = connectRedis(ctx, cfg, metricsEnabled, logger)
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Error().Err(err).Msg("close redis")
			}
		}()
		probes["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}

	var (
		store    confstore.Store
		registry hostRegistry
	)
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		store = confstore.Postgres{DB: pool}
		registry = host.Postgres{DB: pool}
	case config.BackendRedis:
		store = confstore.NewRedis(redisClient, "")
		registry = seededHost(cfg, logger)
	default:
		store = confstore.NewMemory()
		registry = seededHost(cfg, logger)
	}

	renderer, err := render.New()
	if err != nil {
		logger.Fatal().Err(err).Msg("parse templates")
	}
	module, err := transactpay.New(transactpay.Config{
		Store:      store,
		Currencies: registry,
		Languages:  registry,
		Hooks:      registry,
		Modules:    registry,
		Renderer:   renderer,
		Links: transactpay.Links{
			BaseURL:    cfg.PublicBaseURL,
			ContactURL: cfg.ContactURL,
			AdminURL:   cfg.AdminURL,
		},
		ShopName:          cfg.ShopName,
		DefaultLanguageID: cfg.DefaultLangID,
		Logger:            logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("initialise payment module")
	}

	authService, err := auth.NewService(auth.Config{
		Secret:   cfg.JWTSecret,
		TokenTTL: cfg.AdminTokenTTL,
		Issuer:   cfg.JWTIssuer,
		Audience: cfg.JWTAudience,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("initialise auth service")
	}

	var limiter ratelimit.Limiter = ratelimit.NewMemory()
	if cfg.RateLimitDriver == "redis" {
		limiter = ratelimit.SlidingRedis{Client: redisClient, Prefix: "ratelimit:"}
	}

	var httpMetrics *obs.HTTPMetrics
	if metricsEnabled {
		buckets := obs.ParseBucketsCSV(envOrDefault("OBS_METRICS_BUCKETS_MS", ""))
		httpMetrics = obs.NewHTTPMetrics(metricsNamespace, buckets, nil)
	}

	r := newRouter(routerDeps{
		cfg:            cfg,
		logger:         logger,
		module:         module,
		auth:           auth.Middleware{Service: authService, AccessCookie: envOrDefault("ADMIN_TOKEN_COOKIE", "")},
		limiter:        limiter,
		probes:         probes,
		httpMetrics:    httpMetrics,
		tracingEnabled: tracingEnabled,
		pprofEnabled:   envBool("OBS_ENABLE_PPROF", false),
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		health.SetReady(false)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("shutdown server")
		}
	}()

	logger.Info().Str("addr", srv.Addr).Str("store", cfg.StoreBackend).Msg("server starting")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("server exited unexpectedly")
	}
}

type hostRegistry interface {
	host.CurrencyRegistry
	host.LanguageRegistry
	host.HookRegistry
	host.ModuleRegistry
}

func connectPostgres(ctx context.Context, cfg *config.Config, logger zerolog.Logger) *pgxpool.Pool {
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse database config")
	}
	poolConfig.ConnConfig.Tracer = obs.PGXTracer{}
	if poolConfig.ConnConfig.RuntimeParams == nil {
		poolConfig.ConnConfig.RuntimeParams = map[string]string{}
	}
	poolConfig.ConnConfig.RuntimeParams["application_name"] = "transactpay-module"

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect database")
	}
	if err := pool.Ping(ctx); err != nil {
		logger.Fatal().Err(err).Msg("ping database")
	}
	return pool
}

func connectRedis(ctx context.Context, cfg *config.Config, metricsEnabled bool, logger zerolog.Logger) *redis.Client {
	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse redis url")
	}
	client := redis.NewClient(redisOpts)
	if err := redisotel.InstrumentTracing(client); err != nil {
		logger.Error().Err(err).Msg("instrument redis tracing")
	}
	if metricsEnabled {
		if err := redisotel.InstrumentMetrics(client); err != nil {
			logger.Error().Err(err).Msg("instrument redis metrics")
		}
	}
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Fatal().Err(err).Msg("ping redis")
	}
	return client
}

// seededHost builds the in-memory host from the configured language and currency lists.
func seededHost(cfg *config.Config, logger zerolog.Logger) *host.Memory {
	languages, err := host.ParseLanguages(cfg.HostLanguages)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse HOST_LANGUAGES")
	}
	currencies, err := host.ParseCurrencies(cfg.HostCurrencies)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse HOST_CURRENCIES")
	}
	assigned, err := host.ParseIDs(cfg.ModuleCurrencies)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse MODULE_CURRENCIES")
	}
	h := host.NewMemory(languages, currencies)
	h.AssignCurrencies(transactpay.ModuleName, assigned...)
	return h
}

func envOrDefault(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		trimmed := strings.TrimSpace(val)
		if trimmed != "" {
			return trimmed
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if val, ok := os.LookupEnv(key); ok {
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "1", "t", "true", "yes", "on":
			return true
		case "0", "f", "false", "no", "off":
			return false
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64); err == nil {
			return parsed
		}
	}
	return fallback
}
