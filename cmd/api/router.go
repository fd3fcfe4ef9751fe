package main

import (
	"crypto/subtle"
	"net/http"
	"net/http/pprof"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/TransactionWorldAI/transactpay-prestashop/internal/auth"
	"github.com/TransactionWorldAI/transactpay-prestashop/internal/config"
	"github.com/TransactionWorldAI/transactpay-prestashop/internal/health"
	"github.com/TransactionWorldAI/transactpay-prestashop/internal/obs"
	"github.com/TransactionWorldAI/transactpay-prestashop/internal/ratelimit"
	"github.com/TransactionWorldAI/transactpay-prestashop/internal/security"
	"github.com/TransactionWorldAI/transactpay-prestashop/internal/shop"
	"github.com/TransactionWorldAI/transactpay-prestashop/internal/transactpay"
)

type routerDeps struct {
	cfg            *config.Config
	logger         zerolog.Logger
	module         *transactpay.Module
	auth           auth.Middleware
	limiter        ratelimit.Limiter
	probes         map[string]health.Probe
	httpMetrics    *obs.HTTPMetrics
	tracingEnabled bool
	pprofEnabled   bool
}

func newRouter(d routerDeps) http.Handler {
	cfg := d.cfg
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(shop.NewResolver(cfg.ShopHeader, cfg.DefaultShop).Middleware)
	if d.tracingEnabled {
		r.Use(obs.TracingMiddleware)
	}
	if d.httpMetrics != nil {
		r.Use(obs.HTTPObs{Metrics: d.httpMetrics}.Middleware)
	}
	r.Use(obs.RequestLogger{Logger: d.logger}.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins(cfg),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", cfg.ShopHeader},
		ExposedHeaders:   []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(security.Headers{Enable: true, EnableHSTS: cfg.SecurityHSTS, ContentSecurityPolicy: cfg.SecurityCSP}.Middleware)
	r.Use(security.BodyLimit{Max: cfg.BodyLimitBytes}.Middleware)

	if d.httpMetrics != nil {
		r.Handle("/metrics", promhttp.Handler())
	}
	if d.pprofEnabled {
		user := envOrDefault("SECURE_PPROF_BASIC_AUTH_USER", "")
		pass := envOrDefault("SECURE_PPROF_BASIC_AUTH_PASS", "")
		r.Mount("/debug/pprof", protectPprof(newPprofMux(), user, pass))
	}

	healthHandler := health.Handler{Probes: d.probes, Timeout: envDurationMillis("HEALTH_READY_TIMEOUT_MS", 500)}
	r.Get("/health/live", healthHandler.Live)
	r.Get("/health/ready", healthHandler.Ready)

	h := &transactpay.Handler{Module: d.module, Logger: d.logger}
	limit := ratelimit.Handler{
		Limiter: d.limiter,
		Key:     ratelimit.ClientKey,
		Rate:    ratelimit.Rate{Window: cfg.RateLimitWindow, Max: cfg.RateLimitMax},
		OnError: func(err error) { d.logger.Warn().Err(err).Msg("rate limiter unavailable") },
	}

	r.Route("/api/v1", func(v chi.Router) {
		v.Route("/hooks", func(hooks chi.Router) {
			hooks.Use(limit.Middleware)
			hooks.Post("/payment-options", h.PaymentOptions)
			hooks.Post("/payment-return", h.PaymentReturn)
		})

		v.Route("/admin/modules/"+transactpay.ModuleName, func(admin chi.Router) {
			admin.Use(d.auth.RequireAuth)
			admin.Use(security.CSRF{}.Middleware)
			admin.Get("/configure", h.Configure)
			admin.Post("/configure", h.Configure)
			admin.Post("/install", h.Install)
			admin.Post("/uninstall", h.Uninstall)
			admin.Get("/status", h.Status)
		})
	})
	return r
}

func allowedOrigins(cfg *config.Config) []string {
	if len(cfg.CORSAllowedOrigins) == 0 {
		return []string{"*"}
	}
	return cfg.CORSAllowedOrigins
}

func envDurationMillis(key string, fallback int) time.Duration {
	return time.Duration(envInt(key, fallback)) * time.Millisecond
}

func envInt(key string, fallback int) int {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(strings.TrimSpace(val)); err == nil {
			return parsed
		}
	}
	return fallback
}

func newPprofMux() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", pprof.Index)
	mux.HandleFunc("/cmdline", pprof.Cmdline)
	mux.HandleFunc("/profile", pprof.Profile)
	mux.HandleFunc("/symbol", pprof.Symbol)
	mux.HandleFunc("/trace", pprof.Trace)
	mux.Handle("/heap", pprof.Handler("heap"))
	mux.Handle("/goroutine", pprof.Handler("goroutine"))
	return mux
}

func protectPprof(handler http.Handler, user, pass string) http.Handler {
	user = strings.TrimSpace(user)
	pass = strings.TrimSpace(pass)
	if user == "" {
		return handler
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, p, ok := r.BasicAuth()
		if !ok || subtle.ConstantTimeCompare([]byte(u), []byte(user)) != 1 || subtle.ConstantTimeCompare([]byte(p), []byte(pass)) != 1 {
			w.Header().Set("WWW-Authenticate", "Basic realm=restricted")
			http.Error(w, "unauthorised", http.StatusUnauthorized)
			return
		}
		handler.ServeHTTP(w, r)
	})
}
