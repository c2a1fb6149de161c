package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/obiano/walletpay/internal/adapter/http/handler"
	"github.com/obiano/walletpay/internal/adapter/http/middleware"
	"github.com/obiano/walletpay/internal/infrastructure/auth"
	"github.com/obiano/walletpay/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	PaymentHandler   *handler.PaymentHandler
	WebhookHandler   *handler.WebhookHandler
	AdminHandler     *handler.AdminHandler
	HealthHandler    *handler.HealthHandler
	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	RateLimiter      *middleware.RateLimiter
	JWTManager       *auth.JWTManager
	AuthEnabled      bool
	Logger           zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery)
	r.Use(middleware.Metrics)
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health and metrics endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// Caller identity: JWT when enabled, trusted headers otherwise.
	identity := middleware.OwnerHeaders
	if cfg.AuthEnabled && cfg.JWTManager != nil {
		identity = middleware.AuthMiddleware(cfg.JWTManager)
	}

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/payment", func(r chi.Router) {
			// The webhook is authenticated by its signature, never by
			// caller identity.
			r.Post("/webhook", cfg.WebhookHandler.Receive)

			r.Group(func(r chi.Router) {
				r.Use(identity)
				if cfg.IdempotencyStore != nil {
					idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL)
					r.Use(idempotencyMiddleware.Wrap)
				}

				r.Post("/topup", cfg.PaymentHandler.TopUp)
				r.Get("/wallet", cfg.PaymentHandler.Wallet)
				r.Get("/transactions", cfg.PaymentHandler.Transactions)
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(identity)

			r.Post("/sweep", cfg.AdminHandler.Sweep)
			r.Get("/consistency/{ownerID}", cfg.AdminHandler.Consistency)
		})
	})

	return r
}
