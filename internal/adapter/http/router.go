package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/splitledger/internal/adapter/http/handler"
	"github.com/iho/splitledger/internal/adapter/http/middleware"
	"github.com/iho/splitledger/internal/infrastructure/auth"
	"github.com/iho/splitledger/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	ExpenseHandler   *handler.ExpenseHandler
	GroupHandler     *handler.GroupHandler
	UserHandler      *handler.UserHandler
	HealthHandler    *handler.HealthHandler
	IdempotencyStore usecase.IdempotencyStore
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
	r.Use(middleware.Metrics)
	r.Use(middleware.Recovery)

	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Operational endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Public endpoints
		r.Post("/users/register", cfg.UserHandler.Register)
		r.Post("/users/login", cfg.UserHandler.Login)

		r.Group(func(r chi.Router) {
			if cfg.AuthEnabled && cfg.JWTManager != nil {
				r.Use(middleware.AuthMiddleware(cfg.JWTManager))
			}

			// Idempotency middleware for mutating requests
			if cfg.IdempotencyStore != nil {
				idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore)
				r.Use(idempotencyMiddleware.Wrap)
			}

			// Expenses
			r.Route("/expenses", func(r chi.Router) {
				r.Post("/", cfg.ExpenseHandler.Create)
				r.Get("/", cfg.ExpenseHandler.List)
				r.Post("/settle-up", cfg.ExpenseHandler.SettleUp)
				r.Get("/unsettled/{userId}", cfg.ExpenseHandler.ListUnsettled)
				r.Get("/{id}", cfg.ExpenseHandler.Get)
			})

			// Users
			r.Route("/users", func(r chi.Router) {
				r.Get("/updated", cfg.UserHandler.ListUpdated)
				r.Get("/{userId}", cfg.UserHandler.Get)
				r.Delete("/{userId}", cfg.UserHandler.Close)
				r.Get("/{userId}/balances", cfg.UserHandler.Balances)
				r.Get("/{userId}/groups", cfg.GroupHandler.ListForUser)
			})

			// Groups
			r.Route("/groups", func(r chi.Router) {
				r.Post("/", cfg.GroupHandler.Create)
				r.Post("/{id}/members", cfg.GroupHandler.AddMember)
				r.Delete("/{id}/members/{userId}", cfg.GroupHandler.RemoveMember)
			})
		})
	})

	return r
}
