package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/motorbook/dealerledger/internal/adapter/http/handler"
	"github.com/motorbook/dealerledger/internal/adapter/http/middleware"
	"github.com/motorbook/dealerledger/internal/infrastructure/auth"
	"github.com/motorbook/dealerledger/internal/infrastructure/metrics"
	"github.com/motorbook/dealerledger/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	VehicleHandler   *handler.VehicleHandler
	LedgerHandler    *handler.LedgerHandler
	ReportHandler    *handler.ReportHandler
	AuthHandler      *handler.AuthHandler
	UserHandler      *handler.UserHandler
	HealthHandler    *handler.HealthHandler
	IdempotencyStore usecase.IdempotencyStore
	RateLimiter      *middleware.RateLimiter
	// JWTManager enables authentication and role checks when set. Leaving it
	// nil disables auth, which is only acceptable for local development.
	JWTManager *auth.JWTManager
	Metrics    *metrics.Metrics
	Logger     zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery)
	if cfg.Metrics != nil {
		r.Use(middleware.NewMetricsMiddleware(cfg.Metrics).Wrap)
	}
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health and metrics endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	authenticated := passthrough
	requireMutate := passthrough
	requireReverse := passthrough
	requireAdmin := passthrough
	if cfg.JWTManager != nil {
		authenticated = middleware.AuthMiddleware(cfg.JWTManager)
		requireMutate = middleware.RequireMutate
		requireReverse = middleware.RequireReverse
		requireAdmin = middleware.RequireAdmin
	}

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore)
			r.Use(idempotencyMiddleware.Wrap)
		}

		if cfg.AuthHandler != nil {
			r.Post("/auth/login", cfg.AuthHandler.Login)
			r.With(authenticated).Get("/auth/me", cfg.AuthHandler.GetCurrentUser)
		}

		// Vehicle records and the settlement ledger
		r.Route("/vehicles", func(r chi.Router) {
			r.Use(authenticated)

			r.With(requireMutate).Post("/", cfg.VehicleHandler.Create)
			r.Get("/", cfg.VehicleHandler.List)
			r.Get("/{id}", cfg.VehicleHandler.Get)

			r.With(requireMutate).Post("/{id}/sale", cfg.LedgerHandler.RecordSale)

			r.Get("/{id}/settlements", cfg.VehicleHandler.History)
			r.With(requireMutate).Post("/{id}/settlements", cfg.LedgerHandler.ApplySettlement)
			r.With(requireReverse).Post("/{id}/settlements/{settlementID}/reverse", cfg.LedgerHandler.ReverseSettlement)
			r.Get("/{id}/settlements/totals", cfg.VehicleHandler.SettledTotals)

			r.Get("/{id}/profit", cfg.ReportHandler.VehicleProfit)
		})

		// Profitability reports
		r.Route("/reports", func(r chi.Router) {
			r.Use(authenticated)

			r.Get("/profit", cfg.ReportHandler.AggregateProfit)
			r.Get("/pending", cfg.ReportHandler.PendingSettlements)
		})

		// User management, admin only
		if cfg.UserHandler != nil {
			r.Route("/users", func(r chi.Router) {
				r.Use(authenticated)
				r.Use(requireAdmin)

				r.Post("/", cfg.UserHandler.Create)
				r.Get("/", cfg.UserHandler.List)
				r.Get("/{id}", cfg.UserHandler.Get)
				r.Put("/{id}", cfg.UserHandler.Update)
				r.Delete("/{id}", cfg.UserHandler.Delete)
			})
		}
	})

	return r
}

func passthrough(next http.Handler) http.Handler {
	return next
}
