// Package server exposes the HTTP API: accounts, transactions, debts
// and payoff projections, budgets, analytics, and notifications.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/wealthtracker-dev/wealthtracker/internal/analytics"
	"github.com/wealthtracker-dev/wealthtracker/internal/budget"
	"github.com/wealthtracker-dev/wealthtracker/internal/cache"
	"github.com/wealthtracker-dev/wealthtracker/internal/notify"
	"github.com/wealthtracker-dev/wealthtracker/internal/store"
)

// Config holds the server's dependencies and tuning.
type Config struct {
	Port           int
	CORSOrigins    []string
	Timeout        time.Duration
	PlanRatePerMin int
	DBPath         string
	Log            zerolog.Logger

	Accounts      *store.AccountRepo
	Transactions  *store.TransactionRepo
	Debts         *store.DebtRepo
	Budgets       *store.BudgetRepo
	Notifications *store.NotificationRepo
	BudgetStatus  *budget.Service
	Analytics     *analytics.Service
	Notify        *notify.Engine
	Cache         cache.Cache

	// Activity, when set, receives every data-changing API operation
	// for the activity log.
	Activity func(action, entity, details string)
}

// Server is the HTTP API server.
type Server struct {
	router  *chi.Mux
	server  *http.Server
	log     zerolog.Logger
	cfg     Config
	limiter *rateLimiter
	started time.Time
}

// New creates an HTTP server with middleware and routes configured.
func New(cfg Config) *Server {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.PlanRatePerMin <= 0 {
		cfg.PlanRatePerMin = 30
	}
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = []string{"*"}
	}

	s := &Server{
		router:  chi.NewRouter(),
		log:     cfg.Log.With().Str("component", "server").Logger(),
		cfg:     cfg,
		limiter: newRateLimiter(cfg.PlanRatePerMin, time.Minute),
		started: time.Now(),
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(middleware.Timeout(s.cfg.Timeout))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Route("/system", func(r chi.Router) {
			r.Get("/status", s.handleSystemStatus)
		})

		r.Route("/accounts", func(r chi.Router) {
			r.Get("/", s.handleListAccounts)
			r.Post("/", s.handleCreateAccount)
			r.Get("/{id}", s.handleGetAccount)
			r.Delete("/{id}", s.handleDeleteAccount)
		})

		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", s.handleListTransactions)
			r.Post("/", s.handleCreateTransaction)
		})

		r.Route("/debts", func(r chi.Router) {
			r.Get("/", s.handleListDebts)
			r.Post("/", s.handleCreateDebt)
			r.Delete("/{id}", s.handleDeleteDebt)
			r.With(s.rateLimit).Post("/plan", s.handlePlan)
			r.With(s.rateLimit).Post("/compare", s.handleCompare)
		})

		r.Route("/budgets", func(r chi.Router) {
			r.Get("/", s.handleListBudgets)
			r.Put("/{category}", s.handleSetBudget)
			r.Delete("/{category}", s.handleDeleteBudget)
		})

		r.Route("/analytics", func(r chi.Router) {
			r.Get("/summary", s.handleSummary)
			r.Get("/categories", s.handleCategories)
			r.Get("/cashflow", s.handleCashFlow)
			r.Get("/spending", s.handleSpendingStats)
			r.Get("/trend", s.handleTrend)
			r.Get("/dashboard", s.handleDashboard)
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", s.handleListNotifications)
			r.Post("/{id}/read", s.handleMarkNotificationRead)
			r.Post("/check", s.handleNotificationCheck)
		})
	})
}

// Start begins serving and blocks until the listener closes.
func (s *Server) Start() error {
	s.log.Info().Int("port", s.cfg.Port).Msg("starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("shutting down HTTP server")
	s.limiter.stop()
	return s.server.Shutdown(ctx)
}

// recordActivity forwards a mutation to the activity hook when one is
// configured.
func (s *Server) recordActivity(action, entity, details string) {
	if s.cfg.Activity != nil {
		s.cfg.Activity(action, entity, details)
	}
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
