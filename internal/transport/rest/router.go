package rest

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"

	"github.com/frahmantamala/finance-dashboard/internal"
	"github.com/frahmantamala/finance-dashboard/internal/auth"
	"github.com/frahmantamala/finance-dashboard/internal/budget"
	"github.com/frahmantamala/finance-dashboard/internal/category"
	"github.com/frahmantamala/finance-dashboard/internal/dashboard"
	"github.com/frahmantamala/finance-dashboard/internal/recurrence"
	"github.com/frahmantamala/finance-dashboard/internal/transaction"
	"github.com/frahmantamala/finance-dashboard/internal/transport/middleware"
	"github.com/frahmantamala/finance-dashboard/internal/transport/swagger"
	"github.com/frahmantamala/finance-dashboard/internal/user"
)

// Handlers groups everything the router mounts. Nil handlers are skipped.
type Handlers struct {
	Health      *HealthHandler
	Auth        *auth.Handler
	User        *user.Handler
	Category    *category.Handler
	Transaction *transaction.Handler
	Recurrence  *recurrence.Handler
	Budget      *budget.Handler
	Dashboard   *dashboard.Handler
	OpenAPI     http.Handler
}

type RouterOptions struct {
	AllowedOrigins string
	Logger         *slog.Logger
}

func RegisterAllRoutes(router *chi.Mux, h Handlers, opts RouterOptions) {
	router.Use(middleware.RequestID)
	router.Use(middleware.CORS(opts.AllowedOrigins))
	router.Use(middleware.RecoveryMiddleware(opts.Logger))
	router.Use(middleware.LoggingMiddleware(opts.Logger))
	router.Use(chiMiddleware.StripSlashes)

	if h.OpenAPI != nil {
		router.Method(http.MethodGet, swagger.DocumentPath, h.OpenAPI)
		router.Handle("/swagger/*", swagger.Handler())
	}

	router.Route("/api/v1", func(r chi.Router) {
		if h.Health != nil {
			r.Get("/health", h.Health.Health)
			r.Get("/ping", h.Health.Ping)
		}

		if h.Category != nil {
			r.Get("/categories", h.Category.GetCategories)
			r.Get("/categories/{id}", h.Category.GetCategory)
		}

		if h.Auth == nil {
			return
		}

		r.Route("/auth", func(ar chi.Router) {
			ar.Post("/signup", h.Auth.Signup)
			ar.Post("/login", h.Auth.Login)
			ar.Post("/refresh", h.Auth.RefreshToken)
			ar.Group(func(pr chi.Router) {
				pr.Use(h.Auth.AuthMiddleware)
				pr.Post("/logout", h.Auth.Logout)
				pr.Post("/change-password", h.Auth.ChangePassword)
			})
		})

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			if h.User != nil {
				pr.Get("/users/me", h.User.GetCurrentUser)
				pr.Patch("/users/me", h.User.UpdateCurrentUser)
			}

			// Categories are shared by every ledger.
			if h.Category != nil {
				pr.Group(func(ar chi.Router) {
					ar.Use(middleware.RequirePermissions(internal.PermissionManageCategories, internal.PermissionAdmin))
					ar.Post("/categories", h.Category.CreateCategory)
					ar.Patch("/categories/{id}", h.Category.UpdateCategory)
					ar.Delete("/categories/{id}", h.Category.DeleteCategory)
					ar.Post("/categories/{id}/restore", h.Category.RestoreCategory)
				})
			}

			if h.Transaction != nil {
				pr.Route("/transactions", func(tr chi.Router) {
					tr.Get("/", h.Transaction.GetTransactions)
					tr.Post("/", h.Transaction.RecordTransaction)
					tr.Get("/{id}", h.Transaction.GetTransaction)
					tr.Patch("/{id}", h.Transaction.UpdateTransaction)
					tr.Delete("/{id}", h.Transaction.DeleteTransaction)
				})
			}

			if h.Recurrence != nil {
				pr.Route("/recurrences", func(rr chi.Router) {
					rr.Get("/", h.Recurrence.GetRecurrences)
					rr.Post("/", h.Recurrence.CreateRecurrence)
					rr.Post("/generate", h.Recurrence.GenerateRecurrences)
					rr.Get("/{id}", h.Recurrence.GetRecurrence)
					rr.Post("/{id}/deactivate", h.Recurrence.DeactivateRecurrence)
				})
			}

			if h.Budget != nil {
				pr.Route("/budgets", func(br chi.Router) {
					br.Get("/", h.Budget.GetBudgets)
					br.Put("/", h.Budget.SetBudget)
					br.Get("/compare", h.Budget.CompareBudgets)
					br.Delete("/{id}", h.Budget.DeleteBudget)
				})
			}

			if h.Dashboard != nil {
				pr.Route("/dashboard", func(dr chi.Router) {
					dr.Get("/summary", h.Dashboard.GetSummary)
					dr.Get("/breakdown", h.Dashboard.GetBreakdown)
					dr.Get("/history", h.Dashboard.GetHistory)
					dr.Get("/trend", h.Dashboard.GetTrend)
					dr.Get("/forecast", h.Dashboard.GetForecast)
					dr.Get("/budgets", h.Dashboard.GetBudgets)
				})
			}
		})
	})
}
