package rest

import (
	"database/sql"
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/hasinarivo/expense-tracker/internal/transport/middleware"
)

// RegisterAllRoutes mounts every API route under /api/v1 and installs the
// global middleware stack.
func RegisterAllRoutes(router *chi.Mux, db *sql.DB, expenseHandler *ExpenseHandler, analyticsHandler *AnalyticsHandler, categoryHandler *CategoryHandler, settingsHandler *SettingsHandler, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS)
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		if expenseHandler != nil {
			r.Route("/expenses", func(er chi.Router) {
				er.Post("/", expenseHandler.CreateExpense)
				er.Get("/", expenseHandler.ListExpenses)
				er.Delete("/", expenseHandler.DeleteExpenses)
				er.Patch("/{id}", expenseHandler.UpdateExpense)
				er.Delete("/{id}", expenseHandler.DeleteExpense)
			})
		}

		if analyticsHandler != nil {
			r.Route("/analytics", func(ar chi.Router) {
				ar.Get("/summary", analyticsHandler.GetSummary)
				ar.Get("/monthly", analyticsHandler.GetMonthlySeries)
			})
		}

		if categoryHandler != nil {
			r.Get("/categories", categoryHandler.GetCategories)
		}

		if settingsHandler != nil {
			r.Get("/settings", settingsHandler.GetSettings)
			r.Put("/settings", settingsHandler.UpdateSettings)
		}
	})
}
