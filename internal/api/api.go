package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"wealthlog/pkg/wealthlog"
)

// NewRouter builds the HTTP API router.
func NewRouter(core *wealthlog.Core, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(recoveryLoggingMiddleware(logger))
	r.Use(requestLoggingMiddleware(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	h := &handler{core: core, logger: logger}

	r.Get("/api/health", h.health)

	// Holdings
	r.Get("/api/holdings", h.listHoldings)
	r.Post("/api/holdings", h.addHolding)
	r.Get("/api/holdings/{id}", h.getHolding)
	r.Put("/api/holdings/{id}", h.updateHolding)
	r.Delete("/api/holdings/{id}", h.deleteHolding)
	r.Post("/api/holdings/{id}/withdraw", h.withdrawHolding)
	r.Get("/api/holdings/{id}/metrics", h.holdingMetrics)
	r.Get("/api/holdings/{id}/transactions", h.holdingTransactions)

	// Transactions
	r.Post("/api/transactions", h.addTransaction)
	r.Get("/api/transactions/{id}", h.getTransaction)
	r.Put("/api/transactions/{id}", h.updateTransaction)
	r.Delete("/api/transactions/{id}", h.deleteTransaction)

	// Portfolio
	r.Get("/api/portfolio/stats", h.portfolioStats)
	r.Get("/api/portfolio/period", h.periodStats)
	r.Get("/api/portfolio/valuation", h.portfolioValuation)

	// Exchange rates
	r.Get("/api/exchange-rates", h.getExchangeRates)
	r.Put("/api/exchange-rates", h.setExchangeRate)

	// AI insight
	r.Get("/api/insight/settings", h.getInsightSettings)
	r.Put("/api/insight/settings", h.setInsightSettings)
	r.Post("/api/insight", h.portfolioInsight)

	return r
}

type handler struct {
	core   *wealthlog.Core
	logger *slog.Logger
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
