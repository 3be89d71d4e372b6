package rest

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/hasinarivo/expense-tracker/internal/analytics"
	"github.com/hasinarivo/expense-tracker/internal/expense"
	"github.com/hasinarivo/expense-tracker/internal/transport"
	"github.com/hasinarivo/expense-tracker/pkg/logger"
)

// SnapshotAPI is the read-only view of the store the analytics endpoints
// derive from. The aggregation itself is pure and never touches storage.
type SnapshotAPI interface {
	FetchExpenses(ctx context.Context) error
	Items() []expense.Expense
}

type AnalyticsHandler struct {
	*transport.BaseHandler
	Store SnapshotAPI
}

func NewAnalyticsHandler(store SnapshotAPI) *AnalyticsHandler {
	return &AnalyticsHandler{
		BaseHandler: transport.NewBaseHandler(logger.LoggerWrapper()),
		Store:       store,
	}
}

type summaryResponse struct {
	Reference     time.Time                `json:"reference"`
	Totals        analytics.GranularTotals `json:"totals"`
	TopCategories topCategories            `json:"top_categories"`
	TopShare      analytics.CategoryShare  `json:"top_share"`
}

type topCategories struct {
	Year  string `json:"year"`
	Month string `json:"month"`
	Day   string `json:"day"`
}

// GetSummary handles GET /analytics/summary. An optional date query
// parameter (RFC3339) picks the reference instant; it defaults to now.
func (h *AnalyticsHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	ref := time.Now().UTC()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := expense.ParseDate(raw)
		if err != nil {
			h.Logger.Error("GetSummary: invalid reference date", "date", raw)
			h.WriteError(w, http.StatusBadRequest, "date must be an ISO-8601 timestamp")
			return
		}
		ref = parsed
	}

	if err := h.Store.FetchExpenses(r.Context()); err != nil {
		h.Logger.Error("GetSummary: refresh failed", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	totals := analytics.SumByGranularity(h.Store.Items(), ref)

	h.WriteJSON(w, http.StatusOK, summaryResponse{
		Reference: ref,
		Totals:    totals,
		TopCategories: topCategories{
			Year:  analytics.TopCategory(totals.Year),
			Month: analytics.TopCategory(totals.Month),
			Day:   analytics.TopCategory(totals.Day),
		},
		TopShare: analytics.TopCategoryShare(totals.Month),
	})
}

// GetMonthlySeries handles GET /analytics/monthly?year=YYYY. The series
// always has twelve buckets; months without expenses are zero.
func (h *AnalyticsHandler) GetMonthlySeries(w http.ResponseWriter, r *http.Request) {
	year := time.Now().UTC().Year()
	if raw := r.URL.Query().Get("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			h.Logger.Error("GetMonthlySeries: invalid year", "year", raw)
			h.WriteError(w, http.StatusBadRequest, "invalid year")
			return
		}
		year = parsed
	}

	if err := h.Store.FetchExpenses(r.Context()); err != nil {
		h.Logger.Error("GetMonthlySeries: refresh failed", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	series := analytics.MonthlySeries(h.Store.Items(), year)

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"year":   year,
		"series": series,
	})
}
