package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/go-chi/chi"
	apperrors "github.com/hasinarivo/expense-tracker/internal"
	"github.com/hasinarivo/expense-tracker/internal/analytics"
	"github.com/hasinarivo/expense-tracker/internal/expense"
	"github.com/hasinarivo/expense-tracker/internal/transport"
	"github.com/hasinarivo/expense-tracker/pkg/logger"
)

// ExpenseServiceAPI is the slice of the expense store the HTTP layer uses.
type ExpenseServiceAPI interface {
	FetchExpenses(ctx context.Context) error
	Items() []expense.Expense
	AddExpense(ctx context.Context, dto expense.CreateExpenseDTO) (*expense.Expense, error)
	UpdateExpense(ctx context.Context, id int64, dto expense.UpdateExpenseDTO) error
	DeleteExpense(ctx context.Context, id int64) error
	DeleteAllExpenses(ctx context.Context) error
	DeleteFilteredExpenses(ctx context.Context, selector expense.RangeSelector) error
}

type ExpenseHandler struct {
	*transport.BaseHandler
	Service ExpenseServiceAPI
}

func NewExpenseHandler(service ExpenseServiceAPI) *ExpenseHandler {
	return &ExpenseHandler{
		BaseHandler: transport.NewBaseHandler(logger.LoggerWrapper()),
		Service:     service,
	}
}

// CreateExpense handles POST /expenses.
func (h *ExpenseHandler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	var dto expense.CreateExpenseDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateExpense: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	exp, err := h.Service.AddExpense(r.Context(), dto)
	if err != nil {
		h.Logger.Error("CreateExpense: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, exp)
}

// ListExpenses handles GET /expenses. The snapshot is refreshed first, so
// the response always reflects storage. Optional query parameters narrow
// the list: date (YYYY, YYYY-MM or YYYY-MM-DD), category (exact match)
// and search (case-insensitive title substring). Results are sorted by
// date descending for presentation.
func (h *ExpenseHandler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.FetchExpenses(r.Context()); err != nil {
		h.Logger.Error("ListExpenses: refresh failed", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	items := h.Service.Items()
	items = analytics.FilterByDateSelector(items, r.URL.Query().Get("date"))
	items = analytics.FilterByCategory(items, r.URL.Query().Get("category"))

	if search := strings.ToLower(r.URL.Query().Get("search")); search != "" {
		matched := make([]expense.Expense, 0, len(items))
		for _, item := range items {
			if strings.Contains(strings.ToLower(item.Title), search) {
				matched = append(matched, item)
			}
		}
		items = matched
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Date > items[j].Date
	})

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"expenses": items,
		"count":    len(items),
	})
}

// UpdateExpense handles PATCH /expenses/{id}. The body is a merge patch;
// omitted fields are preserved. Updating a missing id is a no-op.
func (h *ExpenseHandler) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.Logger.Error("UpdateExpense: invalid expense ID", "id", chi.URLParam(r, "id"))
		h.WriteError(w, http.StatusBadRequest, "invalid expense ID")
		return
	}

	var dto expense.UpdateExpenseDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("UpdateExpense: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Service.UpdateExpense(r.Context(), id, dto); err != nil {
		h.Logger.Error("UpdateExpense: service error", "error", err, "expense_id", id)
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteExpense handles DELETE /expenses/{id}. Missing ids are a no-op.
func (h *ExpenseHandler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.Logger.Error("DeleteExpense: invalid expense ID", "id", chi.URLParam(r, "id"))
		h.WriteError(w, http.StatusBadRequest, "invalid expense ID")
		return
	}

	if err := h.Service.DeleteExpense(r.Context(), id); err != nil {
		h.Logger.Error("DeleteExpense: service error", "error", err, "expense_id", id)
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteExpenses handles DELETE /expenses. Without query parameters it
// wipes the table. With year (and optionally month, day, both 1-based)
// it deletes the derived half-open calendar range. A day without a month
// is ignored.
func (h *ExpenseHandler) DeleteExpenses(w http.ResponseWriter, r *http.Request) {
	year, err := optionalIntParam(r, "year")
	if err != nil {
		h.HandleServiceError(w, apperrors.NewValidationError("year must be a number", apperrors.ErrCodeInvalidSelector))
		return
	}
	month, err := optionalIntParam(r, "month")
	if err != nil || (month != nil && (*month < 1 || *month > 12)) {
		h.HandleServiceError(w, apperrors.NewValidationError("month must be between 1 and 12", apperrors.ErrCodeInvalidSelector))
		return
	}
	day, err := optionalIntParam(r, "day")
	if err != nil || (day != nil && (*day < 1 || *day > 31)) {
		h.HandleServiceError(w, apperrors.NewValidationError("day must be between 1 and 31", apperrors.ErrCodeInvalidSelector))
		return
	}

	selector := expense.SelectorFromParts(year, month, day)
	if err := h.Service.DeleteFilteredExpenses(r.Context(), selector); err != nil {
		h.Logger.Error("DeleteExpenses: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func optionalIntParam(r *http.Request, name string) (*int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil, err
	}
	return &value, nil
}
