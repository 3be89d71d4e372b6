package rest

import (
	"context"
	"net/http"

	"github.com/hasinarivo/expense-tracker/internal/transport"
	"github.com/hasinarivo/expense-tracker/pkg/logger"
)

// CategoryProviderAPI lists the distinct category values observed in
// storage. Categories are free-form tags; this feeds suggestion lists,
// not a closed set.
type CategoryProviderAPI interface {
	Categories(ctx context.Context) ([]string, error)
}

type CategoryHandler struct {
	*transport.BaseHandler
	Provider CategoryProviderAPI
}

func NewCategoryHandler(provider CategoryProviderAPI) *CategoryHandler {
	return &CategoryHandler{
		BaseHandler: transport.NewBaseHandler(logger.LoggerWrapper()),
		Provider:    provider,
	}
}

// GetCategories handles GET /categories.
func (h *CategoryHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Provider.Categories(r.Context())
	if err != nil {
		h.Logger.Error("GetCategories: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	if categories == nil {
		categories = []string{}
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"categories": categories,
	})
}
