package rest

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/hasinarivo/expense-tracker/internal/settings"
	"github.com/hasinarivo/expense-tracker/internal/transport"
	"github.com/hasinarivo/expense-tracker/pkg/logger"
)

// SettingsServiceAPI exposes the user preference operations.
type SettingsServiceAPI interface {
	Get(ctx context.Context) (settings.Settings, error)
	Update(ctx context.Context, dto settings.UpdateSettingsDTO) (settings.Settings, error)
}

type SettingsHandler struct {
	*transport.BaseHandler
	Service SettingsServiceAPI
}

func NewSettingsHandler(service SettingsServiceAPI) *SettingsHandler {
	return &SettingsHandler{
		BaseHandler: transport.NewBaseHandler(logger.LoggerWrapper()),
		Service:     service,
	}
}

// GetSettings handles GET /settings.
func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	current, err := h.Service.Get(r.Context())
	if err != nil {
		h.Logger.Error("GetSettings: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, current)
}

// UpdateSettings handles PUT /settings with a merge patch body.
func (h *SettingsHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var dto settings.UpdateSettingsDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("UpdateSettings: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.Service.Update(r.Context(), dto)
	if err != nil {
		h.Logger.Error("UpdateSettings: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, updated)
}
