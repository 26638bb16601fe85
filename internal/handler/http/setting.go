package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/setting"
	"github.com/cmlabs-hris/attendance-engine/internal/handler/http/response"
)

type SettingHandler interface {
	GetClockOverride(w http.ResponseWriter, r *http.Request)
	UpdateClockOverride(w http.ResponseWriter, r *http.Request)
}

type settingHandlerImpl struct {
	settingService setting.SettingService
}

func NewSettingHandler(settingService setting.SettingService) SettingHandler {
	return &settingHandlerImpl{
		settingService: settingService,
	}
}

// GetClockOverride implements SettingHandler.
func (h *settingHandlerImpl) GetClockOverride(w http.ResponseWriter, r *http.Request) {
	result, err := h.settingService.GetClockOverride(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// UpdateClockOverride implements SettingHandler.
func (h *settingHandlerImpl) UpdateClockOverride(w http.ResponseWriter, r *http.Request) {
	var req setting.UpdateClockOverrideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode clock override", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.settingService.UpdateClockOverride(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Clock override updated", result)
}
