package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine/internal/handler/http/response"
)

type DeviceHandler interface {
	Punch(w http.ResponseWriter, r *http.Request)
}

type deviceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewDeviceHandler(attendanceService attendance.AttendanceService) DeviceHandler {
	return &deviceHandlerImpl{
		attendanceService: attendanceService,
	}
}

// Punch implements DeviceHandler.
func (h *deviceHandlerImpl) Punch(w http.ResponseWriter, r *http.Request) {
	var req attendance.DevicePunchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode device punch", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.attendanceService.Punch(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if result.Action == attendance.ActionTimeIn {
		response.Created(w, "Time in successful", result)
		return
	}
	response.SuccessWithMessage(w, "Time out successful", result)
}
