package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth errors
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidDeviceKey):
		Unauthorized(w, "Invalid device key")
	case errors.Is(err, auth.ErrEmployeeClaimMissing):
		Forbidden(w, "No employee associated with this token")
	case errors.Is(err, auth.ErrAdminPrivilegeRequired):
		Forbidden(w, "Admin privilege required")

	// Attendance rule rejections
	case errors.Is(err, attendance.ErrDuplicateSession):
		Conflict(w, err.Error())
	case attendance.IsRejected(err):
		Rejected(w, err.Error())
	case errors.Is(err, attendance.ErrNoOpenSession):
		NotFound(w, err.Error())
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Default
	default:
		slog.Error("Unhandled request error", "error", err, "infrastructure", attendance.IsInfrastructure(err))
		InternalServerError(w, "An unexpected error occurred")
	}
}
