package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/timenest/timenest-backend-go/internal/domain/attendance"
	"github.com/timenest/timenest-backend-go/internal/domain/employee"
	"github.com/timenest/timenest-backend-go/internal/domain/report"
	"github.com/timenest/timenest-backend-go/internal/pkg/jwt"
	"github.com/timenest/timenest-backend-go/internal/pkg/validator"
)

var ErrAdminRequired = errors.New("admin privilege required")

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, "Validation failed", validationErrs.ToMap())
		return
	}

	// Check-in/check-out ordering
	var transitionErr *attendance.TransitionError
	if errors.As(err, &transitionErr) {
		IllegalTransition(w, transitionErr.Message)
		return
	}

	switch {
	// Auth errors
	case errors.Is(err, jwt.ErrInvalidClaims):
		Unauthorized(w, "Invalid or missing token")
	case errors.Is(err, ErrAdminRequired):
		Forbidden(w, "Admin privilege required")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrUserIDRequired):
		Unauthorized(w, "User identity is required")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Report domain errors
	case errors.Is(err, report.ErrInvalidFormat):
		ValidationError(w, err.Error(), map[string]string{"format": err.Error()})
	case errors.Is(err, report.ErrInvalidWeekOffset):
		ValidationError(w, err.Error(), map[string]string{"weekOffset": err.Error()})

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
