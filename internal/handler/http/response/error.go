package response

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/orgpulse/attendance-backend-go/internal/domain/assignment"
	"github.com/orgpulse/attendance-backend-go/internal/domain/attendance"
	"github.com/orgpulse/attendance-backend-go/internal/domain/auth"
	"github.com/orgpulse/attendance-backend-go/internal/domain/classattendance"
	"github.com/orgpulse/attendance-backend-go/internal/domain/user"
	"github.com/orgpulse/attendance-backend-go/internal/pkg/database"
	"github.com/orgpulse/attendance-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Geofence rejections carry the computed distance for the client
	var geofenceErr *attendance.OutsideGeofenceError
	if errors.As(err, &geofenceErr) {
		UnprocessableEntity(w, "OUTSIDE_GEOFENCE", geofenceErr.Error(), map[string]string{
			"distance_meters": fmt.Sprintf("%.0f", geofenceErr.DistanceMeters),
			"radius_meters":   fmt.Sprintf("%.0f", geofenceErr.RadiusMeters),
		})
		return
	}

	var inClassErr *classattendance.AlreadyInClassError
	if errors.As(err, &inClassErr) {
		Conflict(w, inClassErr.Error())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")

	// Employee identity errors
	case errors.Is(err, user.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, user.ErrEmployeeInactive):
		Forbidden(w, "Employee account is deactivated")
	case errors.Is(err, user.ErrAdminAccessRequired):
		Forbidden(w, "Admin access required")
	case errors.Is(err, user.ErrTrainerAccessRequired):
		Forbidden(w, "Trainer access required")

	// Work attendance errors
	case errors.Is(err, attendance.ErrAlreadyOpen):
		Conflict(w, "An open session already exists for today")
	case errors.Is(err, attendance.ErrNoOpenSession):
		NotFound(w, "No open session to check out from")
	case errors.Is(err, attendance.ErrOutsideWindow):
		UnprocessableEntity(w, "OUTSIDE_TIME_WINDOW", err.Error(), nil)
	case errors.Is(err, attendance.ErrRecordNotFound):
		NotFound(w, "Attendance record not found")

	// Class attendance errors
	case errors.Is(err, classattendance.ErrNotAssigned):
		Forbidden(w, "No active assignment for this class")
	case errors.Is(err, classattendance.ErrWorkNotStarted):
		Conflict(w, "Work check-in is required before class check-in")
	case errors.Is(err, classattendance.ErrAlreadyCheckedIn):
		Conflict(w, "Already checked into this class today")
	case errors.Is(err, classattendance.ErrAlreadyCheckedOut):
		Conflict(w, "Already checked out of this class today")
	case errors.Is(err, classattendance.ErrNotCheckedIn):
		NotFound(w, "No class check-in found for today")
	case errors.Is(err, classattendance.ErrClassNotFound),
		errors.Is(err, assignment.ErrClassNotFound):
		NotFound(w, "Class not found")
	case errors.Is(err, classattendance.ErrRecordNotFound):
		NotFound(w, "Class attendance record not found")

	// Store availability
	case errors.Is(err, database.ErrStoreUnavailable):
		ServiceUnavailable(w, "Storage temporarily unavailable, please retry")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
