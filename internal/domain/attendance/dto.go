package attendance

import (
	"time"

	"github.com/orgpulse/attendance-backend-go/internal/pkg/validator"
)

// ========================================
// WORK ATTENDANCE DTOs
// ========================================

// Location is a client-reported GPS fix.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Accuracy  float64 `json:"accuracy,omitempty"`
}

type CheckInRequest struct {
	// EmployeeID comes from the verified token, not the request body.
	EmployeeID string    `json:"-"`
	Location   *Location `json:"location"`
}

func (r *CheckInRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Location != nil {
		if !validator.IsValidLatitude(r.Location.Latitude) {
			errs = append(errs, validator.ValidationError{
				Field:   "location.latitude",
				Message: "latitude must be between -90 and 90",
			})
		}
		if !validator.IsValidLongitude(r.Location.Longitude) {
			errs = append(errs, validator.ValidationError{
				Field:   "location.longitude",
				Message: "longitude must be between -180 and 180",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ValidationLocationRequired is the error for geofenced deployments where a
// request arrived without a GPS fix.
func ValidationLocationRequired() error {
	return validator.ValidationErrors{{
		Field:   "location",
		Message: "location is required",
	}}
}

type CheckOutRequest struct {
	EmployeeID string    `json:"-"`
	Location   *Location `json:"location"`
}

func (r *CheckOutRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Location != nil {
		if !validator.IsValidLatitude(r.Location.Latitude) {
			errs = append(errs, validator.ValidationError{
				Field:   "location.latitude",
				Message: "latitude must be between -90 and 90",
			})
		}
		if !validator.IsValidLongitude(r.Location.Longitude) {
			errs = append(errs, validator.ValidationError{
				Field:   "location.longitude",
				Message: "longitude must be between -180 and 180",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CheckInResponse struct {
	CheckInTime string `json:"check_in_time"`
	Status      string `json:"status"`
}

type CheckOutResponse struct {
	CheckOutTime string `json:"check_out_time"`
	SessionCount int    `json:"session_count"`
	// AutoCheckout is true when the manual checkout arrived past the
	// auto-checkout boundary and the sweeper closed the session instead.
	AutoCheckout bool `json:"auto_checkout"`
}

type SessionResponse struct {
	CheckIn    string  `json:"check_in"`
	CheckOut   *string `json:"check_out"`
	AutoClosed bool    `json:"auto_closed"`
}

type DayResponse struct {
	ID          string            `json:"id"`
	EmployeeID  string            `json:"employee_id"`
	Date        string            `json:"date"`
	Status      string            `json:"status"`
	Sessions    []SessionResponse `json:"sessions"`
	WorkMinutes int               `json:"work_minutes"`
}

type MyAttendanceFilter struct {
	StartDate *string
	EndDate   *string
}

func (f *MyAttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.StartDate != nil {
		if _, ok := validator.IsValidDate(*f.StartDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}
	if f.EndDate != nil {
		if _, ok := validator.IsValidDate(*f.EndDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ListFilter struct {
	Date *string
}

func (f *ListFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Date != nil {
		if _, ok := validator.IsValidDate(*f.Date); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "date",
				Message: "date must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// MapDayToResponse converts a day record to its API shape.
func MapDayToResponse(day WorkAttendanceDay) DayResponse {
	sessions := make([]SessionResponse, 0, len(day.Sessions))
	workMinutes := 0
	for _, s := range day.Sessions {
		resp := SessionResponse{
			CheckIn:    s.CheckIn.Format(time.RFC3339),
			AutoClosed: s.AutoClosed,
		}
		if s.CheckOut != nil {
			out := s.CheckOut.Format(time.RFC3339)
			resp.CheckOut = &out
			workMinutes += int(s.CheckOut.Sub(s.CheckIn).Minutes())
		}
		sessions = append(sessions, resp)
	}

	return DayResponse{
		ID:          day.ID,
		EmployeeID:  day.EmployeeID,
		Date:        day.Date.Format("2006-01-02"),
		Status:      string(day.Status),
		Sessions:    sessions,
		WorkMinutes: workMinutes,
	}
}
