package classattendance

import (
	"time"

	"github.com/orgpulse/attendance-backend-go/internal/pkg/validator"
)

// ========================================
// CLASS ATTENDANCE DTOs
// ========================================

type CheckInRequest struct {
	// TrainerID comes from the verified token, not the request body.
	TrainerID string `json:"-"`
	ClassID   string `json:"class_id"`
	// ExplicitCheckoutSupported is set by the transport caller for its
	// calling convention, never inferred from payload shape. Callers that
	// cannot issue a later checkout get the session pre-closed at the class
	// duration cap.
	ExplicitCheckoutSupported bool `json:"-"`
}

func (r *CheckInRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ClassID) {
		errs = append(errs, validator.ValidationError{
			Field:   "class_id",
			Message: "class_id is required",
		})
	} else if !validator.IsValidUUID(r.ClassID) {
		errs = append(errs, validator.ValidationError{
			Field:   "class_id",
			Message: "class_id must be a valid UUID",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CheckOutRequest struct {
	TrainerID string `json:"-"`
	ClassID   string `json:"class_id"`
}

func (r *CheckOutRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ClassID) {
		errs = append(errs, validator.ValidationError{
			Field:   "class_id",
			Message: "class_id is required",
		})
	} else if !validator.IsValidUUID(r.ClassID) {
		errs = append(errs, validator.ValidationError{
			Field:   "class_id",
			Message: "class_id must be a valid UUID",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CheckInResponse struct {
	ClassID     string `json:"class_id"`
	CheckInTime string `json:"check_in_time"`
	// ScheduledCheckOut is set when the session was pre-closed for a caller
	// without explicit checkout support.
	ScheduledCheckOut *string `json:"scheduled_check_out,omitempty"`
	ReCheckIn         bool    `json:"re_check_in"`
}

type CheckOutResponse struct {
	ClassID         string `json:"class_id"`
	CheckOutTime    string `json:"check_out_time"`
	DurationMinutes int    `json:"duration_minutes"`
}

type DayResponse struct {
	ID           string  `json:"id"`
	ClassID      string  `json:"class_id"`
	ClassName    string  `json:"class_name,omitempty"`
	Date         string  `json:"date"`
	CheckInTime  string  `json:"check_in_time"`
	CheckOutTime *string `json:"check_out_time"`
	Status       string  `json:"status"`
	AutoCheckout bool    `json:"auto_checkout"`
}

type MyClassAttendanceFilter struct {
	StartDate *string
	EndDate   *string
}

func (f *MyClassAttendanceFilter) Validate() error {
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

// MapDayToResponse converts a class day record to its API shape.
func MapDayToResponse(day ClassAttendanceDay) DayResponse {
	resp := DayResponse{
		ID:           day.ID,
		ClassID:      day.ClassID,
		ClassName:    day.ClassName,
		Date:         day.Date.Format("2006-01-02"),
		CheckInTime:  day.CheckInTime.Format(time.RFC3339),
		Status:       string(day.Status),
		AutoCheckout: day.AutoCheckout,
	}
	if day.CheckOutTime != nil {
		out := day.CheckOutTime.Format(time.RFC3339)
		resp.CheckOutTime = &out
	}
	return resp
}
