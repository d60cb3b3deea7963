package classattendance

import "context"

// ClassAttendanceService validates and applies class session transitions.
// A class session only exists nested inside an open work session.
type ClassAttendanceService interface {
	// CheckIn opens (or re-opens after an auto-close) a class session
	CheckIn(ctx context.Context, req CheckInRequest) (CheckInResponse, error)

	// CheckOut closes the trainer's session for the class
	CheckOut(ctx context.Context, req CheckOutRequest) (CheckOutResponse, error)

	// GetMyClassAttendance retrieves records for the authenticated trainer
	GetMyClassAttendance(ctx context.Context, filter MyClassAttendanceFilter) ([]DayResponse, error)
}
