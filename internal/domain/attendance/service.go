package attendance

import "context"

// AttendanceService validates and applies work session transitions.
type AttendanceService interface {
	// CheckIn opens a new work session for today
	CheckIn(ctx context.Context, req CheckInRequest) (CheckInResponse, error)

	// CheckOut closes the open work session
	CheckOut(ctx context.Context, req CheckOutRequest) (CheckOutResponse, error)

	// GetMyAttendance retrieves day records for the authenticated employee
	GetMyAttendance(ctx context.Context, filter MyAttendanceFilter) ([]DayResponse, error)

	// ListAttendance retrieves day records across employees (admin)
	ListAttendance(ctx context.Context, filter ListFilter) ([]DayResponse, error)
}

// Sweeper closes sessions that crossed their time boundary. The engine runs
// it before every mutating action; a scheduled job additionally runs the full
// sweep for employees who never issue another request.
type Sweeper interface {
	SweepEmployee(ctx context.Context, employeeID string) error
}
