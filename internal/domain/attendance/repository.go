package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access for work attendance day records.
// Date parameters are calendar days in the organization timezone, truncated
// to midnight.
type AttendanceRepository interface {
	// GetByEmployeeAndDate returns the day record, or nil when the employee
	// has not checked in that day.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*WorkAttendanceDay, error)

	// GetByEmployeeAndDateForUpdate is GetByEmployeeAndDate with a row lock.
	// Must be called inside a transaction; the lock serializes concurrent
	// check-in/check-out transitions on the same (employee, day) key.
	GetByEmployeeAndDateForUpdate(ctx context.Context, employeeID string, date time.Time) (*WorkAttendanceDay, error)

	// Create inserts a new day record. Returns ErrAlreadyOpen when a record
	// for the same (employee, day) already exists, so a concurrent first
	// check-in resolves to a business error instead of a duplicate row.
	Create(ctx context.Context, day WorkAttendanceDay) (WorkAttendanceDay, error)

	// Update persists the sessions list and status of an existing record.
	Update(ctx context.Context, day WorkAttendanceDay) error

	// ListWithOpenSessions returns every day record that still has a session
	// with no checkout. Used by the scheduled sweep.
	ListWithOpenSessions(ctx context.Context) ([]WorkAttendanceDay, error)

	// ListByEmployee returns an employee's day records in [from, to].
	ListByEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]WorkAttendanceDay, error)

	// ListByDate returns every day record for a calendar day.
	ListByDate(ctx context.Context, date time.Time) ([]WorkAttendanceDay, error)
}
