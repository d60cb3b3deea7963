package attendance

import (
	"time"
)

type Status string

const (
	StatusPresent      Status = "present"
	StatusLate         Status = "late"
	StatusAbsent       Status = "absent"
	StatusNotCheckedIn Status = "not_checked_in"
)

// Session is one check-in/check-out pair within a work day. AutoClosed marks
// sessions the sweeper closed rather than the employee.
type Session struct {
	CheckIn    time.Time  `json:"check_in"`
	CheckOut   *time.Time `json:"check_out"`
	AutoClosed bool       `json:"auto_closed"`
}

// WorkAttendanceDay is the per-(employee, calendar day) record. Sessions are
// ordered by insertion, which is chronological order. The record is append
// only: created on first check-in, mutated by later check-ins/outs and the
// sweeper, never deleted.
type WorkAttendanceDay struct {
	ID         string
	EmployeeID string
	Date       time.Time
	Sessions   []Session
	Status     Status
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// OpenSessionIndex returns the index of the session with no checkout, or -1.
// The day invariant permits at most one.
func (d *WorkAttendanceDay) OpenSessionIndex() int {
	for i := range d.Sessions {
		if d.Sessions[i].CheckOut == nil {
			return i
		}
	}
	return -1
}

func (d *WorkAttendanceDay) HasOpenSession() bool {
	return d.OpenSessionIndex() >= 0
}
