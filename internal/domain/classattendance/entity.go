package classattendance

import "time"

type Status string

const (
	StatusCheckedIn  Status = "checked_in"
	StatusCheckedOut Status = "checked_out"
)

// ClassAttendanceDay is the per-(trainer, class, calendar day) record.
// AutoCheckout marks a system-applied checkout; only such sessions may be
// re-entered the same day. Created on class check-in, updated on checkout or
// re-check-in, never deleted.
type ClassAttendanceDay struct {
	ID           string
	TrainerID    string
	ClassID      string
	Date         time.Time
	CheckInTime  time.Time
	CheckOutTime *time.Time
	Status       Status
	AutoCheckout bool
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Joined for responses
	ClassName string
}

func (d *ClassAttendanceDay) IsOpen() bool {
	return d.CheckOutTime == nil
}
