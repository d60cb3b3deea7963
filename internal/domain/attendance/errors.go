package attendance

import (
	"errors"
	"fmt"
)

// Attendance domain errors
var (
	ErrAlreadyOpen    = errors.New("you already have an open work session today")
	ErrNoOpenSession  = errors.New("you have no open work session to check out of")
	ErrOutsideWindow  = errors.New("check-in is outside the allowed time window")
	ErrRecordNotFound = errors.New("attendance record not found")
)

// OutsideGeofenceError carries the computed distance so the client can show
// how far away the employee is.
type OutsideGeofenceError struct {
	DistanceMeters float64
	RadiusMeters   float64
}

func (e *OutsideGeofenceError) Error() string {
	return fmt.Sprintf("you are outside the allowed area: %.0fm from the office (allowed %.0fm)",
		e.DistanceMeters, e.RadiusMeters)
}
