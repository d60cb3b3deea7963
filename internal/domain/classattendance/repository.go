package classattendance

import (
	"context"
	"time"
)

// ClassAttendanceRepository defines data access for class attendance day
// records. Date parameters are calendar days in the organization timezone.
type ClassAttendanceRepository interface {
	// GetByTrainerClassAndDate returns the day record for (trainer, class,
	// day), or nil when none exists.
	GetByTrainerClassAndDate(ctx context.Context, trainerID, classID string, date time.Time) (*ClassAttendanceDay, error)

	// GetByTrainerClassAndDateForUpdate is the row-locked variant for use
	// inside a transaction.
	GetByTrainerClassAndDateForUpdate(ctx context.Context, trainerID, classID string, date time.Time) (*ClassAttendanceDay, error)

	// GetOpenByTrainerAndDate returns the trainer's open class session for
	// the day across all classes, or nil. Backs the one-open-class invariant.
	GetOpenByTrainerAndDate(ctx context.Context, trainerID string, date time.Time) (*ClassAttendanceDay, error)

	// Create inserts a new record. Returns ErrAlreadyCheckedIn when the
	// (trainer, class, day) key already exists.
	Create(ctx context.Context, day ClassAttendanceDay) (ClassAttendanceDay, error)

	// Update persists checkout and auto-checkout changes.
	Update(ctx context.Context, day ClassAttendanceDay) error

	// ListOpen returns every record with no checkout. Used by the scheduled
	// sweep.
	ListOpen(ctx context.Context) ([]ClassAttendanceDay, error)

	// ListByTrainer returns a trainer's records in [from, to].
	ListByTrainer(ctx context.Context, trainerID string, from, to time.Time) ([]ClassAttendanceDay, error)
}
