package assignment

import "time"

// Class is a scheduled training class with a planned duration.
type Class struct {
	ID            string
	Name          string
	DurationHours int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ClassAssignment links a trainer to a class. Only active assignments permit
// class check-in.
type ClassAssignment struct {
	ID        string
	TrainerID string
	ClassID   string
	IsActive  bool
	CreatedAt time.Time
}
