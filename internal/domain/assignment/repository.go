package assignment

import "context"

// AssignmentRepository answers the class check-in preconditions: the class
// exists and the trainer holds an active assignment for it.
type AssignmentRepository interface {
	// IsAssigned reports whether the trainer has an active assignment
	IsAssigned(ctx context.Context, trainerID, classID string) (bool, error)

	// GetClass retrieves a class by ID
	GetClass(ctx context.Context, classID string) (Class, error)
}
