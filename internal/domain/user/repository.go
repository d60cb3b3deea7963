package user

import "context"

// EmployeeRepository defines data access for employee identities.
type EmployeeRepository interface {
	// GetByID retrieves an employee by ID
	GetByID(ctx context.Context, id string) (Employee, error)

	// GetByEmail retrieves an employee by email, used at login
	GetByEmail(ctx context.Context, email string) (Employee, error)
}
