package user

import "time"

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleTrainer  Role = "trainer"
	RoleEmployee Role = "employee"
)

type Employee struct {
	ID           string
	Email        string
	PasswordHash string
	FullName     string
	Role         Role
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CanCheckIntoClasses reports whether the role is allowed to run class
// sessions.
func (r Role) CanCheckIntoClasses() bool {
	return r == RoleTrainer || r == RoleAdmin
}
