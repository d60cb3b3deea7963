package user

import "errors"

var (
	ErrEmployeeNotFound      = errors.New("employee not found")
	ErrEmployeeInactive      = errors.New("employee account is deactivated")
	ErrAdminAccessRequired   = errors.New("admin access required")
	ErrTrainerAccessRequired = errors.New("trainer access required")
)
