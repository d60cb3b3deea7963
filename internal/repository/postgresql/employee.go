package postgresql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/orgpulse/attendance-backend-go/internal/domain/user"
	"github.com/orgpulse/attendance-backend-go/internal/pkg/database"
)

type employeeRepository struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) user.EmployeeRepository {
	return &employeeRepository{db: db}
}

const employeeColumns = `id, email, password_hash, full_name, role, is_active, created_at, updated_at`

func scanEmployee(row pgx.Row) (user.Employee, error) {
	var emp user.Employee
	err := row.Scan(
		&emp.ID, &emp.Email, &emp.PasswordHash, &emp.FullName, &emp.Role,
		&emp.IsActive, &emp.CreatedAt, &emp.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.Employee{}, user.ErrEmployeeNotFound
		}
		return user.Employee{}, err
	}
	return emp, nil
}

// GetByID implements user.EmployeeRepository.
func (r *employeeRepository) GetByID(ctx context.Context, id string) (user.Employee, error) {
	ctx, cancel := r.db.WithQueryTimeout(ctx)
	defer cancel()

	q := GetQuerier(ctx, r.db)

	emp, err := scanEmployee(q.QueryRow(ctx, `
		SELECT `+employeeColumns+`
		FROM employees
		WHERE id = $1
	`, id))
	if err != nil {
		if errors.Is(err, user.ErrEmployeeNotFound) {
			return user.Employee{}, err
		}
		return user.Employee{}, wrapStoreErr("get employee by id", err)
	}

	return emp, nil
}

// GetByEmail implements user.EmployeeRepository.
func (r *employeeRepository) GetByEmail(ctx context.Context, email string) (user.Employee, error) {
	ctx, cancel := r.db.WithQueryTimeout(ctx)
	defer cancel()

	q := GetQuerier(ctx, r.db)

	emp, err := scanEmployee(q.QueryRow(ctx, `
		SELECT `+employeeColumns+`
		FROM employees
		WHERE email = $1
	`, email))
	if err != nil {
		if errors.Is(err, user.ErrEmployeeNotFound) {
			return user.Employee{}, err
		}
		return user.Employee{}, wrapStoreErr("get employee by email", err)
	}

	return emp, nil
}
