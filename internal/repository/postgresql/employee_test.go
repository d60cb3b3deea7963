package postgresql

import (
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/orgpulse/attendance-backend-go/internal/domain/user"
	pgxmock "github.com/pashagolub/pgxmock/v4"
)

func TestScanEmployee_NoRowsIsEmployeeNotFound(t *testing.T) {
	row := stubRow{scanFn: func(dest ...interface{}) error {
		return pgx.ErrNoRows
	}}

	_, err := scanEmployee(row)
	if !errors.Is(err, user.ErrEmployeeNotFound) {
		t.Fatalf("expected ErrEmployeeNotFound, got %v", err)
	}
}

func TestScanEmployee_Success(t *testing.T) {
	now := time.Now().UTC()

	row := stubRow{scanFn: func(dest ...interface{}) error {
		if len(dest) != 8 {
			return errors.New("unexpected dest length")
		}
		*(dest[0].(*string)) = "emp-1"
		*(dest[1].(*string)) = "trainer@example.com"
		*(dest[2].(*string)) = "$2a$10$hash"
		*(dest[3].(*string)) = "Jordan Mwangi"
		*(dest[4].(*user.Role)) = user.RoleTrainer
		*(dest[5].(*bool)) = true
		*(dest[6].(*time.Time)) = now
		*(dest[7].(*time.Time)) = now
		return nil
	}}

	emp, err := scanEmployee(row)
	if err != nil {
		t.Fatalf("scanEmployee returned error: %v", err)
	}
	if emp.ID != "emp-1" || emp.Role != user.RoleTrainer || !emp.IsActive {
		t.Fatalf("unexpected employee %+v", emp)
	}
}

func TestGetByEmail_NoRows(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	ctx := txContext(t, mock)
	repo := NewEmployeeRepository(testDB())

	mock.ExpectQuery("SELECT (.+) FROM employees").
		WithArgs("ghost@example.com").
		WillReturnError(pgx.ErrNoRows)

	_, err = repo.GetByEmail(ctx, "ghost@example.com")
	if !errors.Is(err, user.ErrEmployeeNotFound) {
		t.Fatalf("expected ErrEmployeeNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
