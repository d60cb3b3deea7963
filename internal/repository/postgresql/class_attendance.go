package postgresql

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/orgpulse/attendance-backend-go/internal/domain/classattendance"
	"github.com/orgpulse/attendance-backend-go/internal/pkg/database"
)

type classAttendanceRepository struct {
	db *database.DB
}

func NewClassAttendanceRepository(db *database.DB) classattendance.ClassAttendanceRepository {
	return &classAttendanceRepository{db: db}
}

const classDayColumns = `ca.id, ca.trainer_id, ca.class_id, ca.date, ca.check_in_time,
	   ca.check_out_time, ca.status, ca.auto_checkout, ca.created_at, ca.updated_at,
	   c.name AS class_name`

func scanClassDay(row pgx.Row) (classattendance.ClassAttendanceDay, error) {
	var day classattendance.ClassAttendanceDay
	err := row.Scan(
		&day.ID, &day.TrainerID, &day.ClassID, &day.Date, &day.CheckInTime,
		&day.CheckOutTime, &day.Status, &day.AutoCheckout, &day.CreatedAt, &day.UpdatedAt,
		&day.ClassName,
	)
	if err != nil {
		return classattendance.ClassAttendanceDay{}, err
	}
	return day, nil
}

func (r *classAttendanceRepository) getByTrainerClassAndDate(ctx context.Context, trainerID, classID string, date time.Time, forUpdate bool) (*classattendance.ClassAttendanceDay, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + classDayColumns + `
		FROM class_attendance_days ca
		LEFT JOIN classes c ON c.id = ca.class_id
		WHERE ca.trainer_id = $1
		  AND ca.class_id = $2
		  AND ca.date = $3
	`
	if forUpdate {
		// Lock only the attendance row; the class join is read-only.
		query += " FOR UPDATE OF ca"
	}

	day, err := scanClassDay(q.QueryRow(ctx, query, trainerID, classID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapStoreErr("get class attendance day", err)
	}

	return &day, nil
}

// GetByTrainerClassAndDate implements classattendance.ClassAttendanceRepository.
func (r *classAttendanceRepository) GetByTrainerClassAndDate(ctx context.Context, trainerID, classID string, date time.Time) (*classattendance.ClassAttendanceDay, error) {
	ctx, cancel := r.db.WithQueryTimeout(ctx)
	defer cancel()
	return r.getByTrainerClassAndDate(ctx, trainerID, classID, date, false)
}

// GetByTrainerClassAndDateForUpdate implements classattendance.ClassAttendanceRepository.
func (r *classAttendanceRepository) GetByTrainerClassAndDateForUpdate(ctx context.Context, trainerID, classID string, date time.Time) (*classattendance.ClassAttendanceDay, error) {
	return r.getByTrainerClassAndDate(ctx, trainerID, classID, date, true)
}

// GetOpenByTrainerAndDate implements classattendance.ClassAttendanceRepository.
func (r *classAttendanceRepository) GetOpenByTrainerAndDate(ctx context.Context, trainerID string, date time.Time) (*classattendance.ClassAttendanceDay, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + classDayColumns + `
		FROM class_attendance_days ca
		LEFT JOIN classes c ON c.id = ca.class_id
		WHERE ca.trainer_id = $1
		  AND ca.date = $2
		  AND ca.check_out_time IS NULL
		LIMIT 1
	`

	day, err := scanClassDay(q.QueryRow(ctx, query, trainerID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapStoreErr("get open class session", err)
	}

	return &day, nil
}

// Create implements classattendance.ClassAttendanceRepository.
func (r *classAttendanceRepository) Create(ctx context.Context, day classattendance.ClassAttendanceDay) (classattendance.ClassAttendanceDay, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO class_attendance_days (
			trainer_id, class_id, date, check_in_time, check_out_time, status, auto_checkout
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		day.TrainerID,
		day.ClassID,
		day.Date,
		day.CheckInTime,
		day.CheckOutTime,
		day.Status,
		day.AutoCheckout,
	).Scan(&day.ID, &day.CreatedAt, &day.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return classattendance.ClassAttendanceDay{}, classattendance.ErrAlreadyCheckedIn
		}
		return classattendance.ClassAttendanceDay{}, wrapStoreErr("create class attendance day", err)
	}

	return day, nil
}

// Update implements classattendance.ClassAttendanceRepository.
func (r *classAttendanceRepository) Update(ctx context.Context, day classattendance.ClassAttendanceDay) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE class_attendance_days
		SET check_in_time = $2, check_out_time = $3, status = $4, auto_checkout = $5, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query, day.ID, day.CheckInTime, day.CheckOutTime, day.Status, day.AutoCheckout)
	if err != nil {
		return wrapStoreErr("update class attendance day", err)
	}
	if tag.RowsAffected() == 0 {
		return classattendance.ErrRecordNotFound
	}

	return nil
}

// ListOpen implements classattendance.ClassAttendanceRepository.
func (r *classAttendanceRepository) ListOpen(ctx context.Context) ([]classattendance.ClassAttendanceDay, error) {
	ctx, cancel := r.db.WithQueryTimeout(ctx)
	defer cancel()

	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + classDayColumns + `
		FROM class_attendance_days ca
		LEFT JOIN classes c ON c.id = ca.class_id
		WHERE ca.check_out_time IS NULL
		ORDER BY ca.check_in_time
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, wrapStoreErr("list open class sessions", err)
	}
	defer rows.Close()

	var days []classattendance.ClassAttendanceDay
	for rows.Next() {
		day, err := scanClassDay(rows)
		if err != nil {
			return nil, wrapStoreErr("scan class attendance day", err)
		}
		days = append(days, day)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapStoreErr("list open class sessions", err)
	}

	return days, nil
}

// ListByTrainer implements classattendance.ClassAttendanceRepository.
func (r *classAttendanceRepository) ListByTrainer(ctx context.Context, trainerID string, from, to time.Time) ([]classattendance.ClassAttendanceDay, error) {
	ctx, cancel := r.db.WithQueryTimeout(ctx)
	defer cancel()

	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + classDayColumns + `
		FROM class_attendance_days ca
		LEFT JOIN classes c ON c.id = ca.class_id
		WHERE ca.trainer_id = $1
		  AND ca.date BETWEEN $2 AND $3
		ORDER BY ca.date DESC, ca.check_in_time DESC
	`

	rows, err := q.Query(ctx, query, trainerID, from, to)
	if err != nil {
		return nil, wrapStoreErr("list class attendance by trainer", err)
	}
	defer rows.Close()

	var days []classattendance.ClassAttendanceDay
	for rows.Next() {
		day, err := scanClassDay(rows)
		if err != nil {
			return nil, wrapStoreErr("scan class attendance day", err)
		}
		days = append(days, day)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapStoreErr("list class attendance by trainer", err)
	}

	return days, nil
}
