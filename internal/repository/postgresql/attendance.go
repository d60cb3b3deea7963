package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/orgpulse/attendance-backend-go/internal/domain/attendance"
	"github.com/orgpulse/attendance-backend-go/internal/pkg/database"
)

const uniqueViolationCode = "23505"

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

const workDayColumns = `id, employee_id, date, sessions, status, created_at, updated_at`

// decodeSessions is the single place tolerant of legacy session payloads:
// the column may hold a JSON array or a double-encoded JSON string of one.
// Business logic only ever sees []attendance.Session.
func decodeSessions(raw []byte) ([]attendance.Session, error) {
	if len(raw) == 0 {
		return []attendance.Session{}, nil
	}

	var sessions []attendance.Session
	if err := json.Unmarshal(raw, &sessions); err == nil {
		return sessions, nil
	}

	var nested string
	if err := json.Unmarshal(raw, &nested); err != nil {
		return nil, fmt.Errorf("sessions payload is neither an array nor a string: %w", err)
	}
	if err := json.Unmarshal([]byte(nested), &sessions); err != nil {
		return nil, fmt.Errorf("decode nested sessions payload: %w", err)
	}
	return sessions, nil
}

func encodeSessions(sessions []attendance.Session) ([]byte, error) {
	if sessions == nil {
		sessions = []attendance.Session{}
	}
	return json.Marshal(sessions)
}

func scanWorkDay(row pgx.Row) (attendance.WorkAttendanceDay, error) {
	var day attendance.WorkAttendanceDay
	var rawSessions []byte

	err := row.Scan(
		&day.ID, &day.EmployeeID, &day.Date, &rawSessions, &day.Status,
		&day.CreatedAt, &day.UpdatedAt,
	)
	if err != nil {
		return attendance.WorkAttendanceDay{}, err
	}

	day.Sessions, err = decodeSessions(rawSessions)
	if err != nil {
		return attendance.WorkAttendanceDay{}, err
	}
	return day, nil
}

func (r *attendanceRepository) getByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time, forUpdate bool) (*attendance.WorkAttendanceDay, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + workDayColumns + `
		FROM work_attendance_days
		WHERE employee_id = $1
		  AND date = $2
	`
	if forUpdate {
		query += " FOR UPDATE"
	}

	day, err := scanWorkDay(q.QueryRow(ctx, query, employeeID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapStoreErr("get work attendance day", err)
	}

	return &day, nil
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (r *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.WorkAttendanceDay, error) {
	ctx, cancel := r.db.WithQueryTimeout(ctx)
	defer cancel()
	return r.getByEmployeeAndDate(ctx, employeeID, date, false)
}

// GetByEmployeeAndDateForUpdate implements attendance.AttendanceRepository.
func (r *attendanceRepository) GetByEmployeeAndDateForUpdate(ctx context.Context, employeeID string, date time.Time) (*attendance.WorkAttendanceDay, error) {
	return r.getByEmployeeAndDate(ctx, employeeID, date, true)
}

// Create implements attendance.AttendanceRepository.
func (r *attendanceRepository) Create(ctx context.Context, day attendance.WorkAttendanceDay) (attendance.WorkAttendanceDay, error) {
	q := GetQuerier(ctx, r.db)

	rawSessions, err := encodeSessions(day.Sessions)
	if err != nil {
		return attendance.WorkAttendanceDay{}, fmt.Errorf("encode sessions: %w", err)
	}

	query := `
		INSERT INTO work_attendance_days (employee_id, date, sessions, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	err = q.QueryRow(ctx, query,
		day.EmployeeID,
		day.Date,
		rawSessions,
		day.Status,
	).Scan(&day.ID, &day.CreatedAt, &day.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			// A concurrent request created today's record first; its session
			// is the open one.
			return attendance.WorkAttendanceDay{}, attendance.ErrAlreadyOpen
		}
		return attendance.WorkAttendanceDay{}, wrapStoreErr("create work attendance day", err)
	}

	return day, nil
}

// Update implements attendance.AttendanceRepository.
func (r *attendanceRepository) Update(ctx context.Context, day attendance.WorkAttendanceDay) error {
	q := GetQuerier(ctx, r.db)

	rawSessions, err := encodeSessions(day.Sessions)
	if err != nil {
		return fmt.Errorf("encode sessions: %w", err)
	}

	query := `
		UPDATE work_attendance_days
		SET sessions = $2, status = $3, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query, day.ID, rawSessions, day.Status)
	if err != nil {
		return wrapStoreErr("update work attendance day", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrRecordNotFound
	}

	return nil
}

// ListWithOpenSessions implements attendance.AttendanceRepository.
func (r *attendanceRepository) ListWithOpenSessions(ctx context.Context) ([]attendance.WorkAttendanceDay, error) {
	ctx, cancel := r.db.WithQueryTimeout(ctx)
	defer cancel()

	q := GetQuerier(ctx, r.db)

	// A day has an open session when any entry lacks a check_out.
	query := `
		SELECT ` + workDayColumns + `
		FROM work_attendance_days
		WHERE EXISTS (
			SELECT 1 FROM jsonb_array_elements(sessions) s
			WHERE s->'check_out' = 'null'::jsonb OR NOT (s ? 'check_out')
		)
		ORDER BY date, employee_id
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, wrapStoreErr("list open work sessions", err)
	}
	defer rows.Close()

	var days []attendance.WorkAttendanceDay
	for rows.Next() {
		day, err := scanWorkDay(rows)
		if err != nil {
			return nil, wrapStoreErr("scan work attendance day", err)
		}
		days = append(days, day)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapStoreErr("list open work sessions", err)
	}

	return days, nil
}

// ListByEmployee implements attendance.AttendanceRepository.
func (r *attendanceRepository) ListByEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.WorkAttendanceDay, error) {
	ctx, cancel := r.db.WithQueryTimeout(ctx)
	defer cancel()

	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + workDayColumns + `
		FROM work_attendance_days
		WHERE employee_id = $1
		  AND date BETWEEN $2 AND $3
		ORDER BY date DESC
	`

	rows, err := q.Query(ctx, query, employeeID, from, to)
	if err != nil {
		return nil, wrapStoreErr("list attendance by employee", err)
	}
	defer rows.Close()

	var days []attendance.WorkAttendanceDay
	for rows.Next() {
		day, err := scanWorkDay(rows)
		if err != nil {
			return nil, wrapStoreErr("scan work attendance day", err)
		}
		days = append(days, day)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapStoreErr("list attendance by employee", err)
	}

	return days, nil
}

// ListByDate implements attendance.AttendanceRepository.
func (r *attendanceRepository) ListByDate(ctx context.Context, date time.Time) ([]attendance.WorkAttendanceDay, error) {
	ctx, cancel := r.db.WithQueryTimeout(ctx)
	defer cancel()

	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + workDayColumns + `
		FROM work_attendance_days
		WHERE date = $1
		ORDER BY employee_id
	`

	rows, err := q.Query(ctx, query, date)
	if err != nil {
		return nil, wrapStoreErr("list attendance by date", err)
	}
	defer rows.Close()

	var days []attendance.WorkAttendanceDay
	for rows.Next() {
		day, err := scanWorkDay(rows)
		if err != nil {
			return nil, wrapStoreErr("scan work attendance day", err)
		}
		days = append(days, day)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapStoreErr("list attendance by date", err)
	}

	return days, nil
}

// wrapStoreErr annotates a store failure and marks transient ones so callers
// can distinguish retryable outages from real faults.
func wrapStoreErr(op string, err error) error {
	if database.IsTransient(err) {
		return fmt.Errorf("%s: %w: %v", op, database.ErrStoreUnavailable, err)
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}
