package postgresql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/orgpulse/attendance-backend-go/internal/domain/assignment"
	"github.com/orgpulse/attendance-backend-go/internal/pkg/database"
)

type assignmentRepository struct {
	db *database.DB
}

func NewAssignmentRepository(db *database.DB) assignment.AssignmentRepository {
	return &assignmentRepository{db: db}
}

// IsAssigned implements assignment.AssignmentRepository.
func (r *assignmentRepository) IsAssigned(ctx context.Context, trainerID, classID string) (bool, error) {
	ctx, cancel := r.db.WithQueryTimeout(ctx)
	defer cancel()

	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM class_assignments
			WHERE trainer_id = $1
			  AND class_id = $2
			  AND is_active
		)
	`

	var assigned bool
	if err := q.QueryRow(ctx, query, trainerID, classID).Scan(&assigned); err != nil {
		return false, wrapStoreErr("check class assignment", err)
	}

	return assigned, nil
}

// GetClass implements assignment.AssignmentRepository.
func (r *assignmentRepository) GetClass(ctx context.Context, classID string) (assignment.Class, error) {
	ctx, cancel := r.db.WithQueryTimeout(ctx)
	defer cancel()

	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, duration_hours, created_at, updated_at
		FROM classes
		WHERE id = $1
	`

	var class assignment.Class
	err := q.QueryRow(ctx, query, classID).Scan(
		&class.ID, &class.Name, &class.DurationHours, &class.CreatedAt, &class.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return assignment.Class{}, assignment.ErrClassNotFound
		}
		return assignment.Class{}, wrapStoreErr("get class", err)
	}

	return class, nil
}
