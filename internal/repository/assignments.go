package repository

import (
	"context"
	"database/sql"
	"time"

	"studycafe/internal/database"
	apperrors "studycafe/internal/errors"
	"studycafe/internal/models"
)

type AssignmentRepository struct {
	db *database.DB
}

func NewAssignmentRepository(db *database.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

const assignmentColumns = `id, seat_id, student_id, center_id, start_date, end_date, assigned_by, created_at, updated_at`

func scanAssignment(row interface {
	Scan(dest ...interface{}) error
}, a *models.FixedSeatAssignment) error {
	return row.Scan(
		&a.ID,
		&a.SeatID,
		&a.StudentID,
		&a.CenterID,
		&a.StartDate,
		&a.EndDate,
		&a.AssignedByID,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
}

// Create inserts a fixed assignment after verifying, under the seat
// row lock, that no existing assignment for the seat overlaps the
// requested date range. Ranges are inclusive on both ends, so two
// ranges overlap when each starts no later than the other ends.
func (r *AssignmentRepository) Create(ctx context.Context, a *models.FixedSeatAssignment) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var seatCenterID int64
	var seatActive bool
	seatQuery := `SELECT center_id, is_active FROM seats WHERE id = $1 FOR UPDATE`
	err = tx.QueryRowContext(ctx, seatQuery, a.SeatID).Scan(&seatCenterID, &seatActive)
	if err == sql.ErrNoRows {
		return apperrors.ErrSeatNotFound
	}
	if err != nil {
		return err
	}

	if seatCenterID != a.CenterID {
		return apperrors.ErrSeatNotFound
	}
	if !seatActive {
		return apperrors.ErrSeatInactive
	}

	var overlaps bool
	overlapQuery := `
		SELECT EXISTS(
			SELECT 1 FROM fixed_assignments
			WHERE seat_id = $1 AND start_date <= $3 AND end_date >= $2
		)`
	if err := tx.QueryRowContext(ctx, overlapQuery, a.SeatID, a.StartDate, a.EndDate).Scan(&overlaps); err != nil {
		return err
	}
	if overlaps {
		return apperrors.ErrOverlappingAssignment
	}

	insertQuery := `
		INSERT INTO fixed_assignments (seat_id, student_id, center_id, start_date, end_date, assigned_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, start_date, end_date, created_at, updated_at`
	err = tx.QueryRowContext(ctx, insertQuery,
		a.SeatID, a.StudentID, a.CenterID, a.StartDate, a.EndDate, a.AssignedByID,
	).Scan(&a.ID, &a.StartDate, &a.EndDate, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// Update changes the date range of an existing assignment. The overlap
// check excludes the assignment itself, so shrinking or shifting a
// range within its own bounds always succeeds.
func (r *AssignmentRepository) Update(ctx context.Context, id string, startDate, endDate time.Time) (*models.FixedSeatAssignment, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	assignment := &models.FixedSeatAssignment{}
	query := `SELECT ` + assignmentColumns + ` FROM fixed_assignments WHERE id = $1 FOR UPDATE`
	err = scanAssignment(tx.QueryRowContext(ctx, query, id), assignment)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrAssignmentNotFound
	}
	if err != nil {
		return nil, err
	}

	// Lock the seat row so a concurrent create on the same seat cannot
	// slip in between the overlap check and the update.
	seatQuery := `SELECT 1 FROM seats WHERE id = $1 FOR UPDATE`
	var one int
	if err := tx.QueryRowContext(ctx, seatQuery, assignment.SeatID).Scan(&one); err != nil {
		return nil, err
	}

	var overlaps bool
	overlapQuery := `
		SELECT EXISTS(
			SELECT 1 FROM fixed_assignments
			WHERE seat_id = $1 AND id != $2 AND start_date <= $4 AND end_date >= $3
		)`
	if err := tx.QueryRowContext(ctx, overlapQuery, assignment.SeatID, id, startDate, endDate).Scan(&overlaps); err != nil {
		return nil, err
	}
	if overlaps {
		return nil, apperrors.ErrOverlappingAssignment
	}

	updateQuery := `
		UPDATE fixed_assignments
		SET start_date = $1, end_date = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING start_date, end_date, updated_at`
	err = tx.QueryRowContext(ctx, updateQuery, startDate, endDate, id).Scan(
		&assignment.StartDate, &assignment.EndDate, &assignment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return assignment, nil
}

// Delete removes an assignment and returns the deleted row, or nil
// when no such assignment existed (idempotent).
func (r *AssignmentRepository) Delete(ctx context.Context, id string) (*models.FixedSeatAssignment, error) {
	assignment := &models.FixedSeatAssignment{}
	query := `DELETE FROM fixed_assignments WHERE id = $1 RETURNING ` + assignmentColumns

	err := scanAssignment(r.db.QueryRowContext(ctx, query, id), assignment)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return assignment, nil
}

func (r *AssignmentRepository) GetByID(ctx context.Context, id string) (*models.FixedSeatAssignment, error) {
	assignment := &models.FixedSeatAssignment{}
	query := `SELECT ` + assignmentColumns + ` FROM fixed_assignments WHERE id = $1`

	err := scanAssignment(r.db.QueryRowContext(ctx, query, id), assignment)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return assignment, nil
}

func (r *AssignmentRepository) ListByCenter(ctx context.Context, centerID int64) ([]models.FixedSeatAssignment, error) {
	query := `
		SELECT ` + assignmentColumns + `
		FROM fixed_assignments
		WHERE center_id = $1
		ORDER BY start_date`

	rows, err := r.db.QueryContext(ctx, query, centerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assignments []models.FixedSeatAssignment
	for rows.Next() {
		var assignment models.FixedSeatAssignment
		if err := scanAssignment(rows, &assignment); err != nil {
			return nil, err
		}
		assignments = append(assignments, assignment)
	}

	return assignments, rows.Err()
}
