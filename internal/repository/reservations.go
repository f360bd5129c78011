package repository

import (
	"context"
	"database/sql"
	"time"

	"studycafe/internal/database"
	apperrors "studycafe/internal/errors"
	"studycafe/internal/models"

	"github.com/lib/pq"
)

type ReservationRepository struct {
	db *database.DB
}

func NewReservationRepository(db *database.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

const reservationColumns = `id, seat_id, student_id, center_id, start_at, end_at, status, created_at, updated_at`

// Reserve runs the full reserve transaction: it locks the seat row,
// persists any overdue expiry for the seat and the student, verifies
// the seat is reservable and the student is free, and inserts the new
// active reservation. All checks and the insert commit atomically; the
// partial unique indexes on active reservations are the backstop for
// anything the row lock does not serialize (two students on different
// seats, for example).
func (r *ReservationRepository) Reserve(ctx context.Context, seatID string, studentID, centerID int64, startAt, endAt time.Time) (*models.Reservation, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// Lock the seat row. Concurrent reserve/assign calls for the same
	// seat serialize here.
	var seatCenterID int64
	var seatActive bool
	seatQuery := `SELECT center_id, is_active FROM seats WHERE id = $1 FOR UPDATE`
	err = tx.QueryRowContext(ctx, seatQuery, seatID).Scan(&seatCenterID, &seatActive)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrSeatNotFound
	}
	if err != nil {
		return nil, err
	}

	if seatCenterID != centerID {
		return nil, apperrors.ErrSeatNotFound
	}
	if !seatActive {
		return nil, apperrors.ErrSeatInactive
	}

	// Persist overdue expiry for this seat and this student so the
	// conflict checks (and the unique indexes) only ever see live rows.
	expireQuery := `
		UPDATE reservations
		SET status = 'expired', updated_at = NOW()
		WHERE status = 'active' AND end_at <= $1
		  AND (seat_id = $2 OR (center_id = $3 AND student_id = $4))`
	if _, err := tx.ExecContext(ctx, expireQuery, startAt, seatID, centerID, studentID); err != nil {
		return nil, err
	}

	// Students cannot reserve a seat that is fixed-assigned today.
	var fixed bool
	fixedQuery := `
		SELECT EXISTS(
			SELECT 1 FROM fixed_assignments
			WHERE seat_id = $1 AND start_date <= $2::date AND end_date >= $2::date
		)`
	if err := tx.QueryRowContext(ctx, fixedQuery, seatID, startAt).Scan(&fixed); err != nil {
		return nil, err
	}
	if fixed {
		return nil, apperrors.ErrSeatFixed
	}

	var occupied bool
	occupiedQuery := `
		SELECT EXISTS(
			SELECT 1 FROM reservations
			WHERE seat_id = $1 AND status = 'active' AND end_at > $2
		)`
	if err := tx.QueryRowContext(ctx, occupiedQuery, seatID, startAt).Scan(&occupied); err != nil {
		return nil, err
	}
	if occupied {
		return nil, apperrors.ErrSeatOccupied
	}

	var hasActive bool
	studentQuery := `
		SELECT EXISTS(
			SELECT 1 FROM reservations
			WHERE center_id = $1 AND student_id = $2 AND status = 'active' AND end_at > $3
		)`
	if err := tx.QueryRowContext(ctx, studentQuery, centerID, studentID, startAt).Scan(&hasActive); err != nil {
		return nil, err
	}
	if hasActive {
		return nil, apperrors.ErrAlreadyReserved
	}

	reservation := &models.Reservation{
		SeatID:    seatID,
		StudentID: studentID,
		CenterID:  centerID,
		StartAt:   startAt,
		EndAt:     endAt,
		Status:    models.ReservationActive,
	}

	insertQuery := `
		INSERT INTO reservations (seat_id, student_id, center_id, start_at, end_at, status)
		VALUES ($1, $2, $3, $4, $5, 'active')
		RETURNING id, created_at, updated_at`
	err = tx.QueryRowContext(ctx, insertQuery,
		seatID, studentID, centerID, startAt, endAt,
	).Scan(&reservation.ID, &reservation.CreatedAt, &reservation.UpdatedAt)
	if err != nil {
		return nil, mapUniqueViolation(err)
	}

	if err := tx.Commit(); err != nil {
		return nil, mapUniqueViolation(err)
	}

	return reservation, nil
}

// mapUniqueViolation translates violations of the active-reservation
// partial unique indexes into domain conflicts.
func mapUniqueViolation(err error) error {
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
		switch pqErr.Constraint {
		case "reservations_active_seat_idx":
			return apperrors.ErrSeatOccupied
		case "reservations_active_student_idx":
			return apperrors.ErrAlreadyReserved
		}
	}
	return err
}

// Release transitions an active reservation to released. The returned
// reservation is nil when the call was an idempotent no-op: missing
// row, already terminal, or effectively expired (in which case the
// expired transition is persisted instead). Non-staff actors may only
// release their own reservation.
func (r *ReservationRepository) Release(ctx context.Context, id string, actorID int64, actorIsStaff bool, now time.Time) (*models.Reservation, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	reservation := &models.Reservation{}
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1 FOR UPDATE`
	err = tx.QueryRowContext(ctx, query, id).Scan(
		&reservation.ID,
		&reservation.SeatID,
		&reservation.StudentID,
		&reservation.CenterID,
		&reservation.StartAt,
		&reservation.EndAt,
		&reservation.Status,
		&reservation.CreatedAt,
		&reservation.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, tx.Commit()
	}
	if err != nil {
		return nil, err
	}

	if reservation.Status != models.ReservationActive {
		return nil, tx.Commit()
	}

	if !actorIsStaff && reservation.StudentID != actorID {
		return nil, apperrors.ErrForbidden
	}

	// A reservation past its end time expired on its own; releasing it
	// is a no-op, but persist the transition while we hold the lock.
	if reservation.EffectiveStatus(now) == models.ReservationExpired {
		expireQuery := `UPDATE reservations SET status = 'expired', updated_at = NOW() WHERE id = $1`
		if _, err := tx.ExecContext(ctx, expireQuery, id); err != nil {
			return nil, err
		}
		return nil, tx.Commit()
	}

	releaseQuery := `UPDATE reservations SET status = 'released', updated_at = NOW() WHERE id = $1`
	if _, err := tx.ExecContext(ctx, releaseQuery, id); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	reservation.Status = models.ReservationReleased
	return reservation, nil
}

func (r *ReservationRepository) GetByID(ctx context.Context, id string) (*models.Reservation, error) {
	reservation := &models.Reservation{}
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&reservation.ID,
		&reservation.SeatID,
		&reservation.StudentID,
		&reservation.CenterID,
		&reservation.StartAt,
		&reservation.EndAt,
		&reservation.Status,
		&reservation.CreatedAt,
		&reservation.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return reservation, err
}

func (r *ReservationRepository) ListActiveByCenter(ctx context.Context, centerID int64) ([]models.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE center_id = $1 AND status = 'active'
		ORDER BY start_at`

	rows, err := r.db.QueryContext(ctx, query, centerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reservations []models.Reservation
	for rows.Next() {
		var reservation models.Reservation
		err := rows.Scan(
			&reservation.ID,
			&reservation.SeatID,
			&reservation.StudentID,
			&reservation.CenterID,
			&reservation.StartAt,
			&reservation.EndAt,
			&reservation.Status,
			&reservation.CreatedAt,
			&reservation.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		reservations = append(reservations, reservation)
	}

	return reservations, rows.Err()
}

// ExpireOverdue persists the expired transition for active reservations
// whose end time has passed. The guarded UPDATE returns each flipped
// row to exactly one caller, so concurrent readers and the sweeper
// never double-report an expiry. Pass a nil centerID to sweep all
// centers.
func (r *ReservationRepository) ExpireOverdue(ctx context.Context, centerID *int64, now time.Time) ([]models.Reservation, error) {
	query := `
		UPDATE reservations
		SET status = 'expired', updated_at = NOW()
		WHERE status = 'active' AND end_at <= $1`
	args := []interface{}{now}

	if centerID != nil {
		query += ` AND center_id = $2`
		args = append(args, *centerID)
	}

	query += ` RETURNING ` + reservationColumns

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expired []models.Reservation
	for rows.Next() {
		var reservation models.Reservation
		err := rows.Scan(
			&reservation.ID,
			&reservation.SeatID,
			&reservation.StudentID,
			&reservation.CenterID,
			&reservation.StartAt,
			&reservation.EndAt,
			&reservation.Status,
			&reservation.CreatedAt,
			&reservation.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		expired = append(expired, reservation)
	}

	return expired, rows.Err()
}
