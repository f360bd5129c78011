package repository

import (
	"context"
	"database/sql"

	"studycafe/internal/database"
	"studycafe/internal/models"
)

type SeatRepository struct {
	db *database.DB
}

func NewSeatRepository(db *database.DB) *SeatRepository {
	return &SeatRepository{db: db}
}

func (r *SeatRepository) ListByCenter(ctx context.Context, centerID int64) ([]models.Seat, error) {
	query := `
		SELECT id, center_id, seat_number, row_pos, col_pos, is_active, created_at, updated_at
		FROM seats
		WHERE center_id = $1
		ORDER BY seat_number`

	rows, err := r.db.QueryContext(ctx, query, centerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var seats []models.Seat
	for rows.Next() {
		var seat models.Seat
		err := rows.Scan(
			&seat.ID,
			&seat.CenterID,
			&seat.SeatNumber,
			&seat.Row,
			&seat.Col,
			&seat.IsActive,
			&seat.CreatedAt,
			&seat.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		seats = append(seats, seat)
	}

	return seats, rows.Err()
}

func (r *SeatRepository) GetByID(ctx context.Context, id string) (*models.Seat, error) {
	seat := &models.Seat{}
	query := `
		SELECT id, center_id, seat_number, row_pos, col_pos, is_active, created_at, updated_at
		FROM seats
		WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&seat.ID,
		&seat.CenterID,
		&seat.SeatNumber,
		&seat.Row,
		&seat.Col,
		&seat.IsActive,
		&seat.CreatedAt,
		&seat.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return seat, err
}

// CreateGrid provisions a rows x cols seat grid for a center. Seat
// numbers run row-major starting at 1. Administrative path, used by
// cmd/provision.
func (r *SeatRepository) CreateGrid(ctx context.Context, centerID int64, rows, cols int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO seats (center_id, seat_number, row_pos, col_pos)
		VALUES ($1, $2, $3, $4)`

	for row := 1; row <= rows; row++ {
		for col := 1; col <= cols; col++ {
			seatNumber := (row-1)*cols + col
			if _, err := tx.ExecContext(ctx, query, centerID, seatNumber, row, col); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

// SetActive soft-enables or soft-disables a seat. Seats are never
// hard-deleted while reservations or assignments reference them.
func (r *SeatRepository) SetActive(ctx context.Context, id string, active bool) error {
	query := `UPDATE seats SET is_active = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.db.ExecContext(ctx, query, active, id)
	return err
}
