package service

import (
	"context"
	"time"

	"studycafe/internal/models"
)

// SeatStore provides read access to the seat registry.
type SeatStore interface {
	ListByCenter(ctx context.Context, centerID int64) ([]models.Seat, error)
	GetByID(ctx context.Context, id string) (*models.Seat, error)
}

// ReservationStore persists reservations. Reserve performs all
// precondition checks and the insert atomically; Release returns nil
// when the call was an idempotent no-op.
type ReservationStore interface {
	Reserve(ctx context.Context, seatID string, studentID, centerID int64, startAt, endAt time.Time) (*models.Reservation, error)
	Release(ctx context.Context, id string, actorID int64, actorIsStaff bool, now time.Time) (*models.Reservation, error)
	ListActiveByCenter(ctx context.Context, centerID int64) ([]models.Reservation, error)
	ExpireOverdue(ctx context.Context, centerID *int64, now time.Time) ([]models.Reservation, error)
}

// AssignmentStore persists fixed seat assignments. Delete returns the
// removed row, or nil when nothing existed under the ID.
type AssignmentStore interface {
	Create(ctx context.Context, a *models.FixedSeatAssignment) error
	Update(ctx context.Context, id string, startDate, endDate time.Time) (*models.FixedSeatAssignment, error)
	Delete(ctx context.Context, id string) (*models.FixedSeatAssignment, error)
	ListByCenter(ctx context.Context, centerID int64) ([]models.FixedSeatAssignment, error)
}

// EventPublisher publishes domain events. A nil publisher disables
// publishing; event failures never fail the operation that raised them.
type EventPublisher interface {
	Publish(subject string, data interface{}) error
}

// FeatureFlags reports per-center feature enablement.
type FeatureFlags interface {
	StudyCafeEnabled(ctx context.Context, centerID int64) (bool, error)
}
