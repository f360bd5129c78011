package service

import (
	"context"
	"sort"
	"time"

	"studycafe/internal/clock"
	apperrors "studycafe/internal/errors"
	"studycafe/internal/logger"
	"studycafe/internal/metrics"
	"studycafe/internal/models"
)

type SeatService struct {
	seats        SeatStore
	reservations ReservationStore
	assignments  AssignmentStore
	publisher    EventPublisher
	clock        clock.Clock
}

func NewSeatService(seats SeatStore, reservations ReservationStore, assignments AssignmentStore, publisher EventPublisher, clk clock.Clock) *SeatService {
	return &SeatService{
		seats:        seats,
		reservations: reservations,
		assignments:  assignments,
		publisher:    publisher,
		clock:        clk,
	}
}

func (s *SeatService) List(ctx context.Context, centerID int64) ([]models.Seat, error) {
	return s.seats.ListByCenter(ctx, centerID)
}

func (s *SeatService) Get(ctx context.Context, seatID string) (*models.Seat, error) {
	seat, err := s.seats.GetByID(ctx, seatID)
	if err != nil {
		return nil, err
	}
	if seat == nil {
		return nil, apperrors.ErrSeatNotFound
	}
	return seat, nil
}

// Status returns the derived availability view for every seat of a
// center as of now. Overdue reservations are counted as expired in the
// view regardless of their stored status; their persisted transition is
// piggybacked onto the same call.
func (s *SeatService) Status(ctx context.Context, centerID int64) ([]models.SeatStatus, error) {
	now := s.clock.Now().UTC()

	// Persist expiry opportunistically. The view below is computed from
	// effective status, so a failure here degrades housekeeping only.
	expired, err := s.reservations.ExpireOverdue(ctx, &centerID, now)
	if err != nil {
		logger.WithContext(ctx).Warn("Failed to persist reservation expiry", "center_id", centerID, "error", err)
	}
	for _, r := range expired {
		metrics.ExpiredTotal.Inc()
		s.publishExpired(ctx, r, now)
	}

	seats, err := s.seats.ListByCenter(ctx, centerID)
	if err != nil {
		return nil, err
	}

	reservations, err := s.reservations.ListActiveByCenter(ctx, centerID)
	if err != nil {
		return nil, err
	}

	assignments, err := s.assignments.ListByCenter(ctx, centerID)
	if err != nil {
		return nil, err
	}

	return ComputeStatus(seats, reservations, assignments, now), nil
}

func (s *SeatService) publishExpired(ctx context.Context, r models.Reservation, now time.Time) {
	if s.publisher == nil {
		return
	}
	event := models.ReservationExpiredEvent{
		ReservationID: r.ID,
		SeatID:        r.SeatID,
		CenterID:      r.CenterID,
		EndAt:         r.EndAt,
		Timestamp:     now,
	}
	if err := s.publisher.Publish(models.EventReservationExpired, event); err != nil {
		logger.WithContext(ctx).Warn("Failed to publish event",
			"subject", models.EventReservationExpired, "error", err)
	}
}

// ComputeStatus derives the per-seat view from raw rows. It is a pure
// function of its inputs: a fixed assignment covering today's date wins
// over any reservation, an effectively active reservation makes the
// seat reserved, everything else is available. Results are ordered by
// seat number.
func ComputeStatus(seats []models.Seat, reservations []models.Reservation, assignments []models.FixedSeatAssignment, now time.Time) []models.SeatStatus {
	reservationBySeat := make(map[string]*models.Reservation, len(reservations))
	for i := range reservations {
		r := &reservations[i]
		if r.EffectiveStatus(now) == models.ReservationActive {
			reservationBySeat[r.SeatID] = r
		}
	}

	assignmentBySeat := make(map[string]*models.FixedSeatAssignment, len(assignments))
	for i := range assignments {
		a := &assignments[i]
		if a.Covers(now) {
			assignmentBySeat[a.SeatID] = a
		}
	}

	statuses := make([]models.SeatStatus, 0, len(seats))
	for _, seat := range seats {
		status := models.SeatStatus{
			Seat:  seat,
			State: models.SeatStateAvailable,
		}

		if assignment, ok := assignmentBySeat[seat.ID]; ok {
			status.State = models.SeatStateFixed
			status.IsFixed = true
			status.StudentID = &assignment.StudentID
			status.Assignment = assignment
		} else if reservation, ok := reservationBySeat[seat.ID]; ok {
			remaining := reservation.RemainingMinutes(now)
			status.State = models.SeatStateReserved
			status.StudentID = &reservation.StudentID
			status.RemainingMinutes = &remaining
			status.Reservation = reservation
		} else {
			status.IsAvailable = true
		}

		statuses = append(statuses, status)
	}

	sort.Slice(statuses, func(i, j int) bool {
		return statuses[i].Seat.SeatNumber < statuses[j].Seat.SeatNumber
	})

	return statuses
}
