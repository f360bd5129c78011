package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"studycafe/internal/clock"
	apperrors "studycafe/internal/errors"
	"studycafe/internal/logger"
	"studycafe/internal/metrics"
	"studycafe/internal/models"
)

// ReservationDuration is the fixed length of every reservation.
const ReservationDuration = 120 * time.Minute

type ReservationService struct {
	reservations ReservationStore
	features     FeatureFlags
	publisher    EventPublisher
	clock        clock.Clock
}

func NewReservationService(reservations ReservationStore, features FeatureFlags, publisher EventPublisher, clk clock.Clock) *ReservationService {
	return &ReservationService{
		reservations: reservations,
		features:     features,
		publisher:    publisher,
		clock:        clk,
	}
}

// Reserve creates a 120-minute reservation for the student on the
// requested seat. The store performs the precondition checks and the
// insert atomically; when two students race for the same seat exactly
// one wins.
func (s *ReservationService) Reserve(ctx context.Context, seatID string, studentID, centerID int64) (*models.Reservation, error) {
	if s.features != nil {
		enabled, err := s.features.StudyCafeEnabled(ctx, centerID)
		if err != nil {
			return nil, fmt.Errorf("failed to check study cafe flag: %w", err)
		}
		if !enabled {
			metrics.ReservationsTotal.WithLabelValues("feature_disabled").Inc()
			return nil, apperrors.ErrFeatureDisabled
		}
	}

	now := s.clock.Now().UTC()
	reservation, err := s.reservations.Reserve(ctx, seatID, studentID, centerID, now, now.Add(ReservationDuration))
	if err != nil {
		metrics.ReservationsTotal.WithLabelValues(reserveOutcome(err)).Inc()
		return nil, err
	}

	metrics.ReservationsTotal.WithLabelValues("success").Inc()
	logger.WithContext(ctx).Info("Reservation created",
		"reservation_id", reservation.ID,
		"seat_id", seatID,
		"student_id", studentID,
		"center_id", centerID,
		"end_at", reservation.EndAt)

	s.publish(ctx, models.EventReservationCreated, models.ReservationCreatedEvent{
		ReservationID: reservation.ID,
		SeatID:        reservation.SeatID,
		StudentID:     reservation.StudentID,
		CenterID:      reservation.CenterID,
		EndAt:         reservation.EndAt,
		Timestamp:     now,
	})

	return reservation, nil
}

func reserveOutcome(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrSeatOccupied):
		return "seat_occupied"
	case errors.Is(err, apperrors.ErrAlreadyReserved):
		return "already_reserved"
	case errors.Is(err, apperrors.ErrSeatFixed):
		return "seat_fixed"
	case errors.Is(err, apperrors.ErrSeatNotFound):
		return "seat_not_found"
	case errors.Is(err, apperrors.ErrSeatInactive):
		return "seat_inactive"
	default:
		return "error"
	}
}

// Release ends a reservation early. Missing, already released and
// already expired reservations are no-ops. Students may only release
// their own reservation; staff may release any.
func (s *ReservationService) Release(ctx context.Context, reservationID string, actorID int64, actorIsStaff bool) error {
	now := s.clock.Now().UTC()
	released, err := s.reservations.Release(ctx, reservationID, actorID, actorIsStaff, now)
	if err != nil {
		return err
	}
	if released == nil {
		return nil
	}

	metrics.ReleasesTotal.Inc()
	logger.WithContext(ctx).Info("Reservation released",
		"reservation_id", released.ID,
		"seat_id", released.SeatID,
		"by_staff", actorIsStaff)

	s.publish(ctx, models.EventReservationReleased, models.ReservationReleasedEvent{
		ReservationID: released.ID,
		SeatID:        released.SeatID,
		CenterID:      released.CenterID,
		ByStaff:       actorIsStaff,
		Timestamp:     now,
	})

	return nil
}

// ExpireOverdue persists expiry for every overdue active reservation,
// publishing one expired event per flipped row. Pass a nil centerID to
// sweep all centers. Expiry semantics do not depend on this running;
// read paths already treat overdue rows as expired.
func (s *ReservationService) ExpireOverdue(ctx context.Context, centerID *int64) (int, error) {
	now := s.clock.Now().UTC()
	expired, err := s.reservations.ExpireOverdue(ctx, centerID, now)
	if err != nil {
		return 0, err
	}

	for _, r := range expired {
		metrics.ExpiredTotal.Inc()
		s.publish(ctx, models.EventReservationExpired, models.ReservationExpiredEvent{
			ReservationID: r.ID,
			SeatID:        r.SeatID,
			CenterID:      r.CenterID,
			EndAt:         r.EndAt,
			Timestamp:     now,
		})
	}

	return len(expired), nil
}

func (s *ReservationService) publish(ctx context.Context, subject string, event interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(subject, event); err != nil {
		logger.WithContext(ctx).Warn("Failed to publish event", "subject", subject, "error", err)
	}
}
