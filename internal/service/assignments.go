package service

import (
	"context"
	"time"

	"studycafe/internal/clock"
	apperrors "studycafe/internal/errors"
	"studycafe/internal/logger"
	"studycafe/internal/metrics"
	"studycafe/internal/models"
)

type AssignmentService struct {
	assignments AssignmentStore
	publisher   EventPublisher
	clock       clock.Clock
}

func NewAssignmentService(assignments AssignmentStore, publisher EventPublisher, clk clock.Clock) *AssignmentService {
	return &AssignmentService{
		assignments: assignments,
		publisher:   publisher,
		clock:       clk,
	}
}

// Assign grants a student exclusive use of a seat over an inclusive
// date range. Staff only. Ranges are normalized to UTC calendar days
// before the store-level overlap check.
func (s *AssignmentService) Assign(ctx context.Context, seatID string, studentID, centerID int64, startDate, endDate time.Time, assignedByID int64, actorIsStaff bool) (*models.FixedSeatAssignment, error) {
	if !actorIsStaff {
		return nil, apperrors.ErrForbidden
	}

	startDate = truncateToDay(startDate)
	endDate = truncateToDay(endDate)
	if startDate.After(endDate) {
		return nil, apperrors.ErrInvalidDateRange
	}

	assignment := &models.FixedSeatAssignment{
		SeatID:       seatID,
		StudentID:    studentID,
		CenterID:     centerID,
		StartDate:    startDate,
		EndDate:      endDate,
		AssignedByID: assignedByID,
	}

	if err := s.assignments.Create(ctx, assignment); err != nil {
		return nil, err
	}

	metrics.AssignmentsTotal.WithLabelValues("create").Inc()
	logger.WithContext(ctx).Info("Fixed assignment created",
		"assignment_id", assignment.ID,
		"seat_id", seatID,
		"student_id", studentID,
		"start_date", startDate.Format("2006-01-02"),
		"end_date", endDate.Format("2006-01-02"))

	s.publishAssignment(ctx, models.EventAssignmentCreated, assignment)
	return assignment, nil
}

// UpdateDates changes an assignment's date range. Staff only.
func (s *AssignmentService) UpdateDates(ctx context.Context, assignmentID string, startDate, endDate time.Time, actorIsStaff bool) (*models.FixedSeatAssignment, error) {
	if !actorIsStaff {
		return nil, apperrors.ErrForbidden
	}

	startDate = truncateToDay(startDate)
	endDate = truncateToDay(endDate)
	if startDate.After(endDate) {
		return nil, apperrors.ErrInvalidDateRange
	}

	assignment, err := s.assignments.Update(ctx, assignmentID, startDate, endDate)
	if err != nil {
		return nil, err
	}

	metrics.AssignmentsTotal.WithLabelValues("update").Inc()
	s.publishAssignment(ctx, models.EventAssignmentUpdated, assignment)
	return assignment, nil
}

// Remove deletes an assignment. Staff only; removing an assignment
// that no longer exists is a no-op. Any reservation that was shadowed
// by the assignment simply becomes visible again.
func (s *AssignmentService) Remove(ctx context.Context, assignmentID string, actorIsStaff bool) error {
	if !actorIsStaff {
		return apperrors.ErrForbidden
	}

	deleted, err := s.assignments.Delete(ctx, assignmentID)
	if err != nil {
		return err
	}
	if deleted == nil {
		return nil
	}

	metrics.AssignmentsTotal.WithLabelValues("remove").Inc()
	logger.WithContext(ctx).Info("Fixed assignment removed",
		"assignment_id", deleted.ID, "seat_id", deleted.SeatID)

	s.publishAssignment(ctx, models.EventAssignmentRemoved, deleted)
	return nil
}

func (s *AssignmentService) publishAssignment(ctx context.Context, subject string, a *models.FixedSeatAssignment) {
	if s.publisher == nil {
		return
	}
	event := models.AssignmentEvent{
		AssignmentID: a.ID,
		SeatID:       a.SeatID,
		StudentID:    a.StudentID,
		CenterID:     a.CenterID,
		Timestamp:    s.clock.Now().UTC(),
	}
	if err := s.publisher.Publish(subject, event); err != nil {
		logger.WithContext(ctx).Warn("Failed to publish event", "subject", subject, "error", err)
	}
}

func truncateToDay(t time.Time) time.Time {
	return t.UTC().Truncate(24 * time.Hour)
}
