package repository

import (
	"context"
	"sync"
	"time"

	apperrors "studycafe/internal/errors"
	"studycafe/internal/models"

	"github.com/google/uuid"
)

// MemoryStore holds in-memory seat, reservation and assignment state
// with the same semantics as the Postgres repositories. A single mutex
// stands in for the row locks. The Seats/Reservations/Assignments views
// satisfy the service-layer store interfaces; tests and local
// experiments run against them without a database.
type MemoryStore struct {
	mu           sync.Mutex
	seats        map[string]models.Seat
	reservations map[string]models.Reservation
	assignments  map[string]models.FixedSeatAssignment
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		seats:        make(map[string]models.Seat),
		reservations: make(map[string]models.Reservation),
		assignments:  make(map[string]models.FixedSeatAssignment),
	}
}

func (m *MemoryStore) Seats() *MemorySeatStore               { return &MemorySeatStore{store: m} }
func (m *MemoryStore) Reservations() *MemoryReservationStore { return &MemoryReservationStore{store: m} }
func (m *MemoryStore) Assignments() *MemoryAssignmentStore   { return &MemoryAssignmentStore{store: m} }

// AddSeat seeds a seat, generating an ID when the caller left it empty.
func (m *MemoryStore) AddSeat(seat models.Seat) models.Seat {
	m.mu.Lock()
	defer m.mu.Unlock()
	if seat.ID == "" {
		seat.ID = uuid.NewString()
	}
	m.seats[seat.ID] = seat
	return seat
}

// expireLocked flips overdue active rows to expired. Caller holds mu.
func (m *MemoryStore) expireLocked(now time.Time) []models.Reservation {
	var expired []models.Reservation
	for id, r := range m.reservations {
		if r.Status == models.ReservationActive && r.EffectiveStatus(now) == models.ReservationExpired {
			r.Status = models.ReservationExpired
			r.UpdatedAt = now
			m.reservations[id] = r
			expired = append(expired, r)
		}
	}
	return expired
}

func (m *MemoryStore) overlapsLocked(seatID, excludeID string, startDate, endDate time.Time) bool {
	for id, a := range m.assignments {
		if a.SeatID != seatID || id == excludeID {
			continue
		}
		if !a.StartDate.After(endDate) && !a.EndDate.Before(startDate) {
			return true
		}
	}
	return false
}

type MemorySeatStore struct {
	store *MemoryStore
}

func (s *MemorySeatStore) ListByCenter(ctx context.Context, centerID int64) ([]models.Seat, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	var seats []models.Seat
	for _, seat := range s.store.seats {
		if seat.CenterID == centerID {
			seats = append(seats, seat)
		}
	}
	return seats, nil
}

func (s *MemorySeatStore) GetByID(ctx context.Context, id string) (*models.Seat, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	seat, ok := s.store.seats[id]
	if !ok {
		return nil, nil
	}
	return &seat, nil
}

type MemoryReservationStore struct {
	store *MemoryStore
}

func (s *MemoryReservationStore) Reserve(ctx context.Context, seatID string, studentID, centerID int64, startAt, endAt time.Time) (*models.Reservation, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	seat, ok := s.store.seats[seatID]
	if !ok || seat.CenterID != centerID {
		return nil, apperrors.ErrSeatNotFound
	}
	if !seat.IsActive {
		return nil, apperrors.ErrSeatInactive
	}

	s.store.expireLocked(startAt)

	for _, a := range s.store.assignments {
		if a.SeatID == seatID && a.Covers(startAt) {
			return nil, apperrors.ErrSeatFixed
		}
	}

	for _, r := range s.store.reservations {
		if r.Status != models.ReservationActive {
			continue
		}
		if r.SeatID == seatID {
			return nil, apperrors.ErrSeatOccupied
		}
		if r.CenterID == centerID && r.StudentID == studentID {
			return nil, apperrors.ErrAlreadyReserved
		}
	}

	reservation := models.Reservation{
		ID:        uuid.NewString(),
		SeatID:    seatID,
		StudentID: studentID,
		CenterID:  centerID,
		StartAt:   startAt,
		EndAt:     endAt,
		Status:    models.ReservationActive,
		CreatedAt: startAt,
		UpdatedAt: startAt,
	}
	s.store.reservations[reservation.ID] = reservation
	return &reservation, nil
}

func (s *MemoryReservationStore) Release(ctx context.Context, id string, actorID int64, actorIsStaff bool, now time.Time) (*models.Reservation, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	reservation, ok := s.store.reservations[id]
	if !ok || reservation.Status != models.ReservationActive {
		return nil, nil
	}

	if !actorIsStaff && reservation.StudentID != actorID {
		return nil, apperrors.ErrForbidden
	}

	if reservation.EffectiveStatus(now) == models.ReservationExpired {
		reservation.Status = models.ReservationExpired
		reservation.UpdatedAt = now
		s.store.reservations[id] = reservation
		return nil, nil
	}

	reservation.Status = models.ReservationReleased
	reservation.UpdatedAt = now
	s.store.reservations[id] = reservation
	return &reservation, nil
}

func (s *MemoryReservationStore) GetByID(ctx context.Context, id string) (*models.Reservation, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	reservation, ok := s.store.reservations[id]
	if !ok {
		return nil, nil
	}
	return &reservation, nil
}

func (s *MemoryReservationStore) ListActiveByCenter(ctx context.Context, centerID int64) ([]models.Reservation, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	var reservations []models.Reservation
	for _, r := range s.store.reservations {
		if r.CenterID == centerID && r.Status == models.ReservationActive {
			reservations = append(reservations, r)
		}
	}
	return reservations, nil
}

func (s *MemoryReservationStore) ExpireOverdue(ctx context.Context, centerID *int64, now time.Time) ([]models.Reservation, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	all := s.store.expireLocked(now)
	if centerID == nil {
		return all, nil
	}

	var expired []models.Reservation
	for _, r := range all {
		if r.CenterID == *centerID {
			expired = append(expired, r)
		}
	}
	return expired, nil
}

type MemoryAssignmentStore struct {
	store *MemoryStore
}

func (s *MemoryAssignmentStore) Create(ctx context.Context, a *models.FixedSeatAssignment) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	seat, ok := s.store.seats[a.SeatID]
	if !ok || seat.CenterID != a.CenterID {
		return apperrors.ErrSeatNotFound
	}
	if !seat.IsActive {
		return apperrors.ErrSeatInactive
	}

	if s.store.overlapsLocked(a.SeatID, "", a.StartDate, a.EndDate) {
		return apperrors.ErrOverlappingAssignment
	}

	a.ID = uuid.NewString()
	s.store.assignments[a.ID] = *a
	return nil
}

func (s *MemoryAssignmentStore) Update(ctx context.Context, id string, startDate, endDate time.Time) (*models.FixedSeatAssignment, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	assignment, ok := s.store.assignments[id]
	if !ok {
		return nil, apperrors.ErrAssignmentNotFound
	}

	if s.store.overlapsLocked(assignment.SeatID, id, startDate, endDate) {
		return nil, apperrors.ErrOverlappingAssignment
	}

	assignment.StartDate = startDate
	assignment.EndDate = endDate
	s.store.assignments[id] = assignment
	return &assignment, nil
}

func (s *MemoryAssignmentStore) Delete(ctx context.Context, id string) (*models.FixedSeatAssignment, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	assignment, ok := s.store.assignments[id]
	if !ok {
		return nil, nil
	}
	delete(s.store.assignments, id)
	return &assignment, nil
}

func (s *MemoryAssignmentStore) GetByID(ctx context.Context, id string) (*models.FixedSeatAssignment, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	assignment, ok := s.store.assignments[id]
	if !ok {
		return nil, nil
	}
	return &assignment, nil
}

func (s *MemoryAssignmentStore) ListByCenter(ctx context.Context, centerID int64) ([]models.FixedSeatAssignment, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	var assignments []models.FixedSeatAssignment
	for _, a := range s.store.assignments {
		if a.CenterID == centerID {
			assignments = append(assignments, a)
		}
	}
	return assignments, nil
}
