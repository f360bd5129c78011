// Package service implements the reservation, availability and
// assignment business logic on top of pluggable stores.
package service

import (
	"studycafe/internal/clock"
)

// Services aggregates all business logic services
type Services struct {
	Seats        *SeatService
	Reservations *ReservationService
	Assignments  *AssignmentService
}

type Deps struct {
	Seats        SeatStore
	Reservations ReservationStore
	Assignments  AssignmentStore
	Publisher    EventPublisher
	Features     FeatureFlags
	Clock        clock.Clock
}

func NewServices(deps Deps) *Services {
	if deps.Clock == nil {
		deps.Clock = clock.System()
	}

	return &Services{
		Seats:        NewSeatService(deps.Seats, deps.Reservations, deps.Assignments, deps.Publisher, deps.Clock),
		Reservations: NewReservationService(deps.Reservations, deps.Features, deps.Publisher, deps.Clock),
		Assignments:  NewAssignmentService(deps.Assignments, deps.Publisher, deps.Clock),
	}
}
