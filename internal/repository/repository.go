// Package repository implements Postgres persistence for seats,
// reservations and fixed assignments. All multi-step writes run inside
// a transaction holding the seat row lock; partial unique indexes back
// up the invariants the locks enforce.
package repository

import "studycafe/internal/database"

// Repositories aggregates all data access objects
type Repositories struct {
	Seats        *SeatRepository
	Reservations *ReservationRepository
	Assignments  *AssignmentRepository
}

func NewRepositories(db *database.DB) *Repositories {
	return &Repositories{
		Seats:        NewSeatRepository(db),
		Reservations: NewReservationRepository(db),
		Assignments:  NewAssignmentRepository(db),
	}
}
