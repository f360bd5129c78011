package models

import "time"

// NATS event subjects
const (
	EventReservationCreated  = "reservation.created"
	EventReservationReleased = "reservation.released"
	EventReservationExpired  = "reservation.expired"
	EventAssignmentCreated   = "assignment.created"
	EventAssignmentUpdated   = "assignment.updated"
	EventAssignmentRemoved   = "assignment.removed"
)

// ReservationCreatedEvent is published after a reservation commits
type ReservationCreatedEvent struct {
	ReservationID string    `json:"reservation_id"`
	SeatID        string    `json:"seat_id"`
	StudentID     int64     `json:"student_id"`
	CenterID      int64     `json:"center_id"`
	EndAt         time.Time `json:"end_at"`
	Timestamp     time.Time `json:"timestamp"`
}

// ReservationReleasedEvent is published after an explicit release
type ReservationReleasedEvent struct {
	ReservationID string    `json:"reservation_id"`
	SeatID        string    `json:"seat_id"`
	CenterID      int64     `json:"center_id"`
	ByStaff       bool      `json:"by_staff"`
	Timestamp     time.Time `json:"timestamp"`
}

// ReservationExpiredEvent is published once per reservation when its
// expired transition is persisted (by a read path or the sweeper).
type ReservationExpiredEvent struct {
	ReservationID string    `json:"reservation_id"`
	SeatID        string    `json:"seat_id"`
	CenterID      int64     `json:"center_id"`
	EndAt         time.Time `json:"end_at"`
	Timestamp     time.Time `json:"timestamp"`
}

// AssignmentEvent covers create/update/remove of fixed assignments
type AssignmentEvent struct {
	AssignmentID string    `json:"assignment_id"`
	SeatID       string    `json:"seat_id"`
	StudentID    int64     `json:"student_id"`
	CenterID     int64     `json:"center_id"`
	Timestamp    time.Time `json:"timestamp"`
}
