package models

import (
	"math"
	"time"
)

// Reservation statuses. Active is the only live state; released and
// expired are terminal.
const (
	ReservationActive   = "active"
	ReservationReleased = "released"
	ReservationExpired  = "expired"
)

// Actor capabilities as reported by the directory service.
const (
	CapabilityStudent = "student"
	CapabilityStaff   = "staff"
)

// Seat represents a physical study-room seat belonging to one center
type Seat struct {
	ID         string    `json:"id" db:"id"`
	CenterID   int64     `json:"center_id" db:"center_id"`
	SeatNumber int       `json:"seat_number" db:"seat_number"`
	Row        int       `json:"row" db:"row_pos"`
	Col        int       `json:"col" db:"col_pos"`
	IsActive   bool      `json:"is_active" db:"is_active"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// Reservation is a time-boxed claim on a seat by a student
type Reservation struct {
	ID        string    `json:"id" db:"id"`
	SeatID    string    `json:"seat_id" db:"seat_id"`
	StudentID int64     `json:"student_id" db:"student_id"`
	CenterID  int64     `json:"center_id" db:"center_id"`
	StartAt   time.Time `json:"start_at" db:"start_at"`
	EndAt     time.Time `json:"end_at" db:"end_at"`
	Status    string    `json:"status" db:"status"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// EffectiveStatus returns the status of the reservation as observed at
// the given instant. A persisted 'active' row whose end time has passed
// is already expired from the reader's point of view, whether or not
// the row has been updated yet.
func (r *Reservation) EffectiveStatus(now time.Time) string {
	if r.Status == ReservationActive && !now.Before(r.EndAt) {
		return ReservationExpired
	}
	return r.Status
}

// RemainingMinutes returns the minutes left on a live reservation,
// rounded up. Zero when the reservation is no longer effectively active.
func (r *Reservation) RemainingMinutes(now time.Time) int {
	if r.EffectiveStatus(now) != ReservationActive {
		return 0
	}
	return int(math.Ceil(r.EndAt.Sub(now).Minutes()))
}

// FixedSeatAssignment is a staff-granted, date-ranged exclusive claim
// on a seat. Date ranges are inclusive calendar days in UTC.
type FixedSeatAssignment struct {
	ID           string    `json:"id" db:"id"`
	SeatID       string    `json:"seat_id" db:"seat_id"`
	StudentID    int64     `json:"student_id" db:"student_id"`
	CenterID     int64     `json:"center_id" db:"center_id"`
	StartDate    time.Time `json:"start_date" db:"start_date"`
	EndDate      time.Time `json:"end_date" db:"end_date"`
	AssignedByID int64     `json:"assigned_by" db:"assigned_by"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Covers reports whether the assignment's date range includes the
// calendar day of the given instant (UTC).
func (a *FixedSeatAssignment) Covers(now time.Time) bool {
	day := now.UTC().Truncate(24 * time.Hour)
	start := a.StartDate.UTC().Truncate(24 * time.Hour)
	end := a.EndDate.UTC().Truncate(24 * time.Hour)
	return !day.Before(start) && !day.After(end)
}

// Seat states reported by the availability view. Fixed shadows
// reserved: a seat with an assignment covering today is fixed even when
// a live reservation also exists on it.
const (
	SeatStateAvailable = "available"
	SeatStateFixed     = "fixed"
	SeatStateReserved  = "reserved"
)

// SeatStatus is the derived, per-poll view of one seat. It is computed
// fresh on every request and never persisted.
type SeatStatus struct {
	Seat             Seat                 `json:"seat"`
	State            string               `json:"state"`
	IsAvailable      bool                 `json:"is_available"`
	IsFixed          bool                 `json:"is_fixed"`
	StudentID        *int64               `json:"student_id,omitempty"`
	RemainingMinutes *int                 `json:"remaining_minutes,omitempty"`
	Reservation      *Reservation         `json:"reservation,omitempty"`
	Assignment       *FixedSeatAssignment `json:"assignment,omitempty"`
}
