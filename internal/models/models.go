package models

// ReserveSeatRequest - request body for POST /api/reservations
type ReserveSeatRequest struct {
	SeatID   string `json:"seat_id" binding:"required"`
	CenterID int64  `json:"center_id" binding:"required"`
}

// ReleaseReservationRequest - request body for POST /api/reservations/release
type ReleaseReservationRequest struct {
	ReservationID string `json:"reservation_id" binding:"required"`
}

// AssignSeatRequest - request body for POST /api/assignments.
// Dates are inclusive calendar days in YYYY-MM-DD form.
type AssignSeatRequest struct {
	SeatID    string `json:"seat_id" binding:"required"`
	StudentID int64  `json:"student_id" binding:"required"`
	CenterID  int64  `json:"center_id" binding:"required"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
}

// UpdateAssignmentRequest - request body for PATCH /api/assignments/:id
type UpdateAssignmentRequest struct {
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
}

// SeatStatusResponse - list returned by GET /api/seats/status
type SeatStatusResponse []SeatStatus

// ListSeatsResponse - list returned by GET /api/seats
type ListSeatsResponse []Seat

// ErrorResponse - uniform error body with a machine-readable code
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}
