package errors

import "errors"

// Not-found errors. Release and assignment removal treat these as
// idempotent success; every other operation surfaces them.
var (
	ErrSeatNotFound        = errors.New("seat not found")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrAssignmentNotFound  = errors.New("assignment not found")
)

// Conflict errors, surfaced as typed failures and never auto-retried.
var (
	ErrSeatOccupied          = errors.New("seat already has an active reservation")
	ErrAlreadyReserved       = errors.New("student already has an active reservation in this center")
	ErrSeatFixed             = errors.New("seat is fixed-assigned for today")
	ErrOverlappingAssignment = errors.New("assignment overlaps an existing assignment for this seat")
)

// Validation errors
var (
	ErrSeatInactive     = errors.New("seat is inactive")
	ErrInvalidDateRange = errors.New("start date must not be after end date")
)

// Authorization errors
var (
	ErrForbidden       = errors.New("operation is forbidden for actor")
	ErrFeatureDisabled = errors.New("study cafe is disabled for this center")
)
