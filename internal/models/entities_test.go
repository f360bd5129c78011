package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReservation_EffectiveStatus(t *testing.T) {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	r := Reservation{StartAt: start, EndAt: start.Add(120 * time.Minute), Status: ReservationActive}

	assert.Equal(t, ReservationActive, r.EffectiveStatus(start))
	assert.Equal(t, ReservationActive, r.EffectiveStatus(start.Add(119*time.Minute)))

	// the end instant itself is already expired
	assert.Equal(t, ReservationExpired, r.EffectiveStatus(start.Add(120*time.Minute)))
	assert.Equal(t, ReservationExpired, r.EffectiveStatus(start.Add(3*time.Hour)))

	released := Reservation{StartAt: start, EndAt: start.Add(120 * time.Minute), Status: ReservationReleased}
	assert.Equal(t, ReservationReleased, released.EffectiveStatus(start.Add(3*time.Hour)))
}

func TestReservation_RemainingMinutes(t *testing.T) {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	r := Reservation{StartAt: start, EndAt: start.Add(120 * time.Minute), Status: ReservationActive}

	assert.Equal(t, 120, r.RemainingMinutes(start))
	assert.Equal(t, 90, r.RemainingMinutes(start.Add(30*time.Minute)))

	// partial minutes round up
	assert.Equal(t, 90, r.RemainingMinutes(start.Add(29*time.Minute+30*time.Second)))

	assert.Equal(t, 0, r.RemainingMinutes(start.Add(120*time.Minute)))
	assert.Equal(t, 0, r.RemainingMinutes(start.Add(200*time.Minute)))
}

func TestFixedSeatAssignment_Covers(t *testing.T) {
	a := FixedSeatAssignment{
		StartDate: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
	}

	assert.False(t, a.Covers(time.Date(2026, 2, 28, 23, 59, 0, 0, time.UTC)))
	assert.True(t, a.Covers(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, a.Covers(time.Date(2026, 3, 5, 12, 30, 0, 0, time.UTC)))

	// the end date is inclusive through its last second
	assert.True(t, a.Covers(time.Date(2026, 3, 10, 23, 59, 59, 0, time.UTC)))
	assert.False(t, a.Covers(time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)))
}
