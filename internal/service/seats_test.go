package service

import (
	"context"
	"testing"
	"time"

	"studycafe/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeStatus_Available(t *testing.T) {
	seat := models.Seat{ID: "s1", SeatNumber: 1}

	statuses := ComputeStatus([]models.Seat{seat}, nil, nil, testStart)
	require.Len(t, statuses, 1)

	assert.Equal(t, models.SeatStateAvailable, statuses[0].State)
	assert.True(t, statuses[0].IsAvailable)
	assert.Nil(t, statuses[0].StudentID)
}

func TestComputeStatus_ReservedWithRemainingMinutes(t *testing.T) {
	seat := models.Seat{ID: "s1", SeatNumber: 1}
	reservation := models.Reservation{
		ID:        "r1",
		SeatID:    "s1",
		StudentID: 100,
		StartAt:   testStart,
		EndAt:     testStart.Add(120 * time.Minute),
		Status:    models.ReservationActive,
	}

	statuses := ComputeStatus([]models.Seat{seat}, []models.Reservation{reservation}, nil, testStart.Add(30*time.Minute))
	require.Len(t, statuses, 1)

	assert.Equal(t, models.SeatStateReserved, statuses[0].State)
	assert.False(t, statuses[0].IsAvailable)
	require.NotNil(t, statuses[0].RemainingMinutes)
	assert.Equal(t, 90, *statuses[0].RemainingMinutes)
	require.NotNil(t, statuses[0].StudentID)
	assert.Equal(t, int64(100), *statuses[0].StudentID)
}

func TestComputeStatus_OverdueReservationIsAvailable(t *testing.T) {
	seat := models.Seat{ID: "s1", SeatNumber: 1}
	reservation := models.Reservation{
		ID:      "r1",
		SeatID:  "s1",
		StartAt: testStart,
		EndAt:   testStart.Add(120 * time.Minute),
		Status:  models.ReservationActive,
	}

	// stored status still says active, but the end time has passed
	statuses := ComputeStatus([]models.Seat{seat}, []models.Reservation{reservation}, nil, testStart.Add(121*time.Minute))
	require.Len(t, statuses, 1)

	assert.Equal(t, models.SeatStateAvailable, statuses[0].State)
	assert.True(t, statuses[0].IsAvailable)
	assert.Nil(t, statuses[0].Reservation)
}

func TestComputeStatus_FixedShadowsReserved(t *testing.T) {
	seat := models.Seat{ID: "s1", SeatNumber: 1}
	reservation := models.Reservation{
		ID:        "r1",
		SeatID:    "s1",
		StudentID: 100,
		StartAt:   testStart,
		EndAt:     testStart.Add(120 * time.Minute),
		Status:    models.ReservationActive,
	}
	assignment := models.FixedSeatAssignment{
		ID:        "a1",
		SeatID:    "s1",
		StudentID: 500,
		StartDate: testStart.AddDate(0, 0, -1),
		EndDate:   testStart.AddDate(0, 0, 1),
	}

	statuses := ComputeStatus([]models.Seat{seat},
		[]models.Reservation{reservation}, []models.FixedSeatAssignment{assignment}, testStart)
	require.Len(t, statuses, 1)

	assert.Equal(t, models.SeatStateFixed, statuses[0].State)
	assert.True(t, statuses[0].IsFixed)
	require.NotNil(t, statuses[0].StudentID)
	assert.Equal(t, int64(500), *statuses[0].StudentID)
	assert.Nil(t, statuses[0].Reservation)
}

func TestComputeStatus_AssignmentOutsideRange(t *testing.T) {
	seat := models.Seat{ID: "s1", SeatNumber: 1}
	assignment := models.FixedSeatAssignment{
		ID:        "a1",
		SeatID:    "s1",
		StartDate: testStart.AddDate(0, 0, 1),
		EndDate:   testStart.AddDate(0, 0, 5),
	}

	statuses := ComputeStatus([]models.Seat{seat}, nil, []models.FixedSeatAssignment{assignment}, testStart)
	require.Len(t, statuses, 1)

	assert.Equal(t, models.SeatStateAvailable, statuses[0].State)
}

func TestComputeStatus_OrderedBySeatNumber(t *testing.T) {
	seats := []models.Seat{
		{ID: "s3", SeatNumber: 3},
		{ID: "s1", SeatNumber: 1},
		{ID: "s2", SeatNumber: 2},
	}

	statuses := ComputeStatus(seats, nil, nil, testStart)
	require.Len(t, statuses, 3)

	assert.Equal(t, 1, statuses[0].Seat.SeatNumber)
	assert.Equal(t, 2, statuses[1].Seat.SeatNumber)
	assert.Equal(t, 3, statuses[2].Seat.SeatNumber)
}

func TestSeatStatus_PollingScenario(t *testing.T) {
	env := newTestEnv(t)
	seat := env.addSeat(1, 1)
	env.addSeat(1, 2)

	_, err := env.services.Reservations.Reserve(context.Background(), seat.ID, 100, 1)
	require.NoError(t, err)

	env.clock.Advance(30 * time.Minute)

	statuses, err := env.services.Seats.Status(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, statuses, 2)

	assert.Equal(t, models.SeatStateReserved, statuses[0].State)
	require.NotNil(t, statuses[0].RemainingMinutes)
	assert.Equal(t, 90, *statuses[0].RemainingMinutes)
	assert.Equal(t, models.SeatStateAvailable, statuses[1].State)

	env.clock.Advance(91 * time.Minute)

	statuses, err = env.services.Seats.Status(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, models.SeatStateAvailable, statuses[0].State)

	// the read persisted the expiry and published exactly one event
	active, err := env.store.Reservations().ListActiveByCenter(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, active)
	assert.Equal(t, 1, env.publisher.count(models.EventReservationExpired))

	// repeated polls do not re-publish
	_, err = env.services.Seats.Status(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, env.publisher.count(models.EventReservationExpired))
}

func TestSeatStatus_FixedSeatVisibility(t *testing.T) {
	env := newTestEnv(t)
	seat := env.addSeat(1, 1)

	assignment, err := env.services.Assignments.Assign(context.Background(),
		seat.ID, 500, 1, testStart, testStart.AddDate(0, 0, 7), 900, true)
	require.NoError(t, err)

	statuses, err := env.services.Seats.Status(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, statuses, 1)
	assert.Equal(t, models.SeatStateFixed, statuses[0].State)

	require.NoError(t, env.services.Assignments.Remove(context.Background(), assignment.ID, true))

	statuses, err = env.services.Seats.Status(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, models.SeatStateAvailable, statuses[0].State)
}
