package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"studycafe/internal/clock"
	"studycafe/internal/middleware"
	"studycafe/internal/models"
	"studycafe/internal/repository"
	"studycafe/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testStart = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

type allowAllFeatures struct{}

func (allowAllFeatures) StudyCafeEnabled(ctx context.Context, centerID int64) (bool, error) {
	return true, nil
}

type testServer struct {
	router *gin.Engine
	store  *repository.MemoryStore
	clock  *clock.Mock
}

// setupServer builds a router over the in-memory store. Instead of the
// directory-backed Identity middleware, a test middleware trusts the
// X-Actor-ID and X-Actor-Capability headers directly.
func setupServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := repository.NewMemoryStore()
	mock := clock.NewMock(testStart)

	services := service.NewServices(service.Deps{
		Seats:        store.Seats(),
		Reservations: store.Reservations(),
		Assignments:  store.Assignments(),
		Features:     allowAllFeatures{},
		Clock:        mock,
	})

	h := NewHandlers(services)

	router := gin.New()
	router.GET("/health", h.HealthCheck)

	api := router.Group("/api")
	api.Use(func(c *gin.Context) {
		var actor middleware.Actor
		fmt.Sscanf(c.GetHeader("X-Actor-ID"), "%d", &actor.ID)
		actor.Capability = c.GetHeader("X-Actor-Capability")
		middleware.SetActor(c, actor)
		c.Next()
	})
	{
		api.GET("/seats", h.ListSeats)
		api.GET("/seats/status", h.SeatStatus)
		api.GET("/seats/:id", h.GetSeat)
		api.POST("/reservations", h.CreateReservation)
		api.POST("/reservations/release", h.ReleaseReservation)
		api.POST("/assignments", h.CreateAssignment)
		api.PATCH("/assignments/:id", h.UpdateAssignment)
		api.DELETE("/assignments/:id", h.DeleteAssignment)
	}

	return &testServer{router: router, store: store, clock: mock}
}

func (s *testServer) do(method, path string, body interface{}, actorID int64, capability string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}

	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Actor-ID", fmt.Sprintf("%d", actorID))
	req.Header.Set("X-Actor-Capability", capability)

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) addSeat(centerID int64, seatNumber int) models.Seat {
	return s.store.AddSeat(models.Seat{CenterID: centerID, SeatNumber: seatNumber, IsActive: true})
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) models.ErrorResponse {
	t.Helper()
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHealthCheck(t *testing.T) {
	s := setupServer(t)

	w := s.do(http.MethodGet, "/health", nil, 0, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCreateReservation(t *testing.T) {
	s := setupServer(t)
	seat := s.addSeat(1, 1)

	w := s.do(http.MethodPost, "/api/reservations",
		models.ReserveSeatRequest{SeatID: seat.ID, CenterID: 1}, 100, models.CapabilityStudent)
	require.Equal(t, http.StatusCreated, w.Code)

	var reservation models.Reservation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reservation))
	assert.Equal(t, seat.ID, reservation.SeatID)
	assert.Equal(t, int64(100), reservation.StudentID)
	assert.Equal(t, models.ReservationActive, reservation.Status)
}

func TestCreateReservation_Conflicts(t *testing.T) {
	s := setupServer(t)
	seatA := s.addSeat(1, 1)
	seatB := s.addSeat(1, 2)

	w := s.do(http.MethodPost, "/api/reservations",
		models.ReserveSeatRequest{SeatID: seatA.ID, CenterID: 1}, 100, models.CapabilityStudent)
	require.Equal(t, http.StatusCreated, w.Code)

	// same seat, another student
	w = s.do(http.MethodPost, "/api/reservations",
		models.ReserveSeatRequest{SeatID: seatA.ID, CenterID: 1}, 200, models.CapabilityStudent)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "seat_occupied", decodeError(t, w).Code)

	// another seat, same student
	w = s.do(http.MethodPost, "/api/reservations",
		models.ReserveSeatRequest{SeatID: seatB.ID, CenterID: 1}, 100, models.CapabilityStudent)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "already_reserved", decodeError(t, w).Code)
}

func TestCreateReservation_BadRequest(t *testing.T) {
	s := setupServer(t)

	w := s.do(http.MethodPost, "/api/reservations", gin.H{"seat_id": ""}, 100, models.CapabilityStudent)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateReservation_UnknownSeat(t *testing.T) {
	s := setupServer(t)

	w := s.do(http.MethodPost, "/api/reservations",
		models.ReserveSeatRequest{SeatID: "no-such-seat", CenterID: 1}, 100, models.CapabilityStudent)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "not_found", decodeError(t, w).Code)
}

func TestReleaseReservation(t *testing.T) {
	s := setupServer(t)
	seat := s.addSeat(1, 1)

	w := s.do(http.MethodPost, "/api/reservations",
		models.ReserveSeatRequest{SeatID: seat.ID, CenterID: 1}, 100, models.CapabilityStudent)
	require.Equal(t, http.StatusCreated, w.Code)

	var reservation models.Reservation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reservation))

	// another student cannot release it
	w = s.do(http.MethodPost, "/api/reservations/release",
		models.ReleaseReservationRequest{ReservationID: reservation.ID}, 200, models.CapabilityStudent)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "forbidden", decodeError(t, w).Code)

	// the owner can, repeatedly
	w = s.do(http.MethodPost, "/api/reservations/release",
		models.ReleaseReservationRequest{ReservationID: reservation.ID}, 100, models.CapabilityStudent)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodPost, "/api/reservations/release",
		models.ReleaseReservationRequest{ReservationID: reservation.ID}, 100, models.CapabilityStudent)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSeatStatus(t *testing.T) {
	s := setupServer(t)
	seat := s.addSeat(1, 1)
	s.addSeat(1, 2)

	w := s.do(http.MethodPost, "/api/reservations",
		models.ReserveSeatRequest{SeatID: seat.ID, CenterID: 1}, 100, models.CapabilityStudent)
	require.Equal(t, http.StatusCreated, w.Code)

	s.clock.Advance(30 * time.Minute)

	w = s.do(http.MethodGet, "/api/seats/status?center_id=1", nil, 100, models.CapabilityStudent)
	require.Equal(t, http.StatusOK, w.Code)

	var statuses []models.SeatStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &statuses))
	require.Len(t, statuses, 2)

	assert.Equal(t, models.SeatStateReserved, statuses[0].State)
	require.NotNil(t, statuses[0].RemainingMinutes)
	assert.Equal(t, 90, *statuses[0].RemainingMinutes)
	assert.Equal(t, models.SeatStateAvailable, statuses[1].State)
}

func TestSeatStatus_RequiresCenterID(t *testing.T) {
	s := setupServer(t)

	w := s.do(http.MethodGet, "/api/seats/status", nil, 100, models.CapabilityStudent)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListSeats(t *testing.T) {
	s := setupServer(t)
	s.addSeat(1, 1)
	s.addSeat(2, 1)

	w := s.do(http.MethodGet, "/api/seats?center_id=1", nil, 100, models.CapabilityStudent)
	require.Equal(t, http.StatusOK, w.Code)

	var seats []models.Seat
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &seats))
	assert.Len(t, seats, 1)
}

func TestGetSeat(t *testing.T) {
	s := setupServer(t)
	seat := s.addSeat(1, 1)

	w := s.do(http.MethodGet, "/api/seats/"+seat.ID, nil, 100, models.CapabilityStudent)
	require.Equal(t, http.StatusOK, w.Code)

	var got models.Seat
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, seat.ID, got.ID)

	w = s.do(http.MethodGet, "/api/seats/no-such-seat", nil, 100, models.CapabilityStudent)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateAssignment(t *testing.T) {
	s := setupServer(t)
	seat := s.addSeat(1, 1)

	body := models.AssignSeatRequest{
		SeatID:    seat.ID,
		StudentID: 500,
		CenterID:  1,
		StartDate: "2026-03-01",
		EndDate:   "2026-03-31",
	}

	// students may not assign
	w := s.do(http.MethodPost, "/api/assignments", body, 100, models.CapabilityStudent)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodPost, "/api/assignments", body, 900, models.CapabilityStaff)
	require.Equal(t, http.StatusCreated, w.Code)

	var assignment models.FixedSeatAssignment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &assignment))
	assert.NotEmpty(t, assignment.ID)
	assert.Equal(t, int64(900), assignment.AssignedByID)

	// overlapping range is a conflict
	w = s.do(http.MethodPost, "/api/assignments", body, 900, models.CapabilityStaff)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "overlapping_assignment", decodeError(t, w).Code)
}

func TestCreateAssignment_BadDates(t *testing.T) {
	s := setupServer(t)
	seat := s.addSeat(1, 1)

	body := models.AssignSeatRequest{
		SeatID:    seat.ID,
		StudentID: 500,
		CenterID:  1,
		StartDate: "03/01/2026",
		EndDate:   "2026-03-31",
	}
	w := s.do(http.MethodPost, "/api/assignments", body, 900, models.CapabilityStaff)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body.StartDate = "2026-04-01"
	w = s.do(http.MethodPost, "/api/assignments", body, 900, models.CapabilityStaff)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_date_range", decodeError(t, w).Code)
}

func TestUpdateAndDeleteAssignment(t *testing.T) {
	s := setupServer(t)
	seat := s.addSeat(1, 1)

	w := s.do(http.MethodPost, "/api/assignments", models.AssignSeatRequest{
		SeatID:    seat.ID,
		StudentID: 500,
		CenterID:  1,
		StartDate: "2026-03-01",
		EndDate:   "2026-03-31",
	}, 900, models.CapabilityStaff)
	require.Equal(t, http.StatusCreated, w.Code)

	var assignment models.FixedSeatAssignment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &assignment))

	w = s.do(http.MethodPatch, "/api/assignments/"+assignment.ID,
		models.UpdateAssignmentRequest{StartDate: "2026-03-10", EndDate: "2026-04-10"}, 900, models.CapabilityStaff)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodPatch, "/api/assignments/no-such-id",
		models.UpdateAssignmentRequest{StartDate: "2026-03-10", EndDate: "2026-04-10"}, 900, models.CapabilityStaff)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodDelete, "/api/assignments/"+assignment.ID, nil, 900, models.CapabilityStaff)
	assert.Equal(t, http.StatusNoContent, w.Code)

	// deleting again is still a success
	w = s.do(http.MethodDelete, "/api/assignments/"+assignment.ID, nil, 900, models.CapabilityStaff)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(http.MethodDelete, "/api/assignments/"+assignment.ID, nil, 100, models.CapabilityStudent)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
