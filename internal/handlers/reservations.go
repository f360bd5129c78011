package handlers

import (
	"net/http"

	"studycafe/internal/middleware"
	"studycafe/internal/models"

	"github.com/gin-gonic/gin"
)

// CreateReservation handles POST /api/reservations. The reserving
// student is the authenticated actor.
func (h *Handlers) CreateReservation(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "unauthorized", Code: "unauthorized"})
		return
	}

	var req models.ReserveSeatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "seat_id and center_id are required")
		return
	}

	reservation, err := h.services.Reservations.Reserve(c.Request.Context(), req.SeatID, actor.ID, req.CenterID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, reservation)
}

// ReleaseReservation handles POST /api/reservations/release. Releasing
// a missing or already-finished reservation succeeds without effect.
func (h *Handlers) ReleaseReservation(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "unauthorized", Code: "unauthorized"})
		return
	}

	var req models.ReleaseReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "reservation_id is required")
		return
	}

	if err := h.services.Reservations.Release(c.Request.Context(), req.ReservationID, actor.ID, actor.IsStaff()); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
