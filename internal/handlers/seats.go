package handlers

import (
	"net/http"

	"studycafe/internal/models"

	"github.com/gin-gonic/gin"
)

// ListSeats handles GET /api/seats?center_id=
func (h *Handlers) ListSeats(c *gin.Context) {
	centerID, ok := centerIDQuery(c)
	if !ok {
		return
	}

	seats, err := h.services.Seats.List(c.Request.Context(), centerID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	if seats == nil {
		seats = []models.Seat{}
	}
	c.JSON(http.StatusOK, models.ListSeatsResponse(seats))
}

// GetSeat handles GET /api/seats/:id
func (h *Handlers) GetSeat(c *gin.Context) {
	seat, err := h.services.Seats.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, seat)
}

// SeatStatus handles GET /api/seats/status?center_id=. This is the
// polling endpoint the seat map UI refreshes against.
func (h *Handlers) SeatStatus(c *gin.Context) {
	centerID, ok := centerIDQuery(c)
	if !ok {
		return
	}

	statuses, err := h.services.Seats.Status(c.Request.Context(), centerID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SeatStatusResponse(statuses))
}
