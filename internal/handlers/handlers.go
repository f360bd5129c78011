// Package handlers exposes the HTTP surface over the service layer.
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	apperrors "studycafe/internal/errors"
	"studycafe/internal/logger"
	"studycafe/internal/models"
	"studycafe/internal/service"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	services *service.Services
}

func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{services: services}
}

// HealthCheck reports liveness
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// centerIDQuery parses the mandatory center_id query parameter.
func centerIDQuery(c *gin.Context) (int64, bool) {
	raw := c.Query("center_id")
	centerID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || centerID <= 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: "center_id query parameter is required",
			Code:  "bad_request",
		})
		return 0, false
	}
	return centerID, true
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: msg, Code: "bad_request"})
}

// handleServiceError maps domain errors onto HTTP statuses with a
// machine-readable code. Conflicts are 409 so clients can tell a lost
// race from a bad request.
func (h *Handlers) handleServiceError(c *gin.Context, err error) {
	status := http.StatusServiceUnavailable
	code := "unavailable"
	message := "service unavailable"

	switch {
	case errors.Is(err, apperrors.ErrSeatNotFound),
		errors.Is(err, apperrors.ErrReservationNotFound),
		errors.Is(err, apperrors.ErrAssignmentNotFound):
		status, code, message = http.StatusNotFound, "not_found", err.Error()
	case errors.Is(err, apperrors.ErrSeatOccupied):
		status, code, message = http.StatusConflict, "seat_occupied", err.Error()
	case errors.Is(err, apperrors.ErrAlreadyReserved):
		status, code, message = http.StatusConflict, "already_reserved", err.Error()
	case errors.Is(err, apperrors.ErrSeatFixed):
		status, code, message = http.StatusConflict, "seat_fixed", err.Error()
	case errors.Is(err, apperrors.ErrOverlappingAssignment):
		status, code, message = http.StatusConflict, "overlapping_assignment", err.Error()
	case errors.Is(err, apperrors.ErrSeatInactive):
		status, code, message = http.StatusConflict, "seat_inactive", err.Error()
	case errors.Is(err, apperrors.ErrInvalidDateRange):
		status, code, message = http.StatusBadRequest, "invalid_date_range", err.Error()
	case errors.Is(err, apperrors.ErrForbidden):
		status, code, message = http.StatusForbidden, "forbidden", err.Error()
	case errors.Is(err, apperrors.ErrFeatureDisabled):
		status, code, message = http.StatusForbidden, "feature_disabled", err.Error()
	default:
		logger.WithContext(c.Request.Context()).Error("Unhandled service error", "error", err)
	}

	c.JSON(status, models.ErrorResponse{Error: message, Code: code})
}
