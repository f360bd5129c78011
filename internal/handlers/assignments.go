package handlers

import (
	"net/http"
	"time"

	"studycafe/internal/middleware"
	"studycafe/internal/models"

	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

func parseDateRange(c *gin.Context, start, end string) (time.Time, time.Time, bool) {
	startDate, err := time.Parse(dateLayout, start)
	if err != nil {
		badRequest(c, "start_date must be YYYY-MM-DD")
		return time.Time{}, time.Time{}, false
	}
	endDate, err := time.Parse(dateLayout, end)
	if err != nil {
		badRequest(c, "end_date must be YYYY-MM-DD")
		return time.Time{}, time.Time{}, false
	}
	return startDate, endDate, true
}

// CreateAssignment handles POST /api/assignments (staff only)
func (h *Handlers) CreateAssignment(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "unauthorized", Code: "unauthorized"})
		return
	}

	var req models.AssignSeatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "seat_id, student_id, center_id, start_date and end_date are required")
		return
	}

	startDate, endDate, ok := parseDateRange(c, req.StartDate, req.EndDate)
	if !ok {
		return
	}

	assignment, err := h.services.Assignments.Assign(c.Request.Context(),
		req.SeatID, req.StudentID, req.CenterID, startDate, endDate, actor.ID, actor.IsStaff())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, assignment)
}

// UpdateAssignment handles PATCH /api/assignments/:id (staff only)
func (h *Handlers) UpdateAssignment(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "unauthorized", Code: "unauthorized"})
		return
	}

	var req models.UpdateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "start_date and end_date are required")
		return
	}

	startDate, endDate, ok := parseDateRange(c, req.StartDate, req.EndDate)
	if !ok {
		return
	}

	assignment, err := h.services.Assignments.UpdateDates(c.Request.Context(),
		c.Param("id"), startDate, endDate, actor.IsStaff())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, assignment)
}

// DeleteAssignment handles DELETE /api/assignments/:id (staff only)
func (h *Handlers) DeleteAssignment(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "unauthorized", Code: "unauthorized"})
		return
	}

	if err := h.services.Assignments.Remove(c.Request.Context(), c.Param("id"), actor.IsStaff()); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
