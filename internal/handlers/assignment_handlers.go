package handlers

import (
	"context"
	"net/http"

	"north_staffing_backend/internal/models"
	"north_staffing_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// AssignmentHandler serves the assignment ledger and staff calendars.
type AssignmentHandler struct {
	assignments services.AssignmentService
}

// NewAssignmentHandler creates a new AssignmentHandler.
func NewAssignmentHandler(as services.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignments: as}
}

func (h *AssignmentHandler) ApplyForShift(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var req services.ApplyForShiftRequest
	if !bindJSON(c, &req) {
		return
	}

	assignment, err := h.assignments.ApplyForShift(c.Request.Context(), actor, req)
	if err != nil {
		respondServiceError(c, err, "ApplyForShift")
		return
	}
	c.JSON(http.StatusCreated, assignment)
}

func (h *AssignmentHandler) AssignStaff(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var req services.AssignStaffRequest
	if !bindJSON(c, &req) {
		return
	}

	assignment, err := h.assignments.AssignStaffToShift(c.Request.Context(), actor, req)
	if err != nil {
		respondServiceError(c, err, "AssignStaff")
		return
	}
	c.JSON(http.StatusCreated, assignment)
}

func (h *AssignmentHandler) UpdateAssignmentStatus(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	assignmentID, ok := parseIDParam(c, "id", "assignment")
	if !ok {
		return
	}
	var req services.UpdateAssignmentStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	assignment, err := h.assignments.UpdateAssignmentStatus(c.Request.Context(), actor, assignmentID, req.Status)
	if err != nil {
		respondServiceError(c, err, "UpdateAssignmentStatus")
		return
	}
	c.JSON(http.StatusOK, assignment)
}

func (h *AssignmentHandler) CheckIn(c *gin.Context) {
	h.attendance(c, "CheckIn", h.assignments.CheckIn)
}

func (h *AssignmentHandler) CheckOut(c *gin.Context) {
	h.attendance(c, "CheckOut", h.assignments.CheckOut)
}

func (h *AssignmentHandler) attendance(c *gin.Context, op string, record func(ctx context.Context, actor services.Actor, id int64) (*models.Assignment, error)) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	assignmentID, ok := parseIDParam(c, "id", "assignment")
	if !ok {
		return
	}

	assignment, err := record(c.Request.Context(), actor, assignmentID)
	if err != nil {
		respondServiceError(c, err, op)
		return
	}
	c.JSON(http.StatusOK, assignment)
}

func (h *AssignmentHandler) GetAssignmentByID(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	assignmentID, ok := parseIDParam(c, "id", "assignment")
	if !ok {
		return
	}

	assignment, err := h.assignments.GetAssignment(c.Request.Context(), actor, assignmentID)
	if err != nil {
		respondServiceError(c, err, "GetAssignmentByID")
		return
	}
	c.JSON(http.StatusOK, assignment)
}

// GetAssignments lists assignments; staff only ever see their own.
func (h *AssignmentHandler) GetAssignments(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	shiftID, ok := optionalInt64Query(c, "shift_id")
	if !ok {
		return
	}
	staffID, ok := optionalInt64Query(c, "staff_id")
	if !ok {
		return
	}

	assignments, err := h.assignments.ListAssignments(c.Request.Context(), actor, services.AssignmentQuery{
		ShiftID: shiftID,
		StaffID: staffID,
		Status:  optionalQuery(c, "status"),
	})
	if err != nil {
		respondServiceError(c, err, "GetAssignments")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": assignments})
}

// GetStaffCalendar returns a staff member's schedule between ?from= and ?to=.
func (h *AssignmentHandler) GetStaffCalendar(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	staffID, ok := parseIDParam(c, "staffId", "staff")
	if !ok {
		return
	}

	entries, err := h.assignments.GetStaffSchedule(c.Request.Context(), actor, staffID, services.ScheduleQuery{
		From: optionalQuery(c, "from"),
		To:   optionalQuery(c, "to"),
	})
	if err != nil {
		respondServiceError(c, err, "GetStaffCalendar")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": entries})
}
