package handlers

import (
	"net/http"

	"north_staffing_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// TimesheetHandler serves timesheet submission and review.
type TimesheetHandler struct {
	timesheets services.TimesheetService
}

// NewTimesheetHandler creates a new TimesheetHandler.
func NewTimesheetHandler(ts services.TimesheetService) *TimesheetHandler {
	return &TimesheetHandler{timesheets: ts}
}

func (h *TimesheetHandler) SubmitTimesheet(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var req services.SubmitTimesheetRequest
	if !bindJSON(c, &req) {
		return
	}

	timesheet, err := h.timesheets.SubmitTimesheet(c.Request.Context(), actor, req)
	if err != nil {
		respondServiceError(c, err, "SubmitTimesheet")
		return
	}
	c.JSON(http.StatusCreated, timesheet)
}

func (h *TimesheetHandler) UpdateTimesheet(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	timesheetID, ok := parseIDParam(c, "id", "timesheet")
	if !ok {
		return
	}
	var req services.UpdateTimesheetRequest
	if !bindJSON(c, &req) {
		return
	}

	timesheet, err := h.timesheets.UpdateTimesheet(c.Request.Context(), actor, timesheetID, req)
	if err != nil {
		respondServiceError(c, err, "UpdateTimesheet")
		return
	}
	c.JSON(http.StatusOK, timesheet)
}

// ReviewTimesheet approves or rejects a pending timesheet.
func (h *TimesheetHandler) ReviewTimesheet(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	timesheetID, ok := parseIDParam(c, "id", "timesheet")
	if !ok {
		return
	}
	var req services.ReviewTimesheetRequest
	if !bindJSON(c, &req) {
		return
	}

	timesheet, err := h.timesheets.ReviewTimesheet(c.Request.Context(), actor, timesheetID, req)
	if err != nil {
		respondServiceError(c, err, "ReviewTimesheet")
		return
	}
	c.JSON(http.StatusOK, timesheet)
}

func (h *TimesheetHandler) GetTimesheetByID(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	timesheetID, ok := parseIDParam(c, "id", "timesheet")
	if !ok {
		return
	}

	timesheet, err := h.timesheets.GetTimesheet(c.Request.Context(), actor, timesheetID)
	if err != nil {
		respondServiceError(c, err, "GetTimesheetByID")
		return
	}
	c.JSON(http.StatusOK, timesheet)
}

func (h *TimesheetHandler) GetTimesheets(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	q := services.TimesheetQuery{Status: optionalQuery(c, "status")}
	if q.StaffID, ok = optionalInt64Query(c, "staff_id"); !ok {
		return
	}
	if q.EventID, ok = optionalInt64Query(c, "event_id"); !ok {
		return
	}
	if q.AssignmentID, ok = optionalInt64Query(c, "assignment_id"); !ok {
		return
	}

	timesheets, err := h.timesheets.ListTimesheets(c.Request.Context(), actor, q)
	if err != nil {
		respondServiceError(c, err, "GetTimesheets")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": timesheets})
}
