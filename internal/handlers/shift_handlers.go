package handlers

import (
	"net/http"

	"north_staffing_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// ShiftHandler serves the shift catalog.
type ShiftHandler struct {
	catalog services.CatalogService
}

// NewShiftHandler creates a new ShiftHandler.
func NewShiftHandler(catalog services.CatalogService) *ShiftHandler {
	return &ShiftHandler{catalog: catalog}
}

func (h *ShiftHandler) CreateShift(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var req services.CreateShiftRequest
	if !bindJSON(c, &req) {
		return
	}

	shift, err := h.catalog.CreateShift(c.Request.Context(), actor, req)
	if err != nil {
		respondServiceError(c, err, "CreateShift")
		return
	}
	c.JSON(http.StatusCreated, shift)
}

// GetShifts lists shifts, filtered by ?event_id=, ?role=, ?from=, ?to= and ?status=.
func (h *ShiftHandler) GetShifts(c *gin.Context) {
	eventID, ok := optionalInt64Query(c, "event_id")
	if !ok {
		return
	}
	q := services.ShiftQuery{
		EventID: eventID,
		Role:    optionalQuery(c, "role"),
		From:    optionalQuery(c, "from"),
		To:      optionalQuery(c, "to"),
		Status:  optionalQuery(c, "status"),
	}

	shifts, err := h.catalog.ListShifts(c.Request.Context(), q)
	if err != nil {
		respondServiceError(c, err, "GetShifts")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": shifts})
}

func (h *ShiftHandler) GetShiftByID(c *gin.Context) {
	shiftID, ok := parseIDParam(c, "id", "shift")
	if !ok {
		return
	}

	shift, err := h.catalog.GetShift(c.Request.Context(), shiftID)
	if err != nil {
		respondServiceError(c, err, "GetShiftByID")
		return
	}
	c.JSON(http.StatusOK, shift)
}

func (h *ShiftHandler) UpdateShift(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	shiftID, ok := parseIDParam(c, "id", "shift")
	if !ok {
		return
	}
	var req services.UpdateShiftRequest
	if !bindJSON(c, &req) {
		return
	}

	shift, err := h.catalog.UpdateShift(c.Request.Context(), actor, shiftID, req)
	if err != nil {
		respondServiceError(c, err, "UpdateShift")
		return
	}
	c.JSON(http.StatusOK, shift)
}

func (h *ShiftHandler) UpdateShiftStatus(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	shiftID, ok := parseIDParam(c, "id", "shift")
	if !ok {
		return
	}
	var req services.UpdateShiftStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	shift, err := h.catalog.UpdateShiftStatus(c.Request.Context(), actor, shiftID, req.Status)
	if err != nil {
		respondServiceError(c, err, "UpdateShiftStatus")
		return
	}
	c.JSON(http.StatusOK, shift)
}
