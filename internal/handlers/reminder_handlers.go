package handlers

import (
	"net/http"
	"time"

	"north_staffing_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// ReminderHandler lets an admin run a reminder sweep on demand.
type ReminderHandler struct {
	reminders services.ReminderService
}

// NewReminderHandler creates a new ReminderHandler.
func NewReminderHandler(rs services.ReminderService) *ReminderHandler {
	return &ReminderHandler{reminders: rs}
}

func (h *ReminderHandler) TriggerReminders(c *gin.Context) {
	summary, err := h.reminders.SendShiftReminders(c.Request.Context(), time.Now())
	if err != nil {
		respondServiceError(c, err, "TriggerReminders")
		return
	}
	c.JSON(http.StatusOK, summary)
}
