package handlers

import (
	"net/http"

	"north_staffing_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// EventHandler serves events and their message channel.
type EventHandler struct {
	catalog  services.CatalogService
	messages services.MessageService
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(catalog services.CatalogService, messages services.MessageService) *EventHandler {
	return &EventHandler{catalog: catalog, messages: messages}
}

func (h *EventHandler) CreateEvent(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var req services.CreateEventRequest
	if !bindJSON(c, &req) {
		return
	}

	event, err := h.catalog.CreateEvent(c.Request.Context(), actor, req)
	if err != nil {
		respondServiceError(c, err, "CreateEvent")
		return
	}
	c.JSON(http.StatusCreated, event)
}

// GetEvents lists events, filtered by ?status=, ?date_from= and ?date_to=.
func (h *EventHandler) GetEvents(c *gin.Context) {
	q := services.EventQuery{
		Status:   optionalQuery(c, "status"),
		DateFrom: optionalQuery(c, "date_from"),
		DateTo:   optionalQuery(c, "date_to"),
	}

	events, err := h.catalog.ListEvents(c.Request.Context(), q)
	if err != nil {
		respondServiceError(c, err, "GetEvents")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": events})
}

func (h *EventHandler) GetEventByID(c *gin.Context) {
	eventID, ok := parseIDParam(c, "id", "event")
	if !ok {
		return
	}

	event, err := h.catalog.GetEvent(c.Request.Context(), eventID)
	if err != nil {
		respondServiceError(c, err, "GetEventByID")
		return
	}
	c.JSON(http.StatusOK, event)
}

func (h *EventHandler) UpdateEvent(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	eventID, ok := parseIDParam(c, "id", "event")
	if !ok {
		return
	}
	var req services.UpdateEventRequest
	if !bindJSON(c, &req) {
		return
	}

	event, err := h.catalog.UpdateEvent(c.Request.Context(), actor, eventID, req)
	if err != nil {
		respondServiceError(c, err, "UpdateEvent")
		return
	}
	c.JSON(http.StatusOK, event)
}

// PostMessage posts to the event channel as the caller.
func (h *EventHandler) PostMessage(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	eventID, ok := parseIDParam(c, "id", "event")
	if !ok {
		return
	}
	var req services.PostMessageRequest
	if !bindJSON(c, &req) {
		return
	}

	message, err := h.messages.PostMessage(c.Request.Context(), actor, eventID, req)
	if err != nil {
		respondServiceError(c, err, "PostMessage")
		return
	}
	c.JSON(http.StatusCreated, message)
}

// GetMessages reads the channel; staff need an assignment at the event.
func (h *EventHandler) GetMessages(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	eventID, ok := parseIDParam(c, "id", "event")
	if !ok {
		return
	}

	messages, err := h.messages.ListMessages(c.Request.Context(), actor, eventID)
	if err != nil {
		respondServiceError(c, err, "GetMessages")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": messages})
}
