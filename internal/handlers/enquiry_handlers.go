package handlers

import (
	"net/http"

	"north_staffing_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// EnquiryHandler serves the public contact form and the office's inbox.
type EnquiryHandler struct {
	enquiries services.EnquiryService
}

// NewEnquiryHandler creates a new EnquiryHandler.
func NewEnquiryHandler(enquiries services.EnquiryService) *EnquiryHandler {
	return &EnquiryHandler{enquiries: enquiries}
}

// SubmitEnquiry is unauthenticated.
func (h *EnquiryHandler) SubmitEnquiry(c *gin.Context) {
	var req services.SubmitEnquiryRequest
	if !bindJSON(c, &req) {
		return
	}

	enquiry, err := h.enquiries.SubmitEnquiry(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "SubmitEnquiry")
		return
	}
	c.JSON(http.StatusCreated, enquiry)
}

// GetEnquiries lists enquiries newest first, filtered by ?status=.
func (h *EnquiryHandler) GetEnquiries(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	enquiries, err := h.enquiries.ListEnquiries(c.Request.Context(), actor, optionalQuery(c, "status"))
	if err != nil {
		respondServiceError(c, err, "GetEnquiries")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": enquiries})
}

func (h *EnquiryHandler) GetEnquiryByID(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	enquiryID, ok := parseIDParam(c, "id", "enquiry")
	if !ok {
		return
	}

	enquiry, err := h.enquiries.GetEnquiry(c.Request.Context(), actor, enquiryID)
	if err != nil {
		respondServiceError(c, err, "GetEnquiryByID")
		return
	}
	c.JSON(http.StatusOK, enquiry)
}

func (h *EnquiryHandler) UpdateEnquiryStatus(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	enquiryID, ok := parseIDParam(c, "id", "enquiry")
	if !ok {
		return
	}
	var req services.UpdateEnquiryStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	enquiry, err := h.enquiries.UpdateEnquiryStatus(c.Request.Context(), actor, enquiryID, req.Status)
	if err != nil {
		respondServiceError(c, err, "UpdateEnquiryStatus")
		return
	}
	c.JSON(http.StatusOK, enquiry)
}

func (h *EnquiryHandler) DeleteEnquiry(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	enquiryID, ok := parseIDParam(c, "id", "enquiry")
	if !ok {
		return
	}

	if err := h.enquiries.DeleteEnquiry(c.Request.Context(), actor, enquiryID); err != nil {
		respondServiceError(c, err, "DeleteEnquiry")
		return
	}
	c.Status(http.StatusNoContent)
}
