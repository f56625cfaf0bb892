package handlers

import (
	"net/http"

	"north_staffing_backend/internal/services"
	"north_staffing_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// StaffProfileHandler serves the staff listing and individual profiles.
type StaffProfileHandler struct {
	profiles services.StaffProfileService
}

// NewStaffProfileHandler creates a new StaffProfileHandler.
func NewStaffProfileHandler(profiles services.StaffProfileService) *StaffProfileHandler {
	return &StaffProfileHandler{profiles: profiles}
}

func (h *StaffProfileHandler) CreateStaffProfile(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var req services.CreateStaffProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	profile, err := h.profiles.CreateProfile(c.Request.Context(), actor, req)
	if err != nil {
		respondServiceError(c, err, "CreateStaffProfile")
		return
	}
	c.JSON(http.StatusCreated, profile)
}

// GetStaffProfiles lists profiles, filtered by ?skill= and ?min_rating=.
func (h *StaffProfileHandler) GetStaffProfiles(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	minRating, err := utils.OptionalFloat64(c.Query("min_rating"))
	if err != nil {
		utils.RespondValidationFailed(c, "min_rating must be a number")
		return
	}
	q := services.StaffProfileQuery{Skill: optionalQuery(c, "skill"), MinRating: minRating}

	profiles, err := h.profiles.ListProfiles(c.Request.Context(), actor, q)
	if err != nil {
		respondServiceError(c, err, "GetStaffProfiles")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": profiles})
}

func (h *StaffProfileHandler) GetStaffProfileByID(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	profileID, ok := parseIDParam(c, "id", "staff profile")
	if !ok {
		return
	}

	profile, err := h.profiles.GetProfile(c.Request.Context(), actor, profileID)
	if err != nil {
		respondServiceError(c, err, "GetStaffProfileByID")
		return
	}
	c.JSON(http.StatusOK, profile)
}

// GetMyStaffProfile returns the caller's own profile.
func (h *StaffProfileHandler) GetMyStaffProfile(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	profile, err := h.profiles.GetProfileForUser(c.Request.Context(), actor, actor.UserID)
	if err != nil {
		respondServiceError(c, err, "GetMyStaffProfile")
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *StaffProfileHandler) UpdateStaffProfile(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	profileID, ok := parseIDParam(c, "id", "staff profile")
	if !ok {
		return
	}
	var req services.UpdateStaffProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	profile, err := h.profiles.UpdateProfile(c.Request.Context(), actor, profileID, req)
	if err != nil {
		respondServiceError(c, err, "UpdateStaffProfile")
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *StaffProfileHandler) DeleteStaffProfile(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	profileID, ok := parseIDParam(c, "id", "staff profile")
	if !ok {
		return
	}

	if err := h.profiles.DeleteProfile(c.Request.Context(), actor, profileID); err != nil {
		respondServiceError(c, err, "DeleteStaffProfile")
		return
	}
	c.Status(http.StatusNoContent)
}
