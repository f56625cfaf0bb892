package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"north_staffing_backend/internal/middleware"
	"north_staffing_backend/internal/services"
	"north_staffing_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// respondServiceError maps the service error taxonomy onto an APIError.
// Anything unrecognised is logged and answered with a generic 500.
func respondServiceError(c *gin.Context, err error, op string) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{
			"code":    utils.ErrCodeValidationFailed,
			"message": "Input validation failed",
			"details": verr.Error(),
			"fields":  verr.Fields,
		}})
		c.Abort()
	case errors.Is(err, services.ErrValidation):
		utils.RespondValidationFailed(c, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid email or password.", ""))
	case errors.Is(err, services.ErrNotAssigned):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeNotAssigned, "No confirmed assignment for this shift.", err.Error()))
	case errors.Is(err, services.ErrForbidden):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeForbidden, "You do not have permission to perform this action.", ""))
	case errors.Is(err, services.ErrNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Resource not found.", err.Error()))
	case errors.Is(err, services.ErrInvalidTransition):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeInvalidTransition, "Status change not allowed.", err.Error()))
	case errors.Is(err, services.ErrConflict):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, conflictCode(err), "Request conflicts with current state.", err.Error()))
	default:
		utils.LogError(err, op+": unexpected error", map[string]interface{}{"request_id": c.GetString(utils.RequestIDKey)})
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Internal server error.", ""))
	}
}

func conflictCode(err error) string {
	switch {
	case errors.Is(err, services.ErrShiftFull):
		return utils.ErrCodeShiftFull
	case errors.Is(err, services.ErrDuplicateAssignment):
		return utils.ErrCodeDuplicateAssignment
	case errors.Is(err, services.ErrAlreadyReviewed):
		return utils.ErrCodeAlreadyReviewed
	default:
		return utils.ErrCodeConflict
	}
}

// actorFromContext reads the caller set by middleware.AuthMiddleware.
func actorFromContext(c *gin.Context) (services.Actor, bool) {
	userIDRaw, exists := c.Get(middleware.ContextUserIDKey)
	if !exists {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "User not authenticated.", "Missing user ID in context"))
		return services.Actor{}, false
	}
	userID, ok := userIDRaw.(int64)
	if !ok {
		utils.LogError(errors.New("userID is not of type int64"), "actorFromContext: type assertion failed")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "User ID format incorrect.", ""))
		return services.Actor{}, false
	}
	return services.Actor{UserID: userID, Role: c.GetString(middleware.ContextUserRoleKey)}, true
}

func parseIDParam(c *gin.Context, name, label string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		utils.RespondValidationFailed(c, "Invalid "+label+" ID format.")
		return 0, false
	}
	return id, true
}

func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		utils.LogDebug("Rejected request payload", map[string]interface{}{"path": c.FullPath(), "error": err.Error()})
		utils.RespondValidationFailed(c, utils.SanitizeValidationError(err))
		return false
	}
	return true
}

// optionalInt64Query parses an optional numeric query parameter.
func optionalInt64Query(c *gin.Context, name string) (*int64, bool) {
	v, err := utils.OptionalInt64(c.Query(name))
	if err != nil {
		utils.RespondValidationFailed(c, name+" must be an integer")
		return nil, false
	}
	return v, true
}

func optionalQuery(c *gin.Context, name string) *string {
	return utils.NewNullString(c.Query(name))
}
