package handlers

import (
	"net/http"

	"north_staffing_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// RoleHandler serves the job role catalog.
type RoleHandler struct {
	roles services.RoleService
}

// NewRoleHandler creates a new RoleHandler.
func NewRoleHandler(roles services.RoleService) *RoleHandler {
	return &RoleHandler{roles: roles}
}

func (h *RoleHandler) CreateRole(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var req services.CreateRoleRequest
	if !bindJSON(c, &req) {
		return
	}

	role, err := h.roles.CreateRole(c.Request.Context(), actor, req)
	if err != nil {
		respondServiceError(c, err, "CreateRole")
		return
	}
	c.JSON(http.StatusCreated, role)
}

func (h *RoleHandler) GetRoles(c *gin.Context) {
	roles, err := h.roles.ListRoles(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "GetRoles")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": roles})
}

func (h *RoleHandler) GetRoleByID(c *gin.Context) {
	roleID, ok := parseIDParam(c, "id", "role")
	if !ok {
		return
	}

	role, err := h.roles.GetRole(c.Request.Context(), roleID)
	if err != nil {
		respondServiceError(c, err, "GetRoleByID")
		return
	}
	c.JSON(http.StatusOK, role)
}

func (h *RoleHandler) UpdateRole(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	roleID, ok := parseIDParam(c, "id", "role")
	if !ok {
		return
	}
	var req services.UpdateRoleRequest
	if !bindJSON(c, &req) {
		return
	}

	role, err := h.roles.UpdateRole(c.Request.Context(), actor, roleID, req)
	if err != nil {
		respondServiceError(c, err, "UpdateRole")
		return
	}
	c.JSON(http.StatusOK, role)
}

func (h *RoleHandler) DeleteRole(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	roleID, ok := parseIDParam(c, "id", "role")
	if !ok {
		return
	}

	if err := h.roles.DeleteRole(c.Request.Context(), actor, roleID); err != nil {
		respondServiceError(c, err, "DeleteRole")
		return
	}
	c.Status(http.StatusNoContent)
}
