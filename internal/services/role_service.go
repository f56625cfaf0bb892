package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"north_staffing_backend/internal/models"
	"north_staffing_backend/internal/repositories"
	"north_staffing_backend/pkg/utils"
)

// --- Role DTOs ---
type CreateRoleRequest struct {
	Name        string  `json:"name" binding:"required,max=128"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
}

type UpdateRoleRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=128"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
}

// --- RoleService Interface ---
// The role catalog lists the kinds of work shifts can ask for. While it is
// empty, shifts accept any role name.
type RoleService interface {
	CreateRole(ctx context.Context, actor Actor, req CreateRoleRequest) (*models.JobRole, error)
	GetRole(ctx context.Context, roleID int64) (*models.JobRole, error)
	ListRoles(ctx context.Context) ([]models.JobRole, error)
	UpdateRole(ctx context.Context, actor Actor, roleID int64, req UpdateRoleRequest) (*models.JobRole, error)
	DeleteRole(ctx context.Context, actor Actor, roleID int64) error
}

type roleService struct {
	store repositories.Store
}

// NewRoleService creates a new instance of RoleService.
func NewRoleService(store repositories.Store) RoleService {
	return &roleService{store: store}
}

// resolveRole maps a requested shift role onto its catalog spelling. With an
// empty catalog the trimmed name is accepted as is.
func resolveRole(ctx context.Context, store repositories.Store, name string) (string, error) {
	name = strings.TrimSpace(name)
	role, err := store.Roles().FindByName(ctx, name)
	if err == nil {
		return role.Name, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return "", fmt.Errorf("failed to look up role: %w", err)
	}
	roles, err := store.Roles().List(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to list roles: %w", err)
	}
	if len(roles) > 0 {
		return "", invalidField("role", "is not in the role catalog")
	}
	return name, nil
}

// roleInUse reports whether a shift that can still be worked asks for the role.
func roleInUse(ctx context.Context, store repositories.Store, name string) (bool, error) {
	shifts, err := store.Shifts().List(ctx, models.ShiftFilters{Role: &name})
	if err != nil {
		return false, fmt.Errorf("failed to list shifts for role: %w", err)
	}
	for _, sh := range shifts {
		if sh.Status.IsStaffable() || sh.Status == models.ShiftStatusInProgress {
			return true, nil
		}
	}
	return false, nil
}

func (s *roleService) CreateRole(ctx context.Context, actor Actor, req CreateRoleRequest) (*models.JobRole, error) {
	if err := requireManager(actor); err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if utils.IsEmpty(req.Name) {
		return nil, invalidField("name", "is required")
	}

	name := strings.TrimSpace(req.Name)
	if _, err := s.store.Roles().FindByName(ctx, name); err == nil {
		return nil, ErrRoleExists
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to check role name: %w", err)
	}

	role := &models.JobRole{Name: name, Description: utils.TrimmedPtr(req.Description)}
	if err := s.store.Roles().Create(ctx, role); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrRoleExists
		}
		return nil, fmt.Errorf("failed to create role: %w", err)
	}
	return role, nil
}

func (s *roleService) GetRole(ctx context.Context, roleID int64) (*models.JobRole, error) {
	role, err := s.store.Roles().FindByID(ctx, roleID)
	if err != nil {
		return nil, notFoundAs(err, ErrRoleNotFound, "get role")
	}
	return role, nil
}

func (s *roleService) ListRoles(ctx context.Context) ([]models.JobRole, error) {
	roles, err := s.store.Roles().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	return roles, nil
}

// UpdateRole edits a catalog entry. Renaming is refused while active shifts
// still ask for the old name.
func (s *roleService) UpdateRole(ctx context.Context, actor Actor, roleID int64, req UpdateRoleRequest) (*models.JobRole, error) {
	if err := requireManager(actor); err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	var updated *models.JobRole
	err := s.store.WithTx(ctx, func(tx repositories.Store) error {
		role, err := tx.Roles().FindByID(ctx, roleID)
		if err != nil {
			return notFoundAs(err, ErrRoleNotFound, "get role for update")
		}

		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				return invalidField("name", "cannot be empty")
			}
			if !strings.EqualFold(name, role.Name) {
				if other, err := tx.Roles().FindByName(ctx, name); err == nil && other.ID != role.ID {
					return ErrRoleExists
				} else if err != nil && !errors.Is(err, repositories.ErrNotFound) {
					return fmt.Errorf("failed to check role name: %w", err)
				}
				inUse, err := roleInUse(ctx, tx, role.Name)
				if err != nil {
					return err
				}
				if inUse {
					return ErrRoleInUse
				}
			}
			role.Name = name
		}
		if req.Description != nil {
			role.Description = utils.TrimmedPtr(req.Description)
		}

		if err := tx.Roles().Update(ctx, role); err != nil {
			if errors.Is(err, repositories.ErrDuplicateKey) {
				return ErrRoleExists
			}
			return notFoundAs(err, ErrRoleNotFound, "update role")
		}
		updated = role
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *roleService) DeleteRole(ctx context.Context, actor Actor, roleID int64) error {
	if err := requireManager(actor); err != nil {
		return err
	}
	return s.store.WithTx(ctx, func(tx repositories.Store) error {
		role, err := tx.Roles().FindByID(ctx, roleID)
		if err != nil {
			return notFoundAs(err, ErrRoleNotFound, "get role for delete")
		}
		inUse, err := roleInUse(ctx, tx, role.Name)
		if err != nil {
			return err
		}
		if inUse {
			return ErrRoleInUse
		}
		if err := tx.Roles().Delete(ctx, roleID); err != nil {
			return notFoundAs(err, ErrRoleNotFound, "delete role")
		}
		utils.LogInfo("Role deleted", map[string]interface{}{"role_id": roleID, "name": role.Name, "by": actor.UserID})
		return nil
	})
}
