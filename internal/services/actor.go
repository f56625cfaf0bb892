package services

import (
	"strings"
	"time"

	"north_staffing_backend/internal/models"
)

// Actor is the authenticated caller, taken from the JWT claims.
type Actor struct {
	UserID int64
	Role   string
}

func (a Actor) IsManager() bool { return models.IsManagerRole(a.Role) }
func (a Actor) IsAdmin() bool   { return strings.EqualFold(a.Role, models.RoleAdmin) }
func (a Actor) IsStaff() bool   { return strings.EqualFold(a.Role, models.RoleStaff) }

// Owns reports whether the actor is the given staff member.
func (a Actor) Owns(staffID int64) bool { return a.UserID == staffID }

func requireManager(a Actor) error {
	if !a.IsManager() {
		return ErrForbidden
	}
	return nil
}

func requireAdmin(a Actor) error {
	if !a.IsAdmin() {
		return ErrForbidden
	}
	return nil
}

// clock is swapped in tests.
type clock func() time.Time

func utcNow() time.Time { return time.Now().UTC() }
