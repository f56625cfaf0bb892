package models

import (
	"strings"
	"time"
)

// Roles carried on the user record and in JWT claims.
const (
	RoleClient  = "client"
	RoleStaff   = "staff"
	RoleManager = "manager"
	RoleAdmin   = "admin"
)

// User represents an account. Staff members are users with RoleStaff; the
// staff id used by assignments and timesheets is the user's id.
type User struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	FullName     string    `json:"full_name" gorm:"size:255;not null"`
	Email        string    `json:"email" gorm:"size:255;not null;uniqueIndex"`
	PasswordHash string    `json:"-" gorm:"not null"` // '-' means don't send in JSON response
	Role         string    `json:"role" gorm:"size:32;not null;index"`
	Phone        *string   `json:"phone,omitempty" gorm:"size:64"`
	IsActive     bool      `json:"is_active" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsValidRole checks if the provided string is one of the known roles.
func IsValidRole(role string) bool {
	switch strings.ToLower(role) {
	case RoleClient, RoleStaff, RoleManager, RoleAdmin:
		return true
	default:
		return false
	}
}

// IsManagerRole reports whether the role may manage shifts and review timesheets.
func IsManagerRole(role string) bool {
	r := strings.ToLower(role)
	return r == RoleManager || r == RoleAdmin
}
