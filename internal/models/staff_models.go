package models

import (
	"strings"
	"time"
)

// ShiftStatus defines the type for shift statuses
type ShiftStatus string

const (
	ShiftStatusOpen       ShiftStatus = "open"
	ShiftStatusFilled     ShiftStatus = "filled"
	ShiftStatusInProgress ShiftStatus = "in-progress"
	ShiftStatusCompleted  ShiftStatus = "completed"
	ShiftStatusCancelled  ShiftStatus = "cancelled"
)

// IsValidShiftStatus checks if the provided status string is a valid ShiftStatus.
func IsValidShiftStatus(status string) bool {
	switch ShiftStatus(status) {
	case ShiftStatusOpen,
		ShiftStatusFilled,
		ShiftStatusInProgress,
		ShiftStatusCompleted,
		ShiftStatusCancelled:
		return true
	default:
		return false
	}
}

// Transitions a manager may request directly. open <-> filled is driven by
// the assignment ledger through filled_count and never set by hand.
var shiftTransitions = map[ShiftStatus][]ShiftStatus{
	ShiftStatusOpen:       {ShiftStatusInProgress, ShiftStatusCancelled},
	ShiftStatusFilled:     {ShiftStatusInProgress, ShiftStatusCancelled},
	ShiftStatusInProgress: {ShiftStatusCompleted},
}

// CanTransitionShift reports whether a manual shift status change is allowed.
func CanTransitionShift(from, to ShiftStatus) bool {
	return allowed(shiftTransitions, from, to)
}

// IsStaffable reports whether the ledger may still add or remove staff.
func (s ShiftStatus) IsStaffable() bool {
	return s == ShiftStatusOpen || s == ShiftStatusFilled
}

// Shift is a block of work at an event requiring RequiredCount staff in a role.
type Shift struct {
	ID            int64       `json:"id" gorm:"primaryKey"`
	EventID       int64       `json:"event_id" gorm:"not null;index"`
	Role          string      `json:"role" gorm:"size:128;not null"`
	StartTime     time.Time   `json:"start_time" gorm:"not null;index"`
	EndTime       time.Time   `json:"end_time" gorm:"not null"`
	RequiredCount int         `json:"required_count" gorm:"not null"`
	FilledCount   int         `json:"filled_count" gorm:"not null"`
	HourlyRate    float64     `json:"hourly_rate" gorm:"not null"`
	Status        ShiftStatus `json:"status" gorm:"size:32;not null;index"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// ShiftFilters narrows shift listings.
type ShiftFilters struct {
	EventID       *int64
	Role          *string
	StartTimeFrom *time.Time
	StartTimeTo   *time.Time
	Status        *ShiftStatus
}

// AssignmentStatus defines the lifecycle of a staff member's binding to a shift.
type AssignmentStatus string

const (
	AssignmentStatusPending   AssignmentStatus = "pending"
	AssignmentStatusConfirmed AssignmentStatus = "confirmed"
	AssignmentStatusDeclined  AssignmentStatus = "declined"
	AssignmentStatusCompleted AssignmentStatus = "completed"
	AssignmentStatusCancelled AssignmentStatus = "cancelled"
)

// IsValidAssignmentStatus checks if the provided status string is a valid AssignmentStatus.
func IsValidAssignmentStatus(status string) bool {
	switch AssignmentStatus(status) {
	case AssignmentStatusPending,
		AssignmentStatusConfirmed,
		AssignmentStatusDeclined,
		AssignmentStatusCompleted,
		AssignmentStatusCancelled:
		return true
	default:
		return false
	}
}

var assignmentTransitions = map[AssignmentStatus][]AssignmentStatus{
	AssignmentStatusPending:   {AssignmentStatusConfirmed, AssignmentStatusDeclined},
	AssignmentStatusConfirmed: {AssignmentStatusCompleted, AssignmentStatusCancelled},
}

// CanTransitionAssignment reports whether an assignment may move from one status to another.
func CanTransitionAssignment(from, to AssignmentStatus) bool {
	return allowed(assignmentTransitions, from, to)
}

// IsActive reports whether the assignment still blocks a new one for the same pair.
func (s AssignmentStatus) IsActive() bool {
	return s != AssignmentStatusDeclined && s != AssignmentStatusCancelled
}

// HoldsShift reports whether the assignment entitles the staff member to log time.
func (s AssignmentStatus) HoldsShift() bool {
	return s == AssignmentStatusConfirmed || s == AssignmentStatusCompleted
}

// Assignment binds one staff member to one shift. HourlyRate is the shift
// rate snapshotted when the assignment is confirmed.
type Assignment struct {
	ID           int64            `json:"id" gorm:"primaryKey"`
	ShiftID      int64            `json:"shift_id" gorm:"not null;index"`
	StaffID      int64            `json:"staff_id" gorm:"not null;index"`
	Status       AssignmentStatus `json:"status" gorm:"size:32;not null;index"`
	HourlyRate   *float64         `json:"hourly_rate,omitempty"`
	AssignedAt   time.Time        `json:"assigned_at" gorm:"not null"`
	ConfirmedAt  *time.Time       `json:"confirmed_at,omitempty"`
	CheckInTime  *time.Time       `json:"check_in_time,omitempty"`
	CheckOutTime *time.Time       `json:"check_out_time,omitempty"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// TableName keeps the original table name for assignments.
func (Assignment) TableName() string {
	return "shift_assignments"
}

// AssignmentFilters narrows assignment listings.
type AssignmentFilters struct {
	ShiftID *int64
	StaffID *int64
	Status  *AssignmentStatus
}

// ScheduleEntry is one line of a staff member's calendar.
type ScheduleEntry struct {
	AssignmentID     int64            `json:"assignment_id"`
	AssignmentStatus AssignmentStatus `json:"assignment_status"`
	Shift            Shift            `json:"shift"`
	EventName        string           `json:"event_name"`
	Location         *string          `json:"location,omitempty"`
}

// ShiftReminder is a confirmed assignment joined with what a reminder needs.
type ShiftReminder struct {
	AssignmentID int64     `json:"assignment_id"`
	ShiftID      int64     `json:"shift_id"`
	EventID      int64     `json:"event_id"`
	EventName    string    `json:"event_name"`
	Location     *string   `json:"location,omitempty"`
	Role         string    `json:"role"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	StaffID      int64     `json:"staff_id"`
	StaffName    string    `json:"staff_name"`
	StaffEmail   string    `json:"staff_email"`
}

// StaffProfile is the staffing record behind a staff account: what they
// bring to an event and their standing pay rate. Shifts carry their own
// hourly rate, so PayRate is informational and never used by payroll.
type StaffProfile struct {
	ID         int64     `json:"id" gorm:"primaryKey"`
	UserID     int64     `json:"user_id" gorm:"not null;uniqueIndex"`
	Bio        *string   `json:"bio,omitempty" gorm:"type:text"`
	Skills     []string  `json:"skills" gorm:"type:text;serializer:json"`
	Experience *string   `json:"experience,omitempty" gorm:"type:text"`
	Rating     *float64  `json:"rating,omitempty"`
	PayRate    float64   `json:"pay_rate" gorm:"not null"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	User       *User     `json:"user,omitempty" gorm:"-"` // joined for responses
}

// HasSkill reports whether the profile lists skill, ignoring case.
func (p StaffProfile) HasSkill(skill string) bool {
	for _, s := range p.Skills {
		if strings.EqualFold(s, skill) {
			return true
		}
	}
	return false
}

// StaffProfileFilters narrows staff listings.
type StaffProfileFilters struct {
	Skill     *string
	MinRating *float64
}

// JobRole is a catalog entry naming the kind of work a shift needs,
// e.g. Bartender or Security.
type JobRole struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"size:128;not null;uniqueIndex"`
	Description *string   `json:"description,omitempty" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
}

func (JobRole) TableName() string {
	return "roles"
}
