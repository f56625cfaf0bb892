package models

import (
	"errors"
	"math"
	"time"
)

const (
	// DateLayout is the wire format of work dates and payroll periods.
	DateLayout = "2006-01-02"
	// ClockLayout is the wire format of timesheet start and end times.
	ClockLayout = "15:04"
)

var (
	ErrInvalidClockTime = errors.New("must be a time of day in HH:MM format")
	ErrEndNotAfterStart = errors.New("must be after the start time on the same day")
	ErrNegativeBreak    = errors.New("cannot be negative")
)

// TimesheetStatus defines the approval state of a timesheet.
type TimesheetStatus string

const (
	TimesheetStatusPending  TimesheetStatus = "pending"
	TimesheetStatusApproved TimesheetStatus = "approved"
	TimesheetStatusRejected TimesheetStatus = "rejected"
)

// IsValidTimesheetStatus checks if the provided status string is a valid TimesheetStatus.
func IsValidTimesheetStatus(status string) bool {
	switch TimesheetStatus(status) {
	case TimesheetStatusPending, TimesheetStatusApproved, TimesheetStatusRejected:
		return true
	default:
		return false
	}
}

// Review is one-shot: approved and rejected are terminal.
var timesheetTransitions = map[TimesheetStatus][]TimesheetStatus{
	TimesheetStatusPending: {TimesheetStatusApproved, TimesheetStatusRejected},
}

// CanTransitionTimesheet reports whether a timesheet may move from one status to another.
func CanTransitionTimesheet(from, to TimesheetStatus) bool {
	return allowed(timesheetTransitions, from, to)
}

// Timesheet records hours worked against an assignment on one date.
// PayrollRunID and ProcessedAt mark the timesheet as consumed by payroll.
type Timesheet struct {
	ID                   int64           `json:"id" gorm:"primaryKey"`
	StaffID              int64           `json:"staff_id" gorm:"not null;index"`
	EventID              int64           `json:"event_id" gorm:"not null;index"`
	AssignmentID         int64           `json:"assignment_id" gorm:"not null;uniqueIndex:idx_timesheets_assignment_date"`
	WorkDate             string          `json:"date" gorm:"size:10;not null;uniqueIndex:idx_timesheets_assignment_date"`
	StartTime            string          `json:"start_time" gorm:"size:5;not null"`
	EndTime              string          `json:"end_time" gorm:"size:5;not null"`
	BreakDurationMinutes int             `json:"break_duration_minutes" gorm:"not null"`
	HoursWorked          float64         `json:"hours_worked" gorm:"not null"`
	HourlyRate           float64         `json:"hourly_rate" gorm:"not null"`
	Status               TimesheetStatus `json:"status" gorm:"size:32;not null;index"`
	SubmittedAt          time.Time       `json:"submitted_at" gorm:"not null;index"`
	ReviewedByManagerID  *int64          `json:"reviewed_by_manager_id,omitempty"`
	ReviewedAt           *time.Time      `json:"reviewed_at,omitempty"`
	ManagerNotes         *string         `json:"manager_notes,omitempty" gorm:"type:text"`
	PayrollRunID         *int64          `json:"payroll_run_id,omitempty" gorm:"index"`
	ProcessedAt          *time.Time      `json:"processed_at,omitempty"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

// IsProcessed reports whether a payroll run has already paid the timesheet.
func (t *Timesheet) IsProcessed() bool {
	return t.PayrollRunID != nil
}

// Pay is the amount owed for the timesheet at its snapshotted rate.
func (t *Timesheet) Pay() float64 {
	return RoundTo2(t.HoursWorked * t.HourlyRate)
}

// TimesheetFilters narrows timesheet listings and payroll selection.
type TimesheetFilters struct {
	StaffID         *int64
	EventID         *int64
	AssignmentID    *int64
	Status          *TimesheetStatus
	SubmittedFrom   *time.Time // inclusive
	SubmittedBefore *time.Time // exclusive
	OnlyUnprocessed bool
}

// ComputeHoursWorked derives worked hours from HH:MM clock times and a
// break in minutes, rounded to two decimals and floored at zero. Spans
// crossing midnight are rejected.
func ComputeHoursWorked(startTime, endTime string, breakMinutes int) (float64, error) {
	start, err := ParseClock(startTime)
	if err != nil {
		return 0, err
	}
	end, err := ParseClock(endTime)
	if err != nil {
		return 0, err
	}
	if !end.After(start) {
		return 0, ErrEndNotAfterStart
	}
	if breakMinutes < 0 {
		return 0, ErrNegativeBreak
	}

	hours := end.Sub(start).Hours() - float64(breakMinutes)/60
	if hours < 0 {
		hours = 0
	}
	return RoundTo2(hours), nil
}

// ParseClock parses an HH:MM time of day.
func ParseClock(value string) (time.Time, error) {
	t, err := time.Parse(ClockLayout, value)
	if err != nil {
		return time.Time{}, ErrInvalidClockTime
	}
	return t, nil
}

// RoundTo2 rounds hours and money to two decimal places.
func RoundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}
