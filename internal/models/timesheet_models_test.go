package models

import (
	"errors"
	"testing"
)

func TestComputeHoursWorked(t *testing.T) {
	tests := []struct {
		name         string
		start, end   string
		breakMinutes int
		want         float64
	}{
		{"full day with half hour break", "09:00", "17:00", 30, 7.5},
		{"three quarter break", "08:00", "16:00", 45, 7.25},
		{"no break", "10:15", "12:45", 0, 2.5},
		{"odd minutes round to two decimals", "09:00", "09:10", 0, 0.17},
		{"break longer than span clamps to zero", "09:00", "10:00", 90, 0},
		{"single digit hour", "9:00", "11:00", 0, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeHoursWorked(tt.start, tt.end, tt.breakMinutes)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %v hours, got %v", tt.want, got)
			}
		})
	}
}

func TestComputeHoursWorkedRejectsBadInput(t *testing.T) {
	tests := []struct {
		name         string
		start, end   string
		breakMinutes int
		want         error
	}{
		{"end equals start", "09:00", "09:00", 0, ErrEndNotAfterStart},
		{"crosses midnight", "22:00", "02:00", 0, ErrEndNotAfterStart},
		{"negative break", "09:00", "17:00", -5, ErrNegativeBreak},
		{"bad start", "9am", "17:00", 0, ErrInvalidClockTime},
		{"bad end", "09:00", "25:00", 0, ErrInvalidClockTime},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeHoursWorked(tt.start, tt.end, tt.breakMinutes)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestTimesheetPayUsesSnapshotRate(t *testing.T) {
	ts := Timesheet{HoursWorked: 7.25, HourlyRate: 18.5}
	if got := ts.Pay(); got != 134.13 {
		t.Errorf("expected 134.13, got %v", got)
	}
}

func TestTimesheetReviewIsTerminal(t *testing.T) {
	if !CanTransitionTimesheet(TimesheetStatusPending, TimesheetStatusApproved) {
		t.Error("pending -> approved should be allowed")
	}
	if !CanTransitionTimesheet(TimesheetStatusPending, TimesheetStatusRejected) {
		t.Error("pending -> rejected should be allowed")
	}
	for _, from := range []TimesheetStatus{TimesheetStatusApproved, TimesheetStatusRejected} {
		for _, to := range []TimesheetStatus{TimesheetStatusPending, TimesheetStatusApproved, TimesheetStatusRejected} {
			if CanTransitionTimesheet(from, to) {
				t.Errorf("%s -> %s should be rejected", from, to)
			}
		}
	}
}
