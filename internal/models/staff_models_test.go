package models

import "testing"

func TestCanTransitionAssignment(t *testing.T) {
	all := []AssignmentStatus{
		AssignmentStatusPending,
		AssignmentStatusConfirmed,
		AssignmentStatusDeclined,
		AssignmentStatusCompleted,
		AssignmentStatusCancelled,
	}
	legal := map[[2]AssignmentStatus]bool{
		{AssignmentStatusPending, AssignmentStatusConfirmed}:   true,
		{AssignmentStatusPending, AssignmentStatusDeclined}:    true,
		{AssignmentStatusConfirmed, AssignmentStatusCompleted}: true,
		{AssignmentStatusConfirmed, AssignmentStatusCancelled}: true,
	}

	for _, from := range all {
		for _, to := range all {
			want := legal[[2]AssignmentStatus{from, to}]
			if got := CanTransitionAssignment(from, to); got != want {
				t.Errorf("%s -> %s: expected %v, got %v", from, to, want, got)
			}
		}
	}
}

func TestCanTransitionShift(t *testing.T) {
	if !CanTransitionShift(ShiftStatusFilled, ShiftStatusInProgress) {
		t.Error("filled -> in-progress should be allowed")
	}
	if !CanTransitionShift(ShiftStatusInProgress, ShiftStatusCompleted) {
		t.Error("in-progress -> completed should be allowed")
	}
	if CanTransitionShift(ShiftStatusOpen, ShiftStatusFilled) {
		t.Error("filled is only reachable through the assignment ledger")
	}
	if CanTransitionShift(ShiftStatusCancelled, ShiftStatusOpen) {
		t.Error("cancelled shifts must stay cancelled")
	}
}

func TestAssignmentStatusPredicates(t *testing.T) {
	if AssignmentStatusDeclined.IsActive() || AssignmentStatusCancelled.IsActive() {
		t.Error("declined and cancelled assignments must not be active")
	}
	if !AssignmentStatusPending.IsActive() {
		t.Error("pending assignments are active")
	}
	if AssignmentStatusPending.HoldsShift() {
		t.Error("pending assignments do not entitle timesheets")
	}
	if !AssignmentStatusCompleted.HoldsShift() {
		t.Error("completed assignments entitle timesheets")
	}
}

func TestIsValidStatusHelpers(t *testing.T) {
	if !IsValidShiftStatus("in-progress") || IsValidShiftStatus("in_progress") {
		t.Error("unexpected shift status validation result")
	}
	if !IsValidAssignmentStatus("declined") || IsValidAssignmentStatus("") {
		t.Error("unexpected assignment status validation result")
	}
	if !IsValidRole("Manager") || IsValidRole("owner") {
		t.Error("unexpected role validation result")
	}
}
