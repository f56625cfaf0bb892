package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"north_staffing_backend/internal/models"
	"north_staffing_backend/internal/repositories"
	"north_staffing_backend/pkg/utils"
)

// --- Assignment DTOs ---
type ApplyForShiftRequest struct {
	ShiftID int64  `json:"shift_id" binding:"required"`
	StaffID *int64 `json:"staff_id"` // optional, must be the caller
}

type AssignStaffRequest struct {
	ShiftID int64 `json:"shift_id" binding:"required"`
	StaffID int64 `json:"staff_id" binding:"required"`
}

type UpdateAssignmentStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type AssignmentQuery struct {
	ShiftID *int64
	StaffID *int64
	Status  *string
}

// ScheduleQuery bounds a calendar by shift start. Both accept RFC3339 or YYYY-MM-DD.
type ScheduleQuery struct {
	From *string
	To   *string
}

// --- AssignmentService Interface ---
type AssignmentService interface {
	ApplyForShift(ctx context.Context, actor Actor, req ApplyForShiftRequest) (*models.Assignment, error)
	AssignStaffToShift(ctx context.Context, actor Actor, req AssignStaffRequest) (*models.Assignment, error)
	UpdateAssignmentStatus(ctx context.Context, actor Actor, assignmentID int64, status string) (*models.Assignment, error)
	CheckIn(ctx context.Context, actor Actor, assignmentID int64) (*models.Assignment, error)
	CheckOut(ctx context.Context, actor Actor, assignmentID int64) (*models.Assignment, error)
	GetAssignment(ctx context.Context, actor Actor, assignmentID int64) (*models.Assignment, error)
	ListAssignments(ctx context.Context, actor Actor, q AssignmentQuery) ([]models.Assignment, error)
	GetStaffSchedule(ctx context.Context, actor Actor, staffID int64, q ScheduleQuery) ([]models.ScheduleEntry, error)
}

type assignmentService struct {
	store repositories.Store
	now   clock
}

// NewAssignmentService creates a new instance of AssignmentService.
func NewAssignmentService(store repositories.Store) AssignmentService {
	return &assignmentService{store: store, now: utcNow}
}

// ApplyForShift records a pending application by the calling staff member.
// Capacity is not consumed until a manager confirms.
func (s *assignmentService) ApplyForShift(ctx context.Context, actor Actor, req ApplyForShiftRequest) (*models.Assignment, error) {
	if !actor.IsStaff() {
		return nil, ErrForbidden
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if req.StaffID != nil && !actor.Owns(*req.StaffID) {
		return nil, ErrForbidden
	}
	staffID := actor.UserID

	var assignment *models.Assignment
	err := s.store.WithTx(ctx, func(tx repositories.Store) error {
		shift, err := tx.Shifts().FindByID(ctx, req.ShiftID)
		if err != nil {
			return notFoundAs(err, ErrShiftNotFound, "get shift")
		}
		if err := ensureNoActive(ctx, tx, shift.ID, staffID); err != nil {
			return err
		}
		if shift.FilledCount >= shift.RequiredCount {
			return ErrShiftFull
		}
		if shift.Status != models.ShiftStatusOpen {
			return ErrShiftNotOpen
		}

		assignment = &models.Assignment{
			ShiftID:    shift.ID,
			StaffID:    staffID,
			Status:     models.AssignmentStatusPending,
			AssignedAt: s.now(),
		}
		return createAssignment(ctx, tx, assignment)
	})
	if err != nil {
		return nil, err
	}

	utils.LogInfo("Staff applied for shift", map[string]interface{}{"assignment_id": assignment.ID, "shift_id": assignment.ShiftID, "staff_id": staffID})
	return assignment, nil
}

// AssignStaffToShift confirms a staff member directly, consuming one seat.
func (s *assignmentService) AssignStaffToShift(ctx context.Context, actor Actor, req AssignStaffRequest) (*models.Assignment, error) {
	if err := requireManager(actor); err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	staff, err := s.store.Users().FindByID(ctx, req.StaffID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, invalidField("staff_id", "does not reference an existing user")
		}
		return nil, fmt.Errorf("failed to get staff member: %w", err)
	}
	if staff.Role != models.RoleStaff || !staff.IsActive {
		return nil, invalidField("staff_id", "must reference an active staff member")
	}

	var assignment *models.Assignment
	err = s.store.WithTx(ctx, func(tx repositories.Store) error {
		shift, err := tx.Shifts().FindByID(ctx, req.ShiftID)
		if err != nil {
			return notFoundAs(err, ErrShiftNotFound, "get shift")
		}
		if err := ensureNoActive(ctx, tx, shift.ID, staff.ID); err != nil {
			return err
		}

		now := s.now()
		rate := shift.HourlyRate
		assignment = &models.Assignment{
			ShiftID:     shift.ID,
			StaffID:     staff.ID,
			Status:      models.AssignmentStatusConfirmed,
			HourlyRate:  &rate,
			AssignedAt:  now,
			ConfirmedAt: &now,
		}
		if err := createAssignment(ctx, tx, assignment); err != nil {
			return err
		}
		return incrementFilled(ctx, tx, shift.ID)
	})
	if err != nil {
		return nil, err
	}

	utils.LogInfo("Staff assigned to shift", map[string]interface{}{"assignment_id": assignment.ID, "shift_id": assignment.ShiftID, "staff_id": staff.ID, "by": actor.UserID})
	return assignment, nil
}

// UpdateAssignmentStatus applies one transition of the assignment table. The
// status compare-and-set and the shift's filled count change commit together.
func (s *assignmentService) UpdateAssignmentStatus(ctx context.Context, actor Actor, assignmentID int64, status string) (*models.Assignment, error) {
	if err := requireManager(actor); err != nil {
		return nil, err
	}
	if !models.IsValidAssignmentStatus(status) {
		return nil, invalidField("status", "is not a valid assignment status")
	}
	next := models.AssignmentStatus(status)

	var assignment *models.Assignment
	err := s.store.WithTx(ctx, func(tx repositories.Store) error {
		a, err := tx.Assignments().FindByID(ctx, assignmentID)
		if err != nil {
			return notFoundAs(err, ErrAssignmentNotFound, "get assignment")
		}
		if !models.CanTransitionAssignment(a.Status, next) {
			return fmt.Errorf("%w: assignment cannot move from %s to %s", ErrInvalidTransition, a.Status, next)
		}

		from := a.Status
		a.Status = next
		if next == models.AssignmentStatusConfirmed {
			shift, err := tx.Shifts().FindByID(ctx, a.ShiftID)
			if err != nil {
				return notFoundAs(err, ErrShiftNotFound, "get shift")
			}
			now := s.now()
			rate := shift.HourlyRate
			a.HourlyRate = &rate
			a.ConfirmedAt = &now
		}

		if err := tx.Assignments().UpdateStatus(ctx, a, from); err != nil {
			if errors.Is(err, repositories.ErrStaleState) {
				return ErrConcurrentUpdate
			}
			return notFoundAs(err, ErrAssignmentNotFound, "update assignment status")
		}

		switch {
		case from == models.AssignmentStatusPending && next == models.AssignmentStatusConfirmed:
			if err := incrementFilled(ctx, tx, a.ShiftID); err != nil {
				return err
			}
		case from == models.AssignmentStatusConfirmed && next == models.AssignmentStatusCancelled:
			if err := tx.Shifts().DecrementFilled(ctx, a.ShiftID); err != nil {
				return fmt.Errorf("failed to release shift seat: %w", err)
			}
		}
		assignment = a
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.LogInfo("Assignment status changed", map[string]interface{}{"assignment_id": assignmentID, "status": next, "by": actor.UserID})
	return assignment, nil
}

func (s *assignmentService) CheckIn(ctx context.Context, actor Actor, assignmentID int64) (*models.Assignment, error) {
	a, err := s.ownedAssignment(ctx, actor, assignmentID)
	if err != nil {
		return nil, err
	}
	if a.Status != models.AssignmentStatusConfirmed {
		return nil, fmt.Errorf("%w: only confirmed assignments can check in", ErrInvalidTransition)
	}
	if err := s.store.Assignments().CheckIn(ctx, a.ID, s.now()); err != nil {
		if errors.Is(err, repositories.ErrStaleState) {
			return nil, ErrAlreadyCheckedIn
		}
		return nil, notFoundAs(err, ErrAssignmentNotFound, "check in")
	}
	return s.reload(ctx, a.ID)
}

func (s *assignmentService) CheckOut(ctx context.Context, actor Actor, assignmentID int64) (*models.Assignment, error) {
	a, err := s.ownedAssignment(ctx, actor, assignmentID)
	if err != nil {
		return nil, err
	}
	if a.Status != models.AssignmentStatusConfirmed {
		return nil, fmt.Errorf("%w: only confirmed assignments can check out", ErrInvalidTransition)
	}
	if a.CheckInTime == nil {
		return nil, fmt.Errorf("%w: check in before checking out", ErrInvalidTransition)
	}
	if err := s.store.Assignments().CheckOut(ctx, a.ID, s.now()); err != nil {
		if errors.Is(err, repositories.ErrStaleState) {
			return nil, ErrAlreadyCheckedIn
		}
		return nil, notFoundAs(err, ErrAssignmentNotFound, "check out")
	}
	return s.reload(ctx, a.ID)
}

func (s *assignmentService) GetAssignment(ctx context.Context, actor Actor, assignmentID int64) (*models.Assignment, error) {
	a, err := s.reload(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	if !actor.IsManager() && !actor.Owns(a.StaffID) {
		return nil, ErrForbidden
	}
	return a, nil
}

// ListAssignments scopes staff to their own assignments.
func (s *assignmentService) ListAssignments(ctx context.Context, actor Actor, q AssignmentQuery) ([]models.Assignment, error) {
	filters := models.AssignmentFilters{ShiftID: q.ShiftID, StaffID: q.StaffID}
	if !actor.IsManager() {
		if !actor.IsStaff() {
			return nil, ErrForbidden
		}
		if q.StaffID != nil && !actor.Owns(*q.StaffID) {
			return nil, ErrForbidden
		}
		own := actor.UserID
		filters.StaffID = &own
	}
	if q.Status != nil {
		if !models.IsValidAssignmentStatus(*q.Status) {
			return nil, invalidField("status", "is not a valid assignment status")
		}
		st := models.AssignmentStatus(*q.Status)
		filters.Status = &st
	}

	assignments, err := s.store.Assignments().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	return assignments, nil
}

// GetStaffSchedule returns the staff member's active assignments joined with
// their shift and event, ordered by shift start.
func (s *assignmentService) GetStaffSchedule(ctx context.Context, actor Actor, staffID int64, q ScheduleQuery) ([]models.ScheduleEntry, error) {
	if !actor.IsManager() && !actor.Owns(staffID) {
		return nil, ErrForbidden
	}

	var from, to *time.Time
	v := newValidationError()
	if q.From != nil {
		t, err := parseBound(*q.From)
		if err != nil {
			v.Add("from", err.Error())
		}
		from = &t
	}
	if q.To != nil {
		t, err := parseBound(*q.To)
		if err != nil {
			v.Add("to", err.Error())
		}
		to = &t
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	assignments, err := s.store.Assignments().List(ctx, models.AssignmentFilters{StaffID: &staffID})
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments for schedule: %w", err)
	}

	events := map[int64]*models.Event{}
	entries := []models.ScheduleEntry{}
	for _, a := range assignments {
		if !a.Status.IsActive() {
			continue
		}
		shift, err := s.store.Shifts().FindByID(ctx, a.ShiftID)
		if err != nil {
			return nil, fmt.Errorf("failed to load shift %d for schedule: %w", a.ShiftID, err)
		}
		if from != nil && shift.StartTime.Before(*from) {
			continue
		}
		if to != nil && !shift.StartTime.Before(*to) {
			continue
		}
		event, ok := events[shift.EventID]
		if !ok {
			event, err = s.store.Events().FindByID(ctx, shift.EventID)
			if err != nil {
				return nil, fmt.Errorf("failed to load event %d for schedule: %w", shift.EventID, err)
			}
			events[shift.EventID] = event
		}
		entries = append(entries, models.ScheduleEntry{
			AssignmentID:     a.ID,
			AssignmentStatus: a.Status,
			Shift:            *shift,
			EventName:        event.Name,
			Location:         event.Location,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Shift.StartTime.Before(entries[j].Shift.StartTime)
	})
	return entries, nil
}

func (s *assignmentService) reload(ctx context.Context, id int64) (*models.Assignment, error) {
	a, err := s.store.Assignments().FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrAssignmentNotFound, "get assignment")
	}
	return a, nil
}

func (s *assignmentService) ownedAssignment(ctx context.Context, actor Actor, id int64) (*models.Assignment, error) {
	a, err := s.reload(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.Owns(a.StaffID) {
		return nil, ErrForbidden
	}
	return a, nil
}

func ensureNoActive(ctx context.Context, tx repositories.Store, shiftID, staffID int64) error {
	_, err := tx.Assignments().FindActive(ctx, shiftID, staffID)
	if err == nil {
		return ErrDuplicateAssignment
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("failed to check existing assignment: %w", err)
	}
	return nil
}

func createAssignment(ctx context.Context, tx repositories.Store, a *models.Assignment) error {
	if err := tx.Assignments().Create(ctx, a); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return ErrDuplicateAssignment
		}
		return fmt.Errorf("failed to create assignment: %w", err)
	}
	return nil
}

// incrementFilled takes one seat and explains a refusal as full or closed.
func incrementFilled(ctx context.Context, tx repositories.Store, shiftID int64) error {
	err := tx.Shifts().IncrementFilled(ctx, shiftID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repositories.ErrCapacityExceeded) {
		return notFoundAs(err, ErrShiftNotFound, "update shift filled count")
	}
	shift, ferr := tx.Shifts().FindByID(ctx, shiftID)
	if ferr != nil {
		return fmt.Errorf("failed to re-read shift: %w", ferr)
	}
	if shift.FilledCount >= shift.RequiredCount {
		return ErrShiftFull
	}
	return ErrShiftNotOpen
}
