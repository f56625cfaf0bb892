package services

import (
	"context"
	"errors"
	"fmt"

	"north_staffing_backend/internal/models"
	"north_staffing_backend/internal/repositories"
	"north_staffing_backend/pkg/utils"
)

// --- Timesheet DTOs ---
type SubmitTimesheetRequest struct {
	StaffID              int64  `json:"staff_id"` // defaults to the caller
	EventID              int64  `json:"event_id" binding:"required"`
	AssignmentID         int64  `json:"assignment_id" binding:"required"`
	Date                 string `json:"date" binding:"required"`       // YYYY-MM-DD
	StartTime            string `json:"start_time" binding:"required"` // HH:MM
	EndTime              string `json:"end_time" binding:"required"`   // HH:MM
	BreakDurationMinutes int    `json:"break_duration_minutes"`
}

type UpdateTimesheetRequest struct {
	StartTime            *string `json:"start_time"`
	EndTime              *string `json:"end_time"`
	BreakDurationMinutes *int    `json:"break_duration_minutes"`
}

type ReviewTimesheetRequest struct {
	Status       string  `json:"status" binding:"required,oneof=approved rejected"`
	ManagerNotes *string `json:"manager_notes"`
}

type TimesheetQuery struct {
	StaffID      *int64
	EventID      *int64
	AssignmentID *int64
	Status       *string
}

// --- TimesheetService Interface ---
type TimesheetService interface {
	SubmitTimesheet(ctx context.Context, actor Actor, req SubmitTimesheetRequest) (*models.Timesheet, error)
	UpdateTimesheet(ctx context.Context, actor Actor, timesheetID int64, req UpdateTimesheetRequest) (*models.Timesheet, error)
	ReviewTimesheet(ctx context.Context, actor Actor, timesheetID int64, req ReviewTimesheetRequest) (*models.Timesheet, error)
	GetTimesheet(ctx context.Context, actor Actor, timesheetID int64) (*models.Timesheet, error)
	ListTimesheets(ctx context.Context, actor Actor, q TimesheetQuery) ([]models.Timesheet, error)
}

type timesheetService struct {
	store repositories.Store
	now   clock
}

// NewTimesheetService creates a new instance of TimesheetService.
func NewTimesheetService(store repositories.Store) TimesheetService {
	return &timesheetService{store: store, now: utcNow}
}

// hoursOrInvalid computes worked hours, reporting bad input against the
// request field it came from.
func hoursOrInvalid(start, end string, breakMinutes int) (float64, error) {
	hours, err := models.ComputeHoursWorked(start, end, breakMinutes)
	if err == nil {
		return hours, nil
	}
	switch {
	case errors.Is(err, models.ErrInvalidClockTime):
		if _, perr := models.ParseClock(start); perr != nil {
			return 0, invalidField("start_time", err.Error())
		}
		return 0, invalidField("end_time", err.Error())
	case errors.Is(err, models.ErrEndNotAfterStart):
		return 0, invalidField("end_time", err.Error())
	case errors.Is(err, models.ErrNegativeBreak):
		return 0, invalidField("break_duration_minutes", err.Error())
	default:
		return 0, fmt.Errorf("%w: %v", ErrValidation, err)
	}
}

// SubmitTimesheet records hours against a confirmed or completed assignment
// held by the caller. The rate is copied from the assignment snapshot.
func (s *timesheetService) SubmitTimesheet(ctx context.Context, actor Actor, req SubmitTimesheetRequest) (*models.Timesheet, error) {
	if !actor.IsStaff() {
		return nil, ErrForbidden
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if req.StaffID != 0 && !actor.Owns(req.StaffID) {
		return nil, ErrForbidden
	}
	staffID := actor.UserID

	workDate, err := parseDate(req.Date)
	if err != nil {
		return nil, invalidField("date", err.Error())
	}
	hours, err := hoursOrInvalid(req.StartTime, req.EndTime, req.BreakDurationMinutes)
	if err != nil {
		return nil, err
	}

	assignment, err := s.store.Assignments().FindByID(ctx, req.AssignmentID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotAssigned
		}
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}
	if assignment.StaffID != staffID || !assignment.Status.HoldsShift() {
		return nil, ErrNotAssigned
	}

	shift, err := s.store.Shifts().FindByID(ctx, assignment.ShiftID)
	if err != nil {
		return nil, notFoundAs(err, ErrShiftNotFound, "get shift for timesheet")
	}
	if shift.EventID != req.EventID {
		return nil, invalidField("event_id", "does not match the assignment's event")
	}

	rate := shift.HourlyRate
	if assignment.HourlyRate != nil {
		rate = *assignment.HourlyRate
	}

	timesheet := &models.Timesheet{
		StaffID:              staffID,
		EventID:              shift.EventID,
		AssignmentID:         assignment.ID,
		WorkDate:             workDate,
		StartTime:            req.StartTime,
		EndTime:              req.EndTime,
		BreakDurationMinutes: req.BreakDurationMinutes,
		HoursWorked:          hours,
		HourlyRate:           rate,
		Status:               models.TimesheetStatusPending,
		SubmittedAt:          s.now(),
	}
	if err := s.store.Timesheets().Create(ctx, timesheet); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrDuplicateTimesheet
		}
		return nil, fmt.Errorf("failed to create timesheet: %w", err)
	}

	utils.LogInfo("Timesheet submitted", map[string]interface{}{"timesheet_id": timesheet.ID, "staff_id": staffID, "hours": hours})
	return timesheet, nil
}

// UpdateTimesheet lets the owner correct a timesheet until it is reviewed.
func (s *timesheetService) UpdateTimesheet(ctx context.Context, actor Actor, timesheetID int64, req UpdateTimesheetRequest) (*models.Timesheet, error) {
	timesheet, err := s.store.Timesheets().FindByID(ctx, timesheetID)
	if err != nil {
		return nil, notFoundAs(err, ErrTimesheetNotFound, "get timesheet")
	}
	if !actor.Owns(timesheet.StaffID) {
		return nil, ErrForbidden
	}
	if timesheet.Status != models.TimesheetStatusPending {
		return nil, ErrAlreadyReviewed
	}

	if req.StartTime != nil {
		timesheet.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		timesheet.EndTime = *req.EndTime
	}
	if req.BreakDurationMinutes != nil {
		timesheet.BreakDurationMinutes = *req.BreakDurationMinutes
	}
	hours, err := hoursOrInvalid(timesheet.StartTime, timesheet.EndTime, timesheet.BreakDurationMinutes)
	if err != nil {
		return nil, err
	}
	timesheet.HoursWorked = hours

	if err := s.store.Timesheets().UpdateEntry(ctx, timesheet); err != nil {
		if errors.Is(err, repositories.ErrStaleState) {
			return nil, ErrAlreadyReviewed
		}
		return nil, notFoundAs(err, ErrTimesheetNotFound, "update timesheet")
	}
	return timesheet, nil
}

// ReviewTimesheet is a one-shot transition out of pending.
func (s *timesheetService) ReviewTimesheet(ctx context.Context, actor Actor, timesheetID int64, req ReviewTimesheetRequest) (*models.Timesheet, error) {
	if err := requireManager(actor); err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	next := models.TimesheetStatus(req.Status)

	timesheet, err := s.store.Timesheets().FindByID(ctx, timesheetID)
	if err != nil {
		return nil, notFoundAs(err, ErrTimesheetNotFound, "get timesheet")
	}
	if !models.CanTransitionTimesheet(timesheet.Status, next) {
		return nil, ErrAlreadyReviewed
	}

	now := s.now()
	reviewer := actor.UserID
	timesheet.Status = next
	timesheet.ReviewedByManagerID = &reviewer
	timesheet.ReviewedAt = &now
	timesheet.ManagerNotes = utils.TrimmedPtr(req.ManagerNotes)

	if err := s.store.Timesheets().Review(ctx, timesheet); err != nil {
		if errors.Is(err, repositories.ErrStaleState) {
			return nil, ErrAlreadyReviewed
		}
		return nil, notFoundAs(err, ErrTimesheetNotFound, "review timesheet")
	}

	utils.LogInfo("Timesheet reviewed", map[string]interface{}{"timesheet_id": timesheetID, "status": next, "reviewer_id": reviewer})
	return timesheet, nil
}

func (s *timesheetService) GetTimesheet(ctx context.Context, actor Actor, timesheetID int64) (*models.Timesheet, error) {
	timesheet, err := s.store.Timesheets().FindByID(ctx, timesheetID)
	if err != nil {
		return nil, notFoundAs(err, ErrTimesheetNotFound, "get timesheet")
	}
	if !actor.IsManager() && !actor.Owns(timesheet.StaffID) {
		return nil, ErrForbidden
	}
	return timesheet, nil
}

func (s *timesheetService) ListTimesheets(ctx context.Context, actor Actor, q TimesheetQuery) ([]models.Timesheet, error) {
	filters := models.TimesheetFilters{StaffID: q.StaffID, EventID: q.EventID, AssignmentID: q.AssignmentID}
	if !actor.IsManager() {
		if !actor.IsStaff() || (q.StaffID != nil && !actor.Owns(*q.StaffID)) {
			return nil, ErrForbidden
		}
		own := actor.UserID
		filters.StaffID = &own
	}
	if q.Status != nil {
		if !models.IsValidTimesheetStatus(*q.Status) {
			return nil, invalidField("status", "is not a valid timesheet status")
		}
		st := models.TimesheetStatus(*q.Status)
		filters.Status = &st
	}

	timesheets, err := s.store.Timesheets().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list timesheets: %w", err)
	}
	return timesheets, nil
}
