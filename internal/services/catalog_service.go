package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"north_staffing_backend/internal/models"
	"north_staffing_backend/internal/repositories"
	"north_staffing_backend/pkg/utils"
)

const maxShiftLength = 24 * time.Hour

// --- Event DTOs ---
type CreateEventRequest struct {
	Name       string  `json:"name" binding:"required"`
	ClientName *string `json:"client_name"`
	EventDate  string  `json:"event_date" binding:"required"` // YYYY-MM-DD
	Location   *string `json:"location"`
}

type UpdateEventRequest struct {
	Name       *string `json:"name"`
	ClientName *string `json:"client_name"`
	EventDate  *string `json:"event_date"`
	Location   *string `json:"location"`
	Status     *string `json:"status"`
}

type EventQuery struct {
	Status   *string
	DateFrom *string
	DateTo   *string
}

// --- Shift DTOs ---
type CreateShiftRequest struct {
	EventID       int64   `json:"event_id" binding:"required"`
	Role          string  `json:"role" binding:"required"`
	StartTime     string  `json:"start_time" binding:"required"` // RFC3339
	EndTime       string  `json:"end_time" binding:"required"`
	RequiredCount int     `json:"required_count" binding:"required,min=1"`
	HourlyRate    float64 `json:"hourly_rate" binding:"min=0"`
}

type UpdateShiftRequest struct {
	Role          *string  `json:"role"`
	StartTime     *string  `json:"start_time"`
	EndTime       *string  `json:"end_time"`
	RequiredCount *int     `json:"required_count" binding:"omitempty,min=1"`
	HourlyRate    *float64 `json:"hourly_rate" binding:"omitempty,min=0"`
}

type UpdateShiftStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ShiftQuery filters shift listings. From and To accept RFC3339 or YYYY-MM-DD.
type ShiftQuery struct {
	EventID *int64
	Role    *string
	From    *string
	To      *string
	Status  *string
}

// --- CatalogService Interface ---
type CatalogService interface {
	CreateEvent(ctx context.Context, actor Actor, req CreateEventRequest) (*models.Event, error)
	GetEvent(ctx context.Context, eventID int64) (*models.Event, error)
	ListEvents(ctx context.Context, q EventQuery) ([]models.Event, error)
	UpdateEvent(ctx context.Context, actor Actor, eventID int64, req UpdateEventRequest) (*models.Event, error)

	CreateShift(ctx context.Context, actor Actor, req CreateShiftRequest) (*models.Shift, error)
	GetShift(ctx context.Context, shiftID int64) (*models.Shift, error)
	ListShifts(ctx context.Context, q ShiftQuery) ([]models.Shift, error)
	UpdateShift(ctx context.Context, actor Actor, shiftID int64, req UpdateShiftRequest) (*models.Shift, error)
	UpdateShiftStatus(ctx context.Context, actor Actor, shiftID int64, status string) (*models.Shift, error)
}

type catalogService struct {
	store repositories.Store
}

// NewCatalogService creates a new instance of CatalogService.
func NewCatalogService(store repositories.Store) CatalogService {
	return &catalogService{store: store}
}

func parseDate(value string) (string, error) {
	value = strings.TrimSpace(value)
	if _, err := time.Parse(models.DateLayout, value); err != nil {
		return "", errors.New("must be a date in YYYY-MM-DD format")
	}
	return value, nil
}

// parseDateTime accepts RFC3339, or a zone-less timestamp read as UTC.
func parseDateTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		parsed, err = time.Parse("2006-01-02T15:04:05", value)
		if err != nil {
			return time.Time{}, errors.New("must be an RFC3339 timestamp")
		}
	}
	return parsed.UTC(), nil
}

// parseBound accepts a timestamp or a bare date (midnight UTC).
func parseBound(value string) (time.Time, error) {
	if d, err := time.Parse(models.DateLayout, strings.TrimSpace(value)); err == nil {
		return d.UTC(), nil
	}
	return parseDateTime(value)
}

func validateShiftWindow(v *ValidationError, start, end time.Time) {
	if !end.After(start) {
		v.Add("end_time", "must be after start_time")
	} else if end.Sub(start) > maxShiftLength {
		v.Add("end_time", "shift cannot be longer than 24 hours")
	}
}

// --- Event Method Implementations ---

func (s *catalogService) CreateEvent(ctx context.Context, actor Actor, req CreateEventRequest) (*models.Event, error) {
	if err := requireManager(actor); err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	v := newValidationError()
	if utils.IsEmpty(req.Name) {
		v.Add("name", "is required")
	}
	date, err := parseDate(req.EventDate)
	if err != nil {
		v.Add("event_date", err.Error())
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	event := &models.Event{
		Name:       strings.TrimSpace(req.Name),
		ClientName: utils.TrimmedPtr(req.ClientName),
		EventDate:  date,
		Location:   utils.TrimmedPtr(req.Location),
		Status:     models.EventStatusPlanned,
	}
	if err := s.store.Events().Create(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	return event, nil
}

func (s *catalogService) GetEvent(ctx context.Context, eventID int64) (*models.Event, error) {
	event, err := s.store.Events().FindByID(ctx, eventID)
	if err != nil {
		return nil, notFoundAs(err, ErrEventNotFound, "get event")
	}
	return event, nil
}

func (s *catalogService) ListEvents(ctx context.Context, q EventQuery) ([]models.Event, error) {
	filters := models.EventFilters{}
	v := newValidationError()
	if q.Status != nil {
		if !models.IsValidEventStatus(*q.Status) {
			v.Add("status", "is not a valid event status")
		}
		st := models.EventStatus(*q.Status)
		filters.Status = &st
	}
	if q.DateFrom != nil {
		d, err := parseDate(*q.DateFrom)
		if err != nil {
			v.Add("date_from", err.Error())
		}
		filters.DateFrom = &d
	}
	if q.DateTo != nil {
		d, err := parseDate(*q.DateTo)
		if err != nil {
			v.Add("date_to", err.Error())
		}
		filters.DateTo = &d
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	events, err := s.store.Events().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

func (s *catalogService) UpdateEvent(ctx context.Context, actor Actor, eventID int64, req UpdateEventRequest) (*models.Event, error) {
	if err := requireManager(actor); err != nil {
		return nil, err
	}
	event, err := s.store.Events().FindByID(ctx, eventID)
	if err != nil {
		return nil, notFoundAs(err, ErrEventNotFound, "get event for update")
	}

	v := newValidationError()
	if req.Name != nil {
		if utils.IsEmpty(*req.Name) {
			v.Add("name", "cannot be empty")
		}
		event.Name = strings.TrimSpace(*req.Name)
	}
	if req.ClientName != nil {
		event.ClientName = utils.TrimmedPtr(req.ClientName)
	}
	if req.Location != nil {
		event.Location = utils.TrimmedPtr(req.Location)
	}
	if req.EventDate != nil {
		date, err := parseDate(*req.EventDate)
		if err != nil {
			v.Add("event_date", err.Error())
		}
		event.EventDate = date
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	if req.Status != nil && models.EventStatus(*req.Status) != event.Status {
		if !models.IsValidEventStatus(*req.Status) {
			return nil, invalidField("status", "is not a valid event status")
		}
		next := models.EventStatus(*req.Status)
		if !models.CanTransitionEvent(event.Status, next) {
			return nil, fmt.Errorf("%w: event cannot move from %s to %s", ErrInvalidTransition, event.Status, next)
		}
		event.Status = next
	}

	if err := s.store.Events().Update(ctx, event); err != nil {
		return nil, notFoundAs(err, ErrEventNotFound, "update event")
	}
	return event, nil
}

// --- Shift Method Implementations ---

func (s *catalogService) CreateShift(ctx context.Context, actor Actor, req CreateShiftRequest) (*models.Shift, error) {
	if err := requireManager(actor); err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	v := newValidationError()
	if utils.IsEmpty(req.Role) {
		v.Add("role", "is required")
	}
	start, err := parseDateTime(req.StartTime)
	if err != nil {
		v.Add("start_time", err.Error())
	}
	end, err := parseDateTime(req.EndTime)
	if err != nil {
		v.Add("end_time", err.Error())
	}
	if len(v.Fields) == 0 {
		validateShiftWindow(v, start, end)
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	event, err := s.store.Events().FindByID(ctx, req.EventID)
	if err != nil {
		return nil, notFoundAs(err, ErrEventNotFound, "get event for shift")
	}
	if !event.Status.AcceptsShifts() {
		return nil, ErrEventClosed
	}
	role, err := resolveRole(ctx, s.store, req.Role)
	if err != nil {
		return nil, err
	}

	shift := &models.Shift{
		EventID:       event.ID,
		Role:          role,
		StartTime:     start,
		EndTime:       end,
		RequiredCount: req.RequiredCount,
		FilledCount:   0,
		HourlyRate:    models.RoundTo2(req.HourlyRate),
		Status:        models.ShiftStatusOpen,
	}
	if err := s.store.Shifts().Create(ctx, shift); err != nil {
		return nil, fmt.Errorf("failed to create shift: %w", err)
	}
	return shift, nil
}

func (s *catalogService) GetShift(ctx context.Context, shiftID int64) (*models.Shift, error) {
	shift, err := s.store.Shifts().FindByID(ctx, shiftID)
	if err != nil {
		return nil, notFoundAs(err, ErrShiftNotFound, "get shift")
	}
	return shift, nil
}

func (s *catalogService) ListShifts(ctx context.Context, q ShiftQuery) ([]models.Shift, error) {
	filters := models.ShiftFilters{EventID: q.EventID, Role: utils.TrimmedPtr(q.Role)}
	v := newValidationError()
	if q.From != nil {
		from, err := parseBound(*q.From)
		if err != nil {
			v.Add("from", err.Error())
		}
		filters.StartTimeFrom = &from
	}
	if q.To != nil {
		to, err := parseBound(*q.To)
		if err != nil {
			v.Add("to", err.Error())
		}
		filters.StartTimeTo = &to
	}
	if q.Status != nil {
		if !models.IsValidShiftStatus(*q.Status) {
			v.Add("status", "is not a valid shift status")
		}
		st := models.ShiftStatus(*q.Status)
		filters.Status = &st
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	shifts, err := s.store.Shifts().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list shifts: %w", err)
	}
	return shifts, nil
}

// UpdateShift edits catalog fields. FilledCount is never written here; the
// store refuses to shrink RequiredCount below it.
func (s *catalogService) UpdateShift(ctx context.Context, actor Actor, shiftID int64, req UpdateShiftRequest) (*models.Shift, error) {
	if err := requireManager(actor); err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	shift, err := s.store.Shifts().FindByID(ctx, shiftID)
	if err != nil {
		return nil, notFoundAs(err, ErrShiftNotFound, "get shift for update")
	}
	if !shift.Status.IsStaffable() {
		return nil, ErrShiftLocked
	}

	v := newValidationError()
	if req.Role != nil {
		if utils.IsEmpty(*req.Role) {
			v.Add("role", "cannot be empty")
		}
		shift.Role = strings.TrimSpace(*req.Role)
	}
	if req.StartTime != nil {
		start, err := parseDateTime(*req.StartTime)
		if err != nil {
			v.Add("start_time", err.Error())
		}
		shift.StartTime = start
	}
	if req.EndTime != nil {
		end, err := parseDateTime(*req.EndTime)
		if err != nil {
			v.Add("end_time", err.Error())
		}
		shift.EndTime = end
	}
	if req.HourlyRate != nil {
		shift.HourlyRate = models.RoundTo2(*req.HourlyRate)
	}
	if req.RequiredCount != nil {
		shift.RequiredCount = *req.RequiredCount
	}
	if len(v.Fields) == 0 {
		validateShiftWindow(v, shift.StartTime, shift.EndTime)
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}
	if req.Role != nil {
		role, err := resolveRole(ctx, s.store, shift.Role)
		if err != nil {
			return nil, err
		}
		shift.Role = role
	}

	if err := s.store.Shifts().UpdateDetails(ctx, shift); err != nil {
		if errors.Is(err, repositories.ErrCapacityExceeded) {
			return nil, invalidField("required_count", "cannot be lower than the number of confirmed staff")
		}
		return nil, notFoundAs(err, ErrShiftNotFound, "update shift")
	}
	return s.GetShift(ctx, shiftID)
}

// UpdateShiftStatus applies a manual lifecycle change. open and filled are
// derived from staffing and cannot be requested.
func (s *catalogService) UpdateShiftStatus(ctx context.Context, actor Actor, shiftID int64, status string) (*models.Shift, error) {
	if err := requireManager(actor); err != nil {
		return nil, err
	}
	if !models.IsValidShiftStatus(status) {
		return nil, invalidField("status", "is not a valid shift status")
	}
	next := models.ShiftStatus(status)

	shift, err := s.store.Shifts().FindByID(ctx, shiftID)
	if err != nil {
		return nil, notFoundAs(err, ErrShiftNotFound, "get shift")
	}
	if !models.CanTransitionShift(shift.Status, next) {
		return nil, fmt.Errorf("%w: shift cannot move from %s to %s", ErrInvalidTransition, shift.Status, next)
	}

	if err := s.store.Shifts().UpdateStatus(ctx, shiftID, shift.Status, next); err != nil {
		if errors.Is(err, repositories.ErrStaleState) {
			return nil, ErrConcurrentUpdate
		}
		return nil, notFoundAs(err, ErrShiftNotFound, "update shift status")
	}
	utils.LogInfo("Shift status changed", map[string]interface{}{"shift_id": shiftID, "from": shift.Status, "to": next, "by": actor.UserID})
	return s.GetShift(ctx, shiftID)
}
