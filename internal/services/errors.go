package services

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"north_staffing_backend/internal/repositories"

	"github.com/go-playground/validator/v10"
)

// --- Error categories ---
// Handlers map these onto HTTP statuses; specific errors below wrap one of them.
var (
	ErrValidation         = errors.New("validation failed")
	ErrForbidden          = errors.New("you do not have permission to perform this action")
	ErrNotFound           = errors.New("resource not found")
	ErrConflict           = errors.New("conflict with current state")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// --- Custom Service Errors ---
var (
	ErrUserNotFound       = fmt.Errorf("%w: user not found", ErrNotFound)
	ErrEventNotFound      = fmt.Errorf("%w: event not found", ErrNotFound)
	ErrShiftNotFound      = fmt.Errorf("%w: shift not found", ErrNotFound)
	ErrAssignmentNotFound = fmt.Errorf("%w: assignment not found", ErrNotFound)
	ErrTimesheetNotFound  = fmt.Errorf("%w: timesheet not found", ErrNotFound)
	ErrPayrollRunNotFound = fmt.Errorf("%w: payroll run not found", ErrNotFound)
	ErrProfileNotFound    = fmt.Errorf("%w: staff profile not found", ErrNotFound)
	ErrRoleNotFound       = fmt.Errorf("%w: role not found", ErrNotFound)
	ErrEnquiryNotFound    = fmt.Errorf("%w: enquiry not found", ErrNotFound)

	ErrEmailExists         = fmt.Errorf("%w: email already exists", ErrConflict)
	ErrDuplicateAssignment = fmt.Errorf("%w: staff member already has an active assignment for this shift", ErrConflict)
	ErrShiftFull           = fmt.Errorf("%w: this shift is fully staffed", ErrConflict)
	ErrShiftNotOpen        = fmt.Errorf("%w: this shift is not accepting staff", ErrConflict)
	ErrShiftLocked         = fmt.Errorf("%w: this shift can no longer be edited", ErrConflict)
	ErrEventClosed         = fmt.Errorf("%w: this event no longer accepts shifts", ErrConflict)
	ErrAlreadyCheckedIn    = fmt.Errorf("%w: attendance already recorded", ErrConflict)
	ErrAlreadyReviewed     = fmt.Errorf("%w: timesheet has already been reviewed", ErrConflict)
	ErrDuplicateTimesheet  = fmt.Errorf("%w: a timesheet for this assignment and date already exists", ErrConflict)
	ErrAlreadyProcessed    = fmt.Errorf("%w: timesheets were processed by another payroll run", ErrConflict)
	ErrConcurrentUpdate    = fmt.Errorf("%w: the record was changed by another request, retry", ErrConflict)
	ErrProfileExists       = fmt.Errorf("%w: user already has a staff profile", ErrConflict)
	ErrRoleExists          = fmt.Errorf("%w: a role with this name already exists", ErrConflict)
	ErrRoleInUse           = fmt.Errorf("%w: role is used by active shifts", ErrConflict)

	ErrNotAssigned = fmt.Errorf("%w: staff member holds no confirmed assignment for this shift", ErrForbidden)
	ErrNotOnEvent  = fmt.Errorf("%w: staff member has no assignment at this event", ErrForbidden)
)

// ValidationError carries field-level details for malformed input.
type ValidationError struct {
	Fields map[string]string
}

func newValidationError() *ValidationError {
	return &ValidationError{Fields: map[string]string{}}
}

// invalidField is shorthand for a single-field ValidationError.
func invalidField(field, message string) error {
	v := newValidationError()
	v.Add(field, message)
	return v
}

// Add records a message for a field, keeping the first one.
func (e *ValidationError) Add(field, message string) {
	if _, exists := e.Fields[field]; !exists {
		e.Fields[field] = message
	}
}

// OrNil returns the error only if any field failed.
func (e *ValidationError) OrNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+" "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Is makes errors.Is(err, ErrValidation) hold.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// validate checks request DTOs with the same binding tags gin uses, so
// services reject bad input even when called outside HTTP.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

func validateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	v := newValidationError()
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required":
			v.Add(fe.Field(), "is required")
		case "email":
			v.Add(fe.Field(), "must be a valid email address")
		case "min":
			v.Add(fe.Field(), "must be at least "+fe.Param())
		case "max":
			v.Add(fe.Field(), "must be at most "+fe.Param())
		case "oneof":
			v.Add(fe.Field(), "must be one of: "+fe.Param())
		default:
			v.Add(fe.Field(), "is invalid")
		}
	}
	return v
}

// notFoundAs maps a repository miss onto a service not-found error and wraps
// anything else with context.
func notFoundAs(err error, notFound error, action string) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return notFound
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}
