package repositories

import (
	"context"
	"time"

	"north_staffing_backend/internal/models"
)

// Store is the persistence boundary. One implementation is chosen at startup:
// the gorm-backed relational store or the in-memory store.
type Store interface {
	Users() UserRepository
	Events() EventRepository
	Shifts() ShiftRepository
	Assignments() AssignmentRepository
	Timesheets() TimesheetRepository
	Payroll() PayrollRepository
	Messages() MessageRepository
	Profiles() StaffProfileRepository
	Roles() RoleRepository
	Enquiries() EnquiryRepository

	// WithTx runs fn in a single transaction. Repositories obtained from the
	// Store passed to fn take part in it; returning an error rolls back.
	WithTx(ctx context.Context, fn func(tx Store) error) error
}

// UserRepository defines persistence for user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id int64) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, role *string) ([]models.User, error)
}

// EventRepository defines persistence for events.
type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	FindByID(ctx context.Context, id int64) (*models.Event, error)
	List(ctx context.Context, filters models.EventFilters) ([]models.Event, error)
	Update(ctx context.Context, event *models.Event) error
}

// ShiftRepository defines persistence for shifts. FilledCount is only changed
// through IncrementFilled and DecrementFilled.
type ShiftRepository interface {
	Create(ctx context.Context, shift *models.Shift) error
	FindByID(ctx context.Context, id int64) (*models.Shift, error)
	List(ctx context.Context, filters models.ShiftFilters) ([]models.Shift, error)

	// UpdateDetails writes the catalog fields. It fails with
	// ErrCapacityExceeded if RequiredCount would drop below FilledCount and
	// re-derives open/filled from the new RequiredCount.
	UpdateDetails(ctx context.Context, shift *models.Shift) error

	// UpdateStatus moves the shift from one status to another, failing with
	// ErrStaleState if the shift is no longer in from.
	UpdateStatus(ctx context.Context, id int64, from, to models.ShiftStatus) error

	// IncrementFilled atomically adds one to FilledCount on an open shift,
	// marking it filled at capacity. ErrCapacityExceeded if not possible.
	IncrementFilled(ctx context.Context, id int64) error

	// DecrementFilled atomically removes one from FilledCount, reopening a
	// filled shift.
	DecrementFilled(ctx context.Context, id int64) error
}

// AssignmentRepository defines persistence for shift assignments.
type AssignmentRepository interface {
	Create(ctx context.Context, assignment *models.Assignment) error
	FindByID(ctx context.Context, id int64) (*models.Assignment, error)
	FindActive(ctx context.Context, shiftID, staffID int64) (*models.Assignment, error)
	List(ctx context.Context, filters models.AssignmentFilters) ([]models.Assignment, error)

	// UpdateStatus writes Status, HourlyRate and ConfirmedAt when the stored
	// status still equals from; ErrStaleState otherwise.
	UpdateStatus(ctx context.Context, assignment *models.Assignment, from models.AssignmentStatus) error

	// CheckIn and CheckOut stamp attendance on a confirmed assignment once.
	CheckIn(ctx context.Context, id int64, at time.Time) error
	CheckOut(ctx context.Context, id int64, at time.Time) error

	// ListUpcomingConfirmed joins confirmed assignments on shifts starting
	// in [from, to) with their event and staff member.
	ListUpcomingConfirmed(ctx context.Context, from, to time.Time) ([]models.ShiftReminder, error)
}

// TimesheetRepository defines persistence for timesheets.
type TimesheetRepository interface {
	Create(ctx context.Context, timesheet *models.Timesheet) error
	FindByID(ctx context.Context, id int64) (*models.Timesheet, error)
	List(ctx context.Context, filters models.TimesheetFilters) ([]models.Timesheet, error)

	// UpdateEntry rewrites the staff-editable fields of a pending timesheet.
	UpdateEntry(ctx context.Context, timesheet *models.Timesheet) error

	// Review writes the reviewer fields and the target status of a pending
	// timesheet; ErrStaleState if it was already reviewed.
	Review(ctx context.Context, timesheet *models.Timesheet) error

	// MarkProcessed stamps approved, unprocessed timesheets with the payroll
	// run and returns how many rows were stamped.
	MarkProcessed(ctx context.Context, ids []int64, runID int64, at time.Time) (int64, error)
}

// PayrollRepository defines persistence for payroll runs and their lines.
type PayrollRepository interface {
	CreateRun(ctx context.Context, run *models.PayrollRun) error
	CompleteRun(ctx context.Context, id int64) error
	FindRunByID(ctx context.Context, id int64) (*models.PayrollRun, error)
	ListRuns(ctx context.Context) ([]models.PayrollRun, error)
}

// MessageRepository defines persistence for event channel messages.
type MessageRepository interface {
	Create(ctx context.Context, message *models.Message) error
	ListByEvent(ctx context.Context, eventID int64) ([]models.Message, error)
}

// StaffProfileRepository defines persistence for staff profiles. A user has
// at most one profile; a second Create fails with ErrDuplicateKey.
type StaffProfileRepository interface {
	Create(ctx context.Context, profile *models.StaffProfile) error
	FindByID(ctx context.Context, id int64) (*models.StaffProfile, error)
	FindByUserID(ctx context.Context, userID int64) (*models.StaffProfile, error)
	List(ctx context.Context, filters models.StaffProfileFilters) ([]models.StaffProfile, error)
	Update(ctx context.Context, profile *models.StaffProfile) error
	Delete(ctx context.Context, id int64) error
}

// RoleRepository defines persistence for the job role catalog.
type RoleRepository interface {
	Create(ctx context.Context, role *models.JobRole) error
	FindByID(ctx context.Context, id int64) (*models.JobRole, error)
	// FindByName matches case-insensitively.
	FindByName(ctx context.Context, name string) (*models.JobRole, error)
	List(ctx context.Context) ([]models.JobRole, error)
	Update(ctx context.Context, role *models.JobRole) error
	Delete(ctx context.Context, id int64) error
}

// EnquiryRepository defines persistence for contact form enquiries.
type EnquiryRepository interface {
	Create(ctx context.Context, enquiry *models.Enquiry) error
	FindByID(ctx context.Context, id int64) (*models.Enquiry, error)
	List(ctx context.Context, status *models.EnquiryStatus) ([]models.Enquiry, error)
	// UpdateStatus is a compare-and-set from one status to another.
	UpdateStatus(ctx context.Context, id int64, from, to models.EnquiryStatus) error
	Delete(ctx context.Context, id int64) error
}
