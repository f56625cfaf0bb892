package repositories

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"north_staffing_backend/internal/models"
)

// memoryData is the full state of a MemoryStore. Rows are stored by value so
// a shallow map copy is a consistent snapshot.
type memoryData struct {
	seq          map[string]int64
	users        map[int64]models.User
	events       map[int64]models.Event
	shifts       map[int64]models.Shift
	assignments  map[int64]models.Assignment
	timesheets   map[int64]models.Timesheet
	payrollRuns  map[int64]models.PayrollRun
	payrollLines map[int64]models.PayrollLine
	messages     map[int64]models.Message
	profiles     map[int64]models.StaffProfile
	roles        map[int64]models.JobRole
	enquiries    map[int64]models.Enquiry
}

func newMemoryData() *memoryData {
	return &memoryData{
		seq:          map[string]int64{},
		users:        map[int64]models.User{},
		events:       map[int64]models.Event{},
		shifts:       map[int64]models.Shift{},
		assignments:  map[int64]models.Assignment{},
		timesheets:   map[int64]models.Timesheet{},
		payrollRuns:  map[int64]models.PayrollRun{},
		payrollLines: map[int64]models.PayrollLine{},
		messages:     map[int64]models.Message{},
		profiles:     map[int64]models.StaffProfile{},
		roles:        map[int64]models.JobRole{},
		enquiries:    map[int64]models.Enquiry{},
	}
}

func (d *memoryData) clone() *memoryData {
	return &memoryData{
		seq:          cloneMap(d.seq),
		users:        cloneMap(d.users),
		events:       cloneMap(d.events),
		shifts:       cloneMap(d.shifts),
		assignments:  cloneMap(d.assignments),
		timesheets:   cloneMap(d.timesheets),
		payrollRuns:  cloneMap(d.payrollRuns),
		payrollLines: cloneMap(d.payrollLines),
		messages:     cloneMap(d.messages),
		profiles:     cloneMap(d.profiles),
		roles:        cloneMap(d.roles),
		enquiries:    cloneMap(d.enquiries),
	}
}

func (d *memoryData) nextID(table string) int64 {
	d.seq[table]++
	return d.seq[table]
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func sortedValues[V any](m map[int64]V, less func(a, b V) bool) []V {
	out := make([]V, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// MemoryStore is an in-process Store. A single mutex serializes every
// operation; a transaction holds it for its whole duration and restores a
// snapshot when fn fails.
type MemoryStore struct {
	mu   *sync.Mutex
	data *memoryData
	inTx bool
	now  func() time.Time
}

// NewMemoryStore creates an empty in-memory Store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		mu:   &sync.Mutex{},
		data: newMemoryData(),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (s *MemoryStore) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *MemoryStore) Users() UserRepository             { return memoryUsers{s} }
func (s *MemoryStore) Events() EventRepository           { return memoryEvents{s} }
func (s *MemoryStore) Shifts() ShiftRepository           { return memoryShifts{s} }
func (s *MemoryStore) Assignments() AssignmentRepository { return memoryAssignments{s} }
func (s *MemoryStore) Timesheets() TimesheetRepository   { return memoryTimesheets{s} }
func (s *MemoryStore) Payroll() PayrollRepository        { return memoryPayroll{s} }
func (s *MemoryStore) Messages() MessageRepository       { return memoryMessages{s} }
func (s *MemoryStore) Profiles() StaffProfileRepository  { return memoryProfiles{s} }
func (s *MemoryStore) Roles() RoleRepository             { return memoryRoles{s} }
func (s *MemoryStore) Enquiries() EnquiryRepository      { return memoryEnquiries{s} }

func (s *MemoryStore) WithTx(ctx context.Context, fn func(tx Store) error) error {
	if s.inTx {
		return fn(s)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	tx := &MemoryStore{mu: s.mu, data: s.data, inTx: true, now: s.now}
	if err := fn(tx); err != nil {
		*s.data = *snapshot
		return err
	}
	return nil
}

// --- users ---

type memoryUsers struct{ s *MemoryStore }

func (r memoryUsers) Create(_ context.Context, user *models.User) error {
	defer r.s.lock()()
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	for _, u := range r.s.data.users {
		if u.Email == user.Email {
			return fmt.Errorf("%w: creating user %s", ErrDuplicateKey, user.Email)
		}
	}
	now := r.s.now()
	user.ID = r.s.data.nextID("users")
	user.CreatedAt, user.UpdatedAt = now, now
	r.s.data.users[user.ID] = *user
	return nil
}

func (r memoryUsers) FindByID(_ context.Context, id int64) (*models.User, error) {
	defer r.s.lock()()
	u, ok := r.s.data.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (r memoryUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	defer r.s.lock()()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range r.s.data.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (r memoryUsers) List(_ context.Context, role *string) ([]models.User, error) {
	defer r.s.lock()()
	all := sortedValues(r.s.data.users, func(a, b models.User) bool {
		if a.FullName != b.FullName {
			return a.FullName < b.FullName
		}
		return a.ID < b.ID
	})
	users := []models.User{}
	for _, u := range all {
		if role == nil || u.Role == strings.ToLower(*role) {
			users = append(users, u)
		}
	}
	return users, nil
}

// --- events ---

type memoryEvents struct{ s *MemoryStore }

func (r memoryEvents) Create(_ context.Context, event *models.Event) error {
	defer r.s.lock()()
	now := r.s.now()
	event.ID = r.s.data.nextID("events")
	event.CreatedAt, event.UpdatedAt = now, now
	r.s.data.events[event.ID] = *event
	return nil
}

func (r memoryEvents) FindByID(_ context.Context, id int64) (*models.Event, error) {
	defer r.s.lock()()
	e, ok := r.s.data.events[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &e, nil
}

func (r memoryEvents) List(_ context.Context, filters models.EventFilters) ([]models.Event, error) {
	defer r.s.lock()()
	all := sortedValues(r.s.data.events, func(a, b models.Event) bool {
		if a.EventDate != b.EventDate {
			return a.EventDate < b.EventDate
		}
		return a.ID < b.ID
	})
	events := []models.Event{}
	for _, e := range all {
		if filters.Status != nil && e.Status != *filters.Status {
			continue
		}
		if filters.DateFrom != nil && e.EventDate < *filters.DateFrom {
			continue
		}
		if filters.DateTo != nil && e.EventDate > *filters.DateTo {
			continue
		}
		events = append(events, e)
	}
	return events, nil
}

func (r memoryEvents) Update(_ context.Context, event *models.Event) error {
	defer r.s.lock()()
	current, ok := r.s.data.events[event.ID]
	if !ok {
		return ErrNotFound
	}
	event.CreatedAt = current.CreatedAt
	event.UpdatedAt = r.s.now()
	r.s.data.events[event.ID] = *event
	return nil
}

// --- shifts ---

type memoryShifts struct{ s *MemoryStore }

func (r memoryShifts) Create(_ context.Context, shift *models.Shift) error {
	defer r.s.lock()()
	now := r.s.now()
	shift.ID = r.s.data.nextID("shifts")
	shift.CreatedAt, shift.UpdatedAt = now, now
	r.s.data.shifts[shift.ID] = *shift
	return nil
}

func (r memoryShifts) FindByID(_ context.Context, id int64) (*models.Shift, error) {
	defer r.s.lock()()
	sh, ok := r.s.data.shifts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &sh, nil
}

func (r memoryShifts) List(_ context.Context, filters models.ShiftFilters) ([]models.Shift, error) {
	defer r.s.lock()()
	all := sortedValues(r.s.data.shifts, func(a, b models.Shift) bool {
		if !a.StartTime.Equal(b.StartTime) {
			return a.StartTime.Before(b.StartTime)
		}
		return a.ID < b.ID
	})
	shifts := []models.Shift{}
	for _, sh := range all {
		if filters.EventID != nil && sh.EventID != *filters.EventID {
			continue
		}
		if filters.Role != nil && !strings.EqualFold(sh.Role, *filters.Role) {
			continue
		}
		if filters.StartTimeFrom != nil && sh.StartTime.Before(*filters.StartTimeFrom) {
			continue
		}
		if filters.StartTimeTo != nil && !sh.StartTime.Before(*filters.StartTimeTo) {
			continue
		}
		if filters.Status != nil && sh.Status != *filters.Status {
			continue
		}
		shifts = append(shifts, sh)
	}
	return shifts, nil
}

func (r memoryShifts) UpdateDetails(_ context.Context, shift *models.Shift) error {
	defer r.s.lock()()
	current, ok := r.s.data.shifts[shift.ID]
	if !ok {
		return ErrNotFound
	}
	if current.FilledCount > shift.RequiredCount {
		return ErrCapacityExceeded
	}
	current.Role = shift.Role
	current.StartTime = shift.StartTime
	current.EndTime = shift.EndTime
	current.HourlyRate = shift.HourlyRate
	current.RequiredCount = shift.RequiredCount
	if current.Status.IsStaffable() {
		if current.FilledCount >= current.RequiredCount {
			current.Status = models.ShiftStatusFilled
		} else {
			current.Status = models.ShiftStatusOpen
		}
	}
	current.UpdatedAt = r.s.now()
	r.s.data.shifts[shift.ID] = current
	return nil
}

func (r memoryShifts) UpdateStatus(_ context.Context, id int64, from, to models.ShiftStatus) error {
	defer r.s.lock()()
	current, ok := r.s.data.shifts[id]
	if !ok {
		return ErrNotFound
	}
	if current.Status != from {
		return ErrStaleState
	}
	current.Status = to
	current.UpdatedAt = r.s.now()
	r.s.data.shifts[id] = current
	return nil
}

func (r memoryShifts) IncrementFilled(_ context.Context, id int64) error {
	defer r.s.lock()()
	current, ok := r.s.data.shifts[id]
	if !ok {
		return ErrNotFound
	}
	if current.Status != models.ShiftStatusOpen || current.FilledCount >= current.RequiredCount {
		return ErrCapacityExceeded
	}
	current.FilledCount++
	if current.FilledCount >= current.RequiredCount {
		current.Status = models.ShiftStatusFilled
	}
	current.UpdatedAt = r.s.now()
	r.s.data.shifts[id] = current
	return nil
}

func (r memoryShifts) DecrementFilled(_ context.Context, id int64) error {
	defer r.s.lock()()
	current, ok := r.s.data.shifts[id]
	if !ok {
		return ErrNotFound
	}
	if current.FilledCount <= 0 {
		return ErrStaleState
	}
	current.FilledCount--
	if current.Status == models.ShiftStatusFilled {
		current.Status = models.ShiftStatusOpen
	}
	current.UpdatedAt = r.s.now()
	r.s.data.shifts[id] = current
	return nil
}

// --- assignments ---

type memoryAssignments struct{ s *MemoryStore }

func (r memoryAssignments) Create(_ context.Context, assignment *models.Assignment) error {
	defer r.s.lock()()
	if assignment.Status.IsActive() {
		for _, a := range r.s.data.assignments {
			if a.ShiftID == assignment.ShiftID && a.StaffID == assignment.StaffID && a.Status.IsActive() {
				return fmt.Errorf("%w: creating assignment", ErrDuplicateKey)
			}
		}
	}
	assignment.ID = r.s.data.nextID("assignments")
	assignment.UpdatedAt = r.s.now()
	r.s.data.assignments[assignment.ID] = *assignment
	return nil
}

func (r memoryAssignments) FindByID(_ context.Context, id int64) (*models.Assignment, error) {
	defer r.s.lock()()
	a, ok := r.s.data.assignments[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &a, nil
}

func (r memoryAssignments) FindActive(_ context.Context, shiftID, staffID int64) (*models.Assignment, error) {
	defer r.s.lock()()
	for _, a := range r.s.data.assignments {
		if a.ShiftID == shiftID && a.StaffID == staffID && a.Status.IsActive() {
			return &a, nil
		}
	}
	return nil, ErrNotFound
}

func (r memoryAssignments) List(_ context.Context, filters models.AssignmentFilters) ([]models.Assignment, error) {
	defer r.s.lock()()
	all := sortedValues(r.s.data.assignments, func(a, b models.Assignment) bool {
		if !a.AssignedAt.Equal(b.AssignedAt) {
			return a.AssignedAt.Before(b.AssignedAt)
		}
		return a.ID < b.ID
	})
	assignments := []models.Assignment{}
	for _, a := range all {
		if filters.ShiftID != nil && a.ShiftID != *filters.ShiftID {
			continue
		}
		if filters.StaffID != nil && a.StaffID != *filters.StaffID {
			continue
		}
		if filters.Status != nil && a.Status != *filters.Status {
			continue
		}
		assignments = append(assignments, a)
	}
	return assignments, nil
}

func (r memoryAssignments) UpdateStatus(_ context.Context, assignment *models.Assignment, from models.AssignmentStatus) error {
	defer r.s.lock()()
	current, ok := r.s.data.assignments[assignment.ID]
	if !ok {
		return ErrNotFound
	}
	if current.Status != from {
		return ErrStaleState
	}
	current.Status = assignment.Status
	current.HourlyRate = assignment.HourlyRate
	current.ConfirmedAt = assignment.ConfirmedAt
	current.UpdatedAt = r.s.now()
	assignment.UpdatedAt = current.UpdatedAt
	r.s.data.assignments[assignment.ID] = current
	return nil
}

func (r memoryAssignments) CheckIn(_ context.Context, id int64, at time.Time) error {
	defer r.s.lock()()
	current, ok := r.s.data.assignments[id]
	if !ok {
		return ErrNotFound
	}
	if current.Status != models.AssignmentStatusConfirmed || current.CheckInTime != nil {
		return ErrStaleState
	}
	current.CheckInTime = &at
	current.UpdatedAt = r.s.now()
	r.s.data.assignments[id] = current
	return nil
}

func (r memoryAssignments) CheckOut(_ context.Context, id int64, at time.Time) error {
	defer r.s.lock()()
	current, ok := r.s.data.assignments[id]
	if !ok {
		return ErrNotFound
	}
	if current.Status != models.AssignmentStatusConfirmed || current.CheckInTime == nil || current.CheckOutTime != nil {
		return ErrStaleState
	}
	current.CheckOutTime = &at
	current.UpdatedAt = r.s.now()
	r.s.data.assignments[id] = current
	return nil
}

func (r memoryAssignments) ListUpcomingConfirmed(_ context.Context, from, to time.Time) ([]models.ShiftReminder, error) {
	defer r.s.lock()()
	reminders := []models.ShiftReminder{}
	for _, a := range r.s.data.assignments {
		if a.Status != models.AssignmentStatusConfirmed {
			continue
		}
		sh, ok := r.s.data.shifts[a.ShiftID]
		if !ok || !sh.Status.IsStaffable() {
			continue
		}
		if sh.StartTime.Before(from) || !sh.StartTime.Before(to) {
			continue
		}
		ev, okEvent := r.s.data.events[sh.EventID]
		u, okUser := r.s.data.users[a.StaffID]
		if !okEvent || !okUser {
			continue
		}
		reminders = append(reminders, models.ShiftReminder{
			AssignmentID: a.ID,
			ShiftID:      sh.ID,
			EventID:      ev.ID,
			EventName:    ev.Name,
			Location:     ev.Location,
			Role:         sh.Role,
			StartTime:    sh.StartTime,
			EndTime:      sh.EndTime,
			StaffID:      u.ID,
			StaffName:    u.FullName,
			StaffEmail:   u.Email,
		})
	}
	sort.Slice(reminders, func(i, j int) bool {
		if !reminders[i].StartTime.Equal(reminders[j].StartTime) {
			return reminders[i].StartTime.Before(reminders[j].StartTime)
		}
		return reminders[i].AssignmentID < reminders[j].AssignmentID
	})
	return reminders, nil
}

// --- timesheets ---

type memoryTimesheets struct{ s *MemoryStore }

func (r memoryTimesheets) Create(_ context.Context, timesheet *models.Timesheet) error {
	defer r.s.lock()()
	for _, t := range r.s.data.timesheets {
		if t.AssignmentID == timesheet.AssignmentID && t.WorkDate == timesheet.WorkDate {
			return fmt.Errorf("%w: creating timesheet", ErrDuplicateKey)
		}
	}
	timesheet.ID = r.s.data.nextID("timesheets")
	timesheet.UpdatedAt = r.s.now()
	r.s.data.timesheets[timesheet.ID] = *timesheet
	return nil
}

func (r memoryTimesheets) FindByID(_ context.Context, id int64) (*models.Timesheet, error) {
	defer r.s.lock()()
	t, ok := r.s.data.timesheets[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &t, nil
}

func (r memoryTimesheets) List(_ context.Context, filters models.TimesheetFilters) ([]models.Timesheet, error) {
	defer r.s.lock()()
	all := sortedValues(r.s.data.timesheets, func(a, b models.Timesheet) bool {
		if !a.SubmittedAt.Equal(b.SubmittedAt) {
			return a.SubmittedAt.Before(b.SubmittedAt)
		}
		return a.ID < b.ID
	})
	timesheets := []models.Timesheet{}
	for _, t := range all {
		if filters.StaffID != nil && t.StaffID != *filters.StaffID {
			continue
		}
		if filters.EventID != nil && t.EventID != *filters.EventID {
			continue
		}
		if filters.AssignmentID != nil && t.AssignmentID != *filters.AssignmentID {
			continue
		}
		if filters.Status != nil && t.Status != *filters.Status {
			continue
		}
		if filters.SubmittedFrom != nil && t.SubmittedAt.Before(*filters.SubmittedFrom) {
			continue
		}
		if filters.SubmittedBefore != nil && !t.SubmittedAt.Before(*filters.SubmittedBefore) {
			continue
		}
		if filters.OnlyUnprocessed && t.PayrollRunID != nil {
			continue
		}
		timesheets = append(timesheets, t)
	}
	return timesheets, nil
}

func (r memoryTimesheets) UpdateEntry(_ context.Context, timesheet *models.Timesheet) error {
	defer r.s.lock()()
	current, ok := r.s.data.timesheets[timesheet.ID]
	if !ok {
		return ErrNotFound
	}
	if current.Status != models.TimesheetStatusPending {
		return ErrStaleState
	}
	current.StartTime = timesheet.StartTime
	current.EndTime = timesheet.EndTime
	current.BreakDurationMinutes = timesheet.BreakDurationMinutes
	current.HoursWorked = timesheet.HoursWorked
	current.UpdatedAt = r.s.now()
	timesheet.UpdatedAt = current.UpdatedAt
	r.s.data.timesheets[timesheet.ID] = current
	return nil
}

func (r memoryTimesheets) Review(_ context.Context, timesheet *models.Timesheet) error {
	defer r.s.lock()()
	current, ok := r.s.data.timesheets[timesheet.ID]
	if !ok {
		return ErrNotFound
	}
	if current.Status != models.TimesheetStatusPending {
		return ErrStaleState
	}
	current.Status = timesheet.Status
	current.ReviewedByManagerID = timesheet.ReviewedByManagerID
	current.ReviewedAt = timesheet.ReviewedAt
	current.ManagerNotes = timesheet.ManagerNotes
	current.UpdatedAt = r.s.now()
	timesheet.UpdatedAt = current.UpdatedAt
	r.s.data.timesheets[timesheet.ID] = current
	return nil
}

func (r memoryTimesheets) MarkProcessed(_ context.Context, ids []int64, runID int64, at time.Time) (int64, error) {
	defer r.s.lock()()
	var n int64
	for _, id := range ids {
		t, ok := r.s.data.timesheets[id]
		if !ok || t.Status != models.TimesheetStatusApproved || t.PayrollRunID != nil {
			continue
		}
		run := runID
		stamp := at
		t.PayrollRunID = &run
		t.ProcessedAt = &stamp
		t.UpdatedAt = at
		r.s.data.timesheets[id] = t
		n++
	}
	return n, nil
}

// --- payroll ---

type memoryPayroll struct{ s *MemoryStore }

func (r memoryPayroll) CreateRun(_ context.Context, run *models.PayrollRun) error {
	defer r.s.lock()()
	run.ID = r.s.data.nextID("payroll_runs")
	run.CreatedAt = r.s.now()
	for i := range run.Lines {
		run.Lines[i].ID = r.s.data.nextID("payroll_lines")
		run.Lines[i].PayrollRunID = run.ID
		r.s.data.payrollLines[run.Lines[i].ID] = run.Lines[i]
	}
	stored := *run
	stored.Lines = nil
	stored.ProcessedTimesheetIDs = nil
	r.s.data.payrollRuns[run.ID] = stored
	return nil
}

func (r memoryPayroll) CompleteRun(_ context.Context, id int64) error {
	defer r.s.lock()()
	run, ok := r.s.data.payrollRuns[id]
	if !ok {
		return ErrNotFound
	}
	if run.Status != models.PayrollRunStatusProcessing {
		return ErrStaleState
	}
	run.Status = models.PayrollRunStatusCompleted
	r.s.data.payrollRuns[id] = run
	return nil
}

func (r memoryPayroll) FindRunByID(_ context.Context, id int64) (*models.PayrollRun, error) {
	defer r.s.lock()()
	run, ok := r.s.data.payrollRuns[id]
	if !ok {
		return nil, ErrNotFound
	}
	r.hydrate(&run)
	return &run, nil
}

func (r memoryPayroll) ListRuns(_ context.Context) ([]models.PayrollRun, error) {
	defer r.s.lock()()
	runs := sortedValues(r.s.data.payrollRuns, func(a, b models.PayrollRun) bool {
		if !a.RunDate.Equal(b.RunDate) {
			return a.RunDate.After(b.RunDate)
		}
		return a.ID > b.ID
	})
	for i := range runs {
		r.hydrate(&runs[i])
	}
	return runs, nil
}

// hydrate attaches lines and processed timesheet ids. Caller holds the lock.
func (r memoryPayroll) hydrate(run *models.PayrollRun) {
	run.Lines = []models.PayrollLine{}
	for _, l := range sortedValues(r.s.data.payrollLines, func(a, b models.PayrollLine) bool { return a.StaffID < b.StaffID }) {
		if l.PayrollRunID == run.ID {
			run.Lines = append(run.Lines, l)
		}
	}
	run.ProcessedTimesheetIDs = []int64{}
	for _, t := range sortedValues(r.s.data.timesheets, func(a, b models.Timesheet) bool { return a.ID < b.ID }) {
		if t.PayrollRunID != nil && *t.PayrollRunID == run.ID {
			run.ProcessedTimesheetIDs = append(run.ProcessedTimesheetIDs, t.ID)
		}
	}
}

// --- messages ---

type memoryMessages struct{ s *MemoryStore }

func (r memoryMessages) Create(_ context.Context, message *models.Message) error {
	defer r.s.lock()()
	message.ID = r.s.data.nextID("messages")
	r.s.data.messages[message.ID] = *message
	return nil
}

func (r memoryMessages) ListByEvent(_ context.Context, eventID int64) ([]models.Message, error) {
	defer r.s.lock()()
	all := sortedValues(r.s.data.messages, func(a, b models.Message) bool {
		if !a.SentAt.Equal(b.SentAt) {
			return a.SentAt.Before(b.SentAt)
		}
		return a.ID < b.ID
	})
	messages := []models.Message{}
	for _, m := range all {
		if m.EventID == eventID {
			messages = append(messages, m)
		}
	}
	return messages, nil
}

// --- staff profiles ---

type memoryProfiles struct{ s *MemoryStore }

// withOwnSkills copies the skills slice so stored rows never alias caller memory.
func withOwnSkills(p models.StaffProfile) models.StaffProfile {
	p.Skills = append([]string{}, p.Skills...)
	p.User = nil
	return p
}

func (r memoryProfiles) Create(_ context.Context, profile *models.StaffProfile) error {
	defer r.s.lock()()
	for _, p := range r.s.data.profiles {
		if p.UserID == profile.UserID {
			return fmt.Errorf("%w: creating staff profile for user %d", ErrDuplicateKey, profile.UserID)
		}
	}
	now := r.s.now()
	profile.ID = r.s.data.nextID("staff_profiles")
	profile.CreatedAt, profile.UpdatedAt = now, now
	r.s.data.profiles[profile.ID] = withOwnSkills(*profile)
	return nil
}

func (r memoryProfiles) FindByID(_ context.Context, id int64) (*models.StaffProfile, error) {
	defer r.s.lock()()
	p, ok := r.s.data.profiles[id]
	if !ok {
		return nil, ErrNotFound
	}
	p = withOwnSkills(p)
	return &p, nil
}

func (r memoryProfiles) FindByUserID(_ context.Context, userID int64) (*models.StaffProfile, error) {
	defer r.s.lock()()
	for _, p := range r.s.data.profiles {
		if p.UserID == userID {
			p = withOwnSkills(p)
			return &p, nil
		}
	}
	return nil, ErrNotFound
}

func (r memoryProfiles) List(_ context.Context, filters models.StaffProfileFilters) ([]models.StaffProfile, error) {
	defer r.s.lock()()
	all := sortedValues(r.s.data.profiles, func(a, b models.StaffProfile) bool { return a.ID < b.ID })
	profiles := []models.StaffProfile{}
	for _, p := range all {
		if filters.MinRating != nil && (p.Rating == nil || *p.Rating < *filters.MinRating) {
			continue
		}
		if filters.Skill != nil && !p.HasSkill(*filters.Skill) {
			continue
		}
		profiles = append(profiles, withOwnSkills(p))
	}
	return profiles, nil
}

func (r memoryProfiles) Update(_ context.Context, profile *models.StaffProfile) error {
	defer r.s.lock()()
	current, ok := r.s.data.profiles[profile.ID]
	if !ok {
		return ErrNotFound
	}
	current.Bio = profile.Bio
	current.Skills = profile.Skills
	current.Experience = profile.Experience
	current.Rating = profile.Rating
	current.PayRate = profile.PayRate
	current.UpdatedAt = r.s.now()
	profile.UpdatedAt = current.UpdatedAt
	r.s.data.profiles[profile.ID] = withOwnSkills(current)
	return nil
}

func (r memoryProfiles) Delete(_ context.Context, id int64) error {
	defer r.s.lock()()
	if _, ok := r.s.data.profiles[id]; !ok {
		return ErrNotFound
	}
	delete(r.s.data.profiles, id)
	return nil
}

// --- roles ---

type memoryRoles struct{ s *MemoryStore }

func (r memoryRoles) Create(_ context.Context, role *models.JobRole) error {
	defer r.s.lock()()
	for _, existing := range r.s.data.roles {
		if existing.Name == role.Name {
			return fmt.Errorf("%w: creating role %s", ErrDuplicateKey, role.Name)
		}
	}
	role.ID = r.s.data.nextID("roles")
	role.CreatedAt = r.s.now()
	r.s.data.roles[role.ID] = *role
	return nil
}

func (r memoryRoles) FindByID(_ context.Context, id int64) (*models.JobRole, error) {
	defer r.s.lock()()
	role, ok := r.s.data.roles[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &role, nil
}

func (r memoryRoles) FindByName(_ context.Context, name string) (*models.JobRole, error) {
	defer r.s.lock()()
	for _, role := range r.s.data.roles {
		if strings.EqualFold(role.Name, name) {
			return &role, nil
		}
	}
	return nil, ErrNotFound
}

func (r memoryRoles) List(_ context.Context) ([]models.JobRole, error) {
	defer r.s.lock()()
	return sortedValues(r.s.data.roles, func(a, b models.JobRole) bool {
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ID < b.ID
	}), nil
}

func (r memoryRoles) Update(_ context.Context, role *models.JobRole) error {
	defer r.s.lock()()
	current, ok := r.s.data.roles[role.ID]
	if !ok {
		return ErrNotFound
	}
	for id, existing := range r.s.data.roles {
		if id != role.ID && existing.Name == role.Name {
			return fmt.Errorf("%w: renaming role to %s", ErrDuplicateKey, role.Name)
		}
	}
	current.Name = role.Name
	current.Description = role.Description
	r.s.data.roles[role.ID] = current
	return nil
}

func (r memoryRoles) Delete(_ context.Context, id int64) error {
	defer r.s.lock()()
	if _, ok := r.s.data.roles[id]; !ok {
		return ErrNotFound
	}
	delete(r.s.data.roles, id)
	return nil
}

// --- enquiries ---

type memoryEnquiries struct{ s *MemoryStore }

func (r memoryEnquiries) Create(_ context.Context, enquiry *models.Enquiry) error {
	defer r.s.lock()()
	now := r.s.now()
	enquiry.ID = r.s.data.nextID("enquiries")
	if enquiry.CreatedAt.IsZero() {
		enquiry.CreatedAt = now
	}
	enquiry.UpdatedAt = now
	r.s.data.enquiries[enquiry.ID] = *enquiry
	return nil
}

func (r memoryEnquiries) FindByID(_ context.Context, id int64) (*models.Enquiry, error) {
	defer r.s.lock()()
	e, ok := r.s.data.enquiries[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &e, nil
}

func (r memoryEnquiries) List(_ context.Context, status *models.EnquiryStatus) ([]models.Enquiry, error) {
	defer r.s.lock()()
	all := sortedValues(r.s.data.enquiries, func(a, b models.Enquiry) bool {
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
	enquiries := []models.Enquiry{}
	for _, e := range all {
		if status == nil || e.Status == *status {
			enquiries = append(enquiries, e)
		}
	}
	return enquiries, nil
}

func (r memoryEnquiries) UpdateStatus(_ context.Context, id int64, from, to models.EnquiryStatus) error {
	defer r.s.lock()()
	current, ok := r.s.data.enquiries[id]
	if !ok {
		return ErrNotFound
	}
	if current.Status != from {
		return ErrStaleState
	}
	current.Status = to
	current.UpdatedAt = r.s.now()
	r.s.data.enquiries[id] = current
	return nil
}

func (r memoryEnquiries) Delete(_ context.Context, id int64) error {
	defer r.s.lock()()
	if _, ok := r.s.data.enquiries[id]; !ok {
		return ErrNotFound
	}
	delete(r.s.data.enquiries, id)
	return nil
}
