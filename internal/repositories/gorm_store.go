package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// gormStore is the relational Store. The same code runs on PostgreSQL in
// production and on SQLite in tests.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a Store backed by gorm.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Users() UserRepository             { return &userRepository{db: s.db} }
func (s *gormStore) Events() EventRepository           { return &eventRepository{db: s.db} }
func (s *gormStore) Shifts() ShiftRepository           { return &shiftRepository{db: s.db} }
func (s *gormStore) Assignments() AssignmentRepository { return &assignmentRepository{db: s.db} }
func (s *gormStore) Timesheets() TimesheetRepository   { return &timesheetRepository{db: s.db} }
func (s *gormStore) Payroll() PayrollRepository        { return &payrollRepository{db: s.db} }
func (s *gormStore) Messages() MessageRepository       { return &messageRepository{db: s.db} }
func (s *gormStore) Profiles() StaffProfileRepository  { return &staffProfileRepository{db: s.db} }
func (s *gormStore) Roles() RoleRepository             { return &roleRepository{db: s.db} }
func (s *gormStore) Enquiries() EnquiryRepository      { return &enquiryRepository{db: s.db} }

func (s *gormStore) WithTx(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}

// rowExists distinguishes "no row" from "row in the wrong state" after a
// conditional update touched nothing.
func rowExists(db *gorm.DB, model interface{}, id int64) (bool, error) {
	err := db.Select("id").First(model, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, translateError(err, "checking row existence")
	}
	return true, nil
}

// conditionalMiss turns a zero-row conditional update into ErrNotFound or the
// given state error.
func conditionalMiss(db *gorm.DB, model interface{}, id int64, stateErr error) error {
	exists, err := rowExists(db, model, id)
	if err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}
	return stateErr
}
