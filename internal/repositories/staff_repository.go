package repositories

import (
	"context"
	"time"

	"north_staffing_backend/internal/models"

	"gorm.io/gorm"
)

type shiftRepository struct {
	db *gorm.DB
}

func (r *shiftRepository) Create(ctx context.Context, shift *models.Shift) error {
	if err := r.db.WithContext(ctx).Create(shift).Error; err != nil {
		return translateError(err, "creating shift")
	}
	return nil
}

func (r *shiftRepository) FindByID(ctx context.Context, id int64) (*models.Shift, error) {
	var shift models.Shift
	if err := r.db.WithContext(ctx).First(&shift, id).Error; err != nil {
		return nil, translateError(err, "finding shift")
	}
	return &shift, nil
}

func (r *shiftRepository) List(ctx context.Context, filters models.ShiftFilters) ([]models.Shift, error) {
	q := r.db.WithContext(ctx).Model(&models.Shift{})
	if filters.EventID != nil {
		q = q.Where("event_id = ?", *filters.EventID)
	}
	if filters.Role != nil {
		q = q.Where("LOWER(role) = LOWER(?)", *filters.Role)
	}
	if filters.StartTimeFrom != nil {
		q = q.Where("start_time >= ?", *filters.StartTimeFrom)
	}
	if filters.StartTimeTo != nil {
		q = q.Where("start_time < ?", *filters.StartTimeTo)
	}
	if filters.Status != nil {
		q = q.Where("status = ?", string(*filters.Status))
	}

	shifts := []models.Shift{}
	if err := q.Order("start_time ASC, id ASC").Find(&shifts).Error; err != nil {
		return nil, translateError(err, "listing shifts")
	}
	return shifts, nil
}

func (r *shiftRepository) UpdateDetails(ctx context.Context, shift *models.Shift) error {
	db := r.db.WithContext(ctx)
	res := db.Model(&models.Shift{}).
		Where("id = ? AND filled_count <= ?", shift.ID, shift.RequiredCount).
		Updates(map[string]interface{}{
			"role":           shift.Role,
			"start_time":     shift.StartTime,
			"end_time":       shift.EndTime,
			"hourly_rate":    shift.HourlyRate,
			"required_count": shift.RequiredCount,
			"status": gorm.Expr(
				"CASE WHEN status IN (?, ?) THEN CASE WHEN filled_count >= ? THEN ? ELSE ? END ELSE status END",
				string(models.ShiftStatusOpen), string(models.ShiftStatusFilled),
				shift.RequiredCount, string(models.ShiftStatusFilled), string(models.ShiftStatusOpen),
			),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return translateError(res.Error, "updating shift")
	}
	if res.RowsAffected == 0 {
		return conditionalMiss(db, &models.Shift{}, shift.ID, ErrCapacityExceeded)
	}
	return nil
}

func (r *shiftRepository) UpdateStatus(ctx context.Context, id int64, from, to models.ShiftStatus) error {
	db := r.db.WithContext(ctx)
	res := db.Model(&models.Shift{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(map[string]interface{}{
			"status":     string(to),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return translateError(res.Error, "updating shift status")
	}
	if res.RowsAffected == 0 {
		return conditionalMiss(db, &models.Shift{}, id, ErrStaleState)
	}
	return nil
}

func (r *shiftRepository) IncrementFilled(ctx context.Context, id int64) error {
	db := r.db.WithContext(ctx)
	res := db.Model(&models.Shift{}).
		Where("id = ? AND status = ? AND filled_count < required_count", id, string(models.ShiftStatusOpen)).
		Updates(map[string]interface{}{
			"filled_count": gorm.Expr("filled_count + 1"),
			"status":       gorm.Expr("CASE WHEN filled_count + 1 >= required_count THEN ? ELSE status END", string(models.ShiftStatusFilled)),
			"updated_at":   time.Now().UTC(),
		})
	if res.Error != nil {
		return translateError(res.Error, "incrementing shift filled count")
	}
	if res.RowsAffected == 0 {
		return conditionalMiss(db, &models.Shift{}, id, ErrCapacityExceeded)
	}
	return nil
}

func (r *shiftRepository) DecrementFilled(ctx context.Context, id int64) error {
	db := r.db.WithContext(ctx)
	res := db.Model(&models.Shift{}).
		Where("id = ? AND filled_count > 0", id).
		Updates(map[string]interface{}{
			"filled_count": gorm.Expr("filled_count - 1"),
			"status":       gorm.Expr("CASE WHEN status = ? THEN ? ELSE status END", string(models.ShiftStatusFilled), string(models.ShiftStatusOpen)),
			"updated_at":   time.Now().UTC(),
		})
	if res.Error != nil {
		return translateError(res.Error, "decrementing shift filled count")
	}
	if res.RowsAffected == 0 {
		return conditionalMiss(db, &models.Shift{}, id, ErrStaleState)
	}
	return nil
}

type assignmentRepository struct {
	db *gorm.DB
}

var inactiveAssignmentStatuses = []string{
	string(models.AssignmentStatusDeclined),
	string(models.AssignmentStatusCancelled),
}

func (r *assignmentRepository) Create(ctx context.Context, assignment *models.Assignment) error {
	if err := r.db.WithContext(ctx).Create(assignment).Error; err != nil {
		return translateError(err, "creating assignment")
	}
	return nil
}

func (r *assignmentRepository) FindByID(ctx context.Context, id int64) (*models.Assignment, error) {
	var assignment models.Assignment
	if err := r.db.WithContext(ctx).First(&assignment, id).Error; err != nil {
		return nil, translateError(err, "finding assignment")
	}
	return &assignment, nil
}

func (r *assignmentRepository) FindActive(ctx context.Context, shiftID, staffID int64) (*models.Assignment, error) {
	var assignment models.Assignment
	err := r.db.WithContext(ctx).
		Where("shift_id = ? AND staff_id = ? AND status NOT IN ?", shiftID, staffID, inactiveAssignmentStatuses).
		First(&assignment).Error
	if err != nil {
		return nil, translateError(err, "finding active assignment")
	}
	return &assignment, nil
}

func (r *assignmentRepository) List(ctx context.Context, filters models.AssignmentFilters) ([]models.Assignment, error) {
	q := r.db.WithContext(ctx).Model(&models.Assignment{})
	if filters.ShiftID != nil {
		q = q.Where("shift_id = ?", *filters.ShiftID)
	}
	if filters.StaffID != nil {
		q = q.Where("staff_id = ?", *filters.StaffID)
	}
	if filters.Status != nil {
		q = q.Where("status = ?", string(*filters.Status))
	}

	assignments := []models.Assignment{}
	if err := q.Order("assigned_at ASC, id ASC").Find(&assignments).Error; err != nil {
		return nil, translateError(err, "listing assignments")
	}
	return assignments, nil
}

func (r *assignmentRepository) UpdateStatus(ctx context.Context, assignment *models.Assignment, from models.AssignmentStatus) error {
	db := r.db.WithContext(ctx)
	assignment.UpdatedAt = time.Now().UTC()
	res := db.Model(&models.Assignment{}).
		Where("id = ? AND status = ?", assignment.ID, string(from)).
		Updates(map[string]interface{}{
			"status":       string(assignment.Status),
			"hourly_rate":  assignment.HourlyRate,
			"confirmed_at": assignment.ConfirmedAt,
			"updated_at":   assignment.UpdatedAt,
		})
	if res.Error != nil {
		return translateError(res.Error, "updating assignment status")
	}
	if res.RowsAffected == 0 {
		return conditionalMiss(db, &models.Assignment{}, assignment.ID, ErrStaleState)
	}
	return nil
}

func (r *assignmentRepository) CheckIn(ctx context.Context, id int64, at time.Time) error {
	return r.stamp(ctx, id, "check_in_time IS NULL", "check_in_time", at)
}

func (r *assignmentRepository) CheckOut(ctx context.Context, id int64, at time.Time) error {
	return r.stamp(ctx, id, "check_in_time IS NOT NULL AND check_out_time IS NULL", "check_out_time", at)
}

func (r *assignmentRepository) stamp(ctx context.Context, id int64, cond, column string, at time.Time) error {
	db := r.db.WithContext(ctx)
	res := db.Model(&models.Assignment{}).
		Where("id = ? AND status = ?", id, string(models.AssignmentStatusConfirmed)).
		Where(cond).
		Updates(map[string]interface{}{
			column:       at,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return translateError(res.Error, "stamping "+column)
	}
	if res.RowsAffected == 0 {
		return conditionalMiss(db, &models.Assignment{}, id, ErrStaleState)
	}
	return nil
}

func (r *assignmentRepository) ListUpcomingConfirmed(ctx context.Context, from, to time.Time) ([]models.ShiftReminder, error) {
	reminders := []models.ShiftReminder{}
	err := r.db.WithContext(ctx).
		Table("shift_assignments AS a").
		Select(`a.id AS assignment_id, s.id AS shift_id, s.event_id AS event_id,
			e.name AS event_name, e.location AS location, s.role AS role,
			s.start_time AS start_time, s.end_time AS end_time,
			u.id AS staff_id, u.full_name AS staff_name, u.email AS staff_email`).
		Joins("JOIN shifts s ON s.id = a.shift_id").
		Joins("JOIN events e ON e.id = s.event_id").
		Joins("JOIN users u ON u.id = a.staff_id").
		Where("a.status = ?", string(models.AssignmentStatusConfirmed)).
		Where("s.status IN ?", []string{string(models.ShiftStatusOpen), string(models.ShiftStatusFilled)}).
		Where("s.start_time >= ? AND s.start_time < ?", from, to).
		Order("s.start_time ASC, a.id ASC").
		Scan(&reminders).Error
	if err != nil {
		return nil, translateError(err, "listing upcoming confirmed assignments")
	}
	return reminders, nil
}
