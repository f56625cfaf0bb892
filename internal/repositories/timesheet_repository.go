package repositories

import (
	"context"
	"time"

	"north_staffing_backend/internal/models"

	"gorm.io/gorm"
)

type timesheetRepository struct {
	db *gorm.DB
}

func (r *timesheetRepository) Create(ctx context.Context, timesheet *models.Timesheet) error {
	if err := r.db.WithContext(ctx).Create(timesheet).Error; err != nil {
		return translateError(err, "creating timesheet")
	}
	return nil
}

func (r *timesheetRepository) FindByID(ctx context.Context, id int64) (*models.Timesheet, error) {
	var timesheet models.Timesheet
	if err := r.db.WithContext(ctx).First(&timesheet, id).Error; err != nil {
		return nil, translateError(err, "finding timesheet")
	}
	return &timesheet, nil
}

func (r *timesheetRepository) List(ctx context.Context, filters models.TimesheetFilters) ([]models.Timesheet, error) {
	q := r.db.WithContext(ctx).Model(&models.Timesheet{})
	if filters.StaffID != nil {
		q = q.Where("staff_id = ?", *filters.StaffID)
	}
	if filters.EventID != nil {
		q = q.Where("event_id = ?", *filters.EventID)
	}
	if filters.AssignmentID != nil {
		q = q.Where("assignment_id = ?", *filters.AssignmentID)
	}
	if filters.Status != nil {
		q = q.Where("status = ?", string(*filters.Status))
	}
	if filters.SubmittedFrom != nil {
		q = q.Where("submitted_at >= ?", *filters.SubmittedFrom)
	}
	if filters.SubmittedBefore != nil {
		q = q.Where("submitted_at < ?", *filters.SubmittedBefore)
	}
	if filters.OnlyUnprocessed {
		q = q.Where("payroll_run_id IS NULL")
	}

	timesheets := []models.Timesheet{}
	if err := q.Order("submitted_at ASC, id ASC").Find(&timesheets).Error; err != nil {
		return nil, translateError(err, "listing timesheets")
	}
	return timesheets, nil
}

func (r *timesheetRepository) UpdateEntry(ctx context.Context, timesheet *models.Timesheet) error {
	db := r.db.WithContext(ctx)
	timesheet.UpdatedAt = time.Now().UTC()
	res := db.Model(&models.Timesheet{}).
		Where("id = ? AND status = ?", timesheet.ID, string(models.TimesheetStatusPending)).
		Updates(map[string]interface{}{
			"start_time":             timesheet.StartTime,
			"end_time":               timesheet.EndTime,
			"break_duration_minutes": timesheet.BreakDurationMinutes,
			"hours_worked":           timesheet.HoursWorked,
			"updated_at":             timesheet.UpdatedAt,
		})
	if res.Error != nil {
		return translateError(res.Error, "updating timesheet entry")
	}
	if res.RowsAffected == 0 {
		return conditionalMiss(db, &models.Timesheet{}, timesheet.ID, ErrStaleState)
	}
	return nil
}

func (r *timesheetRepository) Review(ctx context.Context, timesheet *models.Timesheet) error {
	db := r.db.WithContext(ctx)
	timesheet.UpdatedAt = time.Now().UTC()
	res := db.Model(&models.Timesheet{}).
		Where("id = ? AND status = ?", timesheet.ID, string(models.TimesheetStatusPending)).
		Updates(map[string]interface{}{
			"status":                 string(timesheet.Status),
			"reviewed_by_manager_id": timesheet.ReviewedByManagerID,
			"reviewed_at":            timesheet.ReviewedAt,
			"manager_notes":          timesheet.ManagerNotes,
			"updated_at":             timesheet.UpdatedAt,
		})
	if res.Error != nil {
		return translateError(res.Error, "reviewing timesheet")
	}
	if res.RowsAffected == 0 {
		return conditionalMiss(db, &models.Timesheet{}, timesheet.ID, ErrStaleState)
	}
	return nil
}

func (r *timesheetRepository) MarkProcessed(ctx context.Context, ids []int64, runID int64, at time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Model(&models.Timesheet{}).
		Where("id IN ? AND status = ? AND payroll_run_id IS NULL", ids, string(models.TimesheetStatusApproved)).
		Updates(map[string]interface{}{
			"payroll_run_id": runID,
			"processed_at":   at,
			"updated_at":     at,
		})
	if res.Error != nil {
		return 0, translateError(res.Error, "marking timesheets processed")
	}
	return res.RowsAffected, nil
}
