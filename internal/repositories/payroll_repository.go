package repositories

import (
	"context"

	"north_staffing_backend/internal/models"

	"gorm.io/gorm"
)

type payrollRepository struct {
	db *gorm.DB
}

type timesheetRunRef struct {
	ID           int64
	PayrollRunID int64
}

// CreateRun inserts the run and its lines.
func (r *payrollRepository) CreateRun(ctx context.Context, run *models.PayrollRun) error {
	if err := r.db.WithContext(ctx).Create(run).Error; err != nil {
		return translateError(err, "creating payroll run")
	}
	return nil
}

func (r *payrollRepository) CompleteRun(ctx context.Context, id int64) error {
	db := r.db.WithContext(ctx)
	res := db.Model(&models.PayrollRun{}).
		Where("id = ? AND status = ?", id, string(models.PayrollRunStatusProcessing)).
		Update("status", string(models.PayrollRunStatusCompleted))
	if res.Error != nil {
		return translateError(res.Error, "completing payroll run")
	}
	if res.RowsAffected == 0 {
		return conditionalMiss(db, &models.PayrollRun{}, id, ErrStaleState)
	}
	return nil
}

func (r *payrollRepository) FindRunByID(ctx context.Context, id int64) (*models.PayrollRun, error) {
	db := r.db.WithContext(ctx)
	var run models.PayrollRun
	err := db.Preload("Lines", func(q *gorm.DB) *gorm.DB {
		return q.Order("staff_id ASC")
	}).First(&run, id).Error
	if err != nil {
		return nil, translateError(err, "finding payroll run")
	}

	runs := []models.PayrollRun{run}
	if err := r.attachTimesheetIDs(db, runs); err != nil {
		return nil, err
	}
	return &runs[0], nil
}

func (r *payrollRepository) ListRuns(ctx context.Context) ([]models.PayrollRun, error) {
	db := r.db.WithContext(ctx)
	runs := []models.PayrollRun{}
	err := db.Preload("Lines", func(q *gorm.DB) *gorm.DB {
		return q.Order("staff_id ASC")
	}).Order("run_date DESC, id DESC").Find(&runs).Error
	if err != nil {
		return nil, translateError(err, "listing payroll runs")
	}
	if err := r.attachTimesheetIDs(db, runs); err != nil {
		return nil, err
	}
	return runs, nil
}

// attachTimesheetIDs fills ProcessedTimesheetIDs from the payroll marker on
// timesheets in one query.
func (r *payrollRepository) attachTimesheetIDs(db *gorm.DB, runs []models.PayrollRun) error {
	if len(runs) == 0 {
		return nil
	}
	runIDs := make([]int64, len(runs))
	for i := range runs {
		runIDs[i] = runs[i].ID
		runs[i].ProcessedTimesheetIDs = []int64{}
	}

	var rows []timesheetRunRef
	err := db.Model(&models.Timesheet{}).
		Select("id, payroll_run_id").
		Where("payroll_run_id IN ?", runIDs).
		Order("id ASC").
		Scan(&rows).Error
	if err != nil {
		return translateError(err, "loading processed timesheet ids")
	}

	index := make(map[int64]int, len(runs))
	for i := range runs {
		index[runs[i].ID] = i
	}
	for _, row := range rows {
		if i, ok := index[row.PayrollRunID]; ok {
			runs[i].ProcessedTimesheetIDs = append(runs[i].ProcessedTimesheetIDs, row.ID)
		}
	}
	return nil
}
