package models

import "time"

// PayrollRunStatus defines the processing state of a payroll run.
type PayrollRunStatus string

const (
	PayrollRunStatusInitiated  PayrollRunStatus = "initiated"
	PayrollRunStatusProcessing PayrollRunStatus = "processing"
	PayrollRunStatusCompleted  PayrollRunStatus = "completed"
	PayrollRunStatusFailed     PayrollRunStatus = "failed"
)

// PayrollRun is a finalized settlement over a pay period. It is immutable
// once completed.
type PayrollRun struct {
	ID                    int64            `json:"id" gorm:"primaryKey"`
	RunDate               time.Time        `json:"run_date" gorm:"not null"`
	PeriodStart           string           `json:"period_start" gorm:"size:10;not null;index"`
	PeriodEnd             string           `json:"period_end" gorm:"size:10;not null"`
	Status                PayrollRunStatus `json:"status" gorm:"size:32;not null"`
	TotalAmountPaid       float64          `json:"total_amount_paid" gorm:"not null"`
	TotalHours            float64          `json:"total_hours" gorm:"not null"`
	Notes                 *string          `json:"notes,omitempty" gorm:"type:text"`
	CreatedByID           int64            `json:"created_by_id" gorm:"not null"`
	CreatedAt             time.Time        `json:"created_at"`
	Lines                 []PayrollLine    `json:"lines" gorm:"foreignKey:PayrollRunID"`
	ProcessedTimesheetIDs []int64          `json:"processed_timesheet_ids" gorm:"-"`
}

// PayrollLine is one staff member's settlement within a run.
type PayrollLine struct {
	ID             int64   `json:"id" gorm:"primaryKey"`
	PayrollRunID   int64   `json:"payroll_run_id" gorm:"not null;index"`
	StaffID        int64   `json:"staff_id" gorm:"not null;index"`
	StaffName      string  `json:"staff_name" gorm:"size:255"`
	TotalHours     float64 `json:"total_hours" gorm:"not null"`
	TotalPay       float64 `json:"total_pay" gorm:"not null"`
	TimesheetCount int     `json:"timesheet_count" gorm:"not null"`
}
