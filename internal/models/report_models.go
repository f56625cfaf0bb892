package models

import "time"

// StaffPayrollSummary aggregates one staff member's approved timesheets in a period.
type StaffPayrollSummary struct {
	StaffID        int64   `json:"staff_id"`
	StaffName      string  `json:"staff_name"`
	TotalHours     float64 `json:"total_hours"`
	TotalPay       float64 `json:"total_pay"`
	TimesheetCount int     `json:"timesheet_count"`
	ProcessedCount int     `json:"processed_count"`
	UnprocessedPay float64 `json:"unprocessed_pay"`
	TimesheetIDs   []int64 `json:"timesheet_ids"`
}

// PayrollReport is the transient, read-only payroll summary for a period.
// Already-processed timesheets are counted but excluded from TotalUnprocessedPay.
type PayrollReport struct {
	PeriodStart         string                `json:"period_start"`
	PeriodEnd           string                `json:"period_end"`
	GeneratedAt         time.Time             `json:"generated_at"`
	Staff               []StaffPayrollSummary `json:"staff"`
	TotalHours          float64               `json:"total_hours"`
	TotalPay            float64               `json:"total_pay"`
	TotalUnprocessedPay float64               `json:"total_unprocessed_pay"`
	TimesheetCount      int                   `json:"timesheet_count"`
}
