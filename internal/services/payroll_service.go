package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"north_staffing_backend/internal/models"
	"north_staffing_backend/internal/repositories"
	"north_staffing_backend/pkg/utils"
)

// --- Payroll DTOs ---
type PayrollPeriodRequest struct {
	PeriodStart string  `json:"period_start" binding:"required"` // YYYY-MM-DD, inclusive
	PeriodEnd   string  `json:"period_end" binding:"required"`   // YYYY-MM-DD, inclusive
	Notes       *string `json:"notes"`
}

// --- PayrollService Interface ---
type PayrollService interface {
	GeneratePayrollReport(ctx context.Context, actor Actor, req PayrollPeriodRequest) (*models.PayrollReport, error)
	ProcessPayroll(ctx context.Context, actor Actor, req PayrollPeriodRequest) (*models.PayrollRun, error)
	GetPayrollRun(ctx context.Context, actor Actor, runID int64) (*models.PayrollRun, error)
	ListPayrollRuns(ctx context.Context, actor Actor) ([]models.PayrollRun, error)
}

type payrollService struct {
	store repositories.Store
	now   clock
}

// NewPayrollService creates a new instance of PayrollService.
func NewPayrollService(store repositories.Store) PayrollService {
	return &payrollService{store: store, now: utcNow}
}

// payPeriod is a validated, inclusive calendar-date range in UTC.
type payPeriod struct {
	start, end   string
	from, before time.Time
}

func parsePayPeriod(req PayrollPeriodRequest) (payPeriod, error) {
	if err := validateRequest(req); err != nil {
		return payPeriod{}, err
	}
	v := newValidationError()
	start, err := time.Parse(models.DateLayout, req.PeriodStart)
	if err != nil {
		v.Add("period_start", "must be a date in YYYY-MM-DD format")
	}
	end, err := time.Parse(models.DateLayout, req.PeriodEnd)
	if err != nil {
		v.Add("period_end", "must be a date in YYYY-MM-DD format")
	}
	if len(v.Fields) == 0 && end.Before(start) {
		v.Add("period_end", "must not be before period_start")
	}
	if err := v.OrNil(); err != nil {
		return payPeriod{}, err
	}
	return payPeriod{
		start:  req.PeriodStart,
		end:    req.PeriodEnd,
		from:   start.UTC(),
		before: end.UTC().AddDate(0, 0, 1),
	}, nil
}

func (p payPeriod) filters(onlyUnprocessed bool) models.TimesheetFilters {
	approved := models.TimesheetStatusApproved
	from, before := p.from, p.before
	return models.TimesheetFilters{
		Status:          &approved,
		SubmittedFrom:   &from,
		SubmittedBefore: &before,
		OnlyUnprocessed: onlyUnprocessed,
	}
}

// summarize groups timesheets by staff member, ordered by staff id. Pay is
// the sum of each timesheet's hours times its own snapshotted rate.
func summarize(ctx context.Context, users repositories.UserRepository, timesheets []models.Timesheet) ([]models.StaffPayrollSummary, error) {
	byStaff := map[int64]*models.StaffPayrollSummary{}
	for i := range timesheets {
		t := &timesheets[i]
		sum, ok := byStaff[t.StaffID]
		if !ok {
			sum = &models.StaffPayrollSummary{StaffID: t.StaffID, TimesheetIDs: []int64{}}
			byStaff[t.StaffID] = sum
		}
		pay := t.Pay()
		sum.TotalHours += t.HoursWorked
		sum.TotalPay += pay
		sum.TimesheetCount++
		sum.TimesheetIDs = append(sum.TimesheetIDs, t.ID)
		if t.IsProcessed() {
			sum.ProcessedCount++
		} else {
			sum.UnprocessedPay += pay
		}
	}

	summaries := make([]models.StaffPayrollSummary, 0, len(byStaff))
	for staffID, sum := range byStaff {
		user, err := users.FindByID(ctx, staffID)
		switch {
		case err == nil:
			sum.StaffName = user.FullName
		case !errors.Is(err, repositories.ErrNotFound):
			return nil, fmt.Errorf("failed to load staff member %d: %w", staffID, err)
		}
		sum.TotalHours = models.RoundTo2(sum.TotalHours)
		sum.TotalPay = models.RoundTo2(sum.TotalPay)
		sum.UnprocessedPay = models.RoundTo2(sum.UnprocessedPay)
		summaries = append(summaries, *sum)
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].StaffID < summaries[j].StaffID })
	return summaries, nil
}

// GeneratePayrollReport is read-only. Timesheets already paid by a run are
// listed but left out of TotalUnprocessedPay.
func (s *payrollService) GeneratePayrollReport(ctx context.Context, actor Actor, req PayrollPeriodRequest) (*models.PayrollReport, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	period, err := parsePayPeriod(req)
	if err != nil {
		return nil, err
	}

	timesheets, err := s.store.Timesheets().List(ctx, period.filters(false))
	if err != nil {
		return nil, fmt.Errorf("failed to select approved timesheets: %w", err)
	}
	staff, err := summarize(ctx, s.store.Users(), timesheets)
	if err != nil {
		return nil, err
	}

	report := &models.PayrollReport{
		PeriodStart: period.start,
		PeriodEnd:   period.end,
		GeneratedAt: s.now(),
		Staff:       staff,
	}
	for _, sum := range staff {
		report.TotalHours += sum.TotalHours
		report.TotalPay += sum.TotalPay
		report.TotalUnprocessedPay += sum.UnprocessedPay
		report.TimesheetCount += sum.TimesheetCount
	}
	report.TotalHours = models.RoundTo2(report.TotalHours)
	report.TotalPay = models.RoundTo2(report.TotalPay)
	report.TotalUnprocessedPay = models.RoundTo2(report.TotalUnprocessedPay)
	return report, nil
}

// ProcessPayroll settles every approved, unprocessed timesheet in the period
// in one transaction. The processed marker is set with a conditional update;
// if any timesheet was taken by a concurrent run the whole run rolls back.
func (s *payrollService) ProcessPayroll(ctx context.Context, actor Actor, req PayrollPeriodRequest) (*models.PayrollRun, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	period, err := parsePayPeriod(req)
	if err != nil {
		return nil, err
	}

	var runID int64
	err = s.store.WithTx(ctx, func(tx repositories.Store) error {
		timesheets, err := tx.Timesheets().List(ctx, period.filters(true))
		if err != nil {
			return fmt.Errorf("failed to select unprocessed timesheets: %w", err)
		}
		staff, err := summarize(ctx, tx.Users(), timesheets)
		if err != nil {
			return err
		}

		now := s.now()
		run := &models.PayrollRun{
			RunDate:     now,
			PeriodStart: period.start,
			PeriodEnd:   period.end,
			Status:      models.PayrollRunStatusProcessing,
			Notes:       utils.TrimmedPtr(req.Notes),
			CreatedByID: actor.UserID,
			Lines:       make([]models.PayrollLine, 0, len(staff)),
		}
		ids := make([]int64, 0, len(timesheets))
		for _, sum := range staff {
			run.TotalAmountPaid += sum.TotalPay
			run.TotalHours += sum.TotalHours
			run.Lines = append(run.Lines, models.PayrollLine{
				StaffID:        sum.StaffID,
				StaffName:      sum.StaffName,
				TotalHours:     sum.TotalHours,
				TotalPay:       sum.TotalPay,
				TimesheetCount: sum.TimesheetCount,
			})
			ids = append(ids, sum.TimesheetIDs...)
		}
		run.TotalAmountPaid = models.RoundTo2(run.TotalAmountPaid)
		run.TotalHours = models.RoundTo2(run.TotalHours)

		if err := tx.Payroll().CreateRun(ctx, run); err != nil {
			return fmt.Errorf("failed to create payroll run: %w", err)
		}

		marked, err := tx.Timesheets().MarkProcessed(ctx, ids, run.ID, now)
		if err != nil {
			return fmt.Errorf("failed to mark timesheets processed: %w", err)
		}
		if marked != int64(len(ids)) {
			return ErrAlreadyProcessed
		}

		if err := tx.Payroll().CompleteRun(ctx, run.ID); err != nil {
			return fmt.Errorf("failed to complete payroll run: %w", err)
		}
		runID = run.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	run, err := s.store.Payroll().FindRunByID(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("payroll run %d completed but could not be reloaded: %w", runID, err)
	}
	utils.LogInfo("Payroll processed", map[string]interface{}{
		"run_id":     run.ID,
		"period":     period.start + ".." + period.end,
		"timesheets": len(run.ProcessedTimesheetIDs),
		"total_paid": run.TotalAmountPaid,
	})
	return run, nil
}

func (s *payrollService) GetPayrollRun(ctx context.Context, actor Actor, runID int64) (*models.PayrollRun, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	run, err := s.store.Payroll().FindRunByID(ctx, runID)
	if err != nil {
		return nil, notFoundAs(err, ErrPayrollRunNotFound, "get payroll run")
	}
	return run, nil
}

func (s *payrollService) ListPayrollRuns(ctx context.Context, actor Actor) ([]models.PayrollRun, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	runs, err := s.store.Payroll().ListRuns(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll runs: %w", err)
	}
	return runs, nil
}
