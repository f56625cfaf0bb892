package handlers

import (
	"net/http"

	"north_staffing_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// PayrollHandler serves payroll reports and runs. All routes are admin only.
type PayrollHandler struct {
	payroll services.PayrollService
}

// NewPayrollHandler creates a new PayrollHandler.
func NewPayrollHandler(ps services.PayrollService) *PayrollHandler {
	return &PayrollHandler{payroll: ps}
}

// GenerateReport summarises approved timesheets without changing anything.
func (h *PayrollHandler) GenerateReport(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var req services.PayrollPeriodRequest
	if !bindJSON(c, &req) {
		return
	}

	report, err := h.payroll.GeneratePayrollReport(c.Request.Context(), actor, req)
	if err != nil {
		respondServiceError(c, err, "GeneratePayrollReport")
		return
	}
	c.JSON(http.StatusOK, report)
}

// ProcessPayroll settles the period into a new payroll run.
func (h *PayrollHandler) ProcessPayroll(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var req services.PayrollPeriodRequest
	if !bindJSON(c, &req) {
		return
	}

	run, err := h.payroll.ProcessPayroll(c.Request.Context(), actor, req)
	if err != nil {
		respondServiceError(c, err, "ProcessPayroll")
		return
	}
	c.JSON(http.StatusCreated, run)
}

func (h *PayrollHandler) GetRuns(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	runs, err := h.payroll.ListPayrollRuns(c.Request.Context(), actor)
	if err != nil {
		respondServiceError(c, err, "ListPayrollRuns")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": runs})
}

func (h *PayrollHandler) GetRunByID(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	runID, ok := parseIDParam(c, "id", "payroll run")
	if !ok {
		return
	}

	run, err := h.payroll.GetPayrollRun(c.Request.Context(), actor, runID)
	if err != nil {
		respondServiceError(c, err, "GetPayrollRun")
		return
	}
	c.JSON(http.StatusOK, run)
}
