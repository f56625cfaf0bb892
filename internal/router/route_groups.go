package router

import (
	"north_staffing_backend/internal/handlers"
	"north_staffing_backend/internal/middleware"
	"north_staffing_backend/internal/models"

	"github.com/gin-gonic/gin"
)

var (
	managers = middleware.RoleAuthMiddleware(models.RoleManager, models.RoleAdmin)
	admins   = middleware.RoleAuthMiddleware(models.RoleAdmin)
	staff    = middleware.RoleAuthMiddleware(models.RoleStaff)
	// Staff see their own records; services enforce the ownership.
	staffOrManagers = middleware.RoleAuthMiddleware(models.RoleStaff, models.RoleManager, models.RoleAdmin)
)

// SetupPublicAuthRoutes sets up register and login, throttled when a limiter is given.
func SetupPublicAuthRoutes(group *gin.RouterGroup, authHandler *handlers.AuthHandler, limiter *middleware.RateLimiter) {
	if limiter != nil {
		group.Use(limiter.Middleware())
	}
	group.POST("/register", authHandler.RegisterUser)
	group.POST("/login", authHandler.LoginUser)
}

func SetupAuthenticatedAuthRoutes(group *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	group.GET("/me", authHandler.GetCurrentUser)
}

// SetupUserRoutes sets up account administration.
func SetupUserRoutes(authenticatedGroup *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	userRoutes := authenticatedGroup.Group("/users")
	{
		userRoutes.POST("", admins, authHandler.CreateUser)
		userRoutes.GET("", managers, authHandler.ListUsers)
	}
}

// SetupEventRoutes sets up the event routes and the per-event message channel.
func SetupEventRoutes(authenticatedGroup *gin.RouterGroup, eventHandler *handlers.EventHandler) {
	eventRoutes := authenticatedGroup.Group("/events")
	{
		eventRoutes.GET("", eventHandler.GetEvents)
		eventRoutes.GET("/:id", eventHandler.GetEventByID)
		eventRoutes.POST("", managers, eventHandler.CreateEvent)
		eventRoutes.PUT("/:id", managers, eventHandler.UpdateEvent)

		// Staff reach only events they are assigned to; the service checks.
		eventRoutes.GET("/:id/messages", staffOrManagers, eventHandler.GetMessages)
		eventRoutes.POST("/:id/messages", staffOrManagers, eventHandler.PostMessage)
	}
}

// SetupShiftRoutes sets up the shift catalog routes.
func SetupShiftRoutes(authenticatedGroup *gin.RouterGroup, shiftHandler *handlers.ShiftHandler) {
	shiftRoutes := authenticatedGroup.Group("/shifts")
	{
		shiftRoutes.GET("", shiftHandler.GetShifts)
		shiftRoutes.GET("/:id", shiftHandler.GetShiftByID)
		shiftRoutes.POST("", managers, shiftHandler.CreateShift)
		shiftRoutes.PUT("/:id", managers, shiftHandler.UpdateShift)
		shiftRoutes.PATCH("/:id/status", managers, shiftHandler.UpdateShiftStatus)
	}
}

// SetupAssignmentRoutes sets up the assignment ledger routes.
func SetupAssignmentRoutes(authenticatedGroup *gin.RouterGroup, assignmentHandler *handlers.AssignmentHandler) {
	assignmentRoutes := authenticatedGroup.Group("/shift-assignments")
	{
		assignmentRoutes.GET("", staffOrManagers, assignmentHandler.GetAssignments)
		assignmentRoutes.GET("/:id", staffOrManagers, assignmentHandler.GetAssignmentByID)
		assignmentRoutes.POST("/apply", staff, assignmentHandler.ApplyForShift)
		assignmentRoutes.POST("/assign", managers, assignmentHandler.AssignStaff)
		assignmentRoutes.PATCH("/:id/status", managers, assignmentHandler.UpdateAssignmentStatus)
		assignmentRoutes.POST("/:id/check-in", staff, assignmentHandler.CheckIn)
		assignmentRoutes.POST("/:id/check-out", staff, assignmentHandler.CheckOut)
	}
}

func SetupCalendarRoutes(authenticatedGroup *gin.RouterGroup, assignmentHandler *handlers.AssignmentHandler) {
	authenticatedGroup.GET("/calendar/:staffId", staffOrManagers, assignmentHandler.GetStaffCalendar)
}

// SetupTimesheetRoutes sets up the timesheet workflow routes.
func SetupTimesheetRoutes(authenticatedGroup *gin.RouterGroup, timesheetHandler *handlers.TimesheetHandler) {
	timesheetRoutes := authenticatedGroup.Group("/timesheets")
	{
		timesheetRoutes.POST("", staff, timesheetHandler.SubmitTimesheet)
		timesheetRoutes.GET("", staffOrManagers, timesheetHandler.GetTimesheets)
		timesheetRoutes.GET("/:id", staffOrManagers, timesheetHandler.GetTimesheetByID)
		timesheetRoutes.PUT("/:id", staff, timesheetHandler.UpdateTimesheet)
		timesheetRoutes.PATCH("/:id/status", managers, timesheetHandler.ReviewTimesheet)
	}
}

// SetupPayrollRoutes sets up the payroll routes.
func SetupPayrollRoutes(authenticatedGroup *gin.RouterGroup, payrollHandler *handlers.PayrollHandler) {
	payrollRoutes := authenticatedGroup.Group("/payroll")
	payrollRoutes.Use(admins)
	{
		payrollRoutes.POST("/report", payrollHandler.GenerateReport)
		payrollRoutes.POST("/process", payrollHandler.ProcessPayroll)
		payrollRoutes.GET("/runs", payrollHandler.GetRuns)
		payrollRoutes.GET("/runs/:id", payrollHandler.GetRunByID)
	}
}

func SetupReminderRoutes(authenticatedGroup *gin.RouterGroup, reminderHandler *handlers.ReminderHandler) {
	authenticatedGroup.POST("/reminders/trigger", admins, reminderHandler.TriggerReminders)
}

// SetupStaffProfileRoutes sets up the staff listing. Staff may read their own profile.
func SetupStaffProfileRoutes(authenticatedGroup *gin.RouterGroup, profileHandler *handlers.StaffProfileHandler) {
	profileRoutes := authenticatedGroup.Group("/staff-profiles")
	{
		profileRoutes.GET("", managers, profileHandler.GetStaffProfiles)
		profileRoutes.GET("/me", staff, profileHandler.GetMyStaffProfile)
		profileRoutes.GET("/:id", staffOrManagers, profileHandler.GetStaffProfileByID)
		profileRoutes.POST("", managers, profileHandler.CreateStaffProfile)
		profileRoutes.PUT("/:id", managers, profileHandler.UpdateStaffProfile)
		profileRoutes.DELETE("/:id", admins, profileHandler.DeleteStaffProfile)
	}
}

// SetupRoleRoutes sets up the job role catalog.
func SetupRoleRoutes(authenticatedGroup *gin.RouterGroup, roleHandler *handlers.RoleHandler) {
	roleRoutes := authenticatedGroup.Group("/roles")
	{
		roleRoutes.GET("", roleHandler.GetRoles)
		roleRoutes.GET("/:id", roleHandler.GetRoleByID)
		roleRoutes.POST("", managers, roleHandler.CreateRole)
		roleRoutes.PUT("/:id", managers, roleHandler.UpdateRole)
		roleRoutes.DELETE("/:id", managers, roleHandler.DeleteRole)
	}
}

// SetupPublicEnquiryRoutes exposes the contact form, throttled when a limiter is given.
func SetupPublicEnquiryRoutes(group *gin.RouterGroup, enquiryHandler *handlers.EnquiryHandler, limiter *middleware.RateLimiter) {
	if limiter != nil {
		group.POST("", limiter.Middleware(), enquiryHandler.SubmitEnquiry)
		return
	}
	group.POST("", enquiryHandler.SubmitEnquiry)
}

func SetupEnquiryRoutes(authenticatedGroup *gin.RouterGroup, enquiryHandler *handlers.EnquiryHandler) {
	enquiryRoutes := authenticatedGroup.Group("/enquiries")
	{
		enquiryRoutes.GET("", managers, enquiryHandler.GetEnquiries)
		enquiryRoutes.GET("/:id", managers, enquiryHandler.GetEnquiryByID)
		enquiryRoutes.PATCH("/:id/status", managers, enquiryHandler.UpdateEnquiryStatus)
		enquiryRoutes.DELETE("/:id", admins, enquiryHandler.DeleteEnquiry)
	}
}
