package router

import (
	"net/http"

	"north_staffing_backend/internal/handlers"
	"north_staffing_backend/internal/middleware"
	"north_staffing_backend/internal/repositories"
	"north_staffing_backend/internal/services"
	"north_staffing_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// Deps is everything the HTTP surface needs from the outside.
type Deps struct {
	Store     repositories.Store
	Tokens    *utils.TokenManager
	Reminders services.ReminderService
	// AuthLimiter throttles register and login. Nil disables throttling.
	AuthLimiter *middleware.RateLimiter
	// EnquiryLimiter throttles the public contact form. Nil disables throttling.
	EnquiryLimiter *middleware.RateLimiter
}

// Setup initializes the routing for the application.
func Setup(engine *gin.Engine, deps Deps) {
	// Initialize Services
	authService := services.NewAuthService(deps.Store, deps.Tokens)
	catalogService := services.NewCatalogService(deps.Store)
	assignmentService := services.NewAssignmentService(deps.Store)
	timesheetService := services.NewTimesheetService(deps.Store)
	payrollService := services.NewPayrollService(deps.Store)
	messageService := services.NewMessageService(deps.Store)
	profileService := services.NewStaffProfileService(deps.Store)
	roleService := services.NewRoleService(deps.Store)
	enquiryService := services.NewEnquiryService(deps.Store)
	reminderService := deps.Reminders
	if reminderService == nil {
		reminderService = services.NewReminderService(deps.Store, services.LogNotifier{}, 0)
	}

	// Initialize Handlers
	authHandler := handlers.NewAuthHandler(authService)
	eventHandler := handlers.NewEventHandler(catalogService, messageService)
	shiftHandler := handlers.NewShiftHandler(catalogService)
	assignmentHandler := handlers.NewAssignmentHandler(assignmentService)
	timesheetHandler := handlers.NewTimesheetHandler(timesheetService)
	payrollHandler := handlers.NewPayrollHandler(payrollService)
	reminderHandler := handlers.NewReminderHandler(reminderService)
	profileHandler := handlers.NewStaffProfileHandler(profileService)
	roleHandler := handlers.NewRoleHandler(roleService)
	enquiryHandler := handlers.NewEnquiryHandler(enquiryService)

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	api := engine.Group("/api")

	SetupPublicAuthRoutes(api.Group("/auth"), authHandler, deps.AuthLimiter)
	SetupPublicEnquiryRoutes(api.Group("/enquiries"), enquiryHandler, deps.EnquiryLimiter)

	authenticated := api.Group("")
	authenticated.Use(middleware.AuthMiddleware(deps.Tokens))
	{
		SetupAuthenticatedAuthRoutes(authenticated.Group("/auth"), authHandler)
		SetupUserRoutes(authenticated, authHandler)
		SetupEventRoutes(authenticated, eventHandler)
		SetupShiftRoutes(authenticated, shiftHandler)
		SetupAssignmentRoutes(authenticated, assignmentHandler)
		SetupCalendarRoutes(authenticated, assignmentHandler)
		SetupTimesheetRoutes(authenticated, timesheetHandler)
		SetupPayrollRoutes(authenticated, payrollHandler)
		SetupReminderRoutes(authenticated, reminderHandler)
		SetupStaffProfileRoutes(authenticated, profileHandler)
		SetupRoleRoutes(authenticated, roleHandler)
		SetupEnquiryRoutes(authenticated, enquiryHandler)
	}
}
