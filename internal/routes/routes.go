package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"clinic-booking-server/internal/config"
	"clinic-booking-server/internal/handlers"
	"clinic-booking-server/internal/middleware"
	"clinic-booking-server/internal/models"
	"clinic-booking-server/internal/scheduling"
)

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, svc *scheduling.Service, cfg *config.Config, log zerolog.Logger) {
	availabilityHandler := handlers.NewAvailabilityHandler(svc, log)
	scheduleHandler := handlers.NewScheduleHandler(svc, log)
	appointmentHandler := handlers.NewAppointmentHandler(svc, log)
	userHandler := handlers.NewUserHandler(svc, log)
	adminHandler := handlers.NewAdminHandler(svc, log)

	health := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP"})
	}
	router.GET("/health", health)

	public := router.Group("/api/v1")
	public.GET("/health", health)

	private := router.Group("/api/v1")
	private.Use(middleware.AuthMiddleware(cfg))
	{
		private.GET("/me", userHandler.GetProfile)

		// Doctor directory and availability are visible to every authenticated role.
		doctorRoutes := private.Group("/doctors")
		{
			doctorRoutes.GET("", availabilityHandler.ListDoctors)
			doctorRoutes.GET("/:doctorId/availability", availabilityHandler.GetSlots)
			doctorRoutes.GET("/:doctorId/month-availability", availabilityHandler.GetMonthAvailability)
		}

		scheduleRoutes := private.Group("/schedule")
		scheduleRoutes.Use(middleware.RoleAuthMiddleware(models.RoleDoctor))
		{
			scheduleRoutes.GET("", scheduleHandler.GetSchedule)
			scheduleRoutes.POST("", scheduleHandler.SaveSchedule)
			scheduleRoutes.POST("/config", scheduleHandler.UpdateConfig)
		}

		appointmentRoutes := private.Group("/appointments")
		appointmentRoutes.Use(middleware.RoleAuthMiddleware(models.RolePatient))
		{
			appointmentRoutes.POST("", appointmentHandler.CreateAppointment)
			appointmentRoutes.GET("/mine", appointmentHandler.GetMyAppointments)
			appointmentRoutes.POST("/:id/cancel", appointmentHandler.CancelAppointment)
		}

		doctorPanel := private.Group("/doctor")
		doctorPanel.Use(middleware.RoleAuthMiddleware(models.RoleDoctor))
		{
			doctorPanel.GET("/appointments", appointmentHandler.GetDoctorAppointments)
			doctorPanel.GET("/stats", appointmentHandler.GetDoctorStats)
			doctorPanel.GET("/patients", appointmentHandler.GetDoctorPatients)
			doctorPanel.POST("/appointments/:id/status", appointmentHandler.UpdateAppointmentStatus)
			doctorPanel.POST("/appointments/:id/notes", appointmentHandler.SaveNotes)
		}

		adminRoutes := private.Group("/admin")
		adminRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
		{
			adminRoutes.POST("/users", userHandler.CreateUser)
			adminRoutes.GET("/users", userHandler.GetUsers)
			adminRoutes.GET("/appointments", adminHandler.GetAppointments)
			adminRoutes.GET("/appointments/:id", adminHandler.GetAppointment)
			adminRoutes.GET("/stats", adminHandler.GetStats)
		}
	}
}
