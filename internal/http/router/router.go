package router

import (
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"

	"github.com/ignatzorin/jobportal-backend/internal/config"
	"github.com/ignatzorin/jobportal-backend/internal/http/handlers"
	"github.com/ignatzorin/jobportal-backend/internal/http/middleware"
	"github.com/ignatzorin/jobportal-backend/internal/models"
	"github.com/ignatzorin/jobportal-backend/internal/service"
)

// Handlers - набор хэндлеров API.
type Handlers struct {
	Auth          *handlers.AuthHandler
	Jobs          *handlers.JobHandler
	SavedJobs     *handlers.SavedJobHandler
	Applications  *handlers.ApplicationHandler
	Profile       *handlers.ProfileHandler
	Dashboard     *handlers.DashboardHandler
	Notifications *handlers.NotificationHandler
	WS            *handlers.WSHandler
	Health        *handlers.HealthHandler
}

func SetupRouter(cfg *config.Config, h Handlers, tokenManager *service.TokenManager, rateLimitStore limiter.Store) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", h.Health.Health)

	api := r.Group("/api")
	api.GET("/health", h.Health.Health)
	api.GET("/ws", h.WS.Handle)

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware(rateLimitStore, cfg.RateLimitLimit, cfg.RateLimitPeriod))
	{
		authGroup.POST("/register", h.Auth.Register)
		authGroup.POST("/login", h.Auth.Login)
		authGroup.POST("/refresh", h.Auth.Refresh)
		authGroup.POST("/logout", h.Auth.Logout)
		authGroup.POST("/forgot-password", h.Auth.ForgotPassword)
		authGroup.POST("/reset-password", h.Auth.ResetPassword)
	}

	// Публичные маршруты
	api.GET("/jobs", h.Jobs.ListJobs)
	api.GET("/jobs/:id", middleware.UUIDValidator("id"), h.Jobs.GetJob)
	api.GET("/applications/status-config", h.Applications.StatusConfig)
	api.GET("/profile/employer/:userId/image", middleware.UUIDValidator("userId"), h.Profile.GetImage)

	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(tokenManager))

	protected.GET("/auth/me", h.Auth.Me)

	employer := middleware.RequireRole(models.RoleEmployer)
	jobseeker := middleware.RequireRole(models.RoleJobSeeker)
	admin := middleware.RequireRole(models.RoleAdmin)

	jobs := protected.Group("/jobs")
	{
		jobs.POST("", employer, h.Jobs.CreateJob)
		jobs.GET("/employer", employer, h.Jobs.ListEmployerJobs)
		jobs.PUT("/:id", employer, middleware.UUIDValidator("id"), h.Jobs.UpdateJob)
		jobs.DELETE("/:id", employer, middleware.UUIDValidator("id"), h.Jobs.DeleteJob)

		jobs.GET("/saved", jobseeker, h.SavedJobs.ListSavedJobs)
		jobs.GET("/:id/save", jobseeker, middleware.UUIDValidator("id"), h.SavedJobs.IsSaved)
		jobs.POST("/:id/save", jobseeker, middleware.UUIDValidator("id"), h.SavedJobs.SaveJob)
		jobs.DELETE("/:id/save", jobseeker, middleware.UUIDValidator("id"), h.SavedJobs.UnsaveJob)
	}

	applications := protected.Group("/applications")
	{
		applications.POST("", jobseeker, h.Applications.Submit)
		applications.GET("/my-applications", jobseeker, h.Applications.ListMine)
		applications.GET("/job/:jobId", middleware.UUIDValidator("jobId"), h.Applications.ListForJob)

		withID := applications.Group("/:id")
		withID.Use(middleware.UUIDValidator("id"))
		{
			withID.GET("", h.Applications.Get)
			withID.PUT("/status", employer, h.Applications.UpdateStatus)
			withID.POST("/acknowledge", employer, h.Applications.Acknowledge)
			withID.GET("/status-history", h.Applications.StatusHistory)
			withID.GET("/resume", h.Applications.Resume)
		}
	}

	profile := protected.Group("/profile/employer")
	profile.Use(employer)
	{
		profile.GET("", h.Profile.GetEmployerProfile)
		profile.PUT("", h.Profile.UpdateEmployerProfile)
		profile.POST("/image", h.Profile.UploadImage)
	}

	adminGroup := protected.Group("/admin")
	adminGroup.Use(admin)
	{
		adminGroup.GET("/stats", h.Dashboard.AdminStats)
		adminGroup.GET("/user-activity", h.Dashboard.UserActivity)
		adminGroup.GET("/recent-activities", h.Dashboard.RecentActivities)
	}

	employerGroup := protected.Group("/employer")
	employerGroup.Use(employer)
	{
		employerGroup.GET("/stats", h.Dashboard.EmployerStats)
		employerGroup.GET("/applications/recent", h.Dashboard.EmployerRecentApplications)
	}

	jobseekerGroup := protected.Group("/jobseeker")
	jobseekerGroup.Use(jobseeker)
	{
		jobseekerGroup.GET("/stats", h.Dashboard.JobSeekerStats)
		jobseekerGroup.GET("/jobs/recommended", h.Dashboard.RecommendedJobs)
	}

	notifications := protected.Group("/notifications")
	{
		notifications.GET("", h.Notifications.ListNotifications)
		notifications.GET("/unread/count", h.Notifications.UnreadCount)
		notifications.PUT("/read-all", h.Notifications.MarkAllAsRead)
		notifications.PUT("/:id/read", middleware.UUIDValidator("id"), h.Notifications.MarkAsRead)
		notifications.DELETE("/:id", middleware.UUIDValidator("id"), h.Notifications.DeleteNotification)
	}

	return r
}
