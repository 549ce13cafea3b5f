package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/jobportal-backend/internal/http/handlers/common"
	"github.com/ignatzorin/jobportal-backend/internal/service"
)

// DashboardHandler отдаёт агрегированные данные дашбордов.
type DashboardHandler struct {
	dashboards *service.DashboardService
}

// NewDashboardHandler creates a new instance.
func NewDashboardHandler(dashboards *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboards: dashboards}
}

// AdminStats обрабатывает GET /admin/stats.
func (h *DashboardHandler) AdminStats(c *gin.Context) {
	stats, err := h.dashboards.AdminStats(c.Request.Context())
	respond(c, stats, err)
}

// UserActivity обрабатывает GET /admin/user-activity.
func (h *DashboardHandler) UserActivity(c *gin.Context) {
	activity, err := h.dashboards.UserActivity(c.Request.Context())
	respond(c, activity, err)
}

// RecentActivities обрабатывает GET /admin/recent-activities.
func (h *DashboardHandler) RecentActivities(c *gin.Context) {
	activities, err := h.dashboards.RecentActivities(c.Request.Context())
	respond(c, activities, err)
}

// EmployerStats обрабатывает GET /employer/stats.
func (h *DashboardHandler) EmployerStats(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	stats, err := h.dashboards.EmployerStats(c.Request.Context(), userID)
	respond(c, stats, err)
}

// EmployerRecentApplications обрабатывает GET /employer/applications/recent.
func (h *DashboardHandler) EmployerRecentApplications(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	apps, err := h.dashboards.EmployerRecentApplications(c.Request.Context(), userID)
	respond(c, apps, err)
}

// JobSeekerStats обрабатывает GET /jobseeker/stats.
func (h *DashboardHandler) JobSeekerStats(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	stats, err := h.dashboards.JobSeekerStats(c.Request.Context(), userID)
	respond(c, stats, err)
}

// RecommendedJobs обрабатывает GET /jobseeker/jobs/recommended.
func (h *DashboardHandler) RecommendedJobs(c *gin.Context) {
	jobs, err := h.dashboards.RecommendedJobs(c.Request.Context())
	respond(c, jobs, err)
}

func respond(c *gin.Context, data interface{}, err error) {
	if err != nil {
		common.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, data)
}
