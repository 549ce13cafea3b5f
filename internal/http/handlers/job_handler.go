package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/jobportal-backend/internal/dto"
	"github.com/ignatzorin/jobportal-backend/internal/http/handlers/common"
	"github.com/ignatzorin/jobportal-backend/internal/models"
	"github.com/ignatzorin/jobportal-backend/internal/service"
)

// DefaultJobsPerPage - размер страницы списка вакансий по умолчанию.
const DefaultJobsPerPage = 10

// JobHandler обслуживает маршруты вакансий.
type JobHandler struct {
	jobs *service.JobService
}

// NewJobHandler создаёт хэндлер вакансий.
func NewJobHandler(jobs *service.JobService) *JobHandler {
	return &JobHandler{jobs: jobs}
}

// ListJobs обрабатывает GET /jobs?page=&per_page=&search=&location=&type=.
func (h *JobHandler) ListJobs(c *gin.Context) {
	filter := models.JobFilter{
		Search:   c.Query("search"),
		Location: c.Query("location"),
		Type:     c.Query("type"),
	}
	page := common.ParseIntQuery(c, "page", 1)
	perPage := common.ParseIntQuery(c, "per_page", DefaultJobsPerPage)

	result, err := h.jobs.List(c.Request.Context(), filter, page, perPage)
	if err != nil {
		common.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.JobsPage(result))
}

// GetJob обрабатывает GET /jobs/:id.
func (h *JobHandler) GetJob(c *gin.Context) {
	jobID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, "неверный идентификатор вакансии")
		return
	}

	job, err := h.jobs.Get(c.Request.Context(), jobID)
	if err != nil {
		common.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, job)
}

// CreateJob обрабатывает POST /jobs.
func (h *JobHandler) CreateJob(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	var req dto.JobRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.Fail(c, err)
		return
	}

	job, err := h.jobs.Create(c.Request.Context(), userID, jobInput(req))
	if err != nil {
		common.Fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, job)
}

// UpdateJob обрабатывает PUT /jobs/:id.
func (h *JobHandler) UpdateJob(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	jobID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, "неверный идентификатор вакансии")
		return
	}

	var req dto.JobRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.Fail(c, err)
		return
	}

	job, err := h.jobs.Update(c.Request.Context(), userID, jobID, jobInput(req))
	if err != nil {
		common.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, job)
}

// DeleteJob обрабатывает DELETE /jobs/:id. Вакансия снимается с публикации.
func (h *JobHandler) DeleteJob(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	jobID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, "неверный идентификатор вакансии")
		return
	}

	if err := h.jobs.Delete(c.Request.Context(), userID, jobID); err != nil {
		common.Fail(c, err)
		return
	}

	common.RespondSuccess(c, http.StatusOK, "вакансия удалена", nil)
}

// ListEmployerJobs обрабатывает GET /jobs/employer.
func (h *JobHandler) ListEmployerJobs(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	jobs, err := h.jobs.ListByEmployer(c.Request.Context(), userID)
	if err != nil {
		common.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, jobs)
}

func jobInput(req dto.JobRequest) service.JobInput {
	return service.JobInput{
		Title:        req.Title,
		Description:  req.Description,
		Company:      req.Company,
		Location:     req.Location,
		Type:         req.Type,
		Salary:       req.Salary,
		Requirements: req.Requirements,
		Skills:       req.Skills,
		Deadline:     req.Deadline,
	}
}
