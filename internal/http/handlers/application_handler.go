package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/jobportal-backend/internal/domain/valueobject"
	"github.com/ignatzorin/jobportal-backend/internal/dto"
	"github.com/ignatzorin/jobportal-backend/internal/http/handlers/common"
	"github.com/ignatzorin/jobportal-backend/internal/logger"
	"github.com/ignatzorin/jobportal-backend/internal/service"
)

// ApplicationHandler обслуживает маршруты откликов.
type ApplicationHandler struct {
	applications *service.ApplicationService
}

// NewApplicationHandler создаёт хэндлер откликов.
func NewApplicationHandler(applications *service.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{applications: applications}
}

// Submit обрабатывает POST /applications (multipart: job_id, cover_letter, resume).
func (h *ApplicationHandler) Submit(c *gin.Context) {
	actor, ok := common.CurrentActor(c)
	if !ok {
		return
	}

	jobID, err := uuid.Parse(c.PostForm("job_id"))
	if err != nil {
		common.RespondBadRequest(c, "неверный идентификатор вакансии")
		return
	}

	in := service.SubmitApplicationInput{
		JobID:       jobID,
		CoverLetter: c.PostForm("cover_letter"),
	}

	fileHeader, err := c.FormFile("resume")
	switch {
	case err == nil:
		file, err := fileHeader.Open()
		if err != nil {
			common.Fail(c, fmt.Errorf("application handler: открытие резюме: %w", err))
			return
		}
		defer file.Close()
		in.Resume = &service.ResumeUpload{Name: fileHeader.Filename, Content: file}
	case errors.Is(err, http.ErrMissingFile):
	default:
		common.RespondBadRequest(c, "не удалось прочитать форму отклика")
		return
	}

	app, err := h.applications.Submit(c.Request.Context(), actor, in)
	if err != nil {
		common.Fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, app)
}

// ListMine обрабатывает GET /applications/my-applications.
func (h *ApplicationHandler) ListMine(c *gin.Context) {
	actor, ok := common.CurrentActor(c)
	if !ok {
		return
	}

	apps, err := h.applications.ListMine(c.Request.Context(), actor)
	if err != nil {
		common.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, apps)
}

// ListForJob обрабатывает GET /applications/job/:jobId.
func (h *ApplicationHandler) ListForJob(c *gin.Context) {
	actor, ok := common.CurrentActor(c)
	if !ok {
		return
	}
	jobID, err := common.ParseUUIDParam(c, "jobId")
	if err != nil {
		common.RespondBadRequest(c, "неверный идентификатор вакансии")
		return
	}

	apps, err := h.applications.ListForJob(c.Request.Context(), actor, jobID)
	if err != nil {
		common.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, apps)
}

// StatusConfig обрабатывает GET /applications/status-config.
func (h *ApplicationHandler) StatusConfig(c *gin.Context) {
	c.JSON(http.StatusOK, valueobject.StatusPolicy())
}

// Get обрабатывает GET /applications/:id.
func (h *ApplicationHandler) Get(c *gin.Context) {
	actor, id, ok := h.actorAndID(c)
	if !ok {
		return
	}

	app, err := h.applications.Get(c.Request.Context(), actor, id)
	if err != nil {
		common.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, app)
}

// UpdateStatus обрабатывает PUT /applications/:id/status.
func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	actor, id, ok := h.actorAndID(c)
	if !ok {
		return
	}

	var req dto.UpdateStatusRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.Fail(c, err)
		return
	}

	app, err := h.applications.UpdateStatus(c.Request.Context(), actor, id, service.StatusUpdateInput{
		Status:   req.Status,
		Feedback: req.Feedback,
	})
	if err != nil {
		common.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, app)
}

// Acknowledge обрабатывает POST /applications/:id/acknowledge.
func (h *ApplicationHandler) Acknowledge(c *gin.Context) {
	actor, id, ok := h.actorAndID(c)
	if !ok {
		return
	}

	app, err := h.applications.Acknowledge(c.Request.Context(), actor, id)
	if err != nil {
		common.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, app)
}

// StatusHistory обрабатывает GET /applications/:id/status-history.
func (h *ApplicationHandler) StatusHistory(c *gin.Context) {
	actor, id, ok := h.actorAndID(c)
	if !ok {
		return
	}

	history, err := h.applications.StatusHistory(c.Request.Context(), actor, id)
	if err != nil {
		common.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, history)
}

// Resume обрабатывает GET /applications/:id/resume. С ?download=1 файл отдаётся как вложение.
func (h *ApplicationHandler) Resume(c *gin.Context) {
	actor, id, ok := h.actorAndID(c)
	if !ok {
		return
	}

	file, err := h.applications.OpenResume(c.Request.Context(), actor, id)
	if err != nil {
		common.Fail(c, err)
		return
	}
	defer file.Body.Close()

	disposition := "inline"
	if c.Query("download") == "1" {
		disposition = "attachment"
	}

	c.Header("Content-Type", file.ContentType)
	c.Header("X-Content-Type-Options", "nosniff")
	c.Header("Content-Disposition", contentDisposition(disposition, file.Name))
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, file.Body); err != nil {
		logger.Component("applications").WithError(err).WithField("application_id", id).Warn("резюме передано не полностью")
	}
}

func (h *ApplicationHandler) actorAndID(c *gin.Context) (service.Actor, uuid.UUID, bool) {
	actor, ok := common.CurrentActor(c)
	if !ok {
		return service.Actor{}, uuid.Nil, false
	}
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, "неверный идентификатор отклика")
		return service.Actor{}, uuid.Nil, false
	}
	return actor, id, true
}

// contentDisposition кодирует имя файла по RFC 6266.
func contentDisposition(kind, name string) string {
	return fmt.Sprintf("%s; filename=%q; filename*=UTF-8''%s", kind, asciiName(name), url.PathEscape(name))
}

func asciiName(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		if r < 0x20 || r > 0x7e || r == '"' || r == '\\' {
			r = '_'
		}
		out = append(out, r)
	}
	return string(out)
}
