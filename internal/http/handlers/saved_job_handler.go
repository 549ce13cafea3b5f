package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/jobportal-backend/internal/dto"
	"github.com/ignatzorin/jobportal-backend/internal/http/handlers/common"
	"github.com/ignatzorin/jobportal-backend/internal/service"
)

// SavedJobHandler обслуживает избранные вакансии соискателя.
type SavedJobHandler struct {
	saved *service.SavedJobService
}

// NewSavedJobHandler создаёт хэндлер.
func NewSavedJobHandler(saved *service.SavedJobService) *SavedJobHandler {
	return &SavedJobHandler{saved: saved}
}

// SaveJob обрабатывает POST /jobs/:id/save.
func (h *SavedJobHandler) SaveJob(c *gin.Context) {
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

	saved, err := h.saved.Save(c.Request.Context(), userID, jobID)
	if err != nil {
		common.Fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, saved)
}

// UnsaveJob обрабатывает DELETE /jobs/:id/save.
func (h *SavedJobHandler) UnsaveJob(c *gin.Context) {
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

	if err := h.saved.Unsave(c.Request.Context(), userID, jobID); err != nil {
		common.Fail(c, err)
		return
	}

	common.RespondSuccess(c, http.StatusOK, "вакансия удалена из сохранённых", nil)
}

// IsSaved обрабатывает GET /jobs/:id/save.
func (h *SavedJobHandler) IsSaved(c *gin.Context) {
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

	saved, err := h.saved.IsSaved(c.Request.Context(), userID, jobID)
	if err != nil {
		common.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SavedStatusResponse{Saved: saved})
}

// ListSavedJobs обрабатывает GET /jobs/saved.
func (h *SavedJobHandler) ListSavedJobs(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	items, err := h.saved.List(c.Request.Context(), userID)
	if err != nil {
		common.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, items)
}
