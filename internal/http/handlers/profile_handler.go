package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/jobportal-backend/internal/dto"
	"github.com/ignatzorin/jobportal-backend/internal/http/handlers/common"
	"github.com/ignatzorin/jobportal-backend/internal/logger"
	"github.com/ignatzorin/jobportal-backend/internal/service"
	"github.com/ignatzorin/jobportal-backend/internal/storage"
)

// ProfileHandler обслуживает профиль работодателя.
type ProfileHandler struct {
	profiles *service.ProfileService
}

// NewProfileHandler создаёт хэндлер.
func NewProfileHandler(profiles *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// GetEmployerProfile обрабатывает GET /profile/employer.
func (h *ProfileHandler) GetEmployerProfile(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	profile, err := h.profiles.Get(c.Request.Context(), userID)
	if err != nil {
		common.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UpdateEmployerProfile обрабатывает PUT /profile/employer.
func (h *ProfileHandler) UpdateEmployerProfile(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	var req dto.ProfileRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.Fail(c, err)
		return
	}

	profile, err := h.profiles.Update(c.Request.Context(), userID, service.ProfileInput{
		Phone:       req.Phone,
		Location:    req.Location,
		Bio:         req.Bio,
		Experience:  req.Experience,
		CompanySize: req.CompanySize,
		Industry:    req.Industry,
		Website:     req.Website,
	})
	if err != nil {
		common.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UploadImage обрабатывает POST /profile/employer/image?type=avatar|logo (multipart, поле image).
func (h *ProfileHandler) UploadImage(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		common.RespondBadRequest(c, "файл изображения обязателен")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		common.Fail(c, err)
		return
	}
	defer file.Close()

	profile, err := h.profiles.UploadImage(c.Request.Context(), userID, c.DefaultQuery("type", "avatar"), fileHeader.Filename, file)
	if err != nil {
		common.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// GetImage обрабатывает GET /profile/employer/:userId/image?type=avatar|logo.
func (h *ProfileHandler) GetImage(c *gin.Context) {
	userID, err := common.ParseUUIDParam(c, "userId")
	if err != nil {
		common.RespondBadRequest(c, "неверный идентификатор пользователя")
		return
	}

	body, err := h.profiles.OpenImage(c.Request.Context(), userID, c.DefaultQuery("type", "avatar"))
	if err != nil {
		common.Fail(c, err)
		return
	}
	defer body.Close()

	detected, err := storage.Sniff(body, storage.ImageTypes)
	if err != nil {
		common.Fail(c, err)
		return
	}

	c.Header("Content-Type", detected.MIME)
	c.Header("Cache-Control", "public, max-age=300")
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, detected.Reader); err != nil {
		logger.Component("profile").WithError(err).Warn("изображение передано не полностью")
	}
}
