package common

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/jobportal-backend/internal/dto"
	"github.com/ignatzorin/jobportal-backend/internal/pkg/apperror"
)

// Fail передаёт ошибку в ErrorHandler и прерывает цепочку.
func Fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// BindAndValidate читает JSON тело. Ошибка привязки становится ошибкой валидации.
func BindAndValidate(c *gin.Context, req interface{}) error {
	if err := c.ShouldBindJSON(req); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeValidation, "ошибка валидации запроса: "+err.Error())
	}
	return nil
}

func RespondSuccess(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, dto.SuccessResponse{Message: message, Data: data})
}

func RespondUnauthorized(c *gin.Context, message string) {
	respondError(c, http.StatusUnauthorized, message, "требуется авторизация")
}

func RespondBadRequest(c *gin.Context, message string) {
	respondError(c, http.StatusBadRequest, message, "некорректный запрос")
}

func respondError(c *gin.Context, status int, message, fallback string) {
	if message == "" {
		message = fallback
	}
	c.AbortWithStatusJSON(status, dto.ErrorResponse{Error: message})
}

// ParseIntQuery читает целый query параметр, при ошибке возвращает fallback.
func ParseIntQuery(c *gin.Context, key string, fallback int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return fallback
	}
	return v
}

// GetPagination читает limit (по умолчанию 20, не больше 100) и offset.
func GetPagination(c *gin.Context) (limit, offset int) {
	limit = ParseIntQuery(c, "limit", 20)
	if limit < 1 {
		limit = 20
	}
	limit = min(limit, 100)
	offset = max(ParseIntQuery(c, "offset", 0), 0)
	return limit, offset
}
