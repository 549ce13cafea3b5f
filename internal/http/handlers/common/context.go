// Package common - общие помощники HTTP обработчиков.
package common

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/jobportal-backend/internal/http/middleware"
	"github.com/ignatzorin/jobportal-backend/internal/service"
)

var errNoUser = errors.New("пользователь не найден в контексте")

// CurrentUserID возвращает ID пользователя, положенный AuthMiddleware.
func CurrentUserID(c *gin.Context) (uuid.UUID, error) {
	raw, _ := c.Get(middleware.ContextUserIDKey)
	if userID, ok := raw.(uuid.UUID); ok {
		return userID, nil
	}
	return uuid.Nil, errNoUser
}

// CurrentActor возвращает пользователя с ролью. Без авторизации отвечает 401 и возвращает false.
func CurrentActor(c *gin.Context) (service.Actor, bool) {
	userID, err := CurrentUserID(c)
	if err != nil {
		RespondUnauthorized(c, "")
		return service.Actor{}, false
	}
	role := c.GetString(middleware.ContextRoleKey)
	return service.Actor{UserID: userID, Role: role}, true
}

// ParseUUIDParam разбирает UUID из параметра пути.
func ParseUUIDParam(c *gin.Context, name string) (uuid.UUID, error) {
	raw := c.Param(name)
	if raw == "" {
		return uuid.Nil, fmt.Errorf("параметр %s отсутствует", name)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("параметр %s: %w", name, err)
	}
	return id, nil
}
