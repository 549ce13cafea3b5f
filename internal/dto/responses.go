package dto

import (
	"github.com/ignatzorin/jobportal-backend/internal/models"
	"github.com/ignatzorin/jobportal-backend/internal/pagination"
)

// ErrorResponse - единый формат ошибки API.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse - ответ с сообщением и необязательными данными.
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Tokens - пара токенов в ответе API.
type Tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// AuthResponse - ответ на регистрацию и вход.
type AuthResponse struct {
	User   models.User `json:"user"`
	Tokens Tokens      `json:"tokens"`
}

// RefreshResponse - ответ на обновление токенов.
type RefreshResponse struct {
	Tokens Tokens `json:"tokens"`
}

// JobsPage - страница списка вакансий.
type JobsPage = pagination.Page[models.Job]

// SavedStatusResponse - сохранена ли вакансия.
type SavedStatusResponse struct {
	Saved bool `json:"saved"`
}
