package dto

import (
	"time"
)

// RegisterRequest - запрос на регистрацию.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
}

// LoginRequest - запрос на вход.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest - запрос на обновление токенов. Используется и для выхода.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// ForgotPasswordRequest - запрос ссылки на сброс пароля.
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

// ResetPasswordRequest - установка нового пароля по токену.
type ResetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// JobRequest - создание или изменение вакансии.
type JobRequest struct {
	Title        string     `json:"title" binding:"required"`
	Description  string     `json:"description" binding:"required"`
	Company      string     `json:"company" binding:"required"`
	Location     string     `json:"location" binding:"required"`
	Type         string     `json:"type" binding:"required"`
	Salary       *string    `json:"salary,omitempty"`
	Requirements []string   `json:"requirements"`
	Skills       []string   `json:"skills"`
	Deadline     *time.Time `json:"deadline,omitempty"`
}

// UpdateStatusRequest - смена статуса отклика.
type UpdateStatusRequest struct {
	Status   string `json:"status" binding:"required"`
	Feedback string `json:"feedback"`
}

// ProfileRequest - изменение профиля работодателя.
type ProfileRequest struct {
	Phone       *string `json:"phone,omitempty"`
	Location    *string `json:"location,omitempty"`
	Bio         *string `json:"bio,omitempty"`
	Experience  *string `json:"experience,omitempty"`
	CompanySize *string `json:"company_size,omitempty"`
	Industry    *string `json:"industry,omitempty"`
	Website     *string `json:"website,omitempty"`
}
