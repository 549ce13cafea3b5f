package models

import (
	"time"

	"github.com/google/uuid"
)

// Роли пользователей.
const (
	RoleJobSeeker = "JOBSEEKER"
	RoleEmployer  = "EMPLOYER"
	RoleAdmin     = "ADMIN"
)

// ValidRoles список ролей, доступных при регистрации.
var ValidRoles = map[string]struct{}{
	RoleJobSeeker: {},
	RoleEmployer:  {},
}

// User описывает сущность пользователя портала.
type User struct {
	ID                  uuid.UUID  `db:"id" json:"id"`
	Name                string     `db:"name" json:"name"`
	Email               string     `db:"email" json:"email"`
	PasswordHash        string     `db:"password_hash" json:"-"`
	Role                string     `db:"role" json:"role"`
	ResetToken          *string    `db:"reset_token" json:"-"`
	ResetTokenExpiresAt *time.Time `db:"reset_token_expires_at" json:"-"`
	LastLoginAt         *time.Time `db:"last_login_at" json:"last_login_at,omitempty"`
	CreatedAt           time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time  `db:"updated_at" json:"updated_at"`
}

// Session представляет сохранённую сессию пользователя.
type Session struct {
	ID           uuid.UUID `db:"id" json:"id"`
	UserID       uuid.UUID `db:"user_id" json:"user_id"`
	RefreshToken string    `db:"refresh_token" json:"refresh_token"`
	UserAgent    *string   `db:"user_agent" json:"user_agent,omitempty"`
	IPAddress    *string   `db:"ip_address" json:"ip_address,omitempty"`
	ExpiresAt    time.Time `db:"expires_at" json:"expires_at"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// EmployerProfile описывает профиль работодателя.
type EmployerProfile struct {
	ID             uuid.UUID `db:"id" json:"id"`
	UserID         uuid.UUID `db:"user_id" json:"user_id"`
	Phone          *string   `db:"phone" json:"phone,omitempty"`
	Location       *string   `db:"location" json:"location,omitempty"`
	Bio            *string   `db:"bio" json:"bio,omitempty"`
	Experience     *string   `db:"experience" json:"experience,omitempty"`
	CompanySize    *string   `db:"company_size" json:"company_size,omitempty"`
	Industry       *string   `db:"industry" json:"industry,omitempty"`
	Website        *string   `db:"website" json:"website,omitempty"`
	AvatarKey      *string   `db:"avatar_key" json:"avatar_key,omitempty"`
	CompanyLogoKey *string   `db:"company_logo_key" json:"company_logo_key,omitempty"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}
