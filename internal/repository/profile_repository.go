package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/jobportal-backend/internal/models"
)

// ErrProfileNotFound возвращается, когда профиль работодателя не создан.
var ErrProfileNotFound = errors.New("employer profile not found")

// Виды изображений профиля.
const (
	ProfileImageAvatar = "avatar"
	ProfileImageLogo   = "logo"
)

// ProfileRepository работает с таблицей employer_profiles.
type ProfileRepository struct {
	db *sqlx.DB
}

func NewProfileRepository(db *sqlx.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// GetByUserID возвращает профиль работодателя.
func (r *ProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.EmployerProfile, error) {
	var profile models.EmployerProfile
	if err := r.db.GetContext(ctx, &profile, `SELECT * FROM employer_profiles WHERE user_id = $1`, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("profile repository: get %w", err)
	}
	return &profile, nil
}

// Upsert создаёт или обновляет текстовые поля профиля.
func (r *ProfileRepository) Upsert(ctx context.Context, profile *models.EmployerProfile) error {
	query := `
		INSERT INTO employer_profiles (user_id, phone, location, bio, experience, company_size, industry, website)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id) DO UPDATE SET
			phone = EXCLUDED.phone,
			location = EXCLUDED.location,
			bio = EXCLUDED.bio,
			experience = EXCLUDED.experience,
			company_size = EXCLUDED.company_size,
			industry = EXCLUDED.industry,
			website = EXCLUDED.website,
			updated_at = NOW()
		RETURNING id, avatar_key, company_logo_key, updated_at
	`
	if err := r.db.QueryRowxContext(ctx, query,
		profile.UserID, profile.Phone, profile.Location, profile.Bio,
		profile.Experience, profile.CompanySize, profile.Industry, profile.Website,
	).Scan(&profile.ID, &profile.AvatarKey, &profile.CompanyLogoKey, &profile.UpdatedAt); err != nil {
		return fmt.Errorf("profile repository: upsert %w", err)
	}
	return nil
}

// SetImage сохраняет ключ загруженного изображения и возвращает предыдущий.
func (r *ProfileRepository) SetImage(ctx context.Context, userID uuid.UUID, kind, key string) (*string, error) {
	column := "avatar_key"
	if kind == ProfileImageLogo {
		column = "company_logo_key"
	}

	// Имя колонки берётся из фиксированного набора выше.
	query := fmt.Sprintf(`
		WITH prev AS (SELECT %[1]s AS key FROM employer_profiles WHERE user_id = $1)
		INSERT INTO employer_profiles (user_id, %[1]s) VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET %[1]s = EXCLUDED.%[1]s, updated_at = NOW()
		RETURNING (SELECT key FROM prev)
	`, column)

	var previous *string
	if err := r.db.QueryRowxContext(ctx, query, userID, key).Scan(&previous); err != nil {
		return nil, fmt.Errorf("profile repository: set image %w", err)
	}
	return previous, nil
}
