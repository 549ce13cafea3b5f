package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/jobportal-backend/internal/models"
)

var ErrSavedJobNotFound = errors.New("saved job not found")

type SavedJobRepository struct {
	db *sqlx.DB
}

func NewSavedJobRepository(db *sqlx.DB) *SavedJobRepository {
	return &SavedJobRepository{db: db}
}

// Add сохраняет вакансию. Повторное сохранение возвращает существующую запись.
func (r *SavedJobRepository) Add(ctx context.Context, userID, jobID uuid.UUID) (*models.SavedJob, error) {
	var s models.SavedJob
	err := r.db.GetContext(ctx, &s, `
		INSERT INTO saved_jobs (user_id, job_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, job_id) DO UPDATE SET created_at = saved_jobs.created_at
		RETURNING *
	`, userID, jobID)
	if err != nil {
		return nil, fmt.Errorf("saved job repository: add %w", err)
	}
	return &s, nil
}

func (r *SavedJobRepository) Remove(ctx context.Context, userID, jobID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM saved_jobs WHERE user_id = $1 AND job_id = $2`, userID, jobID)
	if err != nil {
		return fmt.Errorf("saved job repository: remove %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrSavedJobNotFound
	}
	return nil
}

// ListByUser возвращает сохранённые вакансии вместе с данными вакансий.
func (r *SavedJobRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.SavedJobWithJob, error) {
	saved := []models.SavedJobWithJob{}
	err := r.db.SelectContext(ctx, &saved, `
		SELECT j.*, s.created_at AS saved_at
		FROM saved_jobs s
		JOIN jobs j ON j.id = s.job_id
		WHERE s.user_id = $1
		ORDER BY s.created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("saved job repository: list %w", err)
	}
	return saved, nil
}

func (r *SavedJobRepository) Exists(ctx context.Context, userID, jobID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `
		SELECT EXISTS(SELECT 1 FROM saved_jobs WHERE user_id = $1 AND job_id = $2)
	`, userID, jobID)
	if err != nil {
		return false, fmt.Errorf("saved job repository: exists %w", err)
	}
	return exists, nil
}
