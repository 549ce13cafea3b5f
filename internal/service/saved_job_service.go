package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/ignatzorin/jobportal-backend/internal/models"
	"github.com/ignatzorin/jobportal-backend/internal/pkg/apperror"
	"github.com/ignatzorin/jobportal-backend/internal/repository"
)

// SavedJobRepository описывает хранилище сохранённых вакансий.
type SavedJobRepository interface {
	Add(ctx context.Context, userID, jobID uuid.UUID) (*models.SavedJob, error)
	Remove(ctx context.Context, userID, jobID uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.SavedJobWithJob, error)
	Exists(ctx context.Context, userID, jobID uuid.UUID) (bool, error)
}

// ErrSavedJobNotFound возвращается при удалении несохранённой вакансии.
var ErrSavedJobNotFound = apperror.New(apperror.ErrCodeNotFound, "вакансия не найдена в сохранённых")

// SavedJobService управляет сохранёнными вакансиями соискателя.
type SavedJobService struct {
	repo SavedJobRepository
	jobs JobReader
}

func NewSavedJobService(repo SavedJobRepository, jobs JobReader) *SavedJobService {
	return &SavedJobService{repo: repo, jobs: jobs}
}

// Save добавляет вакансию в сохранённые. Повторный вызов не ошибка.
func (s *SavedJobService) Save(ctx context.Context, userID, jobID uuid.UUID) (*models.SavedJob, error) {
	if _, err := s.jobs.GetByID(ctx, jobID); err != nil {
		return nil, mapJobErr(err)
	}
	return s.repo.Add(ctx, userID, jobID)
}

func (s *SavedJobService) Unsave(ctx context.Context, userID, jobID uuid.UUID) error {
	if err := s.repo.Remove(ctx, userID, jobID); err != nil {
		if errors.Is(err, repository.ErrSavedJobNotFound) {
			return ErrSavedJobNotFound
		}
		return err
	}
	return nil
}

func (s *SavedJobService) List(ctx context.Context, userID uuid.UUID) ([]models.SavedJobWithJob, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *SavedJobService) IsSaved(ctx context.Context, userID, jobID uuid.UUID) (bool, error) {
	return s.repo.Exists(ctx, userID, jobID)
}
