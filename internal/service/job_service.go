package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/jobportal-backend/internal/models"
	"github.com/ignatzorin/jobportal-backend/internal/pagination"
	"github.com/ignatzorin/jobportal-backend/internal/pkg/apperror"
	"github.com/ignatzorin/jobportal-backend/internal/repository"
	"github.com/ignatzorin/jobportal-backend/internal/validation"
)

// RecommendedJobsLimit - сколько свежих вакансий показывать в рекомендациях.
const RecommendedJobsLimit = 10

// JobRepository описывает хранилище вакансий.
type JobRepository interface {
	Create(ctx context.Context, job *models.Job) error
	Update(ctx context.Context, job *models.Job) error
	Deactivate(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error)
	ListActive(ctx context.Context, filter models.JobFilter) ([]models.Job, error)
	ListByEmployer(ctx context.Context, employerID uuid.UUID) ([]models.Job, error)
	ListRecent(ctx context.Context, limit int) ([]models.Job, error)
}

// JobInput - редактируемые поля вакансии.
type JobInput struct {
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Company      string     `json:"company"`
	Location     string     `json:"location"`
	Type         string     `json:"type"`
	Salary       *string    `json:"salary"`
	Requirements []string   `json:"requirements"`
	Skills       []string   `json:"skills"`
	Deadline     *time.Time `json:"deadline"`
}

// JobService управляет вакансиями.
type JobService struct {
	repo  JobRepository
	cache *CacheService
}

// NewJobService создаёт сервис вакансий. cache может быть nil.
func NewJobService(repo JobRepository, cache *CacheService) *JobService {
	return &JobService{repo: repo, cache: cache}
}

// Create публикует новую вакансию работодателя.
func (s *JobService) Create(ctx context.Context, employerID uuid.UUID, in JobInput) (*models.Job, error) {
	if err := validateJobInput(&in); err != nil {
		return nil, err
	}

	job := &models.Job{EmployerID: employerID}
	applyJobInput(job, in)

	if err := s.repo.Create(ctx, job); err != nil {
		return nil, err
	}

	s.invalidate(employerID)
	return job, nil
}

// Update изменяет вакансию. Доступно только владельцу.
func (s *JobService) Update(ctx context.Context, employerID, jobID uuid.UUID, in JobInput) (*models.Job, error) {
	if err := validateJobInput(&in); err != nil {
		return nil, err
	}

	job, err := s.ownedJob(ctx, employerID, jobID)
	if err != nil {
		return nil, err
	}

	applyJobInput(job, in)
	if err := s.repo.Update(ctx, job); err != nil {
		return nil, mapJobErr(err)
	}
	return job, nil
}

// Delete снимает вакансию с публикации. Доступно только владельцу.
func (s *JobService) Delete(ctx context.Context, employerID, jobID uuid.UUID) error {
	if _, err := s.ownedJob(ctx, employerID, jobID); err != nil {
		return err
	}
	if err := s.repo.Deactivate(ctx, jobID); err != nil {
		return mapJobErr(err)
	}

	s.invalidate(employerID)
	return nil
}

// Get возвращает опубликованную вакансию по идентификатору.
// Снятая с публикации вакансия для публичного просмотра не существует.
func (s *JobService) Get(ctx context.Context, jobID uuid.UUID) (*models.Job, error) {
	job, err := s.repo.GetByID(ctx, jobID)
	if err != nil {
		return nil, mapJobErr(err)
	}
	if !job.Active {
		return nil, apperror.ErrJobNotFound
	}
	return job, nil
}

// List возвращает страницу активных вакансий под фильтр.
func (s *JobService) List(ctx context.Context, filter models.JobFilter, page, perPage int) (pagination.Page[models.Job], error) {
	jobs, err := s.repo.ListActive(ctx, filter)
	if err != nil {
		return pagination.Page[models.Job]{}, err
	}

	result, err := pagination.Paginate(jobs, perPage, page)
	if err != nil {
		return pagination.Page[models.Job]{}, apperror.Wrap(err, apperror.ErrCodeValidation, "некорректный размер страницы")
	}
	return result, nil
}

// ListByEmployer возвращает все вакансии работодателя.
func (s *JobService) ListByEmployer(ctx context.Context, employerID uuid.UUID) ([]models.Job, error) {
	return s.repo.ListByEmployer(ctx, employerID)
}

// Recommended возвращает самые свежие активные вакансии.
func (s *JobService) Recommended(ctx context.Context) ([]models.Job, error) {
	return s.repo.ListRecent(ctx, RecommendedJobsLimit)
}

func (s *JobService) ownedJob(ctx context.Context, employerID, jobID uuid.UUID) (*models.Job, error) {
	job, err := s.repo.GetByID(ctx, jobID)
	if err != nil {
		return nil, mapJobErr(err)
	}
	if job.EmployerID != employerID {
		return nil, apperror.ErrForbidden
	}
	return job, nil
}

func (s *JobService) invalidate(employerID uuid.UUID) {
	if s.cache == nil {
		return
	}
	s.cache.InvalidateUserCache(employerID)
	s.cache.InvalidateAdminCache()
}

func validateJobInput(in *JobInput) error {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Company = strings.TrimSpace(in.Company)
	in.Location = strings.TrimSpace(in.Location)
	in.Type = strings.TrimSpace(in.Type)

	checks := []error{
		validation.ValidateJobTitle(in.Title),
		validation.ValidateJobDescription(in.Description),
		validation.ValidateNonEmpty("компания", in.Company),
		validation.ValidateLength("компания", in.Company, 0, validation.MaxCompanyLength),
		validation.ValidateNonEmpty("локация", in.Location),
		validation.ValidateLength("локация", in.Location, 0, validation.MaxLocationLength),
		validation.ValidateList("требования", in.Requirements, validation.MaxRequirementsCount, validation.MaxRequirementLength),
		validation.ValidateList("навыки", in.Skills, validation.MaxSkillsCount, validation.MaxSkillLength),
	}
	for _, err := range checks {
		if err != nil {
			return apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
		}
	}

	if _, ok := models.ValidJobTypes[in.Type]; !ok {
		return apperror.New(apperror.ErrCodeValidation, "неизвестный тип занятости: "+in.Type)
	}
	return nil
}

func applyJobInput(job *models.Job, in JobInput) {
	job.Title = in.Title
	job.Description = in.Description
	job.Company = in.Company
	job.Location = in.Location
	job.Type = in.Type
	job.Salary = trimmedOrNil(in.Salary)
	job.Requirements = trimAll(in.Requirements)
	job.Skills = trimAll(in.Skills)
	job.Deadline = in.Deadline
}

func trimAll(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, strings.TrimSpace(item))
	}
	return out
}

func trimmedOrNil(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	if t == "" {
		return nil
	}
	return &t
}

func mapJobErr(err error) error {
	if errors.Is(err, repository.ErrJobNotFound) {
		return apperror.ErrJobNotFound
	}
	return err
}
