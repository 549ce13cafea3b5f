package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/jobportal-backend/internal/models"
)

// ErrJobNotFound возвращается, когда вакансия не найдена.
var ErrJobNotFound = errors.New("job not found")

// JobRepository работает с таблицей jobs.
type JobRepository struct {
	db *sqlx.DB
}

func NewJobRepository(db *sqlx.DB) *JobRepository {
	return &JobRepository{db: db}
}

// Create сохраняет вакансию.
func (r *JobRepository) Create(ctx context.Context, job *models.Job) error {
	query := `
		INSERT INTO jobs (employer_id, title, description, company, location, type, salary, requirements, skills, deadline)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, posted_at, active, updated_at
	`
	if err := r.db.QueryRowxContext(ctx, query,
		job.EmployerID, job.Title, job.Description, job.Company, job.Location,
		job.Type, job.Salary, job.Requirements, job.Skills, job.Deadline,
	).Scan(&job.ID, &job.PostedAt, &job.Active, &job.UpdatedAt); err != nil {
		return fmt.Errorf("job repository: create %w", err)
	}
	return nil
}

// Update обновляет редактируемые поля вакансии.
func (r *JobRepository) Update(ctx context.Context, job *models.Job) error {
	query := `
		UPDATE jobs
		SET title = $2, description = $3, company = $4, location = $5, type = $6,
		    salary = $7, requirements = $8, skills = $9, deadline = $10, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	if err := r.db.QueryRowxContext(ctx, query,
		job.ID, job.Title, job.Description, job.Company, job.Location, job.Type,
		job.Salary, job.Requirements, job.Skills, job.Deadline,
	).Scan(&job.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrJobNotFound
		}
		return fmt.Errorf("job repository: update %w", err)
	}
	return nil
}

// Deactivate снимает вакансию с публикации. Отклики сохраняются.
func (r *JobRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `UPDATE jobs SET active = FALSE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("job repository: deactivate %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrJobNotFound
	}
	return nil
}

// GetByID возвращает вакансию по идентификатору.
func (r *JobRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	var job models.Job
	if err := r.db.GetContext(ctx, &job, `SELECT * FROM jobs WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("job repository: get by id %w", err)
	}
	return &job, nil
}

// ListActive возвращает активные вакансии, подходящие под фильтр, новые первыми.
func (r *JobRepository) ListActive(ctx context.Context, filter models.JobFilter) ([]models.Job, error) {
	query, args := buildActiveJobsQuery(filter)

	jobs := []models.Job{}
	if err := r.db.SelectContext(ctx, &jobs, query, args...); err != nil {
		return nil, fmt.Errorf("job repository: list active %w", err)
	}
	return jobs, nil
}

func buildActiveJobsQuery(filter models.JobFilter) (string, []interface{}) {
	var (
		where = []string{"active = TRUE"}
		args  []interface{}
	)

	if s := strings.TrimSpace(filter.Search); s != "" {
		args = append(args, "%"+escapeLike(s)+"%")
		where = append(where, fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d)", len(args), len(args)))
	}
	if l := strings.TrimSpace(filter.Location); l != "" {
		args = append(args, "%"+escapeLike(l)+"%")
		where = append(where, fmt.Sprintf("location ILIKE $%d", len(args)))
	}
	if t := strings.TrimSpace(filter.Type); t != "" && !strings.EqualFold(t, "all") {
		args = append(args, t)
		where = append(where, fmt.Sprintf("type = $%d", len(args)))
	}

	query := "SELECT * FROM jobs WHERE " + strings.Join(where, " AND ") + " ORDER BY posted_at DESC"
	return query, args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// ListByEmployer возвращает все вакансии работодателя, включая снятые.
func (r *JobRepository) ListByEmployer(ctx context.Context, employerID uuid.UUID) ([]models.Job, error) {
	jobs := []models.Job{}
	query := `SELECT * FROM jobs WHERE employer_id = $1 ORDER BY posted_at DESC`
	if err := r.db.SelectContext(ctx, &jobs, query, employerID); err != nil {
		return nil, fmt.Errorf("job repository: list by employer %w", err)
	}
	return jobs, nil
}

// ListRecent возвращает последние limit активных вакансий.
func (r *JobRepository) ListRecent(ctx context.Context, limit int) ([]models.Job, error) {
	jobs := []models.Job{}
	query := `SELECT * FROM jobs WHERE active = TRUE ORDER BY posted_at DESC LIMIT $1`
	if err := r.db.SelectContext(ctx, &jobs, query, limit); err != nil {
		return nil, fmt.Errorf("job repository: list recent %w", err)
	}
	return jobs, nil
}
