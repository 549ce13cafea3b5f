package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/jobportal-backend/internal/domain/valueobject"
	"github.com/ignatzorin/jobportal-backend/internal/models"
)

// StatsRepository собирает агрегаты для дашбордов.
type StatsRepository struct {
	db *sqlx.DB
}

func NewStatsRepository(db *sqlx.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// AdminStats возвращает общую статистику портала. since - начало текущих суток.
func (r *StatsRepository) AdminStats(ctx context.Context, since time.Time) (*models.AdminStats, error) {
	var stats models.AdminStats
	query := `
		SELECT
			(SELECT COUNT(*) FROM users) AS total_users,
			(SELECT COUNT(*) FROM jobs WHERE active = TRUE) AS active_jobs,
			(SELECT COUNT(*) FROM job_applications WHERE applied_at >= $1) AS applications_today
	`
	if err := r.db.GetContext(ctx, &stats, query, since); err != nil {
		return nil, fmt.Errorf("stats repository: admin stats %w", err)
	}
	return &stats, nil
}

// UserActivity возвращает число регистраций по дням начиная с since.
func (r *StatsRepository) UserActivity(ctx context.Context, since time.Time) ([]models.DailyActivity, error) {
	activity := []models.DailyActivity{}
	query := `
		SELECT date_trunc('day', created_at) AS day, COUNT(*) AS count
		FROM users
		WHERE created_at >= $1
		GROUP BY day
		ORDER BY day
	`
	if err := r.db.SelectContext(ctx, &activity, query, since); err != nil {
		return nil, fmt.Errorf("stats repository: user activity %w", err)
	}
	return activity, nil
}

// RecentActivities возвращает ленту последних регистраций, вакансий и откликов.
func (r *StatsRepository) RecentActivities(ctx context.Context, limit int) ([]models.RecentActivity, error) {
	activities := []models.RecentActivity{}
	query := `
		(SELECT $2 AS type, 'New user registered: ' || name AS description, created_at FROM users)
		UNION ALL
		(SELECT $3, 'New job posted: ' || title, posted_at FROM jobs)
		UNION ALL
		(SELECT $4, 'New application for ' || j.title, a.applied_at
		   FROM job_applications a JOIN jobs j ON j.id = a.job_id)
		ORDER BY created_at DESC
		LIMIT $1
	`
	if err := r.db.SelectContext(ctx, &activities, query, limit,
		models.ActivityUserRegistered, models.ActivityJobPosted, models.ActivityApplication,
	); err != nil {
		return nil, fmt.Errorf("stats repository: recent activities %w", err)
	}
	return activities, nil
}

// EmployerStats возвращает статистику работодателя.
func (r *StatsRepository) EmployerStats(ctx context.Context, employerID uuid.UUID) (*models.EmployerStats, error) {
	var stats models.EmployerStats
	query := `
		SELECT
			(SELECT COUNT(*) FROM jobs WHERE employer_id = $1 AND active = TRUE) AS active_jobs,
			(SELECT COUNT(*) FROM job_applications a JOIN jobs j ON j.id = a.job_id
			  WHERE j.employer_id = $1) AS total_applications,
			(SELECT COUNT(*) FROM job_applications a JOIN jobs j ON j.id = a.job_id
			  WHERE j.employer_id = $1 AND a.status = $2) AS hired_candidates
	`
	if err := r.db.GetContext(ctx, &stats, query, employerID, valueobject.ApplicationStatusAccepted); err != nil {
		return nil, fmt.Errorf("stats repository: employer stats %w", err)
	}
	return &stats, nil
}

// JobSeekerStats возвращает статистику соискателя. Просмотры профиля пока не считаются.
func (r *StatsRepository) JobSeekerStats(ctx context.Context, applicantID uuid.UUID) (*models.JobSeekerStats, error) {
	var stats models.JobSeekerStats
	query := `
		SELECT
			COUNT(*) AS total_applications,
			COUNT(*) FILTER (WHERE status = $2) AS interviews,
			0 AS profile_views
		FROM job_applications
		WHERE applicant_id = $1
	`
	if err := r.db.GetContext(ctx, &stats, query, applicantID, valueobject.ApplicationStatusInterviewed); err != nil {
		return nil, fmt.Errorf("stats repository: job seeker stats %w", err)
	}
	return &stats, nil
}
