package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/jobportal-backend/internal/models"
)

// Параметры дашбордов.
const (
	UserActivityDays      = 30
	RecentActivitiesLimit = 10
	RecentApplicationsMax = 10
)

// StatsRepository описывает агрегаты для дашбордов.
type StatsRepository interface {
	AdminStats(ctx context.Context, since time.Time) (*models.AdminStats, error)
	UserActivity(ctx context.Context, since time.Time) ([]models.DailyActivity, error)
	RecentActivities(ctx context.Context, limit int) ([]models.RecentActivity, error)
	EmployerStats(ctx context.Context, employerID uuid.UUID) (*models.EmployerStats, error)
	JobSeekerStats(ctx context.Context, applicantID uuid.UUID) (*models.JobSeekerStats, error)
}

// RecentApplicationsReader читает последние отклики работодателя.
type RecentApplicationsReader interface {
	ListRecentForEmployer(ctx context.Context, employerID uuid.UUID, limit int) ([]models.ApplicationDetails, error)
}

// RecentJobsReader читает свежие вакансии.
type RecentJobsReader interface {
	ListRecent(ctx context.Context, limit int) ([]models.Job, error)
}

// DashboardService собирает статистику для дашбордов и кэширует её.
type DashboardService struct {
	stats StatsRepository
	apps  RecentApplicationsReader
	jobs  RecentJobsReader
	cache *CacheService
	ttl   time.Duration
	now   func() time.Time
}

func NewDashboardService(stats StatsRepository, apps RecentApplicationsReader, jobs RecentJobsReader, cache *CacheService, ttl time.Duration) *DashboardService {
	return &DashboardService{
		stats: stats,
		apps:  apps,
		jobs:  jobs,
		cache: cache,
		ttl:   ttl,
		now:   time.Now,
	}
}

// AdminStats - общее число пользователей, активных вакансий и откликов за сегодня.
func (s *DashboardService) AdminStats(ctx context.Context) (*models.AdminStats, error) {
	v, err := s.cached(ctx, AdminDashboardCacheKey("stats"), func() (interface{}, error) {
		now := s.now().UTC()
		startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		return s.stats.AdminStats(ctx, startOfDay)
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.AdminStats), nil
}

// UserActivity - регистрации по дням за последние 30 дней.
func (s *DashboardService) UserActivity(ctx context.Context) ([]models.DailyActivity, error) {
	v, err := s.cached(ctx, AdminDashboardCacheKey("user-activity"), func() (interface{}, error) {
		return s.stats.UserActivity(ctx, s.now().AddDate(0, 0, -UserActivityDays))
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.DailyActivity), nil
}

// RecentActivities - последние события портала.
func (s *DashboardService) RecentActivities(ctx context.Context) ([]models.RecentActivity, error) {
	v, err := s.cached(ctx, AdminDashboardCacheKey("recent-activities"), func() (interface{}, error) {
		return s.stats.RecentActivities(ctx, RecentActivitiesLimit)
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.RecentActivity), nil
}

func (s *DashboardService) EmployerStats(ctx context.Context, employerID uuid.UUID) (*models.EmployerStats, error) {
	v, err := s.cached(ctx, EmployerDashboardCacheKey(employerID, "stats"), func() (interface{}, error) {
		return s.stats.EmployerStats(ctx, employerID)
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.EmployerStats), nil
}

func (s *DashboardService) EmployerRecentApplications(ctx context.Context, employerID uuid.UUID) ([]models.ApplicationDetails, error) {
	v, err := s.cached(ctx, EmployerDashboardCacheKey(employerID, "recent-applications"), func() (interface{}, error) {
		return s.apps.ListRecentForEmployer(ctx, employerID, RecentApplicationsMax)
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.ApplicationDetails), nil
}

// JobSeekerStats - просмотры профиля пока не считаются и всегда равны нулю.
func (s *DashboardService) JobSeekerStats(ctx context.Context, applicantID uuid.UUID) (*models.JobSeekerStats, error) {
	v, err := s.cached(ctx, JobSeekerDashboardCacheKey(applicantID, "stats"), func() (interface{}, error) {
		return s.stats.JobSeekerStats(ctx, applicantID)
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.JobSeekerStats), nil
}

func (s *DashboardService) RecommendedJobs(ctx context.Context) ([]models.Job, error) {
	return s.jobs.ListRecent(ctx, RecommendedJobsLimit)
}

func (s *DashboardService) cached(ctx context.Context, key string, fn func() (interface{}, error)) (interface{}, error) {
	if s.cache == nil || s.ttl <= 0 {
		return fn()
	}
	return s.cache.GetOrSet(ctx, key, s.ttl, fn)
}
