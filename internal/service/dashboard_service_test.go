package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/jobportal-backend/internal/models"
)

type mockStatsRepository struct {
	calls         map[string]int
	adminSince    time.Time
	activitySince time.Time
	employer      models.EmployerStats
}

func newMockStatsRepository() *mockStatsRepository {
	return &mockStatsRepository{calls: make(map[string]int)}
}

func (m *mockStatsRepository) AdminStats(ctx context.Context, since time.Time) (*models.AdminStats, error) {
	m.calls["admin"]++
	m.adminSince = since
	return &models.AdminStats{TotalUsers: 3, ActiveJobs: 2, ApplicationsToday: 1}, nil
}

func (m *mockStatsRepository) UserActivity(ctx context.Context, since time.Time) ([]models.DailyActivity, error) {
	m.calls["activity"]++
	m.activitySince = since
	return []models.DailyActivity{{Day: since, Count: 1}}, nil
}

func (m *mockStatsRepository) RecentActivities(ctx context.Context, limit int) ([]models.RecentActivity, error) {
	m.calls["recent"]++
	return []models.RecentActivity{{Type: models.ActivityJobPosted, Description: "Go Developer"}}, nil
}

func (m *mockStatsRepository) EmployerStats(ctx context.Context, employerID uuid.UUID) (*models.EmployerStats, error) {
	m.calls["employer"]++
	stats := m.employer
	return &stats, nil
}

func (m *mockStatsRepository) JobSeekerStats(ctx context.Context, applicantID uuid.UUID) (*models.JobSeekerStats, error) {
	m.calls["jobseeker"]++
	return &models.JobSeekerStats{TotalApplications: 4, Interviews: 1}, nil
}

type stubRecentApplications struct{}

func (stubRecentApplications) ListRecentForEmployer(ctx context.Context, employerID uuid.UUID, limit int) ([]models.ApplicationDetails, error) {
	return []models.ApplicationDetails{{JobTitle: "Go Developer", EmployerID: employerID}}, nil
}

func TestDashboardService_AdminStatsCached(t *testing.T) {
	stats := newMockStatsRepository()
	cache := NewCacheService(0)
	defer cache.Stop()
	svc := NewDashboardService(stats, stubRecentApplications{}, newMockJobRepository(), cache, time.Minute)
	svc.now = func() time.Time { return time.Date(2024, 5, 10, 15, 30, 0, 0, time.UTC) }

	first, err := svc.AdminStats(context.Background())
	require.NoError(t, err)
	second, err := svc.AdminStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, stats.calls["admin"])
	assert.Equal(t, time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC), stats.adminSince)

	_, err = svc.UserActivity(context.Background())
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 4, 10, 15, 30, 0, 0, time.UTC), stats.activitySince)

	activities, err := svc.RecentActivities(context.Background())
	require.NoError(t, err)
	assert.Len(t, activities, 1)
}

func TestDashboardService_EmployerStatsInvalidation(t *testing.T) {
	stats := newMockStatsRepository()
	cache := NewCacheService(0)
	defer cache.Stop()
	svc := NewDashboardService(stats, stubRecentApplications{}, newMockJobRepository(), cache, time.Minute)
	employer := uuid.New()

	stats.employer = models.EmployerStats{ActiveJobs: 1}
	got, err := svc.EmployerStats(context.Background(), employer)
	require.NoError(t, err)
	assert.Equal(t, 1, got.ActiveJobs)

	stats.employer = models.EmployerStats{ActiveJobs: 2}
	got, err = svc.EmployerStats(context.Background(), employer)
	require.NoError(t, err)
	assert.Equal(t, 1, got.ActiveJobs, "значение из кэша")

	cache.InvalidateUserCache(employer)
	got, err = svc.EmployerStats(context.Background(), employer)
	require.NoError(t, err)
	assert.Equal(t, 2, got.ActiveJobs)

	recent, err := svc.EmployerRecentApplications(context.Background(), employer)
	require.NoError(t, err)
	assert.Len(t, recent, 1)
}

func TestDashboardService_NoCache(t *testing.T) {
	stats := newMockStatsRepository()
	svc := NewDashboardService(stats, stubRecentApplications{}, newMockJobRepository(), nil, 0)
	applicant := uuid.New()

	for i := 0; i < 2; i++ {
		got, err := svc.JobSeekerStats(context.Background(), applicant)
		require.NoError(t, err)
		assert.Equal(t, 0, got.ProfileViews)
	}
	assert.Equal(t, 2, stats.calls["jobseeker"])

	jobs, err := svc.RecommendedJobs(context.Background())
	require.NoError(t, err)
	assert.Empty(t, jobs)
}
