package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/jobportal-backend/internal/models"
	"github.com/ignatzorin/jobportal-backend/internal/pkg/apperror"
	"github.com/ignatzorin/jobportal-backend/internal/repository"
)

type mockJobRepository struct {
	mu   sync.Mutex
	jobs map[uuid.UUID]*models.Job
	seq  int
}

func newMockJobRepository() *mockJobRepository {
	return &mockJobRepository{jobs: make(map[uuid.UUID]*models.Job)}
}

func (m *mockJobRepository) Create(ctx context.Context, job *models.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	job.ID = uuid.New()
	job.PostedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(m.seq) * time.Minute)
	job.Active = true
	job.UpdatedAt = job.PostedAt
	cp := *job
	m.jobs[job.ID] = &cp
	return nil
}

func (m *mockJobRepository) Update(ctx context.Context, job *models.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.jobs[job.ID]; !ok {
		return repository.ErrJobNotFound
	}
	cp := *job
	m.jobs[job.ID] = &cp
	return nil
}

func (m *mockJobRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.jobs[id]
	if !ok {
		return repository.ErrJobNotFound
	}
	j.Active = false
	return nil
}

func (m *mockJobRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.jobs[id]
	if !ok {
		return nil, repository.ErrJobNotFound
	}
	cp := *j
	return &cp, nil
}

func (m *mockJobRepository) sorted(keep func(*models.Job) bool) []models.Job {
	var out []models.Job
	for _, j := range m.jobs {
		if keep(j) {
			out = append(out, *j)
		}
	}
	sort.Slice(out, func(i, k int) bool { return out[i].PostedAt.After(out[k].PostedAt) })
	return out
}

func (m *mockJobRepository) ListActive(ctx context.Context, filter models.JobFilter) ([]models.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	search := strings.ToLower(filter.Search)
	return m.sorted(func(j *models.Job) bool {
		if !j.Active {
			return false
		}
		if search != "" && !strings.Contains(strings.ToLower(j.Title+" "+j.Description), search) {
			return false
		}
		if filter.Type != "" && filter.Type != "all" && j.Type != filter.Type {
			return false
		}
		return true
	}), nil
}

func (m *mockJobRepository) ListByEmployer(ctx context.Context, employerID uuid.UUID) ([]models.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sorted(func(j *models.Job) bool { return j.EmployerID == employerID }), nil
}

func (m *mockJobRepository) ListRecent(ctx context.Context, limit int) ([]models.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.sorted(func(j *models.Job) bool { return j.Active })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func validJobInput(title string) JobInput {
	return JobInput{
		Title:        title,
		Description:  "Build and operate backend services in Go.",
		Company:      "Acme",
		Location:     "Berlin",
		Type:         models.JobTypeFullTime,
		Requirements: []string{"3+ years of Go"},
		Skills:       []string{"Go", " PostgreSQL "},
	}
}

func TestJobService_CreateAndUpdate(t *testing.T) {
	repo := newMockJobRepository()
	svc := NewJobService(repo, nil)
	ctx := context.Background()
	employer := uuid.New()

	job, err := svc.Create(ctx, employer, validJobInput("  Go Developer "))
	require.NoError(t, err)
	assert.Equal(t, "Go Developer", job.Title)
	assert.Equal(t, []string{"Go", "PostgreSQL"}, []string(job.Skills))
	assert.True(t, job.Active)

	in := validJobInput("Senior Go Developer")
	updated, err := svc.Update(ctx, employer, job.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "Senior Go Developer", updated.Title)

	_, err = svc.Update(ctx, uuid.New(), job.ID, in)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	_, err = svc.Update(ctx, employer, uuid.New(), in)
	assert.ErrorIs(t, err, apperror.ErrJobNotFound)
}

func TestJobService_CreateValidation(t *testing.T) {
	svc := NewJobService(newMockJobRepository(), nil)

	in := validJobInput("Go Developer")
	in.Type = "Freelance"
	_, err := svc.Create(context.Background(), uuid.New(), in)
	assert.True(t, apperror.IsValidation(err))

	in = validJobInput("Go")
	_, err = svc.Create(context.Background(), uuid.New(), in)
	assert.True(t, apperror.IsValidation(err))
}

func TestJobService_DeleteIsSoft(t *testing.T) {
	repo := newMockJobRepository()
	svc := NewJobService(repo, nil)
	ctx := context.Background()
	employer := uuid.New()

	job, err := svc.Create(ctx, employer, validJobInput("Go Developer"))
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, uuid.New(), job.ID), apperror.ErrForbidden)
	require.NoError(t, svc.Delete(ctx, employer, job.ID))

	_, err = svc.Get(ctx, job.ID)
	assert.ErrorIs(t, err, apperror.ErrJobNotFound)

	stored, err := repo.GetByID(ctx, job.ID)
	require.NoError(t, err)
	assert.False(t, stored.Active)

	page, err := svc.List(ctx, models.JobFilter{}, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, page.Items)

	mine, err := svc.ListByEmployer(ctx, employer)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestJobService_ListPaginates(t *testing.T) {
	repo := newMockJobRepository()
	svc := NewJobService(repo, nil)
	ctx := context.Background()
	employer := uuid.New()

	for i := 0; i < 12; i++ {
		_, err := svc.Create(ctx, employer, validJobInput("Go Developer"))
		require.NoError(t, err)
	}

	page, err := svc.List(ctx, models.JobFilter{Type: "all"}, 3, 5)
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 12, page.TotalItems)

	// Номер страницы за пределами диапазона приводится к последней.
	page, err = svc.List(ctx, models.JobFilter{}, 99, 5)
	require.NoError(t, err)
	assert.Equal(t, 3, page.CurrentPage)

	_, err = svc.List(ctx, models.JobFilter{}, 1, 0)
	assert.True(t, apperror.IsValidation(err))
}

func TestJobService_Recommended(t *testing.T) {
	repo := newMockJobRepository()
	svc := NewJobService(repo, nil)
	ctx := context.Background()

	for i := 0; i < RecommendedJobsLimit+3; i++ {
		_, err := svc.Create(ctx, uuid.New(), validJobInput("Go Developer"))
		require.NoError(t, err)
	}

	jobs, err := svc.Recommended(ctx)
	require.NoError(t, err)
	require.Len(t, jobs, RecommendedJobsLimit)
	assert.True(t, jobs[0].PostedAt.After(jobs[1].PostedAt))
}
