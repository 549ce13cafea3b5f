package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"github.com/ignatzorin/jobportal-backend/internal/dto"
	"github.com/ignatzorin/jobportal-backend/internal/models"
)

// JobQuery - параметры поиска вакансий. Нулевые значения не передаются.
type JobQuery struct {
	Page     int
	PerPage  int
	Search   string
	Location string
	Type     string
}

func (q JobQuery) values() url.Values {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.PerPage > 0 {
		v.Set("per_page", strconv.Itoa(q.PerPage))
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Location != "" {
		v.Set("location", q.Location)
	}
	if q.Type != "" {
		v.Set("type", q.Type)
	}
	return v
}

// ListJobs возвращает страницу активных вакансий.
func (c *Client) ListJobs(ctx context.Context, q JobQuery) (*dto.JobsPage, error) {
	path := "/jobs"
	if encoded := q.values().Encode(); encoded != "" {
		path += "?" + encoded
	}

	var page dto.JobsPage
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) GetJob(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	var job models.Job
	if err := c.doJSON(ctx, http.MethodGet, "/jobs/"+id.String(), nil, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

func (c *Client) CreateJob(ctx context.Context, req dto.JobRequest) (*models.Job, error) {
	var job models.Job
	if err := c.doJSON(ctx, http.MethodPost, "/jobs", req, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

func (c *Client) UpdateJob(ctx context.Context, id uuid.UUID, req dto.JobRequest) (*models.Job, error) {
	var job models.Job
	if err := c.doJSON(ctx, http.MethodPut, "/jobs/"+id.String(), req, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// DeleteJob снимает вакансию с публикации.
func (c *Client) DeleteJob(ctx context.Context, id uuid.UUID) error {
	return c.doJSON(ctx, http.MethodDelete, "/jobs/"+id.String(), nil, nil)
}

// ListEmployerJobs возвращает вакансии текущего работодателя.
func (c *Client) ListEmployerJobs(ctx context.Context) ([]models.Job, error) {
	var jobs []models.Job
	if err := c.doJSON(ctx, http.MethodGet, "/jobs/employer", nil, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

func (c *Client) SaveJob(ctx context.Context, id uuid.UUID) error {
	return c.doJSON(ctx, http.MethodPost, "/jobs/"+id.String()+"/save", nil, nil)
}

func (c *Client) UnsaveJob(ctx context.Context, id uuid.UUID) error {
	return c.doJSON(ctx, http.MethodDelete, "/jobs/"+id.String()+"/save", nil, nil)
}

// IsJobSaved сообщает, сохранена ли вакансия текущим пользователем.
func (c *Client) IsJobSaved(ctx context.Context, id uuid.UUID) (bool, error) {
	var resp dto.SavedStatusResponse
	if err := c.doJSON(ctx, http.MethodGet, "/jobs/"+id.String()+"/save", nil, &resp); err != nil {
		return false, err
	}
	return resp.Saved, nil
}

// SavedJobs возвращает сохранённые вакансии, новые первыми.
func (c *Client) SavedJobs(ctx context.Context) ([]models.SavedJobWithJob, error) {
	var jobs []models.SavedJobWithJob
	if err := c.doJSON(ctx, http.MethodGet, "/jobs/saved", nil, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}
