package api

import (
	"context"
	"net/http"

	"github.com/ignatzorin/jobportal-backend/internal/models"
)

func (c *Client) AdminStats(ctx context.Context) (*models.AdminStats, error) {
	var stats models.AdminStats
	if err := c.doJSON(ctx, http.MethodGet, "/admin/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *Client) EmployerStats(ctx context.Context) (*models.EmployerStats, error) {
	var stats models.EmployerStats
	if err := c.doJSON(ctx, http.MethodGet, "/employer/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *Client) JobSeekerStats(ctx context.Context) (*models.JobSeekerStats, error) {
	var stats models.JobSeekerStats
	if err := c.doJSON(ctx, http.MethodGet, "/jobseeker/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
