package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/google/uuid"

	"github.com/ignatzorin/jobportal-backend/internal/domain/valueobject"
	"github.com/ignatzorin/jobportal-backend/internal/dto"
	"github.com/ignatzorin/jobportal-backend/internal/models"
)

// SubmitApplicationInput - данные нового отклика. Resume необязателен.
type SubmitApplicationInput struct {
	JobID       uuid.UUID
	CoverLetter string
	ResumeName  string
	Resume      io.Reader
}

// SubmitApplication отправляет отклик формой multipart.
func (c *Client) SubmitApplication(ctx context.Context, in SubmitApplicationInput) (*models.ApplicationDetails, error) {
	var body bytes.Buffer
	form := multipart.NewWriter(&body)

	if err := form.WriteField("job_id", in.JobID.String()); err != nil {
		return nil, fmt.Errorf("api: форма отклика: %w", err)
	}
	if in.CoverLetter != "" {
		if err := form.WriteField("cover_letter", in.CoverLetter); err != nil {
			return nil, fmt.Errorf("api: форма отклика: %w", err)
		}
	}
	if in.Resume != nil {
		name := in.ResumeName
		if name == "" {
			name = "resume"
		}
		part, err := form.CreateFormFile("resume", name)
		if err != nil {
			return nil, fmt.Errorf("api: форма отклика: %w", err)
		}
		if _, err := io.Copy(part, in.Resume); err != nil {
			return nil, fmt.Errorf("api: чтение резюме: %w", err)
		}
	}
	if err := form.Close(); err != nil {
		return nil, fmt.Errorf("api: форма отклика: %w", err)
	}

	var app models.ApplicationDetails
	if err := c.do(ctx, http.MethodPost, "/applications", form.FormDataContentType(), &body, &app); err != nil {
		return nil, err
	}
	return &app, nil
}

// MyApplications возвращает отклики текущего соискателя.
func (c *Client) MyApplications(ctx context.Context) ([]models.ApplicationDetails, error) {
	var apps []models.ApplicationDetails
	if err := c.doJSON(ctx, http.MethodGet, "/applications/my-applications", nil, &apps); err != nil {
		return nil, err
	}
	return apps, nil
}

// JobApplications возвращает отклики на вакансию работодателя.
func (c *Client) JobApplications(ctx context.Context, jobID uuid.UUID) ([]models.ApplicationDetails, error) {
	var apps []models.ApplicationDetails
	if err := c.doJSON(ctx, http.MethodGet, "/applications/job/"+jobID.String(), nil, &apps); err != nil {
		return nil, err
	}
	return apps, nil
}

func (c *Client) GetApplication(ctx context.Context, id uuid.UUID) (*models.ApplicationDetails, error) {
	var app models.ApplicationDetails
	if err := c.doJSON(ctx, http.MethodGet, "/applications/"+id.String(), nil, &app); err != nil {
		return nil, err
	}
	return &app, nil
}

// UpdateApplicationStatus переводит отклик в новый статус. Сервер повторно проверяет переход.
func (c *Client) UpdateApplicationStatus(ctx context.Context, id uuid.UUID, status valueobject.ApplicationStatus, feedback string) (*models.ApplicationDetails, error) {
	req := dto.UpdateStatusRequest{Status: status.String(), Feedback: feedback}

	var app models.ApplicationDetails
	if err := c.doJSON(ctx, http.MethodPut, "/applications/"+id.String()+"/status", req, &app); err != nil {
		return nil, err
	}
	return &app, nil
}

// AcknowledgeApplication подтверждает получение отклика.
func (c *Client) AcknowledgeApplication(ctx context.Context, id uuid.UUID) (*models.ApplicationDetails, error) {
	var app models.ApplicationDetails
	if err := c.doJSON(ctx, http.MethodPost, "/applications/"+id.String()+"/acknowledge", nil, &app); err != nil {
		return nil, err
	}
	return &app, nil
}

// StatusConfig возвращает таблицу статусов с сервера.
func (c *Client) StatusConfig(ctx context.Context) ([]valueobject.StatusPolicyEntry, error) {
	var entries []valueobject.StatusPolicyEntry
	if err := c.doJSON(ctx, http.MethodGet, "/applications/status-config", nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *Client) StatusHistory(ctx context.Context, id uuid.UUID) (*models.ApplicationStatusHistory, error) {
	var history models.ApplicationStatusHistory
	if err := c.doJSON(ctx, http.MethodGet, "/applications/"+id.String()+"/status-history", nil, &history); err != nil {
		return nil, err
	}
	return &history, nil
}
